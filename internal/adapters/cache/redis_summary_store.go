package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

const summaryKeyPrefix = "explorer:summary:"

// RedisSummaryStore shares contractor summaries across sessions and replicas.
// Entries expire after TTL; zero keeps them forever.
type RedisSummaryStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSummaryStore(client *redis.Client, ttl time.Duration) *RedisSummaryStore {
	return &RedisSummaryStore{client: client, ttl: ttl}
}

// OpenRedis returns a client for addr, or nil when addr is empty.
func OpenRedis(addr, password string, db int) *redis.Client {
	if strings.TrimSpace(addr) == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

func (r *RedisSummaryStore) GetSummary(
	ctx context.Context,
	contractorID string,
) (_ domain.ContractorSummary, _ bool, err error) {
	defer obs.Time(ctx, "summary.redis.GetSummary")(&err)

	if r.client == nil {
		return domain.ContractorSummary{}, false, errors.New("summary store: redis client is nil")
	}

	b, err := r.client.Get(ctx, summaryKeyPrefix+contractorID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ContractorSummary{}, false, nil
	}
	if err != nil {
		return domain.ContractorSummary{}, false, fmt.Errorf("get summary %q: redis get: %w", contractorID, err)
	}

	summary, err := decodeSummary(contractorID, b)
	if err != nil {
		return domain.ContractorSummary{}, false, fmt.Errorf("get summary: %w", err)
	}
	return summary, true, nil
}

func (r *RedisSummaryStore) PutSummary(ctx context.Context, summary domain.ContractorSummary) error {
	if r.client == nil {
		return errors.New("summary store: redis client is nil")
	}
	if strings.TrimSpace(summary.ContractorID) == "" {
		return errors.New("put summary: empty contractor id")
	}

	payload, err := encodeSummary(summary)
	if err != nil {
		return fmt.Errorf("put summary: %w", err)
	}

	if err := r.client.Set(ctx, summaryKeyPrefix+summary.ContractorID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("put summary %q: redis set: %w", summary.ContractorID, err)
	}
	return nil
}
