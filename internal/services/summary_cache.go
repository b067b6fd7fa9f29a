package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/platform/obs"
	"contract-explorer-service/internal/ports"

	"golang.org/x/sync/singleflight"
)

// SummaryCache holds contractor summaries for the lifetime of a session.
// Concurrent misses for the same contractor share one fetch. Failures are not
// cached. An optional shared store is consulted before the network and
// written after a successful fetch; store errors are logged only.
type SummaryCache struct {
	api    ports.ExplorerAPI
	store  ports.SummaryStore
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]domain.ContractorSummary
	group   singleflight.Group
}

func NewSummaryCache(api ports.ExplorerAPI, store ports.SummaryStore, logger *slog.Logger) *SummaryCache {
	return &SummaryCache{
		api:     api,
		store:   store,
		logger:  logger,
		entries: map[string]domain.ContractorSummary{},
	}
}

// Peek returns a cached summary without any I/O.
func (c *SummaryCache) Peek(contractorID string) (domain.ContractorSummary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.entries[contractorID]
	return s, ok
}

func (c *SummaryCache) Get(ctx context.Context, contractorID string) (domain.ContractorSummary, error) {
	contractorID = strings.TrimSpace(contractorID)
	if contractorID == "" {
		return domain.ContractorSummary{}, fmt.Errorf("get summary: %w", ErrNoContractor)
	}

	if s, ok := c.Peek(contractorID); ok {
		obs.SummaryCacheHitsTotal.Inc()
		return s, nil
	}
	obs.SummaryCacheMissesTotal.Inc()

	// The shared fetch outlives any single waiter; the client timeout bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(contractorID, func() (any, error) {
		return c.load(fetchCtx, contractorID)
	})

	select {
	case <-ctx.Done():
		return domain.ContractorSummary{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.ContractorSummary{}, fmt.Errorf("get summary %q: %w", contractorID, res.Err)
		}
		return res.Val.(domain.ContractorSummary), nil
	}
}

func (c *SummaryCache) load(ctx context.Context, contractorID string) (domain.ContractorSummary, error) {
	if s, ok := c.Peek(contractorID); ok {
		return s, nil
	}

	if c.store != nil {
		s, ok, err := c.store.GetSummary(ctx, contractorID)
		if err != nil {
			c.logger.Warn("summary_store_read_failed", "contractor_id", contractorID, "err", err)
		} else if ok {
			obs.SummaryStoreHitsTotal.Inc()
			c.put(s)
			return s, nil
		}
	}

	s, err := c.api.ContractorSummary(ctx, contractorID)
	if err != nil {
		return domain.ContractorSummary{}, err
	}
	s.ContractorID = contractorID
	c.put(s)

	if c.store != nil {
		if err := c.store.PutSummary(ctx, s); err != nil {
			c.logger.Warn("summary_store_write_failed", "contractor_id", contractorID, "err", err)
		}
	}
	return s, nil
}

func (c *SummaryCache) put(s domain.ContractorSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[s.ContractorID] = s
}
