package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/platform/db"
	"contract-explorer-service/internal/platform/obs"
)

// SQLSummaryStore keeps contractor summaries in the contractor_summaries table.
// Driver selects placeholder syntax (db.DriverPostgres or db.DriverSQLite).
type SQLSummaryStore struct {
	DB     *sql.DB
	Driver string
	now    func() time.Time
}

func NewSQLSummaryStore(conn *sql.DB, driver string) *SQLSummaryStore {
	return &SQLSummaryStore{DB: conn, Driver: driver, now: time.Now}
}

func (s *SQLSummaryStore) GetSummary(
	ctx context.Context,
	contractorID string,
) (_ domain.ContractorSummary, _ bool, err error) {
	defer obs.Time(ctx, "summary.sql.GetSummary")(&err)

	if s.DB == nil {
		return domain.ContractorSummary{}, false, errors.New("summary store: db is nil")
	}

	contractorID = strings.TrimSpace(contractorID)
	if contractorID == "" {
		return domain.ContractorSummary{}, false, nil
	}

	q := db.Rebind(s.Driver, `
	SELECT payload
	FROM contractor_summaries
	WHERE contractor_id = ?;
	`)

	var payload string
	err = s.DB.QueryRowContext(ctx, q, contractorID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ContractorSummary{}, false, nil
	}
	if err != nil {
		return domain.ContractorSummary{}, false, fmt.Errorf("get summary: query contractor_summaries table: %w", err)
	}

	summary, err := decodeSummary(contractorID, []byte(payload))
	if err != nil {
		return domain.ContractorSummary{}, false, fmt.Errorf("get summary: %w", err)
	}
	return summary, true, nil
}

func (s *SQLSummaryStore) PutSummary(ctx context.Context, summary domain.ContractorSummary) error {
	if s.DB == nil {
		return errors.New("summary store: db is nil")
	}
	if strings.TrimSpace(summary.ContractorID) == "" {
		return errors.New("insert summary: empty contractor id")
	}

	payload, err := encodeSummary(summary)
	if err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}

	q := db.Rebind(s.Driver, `
	INSERT INTO contractor_summaries (contractor_id, payload, fetched_at)
	VALUES (?, ?, ?)
	ON CONFLICT (contractor_id) DO UPDATE
	SET payload = excluded.payload,
		fetched_at = excluded.fetched_at;
	`)
	if _, err := s.DB.ExecContext(ctx, q, summary.ContractorID, string(payload), now().Unix()); err != nil {
		return fmt.Errorf("insert summary contractor=%q: %w", summary.ContractorID, err)
	}

	return nil
}
