package ports

import (
	"context"

	"contract-explorer-service/internal/domain"
)

// Port: a shared, persistent tier behind the per-session summary cache.
type SummaryStore interface {
	// Return the stored summary; ok is false on a miss.
	GetSummary(ctx context.Context, contractorID string) (s domain.ContractorSummary, ok bool, err error)
	PutSummary(ctx context.Context, s domain.ContractorSummary) error
}
