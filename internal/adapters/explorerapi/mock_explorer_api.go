package explorerapi

import (
	"context"
	"fmt"
	"sync"

	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/ports"
)

// MockExplorerAPI is an in-memory ExplorerAPI with per-id failures and call
// counting. When Gate is non-nil every call blocks until it can receive from
// Gate or the context ends.
type MockExplorerAPI struct {
	Areas     map[string][]ports.AreaRecord
	Summaries map[string]domain.ContractorSummary
	Blocks    map[string]domain.BlockAnalytics
	Fail      map[string]error
	Gate      chan struct{}

	mu    sync.Mutex
	calls map[string]int
}

func NewMockExplorerAPI() *MockExplorerAPI {
	return &MockExplorerAPI{
		Areas:     map[string][]ports.AreaRecord{},
		Summaries: map[string]domain.ContractorSummary{},
		Blocks:    map[string]domain.BlockAnalytics{},
		Fail:      map[string]error{},
		calls:     map[string]int{},
	}
}

// Calls reports how many times method was invoked for id, e.g. Calls("areas", "C1").
func (m *MockExplorerAPI) Calls(method, id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method+"|"+id]
}

func (m *MockExplorerAPI) enter(ctx context.Context, method, id string) error {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[method+"|"+id]++
	err := m.Fail[method+"|"+id]
	m.mu.Unlock()

	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (m *MockExplorerAPI) ContractorAreas(ctx context.Context, contractorID string) ([]ports.AreaRecord, error) {
	if err := m.enter(ctx, "areas", contractorID); err != nil {
		return nil, err
	}
	areas, ok := m.Areas[contractorID]
	if !ok {
		return nil, &StatusError{Code: 404, Body: fmt.Sprintf("contractor %s not found", contractorID)}
	}
	return areas, nil
}

func (m *MockExplorerAPI) ContractorSummary(ctx context.Context, contractorID string) (domain.ContractorSummary, error) {
	if err := m.enter(ctx, "summary", contractorID); err != nil {
		return domain.ContractorSummary{}, err
	}
	s, ok := m.Summaries[contractorID]
	if !ok {
		return domain.ContractorSummary{}, &StatusError{Code: 404, Body: fmt.Sprintf("summary %s not found", contractorID)}
	}
	return s, nil
}

func (m *MockExplorerAPI) BlockAnalytics(ctx context.Context, blockID string) (domain.BlockAnalytics, error) {
	if err := m.enter(ctx, "block", blockID); err != nil {
		return domain.BlockAnalytics{}, err
	}
	b, ok := m.Blocks[blockID]
	if !ok {
		return domain.BlockAnalytics{}, &StatusError{Code: 404, Body: fmt.Sprintf("block %s not found", blockID)}
	}
	return b, nil
}
