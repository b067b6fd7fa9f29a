package cache

import (
	"encoding/json"
	"fmt"

	"contract-explorer-service/internal/domain"
)

func encodeSummary(s domain.ContractorSummary) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode summary %q: %w", s.ContractorID, err)
	}
	return b, nil
}

func decodeSummary(contractorID string, b []byte) (domain.ContractorSummary, error) {
	var s domain.ContractorSummary
	if err := json.Unmarshal(b, &s); err != nil {
		return domain.ContractorSummary{}, fmt.Errorf("decode summary %q: %w", contractorID, err)
	}
	if s.ContractorID != contractorID {
		return domain.ContractorSummary{}, fmt.Errorf("decode summary %q: payload belongs to %q", contractorID, s.ContractorID)
	}
	return s, nil
}
