package explorerapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/platform/obs"
)

func (c *Client) ContractorSummary(ctx context.Context, contractorID string) (_ domain.ContractorSummary, err error) {
	defer obs.Time(ctx, "explorer.ContractorSummary")(&err)

	contractorID = strings.TrimSpace(contractorID)
	if contractorID == "" {
		return domain.ContractorSummary{}, errors.New("contractor summary: contractor id must be non-empty")
	}

	var payload summaryPayload
	url := c.endpoint("Analytics", "contractor", contractorID, "summary")
	if err := c.getJSON(ctx, "contractor_summary", url, &payload); err != nil {
		return domain.ContractorSummary{}, fmt.Errorf("contractor summary %q: %w", contractorID, err)
	}
	if payload.Summary == nil {
		return domain.ContractorSummary{}, fmt.Errorf("contractor summary %q: response has no summary object", contractorID)
	}

	return domain.ContractorSummary{
		ContractorID:  contractorID,
		TotalAreaKm2:  number(payload.Summary["totalAreaKm2"]),
		TotalStations: int(number(payload.Summary["totalStations"])),
		Fields:        payload.Summary,
	}, nil
}

func (c *Client) BlockAnalytics(ctx context.Context, blockID string) (_ domain.BlockAnalytics, err error) {
	defer obs.Time(ctx, "explorer.BlockAnalytics")(&err)

	blockID = strings.TrimSpace(blockID)
	if blockID == "" {
		return domain.BlockAnalytics{}, errors.New("block analytics: block id must be non-empty")
	}

	var data map[string]any
	url := c.endpoint("Analytics", "block", blockID)
	if err := c.getJSON(ctx, "block_analytics", url, &data); err != nil {
		return domain.BlockAnalytics{}, fmt.Errorf("block analytics %q: %w", blockID, err)
	}

	return domain.BlockAnalytics{BlockID: blockID, Data: data}, nil
}

// number reads a decoded JSON value as float64; strings are parsed, anything
// else is zero.
func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err == nil {
			return f
		}
	}
	return 0
}
