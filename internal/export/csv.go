// Package export serializes what a session shows: tabular rows as CSV and the
// rendered map features as GeoJSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"contract-explorer-service/internal/domain"
)

// WriteCSV writes rows with a header made of the sorted union of their keys.
// Missing values are written as empty cells.
func WriteCSV(w io.Writer, rows []map[string]any) error {
	keys := columns(rows)

	cw := csv.NewWriter(w)
	if err := cw.Write(keys); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(keys))
	for i, row := range rows {
		for j, k := range keys {
			cell, err := formatCell(row[k])
			if err != nil {
				return fmt.Errorf("write csv row %d: column %q: %w", i, k, err)
			}
			record[j] = cell
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func columns(rows []map[string]any) []string {
	seen := map[string]struct{}{}
	for _, row := range rows {
		for k := range row {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatCell(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		// Nested values are embedded as JSON.
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// StationRows flattens stations for CSV export.
func StationRows(stations []domain.Station) []map[string]any {
	rows := make([]map[string]any, 0, len(stations))
	for _, s := range stations {
		rows = append(rows, map[string]any{
			"id":           s.ID,
			"name":         s.Name,
			"cruiseId":     s.CruiseID,
			"contractorId": s.ContractorID,
			"latitude":     s.Latitude,
			"longitude":    s.Longitude,
		})
	}
	return rows
}

// BlockRows flattens the blocks of the given areas, one row per block.
func BlockRows(areas []domain.AreaLayer) []map[string]any {
	var rows []map[string]any
	for _, a := range areas {
		for _, b := range a.Blocks {
			rows = append(rows, map[string]any{
				"contractorId": a.ContractorID,
				"areaId":       a.AreaID,
				"areaName":     a.AreaName,
				"blockId":      b.BlockID,
				"blockName":    b.BlockName,
				"status":       string(b.Status),
				"areaSizeKm2":  b.AreaSizeKm2,
				"centerLat":    b.Center.Lat,
				"centerLon":    b.Center.Lon,
			})
		}
	}
	return rows
}
