package explorerapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// flexID accepts identifiers encoded as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

// flexFloat accepts numbers, numeric strings and null. Anything else, such as
// an unparsable string, decodes as unset so one bad field does not fail the
// whole payload; ingestion then falls back to derived values.
type flexFloat struct {
	v   float64
	set bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	*f = flexFloat{}
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(strings.TrimSpace(s))
	}

	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*f = flexFloat{v: v, set: true}
	return nil
}

func (f flexFloat) ptr() *float64 {
	if !f.set {
		return nil
	}
	v := f.v
	return &v
}

type blockPayload struct {
	BlockID     flexID          `json:"blockId"`
	BlockName   string          `json:"blockName"`
	Status      string          `json:"status"`
	GeoJSON     json.RawMessage `json:"geoJson"`
	CenterLat   flexFloat       `json:"centerLat"`
	CenterLon   flexFloat       `json:"centerLon"`
	AreaSizeKm2 flexFloat       `json:"areaSizeKm2"`
}

type areaPayload struct {
	AreaID           flexID          `json:"areaId"`
	AreaName         string          `json:"areaName"`
	GeoJSON          json.RawMessage `json:"geoJson"`
	CenterLat        flexFloat       `json:"centerLat"`
	CenterLon        flexFloat       `json:"centerLon"`
	TotalAreaSizeKm2 flexFloat       `json:"totalAreaSizeKm2"`
	Blocks           []blockPayload  `json:"blocks"`
}

type summaryPayload struct {
	Summary map[string]any `json:"summary"`
}
