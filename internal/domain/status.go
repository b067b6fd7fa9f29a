package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownBlockStatus = errors.New("unknown block status")

// BlockStatus is the licensing status of a block.
type BlockStatus string

const (
	BlockActive   BlockStatus = "active"
	BlockPending  BlockStatus = "pending"
	BlockInactive BlockStatus = "inactive"
	BlockReserved BlockStatus = "reserved"
)

// ParseBlockStatus accepts the four known statuses case-insensitively.
func ParseBlockStatus(s string) (BlockStatus, error) {
	switch BlockStatus(strings.ToLower(strings.TrimSpace(s))) {
	case BlockActive:
		return BlockActive, nil
	case BlockPending:
		return BlockPending, nil
	case BlockInactive:
		return BlockInactive, nil
	case BlockReserved:
		return BlockReserved, nil
	}
	return "", fmt.Errorf("parse block status %q: %w", s, ErrUnknownBlockStatus)
}

// Color is the fill color used when rendering a block of this status. A value
// outside the four statuses has no color.
func (s BlockStatus) Color() (string, error) {
	switch s {
	case BlockActive:
		return "#2e7d32", nil
	case BlockPending:
		return "#f9a825", nil
	case BlockInactive:
		return "#757575", nil
	case BlockReserved:
		return "#1565c0", nil
	}
	return "", fmt.Errorf("color for block status %q: %w", string(s), ErrUnknownBlockStatus)
}
