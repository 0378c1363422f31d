package core

import (
	"errors"
	"fmt"
)

// ErrInvalidStatus is returned when a lifecycle status filter is not recognised.
var ErrInvalidStatus = errors.New("invalid status filter")

// LineStatus selects which child rows of an order take part in a cost calculation.
type LineStatus string

const (
	StatusReview     LineStatus = "review"
	StatusActive     LineStatus = "is_active"
	StatusDraft      LineStatus = "is_draft"
	StatusAddPackage LineStatus = "add_package"
)

// ParseLineStatus parses a status filter. An empty string means StatusReview.
func ParseLineStatus(s string) (LineStatus, error) {
	switch LineStatus(s) {
	case "":
		return StatusReview, nil
	case StatusReview, StatusActive, StatusDraft, StatusAddPackage:
		return LineStatus(s), nil
	}
	return "", fmt.Errorf("%w: %q (want review, is_active, is_draft or add_package)", ErrInvalidStatus, s)
}

// Level identifies a tier of the order tree whose children are filtered together.
type Level int

const (
	// LevelOrder covers logistics windows and order-level add-ons.
	LevelOrder Level = iota
	// LevelLogistics covers packages and add-ons attached to a logistics window.
	LevelLogistics
	// LevelPackage covers courses, menu items and package add-ons.
	LevelPackage
)

// Partition splits a child collection by its FlagActive column.
type Partition int

const (
	PartitionAll Partition = iota
	PartitionActive
	PartitionDraft
)

// Includes reports whether a row with the given active flag belongs to the partition.
func (p Partition) Includes(flagActive bool) bool {
	switch p {
	case PartitionActive:
		return flagActive
	case PartitionDraft:
		return !flagActive
	}
	return true
}

// Partition returns the partition applied to children at the given level.
//
// add_package costs draft packages being added to an order whose logistics
// windows are already active, so it selects active rows at the order level
// and draft rows below it.
func (s LineStatus) Partition(level Level) Partition {
	switch s {
	case StatusActive:
		return PartitionActive
	case StatusDraft:
		return PartitionDraft
	case StatusAddPackage:
		if level == LevelOrder {
			return PartitionActive
		}
		return PartitionDraft
	}
	return PartitionAll
}

// flagged is implemented by every order child that carries an active flag.
type flagged interface {
	IsActive() bool
}

// selectRows returns the rows of items included by p, preserving order.
func selectRows[T flagged](items []T, p Partition) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if p.Includes(it.IsActive()) {
			out = append(out, it)
		}
	}
	return out
}
