// internal/domain/inventory/entity.go
package inventory

import (
	"errors"
	"strings"
)

var (
	ErrNotFound         = errors.New("inventory not found")
	ErrInvalidID        = errors.New("invalid inventory id")
	ErrInvalidAvailable = errors.New("invalid inventory available count")
)

// Record is the per-product stock counter (the available field of a products document).
// Available is never negative. A record that reaches 0 is deleted rather than kept.
type Record struct {
	ID        string
	Available int
}

func NewRecord(id string, available int) (Record, error) {
	r := Record{ID: strings.TrimSpace(id), Available: available}
	if r.ID == "" {
		return Record{}, ErrInvalidID
	}
	if r.Available < 0 {
		return Record{}, ErrInvalidAvailable
	}
	return r, nil
}

// Consume returns the count left after taking qty.
// The result is clamped at zero; a zero result means the record should be removed.
func (r Record) Consume(qty int) int {
	remaining := r.Available - qty
	if remaining < 0 {
		return 0
	}
	return remaining
}
