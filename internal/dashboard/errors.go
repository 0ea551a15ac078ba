// Package dashboard composes the event source, catalog, and calculators
// into the four analytics surfaces: creator dashboard totals, per-game
// analytics, follower engagement ranking, and popular-content surfacing.
package dashboard

import (
	"errors"
	"fmt"
)

// Sentinel errors detected before any aggregation work begins. Handlers map
// these to 404/403/400 responses.
var (
	// ErrNotFound is returned when the requested creator or game does
	// not exist.
	ErrNotFound = errors.New("subject not found")

	// ErrForbidden is returned when the caller is not the owning creator
	// or developer for an owner-gated view.
	ErrForbidden = errors.New("caller does not own this subject")

	// ErrInvalidRange is returned when the range parameter is neither a
	// supported day count nor "all". The range is never silently
	// defaulted.
	ErrInvalidRange = errors.New(`range must be a positive day count or "all"`)
)

// AggregationError reports that an underlying event-store or catalog query
// failed. The whole computation fails as one unit: a caller never receives
// a metric-shaped object with silently zeroed fields, so "zero" can never
// be mistaken for "computation failed". No retries happen at this layer.
type AggregationError struct {
	Op  string
	Err error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation failed for %s: %v", e.Op, e.Err)
}

func (e *AggregationError) Unwrap() error {
	return e.Err
}

// aggFail wraps a sub-query error, passing sentinel errors through
// unchanged so ownership short-circuits keep their kind.
func aggFail(op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) {
		return err
	}
	return &AggregationError{Op: op, Err: err}
}
