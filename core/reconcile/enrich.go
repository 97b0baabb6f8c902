package reconcile

import (
	"context"
	"errors"
	"fmt"
)

// Target is one record selected for an enrichment pass.
type Target struct {
	// Key is the record's source id.
	Key string

	// Label is used in progress output and failure reports.
	Label string

	// Item is the local record. Passes define the concrete type.
	Item LocalItem
}

// Pass is one enrichment step over a category: it selects the records still
// lacking a field and fills that field for one record at a time.
type Pass interface {
	// Name identifies the pass in logs and metrics (e.g. "overview").
	Name() string

	// Select returns at most limit records still needing this pass.
	// A limit of zero or less means no limit.
	Select(ctx context.Context, limit int) ([]Target, error)

	// Enrich fetches and writes the field for a single record.
	// Return ErrMatchNotFound when no counterpart record exists.
	Enrich(ctx context.Context, target Target) error
}

// Failure describes one record an enrichment pass could not fill.
type Failure struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Reason  string `json:"reason"`
	NoMatch bool   `json:"no_match"`
}

// EnrichResult reports the outcome of an enrichment pass.
type EnrichResult struct {
	Pass     string    `json:"pass"`
	Total    int       `json:"total"`
	Updated  int       `json:"updated"`
	Failed   int       `json:"failed"`
	NoMatch  int       `json:"no_match"`
	Failures []Failure `json:"failures"`
}

// RunPass runs pass over the records it selects, one at a time. A failing
// record is reported and skipped; it never stops the pass. progress, when
// non-nil, is invoked after every record with a 1-based index.
//
// Only a selection error or context cancellation returns a non-nil error.
// On cancellation the partial result is returned alongside ctx.Err().
func RunPass(ctx context.Context, pass Pass, limit int, progress ProgressFunc) (*EnrichResult, error) {
	targets, err := pass.Select(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("select %s targets: %w", pass.Name(), err)
	}

	result := &EnrichResult{
		Pass:     pass.Name(),
		Total:    len(targets),
		Failures: []Failure{},
	}

	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := pass.Enrich(ctx, target); err != nil {
			noMatch := errors.Is(err, ErrMatchNotFound)
			result.Failed++
			if noMatch {
				result.NoMatch++
			}
			result.Failures = append(result.Failures, Failure{
				Key:     target.Key,
				Label:   target.Label,
				Reason:  err.Error(),
				NoMatch: noMatch,
			})
		} else {
			result.Updated++
		}

		if progress != nil {
			progress(i+1, len(targets), target.Label)
		}
	}

	return result, nil
}
