// SPDX-License-Identifier: MPL-2.0

package search

import (
	"errors"
	"fmt"
)

const (
	// TierNone means the query does not match.
	TierNone Tier = iota
	// TierSubsequence means the query's characters appear in order.
	TierSubsequence
	// TierSubstring means the query appears contiguously.
	TierSubstring
	// TierPrefix means the name starts with the query.
	TierPrefix
	// TierExact means the name equals the query.
	TierExact
)

// ErrInvalidWeights is the sentinel wrapped by InvalidWeightsError.
var ErrInvalidWeights = errors.New("invalid search weights")

type (
	// Tier is a match quality class. Higher tiers are better matches.
	Tier int

	// Weights assigns a score to each tier. A valid Weights is positive and
	// strictly decreasing from Exact to Subsequence, so a better tier
	// always outranks a worse one.
	Weights struct {
		Exact       int `json:"exact"`
		Prefix      int `json:"prefix"`
		Substring   int `json:"substring"`
		Subsequence int `json:"subsequence"`
	}

	// InvalidWeightsError describes why a Weights value was rejected.
	InvalidWeightsError struct {
		Weights Weights
		Reason  string
	}
)

// DefaultWeights returns the standard tier scores.
func DefaultWeights() Weights {
	return Weights{Exact: 100, Prefix: 75, Substring: 50, Subsequence: 25}
}

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierPrefix:
		return "prefix"
	case TierSubstring:
		return "substring"
	case TierSubsequence:
		return "subsequence"
	default:
		return "none"
	}
}

// Score returns the weight of tier t.
func (w Weights) Score(t Tier) int {
	switch t {
	case TierExact:
		return w.Exact
	case TierPrefix:
		return w.Prefix
	case TierSubstring:
		return w.Substring
	case TierSubsequence:
		return w.Subsequence
	default:
		return 0
	}
}

// IsValid returns whether the weights keep tiers strictly ordered,
// and a list of validation errors if they do not.
func (w Weights) IsValid() (bool, []error) {
	var errs []error
	if w.Subsequence <= 0 {
		errs = append(errs, &InvalidWeightsError{Weights: w, Reason: "subsequence weight must be positive"})
	}
	if w.Substring <= w.Subsequence {
		errs = append(errs, &InvalidWeightsError{Weights: w, Reason: "substring weight must exceed subsequence weight"})
	}
	if w.Prefix <= w.Substring {
		errs = append(errs, &InvalidWeightsError{Weights: w, Reason: "prefix weight must exceed substring weight"})
	}
	if w.Exact <= w.Prefix {
		errs = append(errs, &InvalidWeightsError{Weights: w, Reason: "exact weight must exceed prefix weight"})
	}
	return len(errs) == 0, errs
}

// Error implements the error interface.
func (e *InvalidWeightsError) Error() string {
	return fmt.Sprintf("invalid search weights %d/%d/%d/%d: %s",
		e.Weights.Exact, e.Weights.Prefix, e.Weights.Substring, e.Weights.Subsequence, e.Reason)
}

// Unwrap returns ErrInvalidWeights for errors.Is() compatibility.
func (e *InvalidWeightsError) Unwrap() error { return ErrInvalidWeights }
