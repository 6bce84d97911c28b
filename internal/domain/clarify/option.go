// Package clarify contains the domain model of the clarification flow:
// candidate options, the signed token payload, and the audit log record.
package clarify

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Option processing defaults. MaxOptions keeps chat-rendered choice lists
// short; the floor guarantees a customer always has something to pick.
const (
	DefaultMaxOptions = 5
	MinMaxOptions     = 1
)

// Option is one candidate answer shown to the customer. Score is an
// optional ranking hint from upstream (absent = 0); exactly one option in a
// processed list carries Recommended.
type Option struct {
	Label       string     `json:"label"`
	Canonical   string     `json:"canonical"`
	Brand       string     `json:"brand,omitempty"`
	Variant     string     `json:"variant,omitempty"`
	Unit        string     `json:"unit,omitempty"`
	ProductID   *uuid.UUID `json:"product_id,omitempty"`
	Score       float64    `json:"score,omitempty"`
	Recommended bool       `json:"recommended,omitempty"`
}

// dedupKey identifies an option for duplicate collapsing, case-insensitive.
func (o *Option) dedupKey() string {
	return strings.ToLower(o.Canonical) + "\x00" +
		strings.ToLower(o.Brand) + "\x00" +
		strings.ToLower(o.Variant) + "\x00" +
		strings.ToLower(o.Unit)
}

// ProcessOptions dedupes, ranks, caps and flags a candidate list. It is
// deterministic for a fixed input and idempotent, and it runs identically at
// link generation and at submission on the token-embedded list, which is
// what keeps a numeric choice index stable across the round trip.
//
// Steps: collapse duplicates by (canonical, brand, variant, unit) keeping
// the first occurrence; stable-sort by score descending; truncate to max;
// ensure exactly one Recommended flag, preferring one already set on a
// survivor and falling back to index 0.
func ProcessOptions(options []Option, max int) []Option {
	if max < MinMaxOptions {
		max = DefaultMaxOptions
	}

	seen := make(map[string]struct{}, len(options))
	deduped := make([]Option, 0, len(options))
	for _, opt := range options {
		key := opt.dedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, opt)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Score > deduped[j].Score
	})

	if len(deduped) > max {
		deduped = deduped[:max]
	}

	recommended := -1
	for i := range deduped {
		if deduped[i].Recommended && recommended == -1 {
			recommended = i
			continue
		}
		deduped[i].Recommended = false
	}
	if recommended == -1 && len(deduped) > 0 {
		deduped[0].Recommended = true
	}

	return deduped
}
