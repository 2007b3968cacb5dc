package importer

import (
	"context"
	"fmt"

	"coldcall_backend/platform/phone"
)

// minImportDigits is the minimum normalized digit count a row must have to
// enter dedup at all. Shorter values are junk (extension fragments, typos)
// and are counted as invalid, neither accepted nor duplicate.
const minImportDigits = 6

// PhoneStore is the lookup primitive dedup needs from the persisted store.
type PhoneStore interface {
	// ExistingPhones returns which of the given phone strings already exist.
	ExistingPhones(ctx context.Context, phones []string) ([]string, error)
}

// ParsedRow is one lead row as handed over by the external file parser.
type ParsedRow struct {
	BusinessName   string
	RawPhone       string
	PotentialLevel string
}

// Candidate is a row that survived the invalid filter, carrying its resolved
// phone identity.
type Candidate struct {
	Row       ParsedRow
	Canonical string
	Variants  []string
}

// Matcher partitions an import batch into accepted and duplicate rows using
// representation-agnostic phone identity.
type Matcher struct {
	store PhoneStore
}

// NewMatcher creates a dedup matcher over the given store.
func NewMatcher(store PhoneStore) *Matcher {
	return &Matcher{store: store}
}

// Partition processes rows in input order and decides accept/duplicate for
// each. A row is accepted iff none of its phone variants is already known,
// where "known" is seeded from the store and grows with each acceptance so
// duplicates inside the same batch are caught too.
//
// Any store failure aborts the whole run: no partial acceptance decisions
// leak out.
func (m *Matcher) Partition(ctx context.Context, rows []ParsedRow) (accepted []Candidate, duplicates, invalid int, err error) {
	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		digits := phone.Digits(row.RawPhone)
		if len(digits) < minImportDigits {
			invalid++
			continue
		}

		canonical, ok := phone.Canonicalize(row.RawPhone)
		if !ok {
			// Between 6 and 9 digits: not canonicalizable, kept as a
			// degenerate pass-through identified by its digit string.
			canonical = digits
		}

		candidates = append(candidates, Candidate{
			Row:       row,
			Canonical: canonical,
			Variants:  phone.Variants(row.RawPhone),
		})
	}

	lookup := make([]string, 0, len(candidates)*7)
	seen := make(map[string]struct{})
	for _, c := range candidates {
		for _, v := range c.Variants {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			lookup = append(lookup, v)
		}
	}

	known := make(map[string]struct{})
	if len(lookup) > 0 {
		existing, storeErr := m.store.ExistingPhones(ctx, lookup)
		if storeErr != nil {
			return nil, 0, 0, fmt.Errorf("dedup store lookup failed: %w", storeErr)
		}
		for _, p := range existing {
			known[p] = struct{}{}
		}
	}

	accepted = make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if intersects(c.Variants, known) {
			duplicates++
			continue
		}
		accepted = append(accepted, c)
		for _, v := range c.Variants {
			known[v] = struct{}{}
		}
	}

	return accepted, duplicates, invalid, nil
}

func intersects(variants []string, known map[string]struct{}) bool {
	for _, v := range variants {
		if _, ok := known[v]; ok {
			return true
		}
	}
	return false
}
