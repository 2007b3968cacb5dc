// Package phone provides phone identity utilities for Turkish numbers.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "TR"

// countryCode is the Turkish country calling code used for canonical forms.
const countryCode = "90"

// Digits strips every non-digit character from the input.
func Digits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Canonicalize reduces a raw phone string to its 12-digit "90"-prefixed
// canonical form. Numbers with fewer than 10 significant digits cannot be
// canonicalized and return ok=false.
//
// Well-formed input is first parsed with libphonenumber, which tolerates
// punctuation and international prefixes; anything it rejects falls back to
// the plain last-10-digits rule.
func Canonicalize(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	if num, err := phonenumbers.Parse(trimmed, defaultRegion); err == nil && phonenumbers.IsValidNumber(num) {
		e164 := phonenumbers.Format(num, phonenumbers.E164)
		digits := strings.TrimPrefix(e164, "+")
		if strings.HasPrefix(digits, countryCode) && len(digits) == 12 {
			return digits, true
		}
	}

	digits := Digits(trimmed)
	if len(digits) < 10 {
		return "", false
	}

	local := digits[len(digits)-10:]
	return countryCode + local, true
}

// Local returns the bare 10-digit local form of a canonical number.
func Local(canonical string) string {
	return strings.TrimPrefix(canonical, countryCode)
}

// Variants returns every representation the store might historically contain
// for the same physical number. Because old writes were not uniformly
// normalized, duplicate lookup has to be representation-agnostic.
//
// For a canonicalizable number the set covers: the raw input as given,
// digits-only, canonical, canonical with leading "+", the bare 10-digit local
// form, the local form with leading "0", and the human-formatted spacing
// ("+90 555 123 45 67"). Degenerate numbers yield only raw and digits-only.
func Variants(raw string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 7)
	add := func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	add(raw)
	add(Digits(raw))

	canonical, ok := Canonicalize(raw)
	if !ok {
		return out
	}

	local := Local(canonical)
	add(canonical)
	add("+" + canonical)
	add(local)
	add("0" + local)
	add(humanFormat(local))

	return out
}

// humanFormat renders the display spacing used by older client writes:
// "+90 555 123 45 67".
func humanFormat(local string) string {
	if len(local) != 10 {
		return ""
	}
	return fmt.Sprintf("+%s %s %s %s %s", countryCode, local[0:3], local[3:6], local[6:8], local[8:10])
}
