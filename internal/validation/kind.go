package validation

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"unicode"

	"github.com/silver-potato-kebab/trade-tracker/internal/apperrors"
)

// Kind is the per-column keystroke acceptance rule used while editing a cell.
type Kind string

const (
	KindNone        Kind = ""
	KindInteger     Kind = "integer"
	KindPrice       Kind = "price"
	KindSignedPrice Kind = "signed_price"
	KindAlpha       Kind = "alpha"
)

// partialSignedPrice holds tokens that are not numbers yet but may become one.
var partialSignedPrice = map[string]bool{"-": true, ".": true, "-.": true}

// ParseKind maps a configured kind name to a Kind.
// "none" and "" both mean the column accepts any text.
func ParseKind(name string) (Kind, bool) {
	switch Kind(name) {
	case KindInteger, KindPrice, KindSignedPrice, KindAlpha:
		return Kind(name), true
	case KindNone, "none":
		return KindNone, true
	default:
		return Kind(name), false
	}
}

// IsPrice reports whether committed text in this kind is reformatted to 2 decimals.
func (k Kind) IsPrice() bool {
	return k == KindPrice || k == KindSignedPrice
}

// Accepts reports whether candidate, the full field text as it would read
// after the keystroke, is allowed for kind. Empty text is always accepted so
// a field can be cleared while typing. Unknown kinds reject everything; they
// are meant to be caught earlier by ValidateLayout.
func Accepts(kind Kind, candidate string) bool {
	if candidate == "" {
		return true
	}

	switch kind {
	case KindNone:
		return true
	case KindInteger:
		return allRunes(candidate, unicode.IsDigit)
	case KindPrice:
		f, ok := parseFinite(candidate)
		return ok && f >= 0
	case KindSignedPrice:
		if partialSignedPrice[candidate] {
			return true
		}
		_, ok := parseFinite(candidate)
		return ok
	case KindAlpha:
		return allRunes(candidate, unicode.IsLetter)
	default:
		return false
	}
}

// ValidateLayout resolves a column -> kind-name mapping. The first column, in
// name order, with an unknown kind is reported as a ConfigurationError.
func ValidateLayout(layout map[string]string) (map[string]Kind, error) {
	kinds := make(map[string]Kind, len(layout))
	for _, column := range slices.Sorted(maps.Keys(layout)) {
		name := layout[column]
		kind, ok := ParseKind(name)
		if !ok {
			return nil, &apperrors.ConfigurationError{Column: column, Kind: name}
		}
		kinds[column] = kind
	}
	return kinds, nil
}

func allRunes(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
