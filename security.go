package networth

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

var isinPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// NormalizeID returns the canonical form of a security identifier.
func NormalizeID(id string) string { return strings.ToUpper(strings.TrimSpace(id)) }

// ValidateISIN checks the structure and the check digit of an ISIN.
func ValidateISIN(isin string) error {
	if !isinPattern.MatchString(isin) {
		return fmt.Errorf("%q is not an ISIN: want a country code, 9 alphanumerics and a check digit", isin)
	}
	if !luhn(expandISIN(isin)) {
		return fmt.Errorf("%q is not an ISIN: wrong check digit", isin)
	}
	return nil
}

// expandISIN replaces each letter by its two digits value, A=10 to Z=35.
func expandISIN(isin string) string {
	var b strings.Builder
	for _, r := range isin {
		if unicode.IsLetter(r) {
			b.WriteString(strconv.Itoa(int(r-'A') + 10))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// luhn reports whether digits, check digit last, pass the Luhn checksum.
func luhn(digits string) bool {
	sum := 0
	for i := range len(digits) {
		d := int(digits[len(digits)-1-i] - '0')
		if i%2 == 1 {
			if d *= 2; d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}

// Securities maps security identifiers (ISIN) to the Quote Provider's ticker symbols.
//
// It is static configuration: the set of tracked securities.
type Securities map[string]string

// DefaultSecurities returns the tracked securities used when nothing is configured.
func DefaultSecurities() Securities {
	return Securities{
		"IE00B4L5Y983": "SWDA.SW",
		"IE00B4L5YC18": "SEMA.SW",
	}
}

// Ticker returns the ticker of a security identifier.
func (s Securities) Ticker(id string) (string, bool) {
	t, ok := s[NormalizeID(id)]
	return t, ok
}

// IDs returns the sorted tracked security identifiers.
func (s Securities) IDs() []string {
	return slices.Sorted(maps.Keys(s))
}

// Tickers returns the tickers of all tracked securities, sorted by identifier.
func (s Securities) Tickers() []string {
	tickers := make([]string, 0, len(s))
	for _, id := range s.IDs() {
		tickers = append(tickers, s[id])
	}
	return tickers
}

// Validate checks that every key is an ISIN and every ticker is set.
func (s Securities) Validate() error {
	for _, id := range s.IDs() {
		if err := ValidateISIN(id); err != nil {
			return fmt.Errorf("%w: security %q: %w", ErrConfiguration, id, err)
		}
		if strings.TrimSpace(s[id]) == "" {
			return fmt.Errorf("%w: security %q has no ticker", ErrConfiguration, id)
		}
	}
	return nil
}

// byTicker reindexes values keyed by ticker into values keyed by security identifier.
func byTicker[V any](s Securities, values map[string]V) map[string]V {
	res := make(map[string]V, len(values))
	for id, ticker := range s {
		if v, ok := values[ticker]; ok {
			res[id] = v
		}
	}
	return res
}
