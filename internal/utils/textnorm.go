package utils

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeASCII strips diacritics via NFD decomposition, so that
// "Poznań" and "Poznan" compare equal. Characters that do not
// decompose (e.g. "ł") pass through unchanged.
func NormalizeASCII(s string) string {
	if s == "" {
		return ""
	}
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseMoney parses locale-tolerant money strings such as
// "3 500", "2.500,50 zł" or "1200,50".
// When both '.' and ',' are present, '.' is treated as a thousands
// separator and ',' as the decimal separator (EU convention).
// A lone ',' is treated as a decimal separator.
// Returns nil when no finite number can be extracted.
func ParseMoney(v string) *float64 {
	var b strings.Builder
	for _, r := range v {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return nil
	}

	hasDot := strings.Contains(cleaned, ".")
	hasComma := strings.Contains(cleaned, ",")
	switch {
	case hasDot && hasComma:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case hasComma:
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// AsInt coerces a loose numeric string to an int, or nil when the
// value is not a finite number.
func AsInt(v string) *int {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(f)
	return &n
}

// ExtractLikelyCity returns the first comma-delimited segment of a
// free-text location ("Poznań, Jeżyce, blisko centrum" -> "Poznań"),
// or the whole trimmed string when there is no comma.
func ExtractLikelyCity(location string) string {
	trimmed := strings.TrimSpace(location)
	if trimmed == "" {
		return ""
	}
	if idx := strings.Index(trimmed, ","); idx >= 0 {
		return strings.TrimSpace(trimmed[:idx])
	}
	return trimmed
}

// LocationTokens splits a free-text location into lower-cased,
// accent-folded tokens (comma segments).
func LocationTokens(location string) []string {
	var tokens []string
	for _, part := range strings.Split(location, ",") {
		t := strings.ToLower(strings.TrimSpace(NormalizeASCII(part)))
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
