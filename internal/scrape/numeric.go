package scrape

import (
	"strconv"
	"strings"
)

// NumberKind reports which representation a parsed value landed in.
type NumberKind int

// Parse outcomes for site numeric text.
const (
	NumberText NumberKind = iota
	NumberInt
	NumberFloat
)

// Number is the result of normalizing a numeric-looking text fragment. When
// neither integer nor float parsing succeeds the raw text is preserved and
// callers treat the value as unavailable.
type Number struct {
	Kind  NumberKind
	Int   int64
	Float float64
	Text  string
}

// ParseNumber normalizes numeric or percentage text from the site. Unit
// symbols and rank markers are stripped, and a comma is treated as a decimal
// separator. Integer parse is attempted before float parse; on failure the
// original text is returned unchanged.
func ParseNumber(raw string) Number {
	trimmed := strings.TrimSpace(raw)
	cleaned := strings.NewReplacer("%", "", "#", "", ",", ".").Replace(trimmed)
	cleaned = strings.TrimSpace(cleaned)

	if i, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
		return Number{Kind: NumberInt, Int: i, Float: float64(i), Text: trimmed}
	}
	if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return Number{Kind: NumberFloat, Float: f, Text: trimmed}
	}
	return Number{Kind: NumberText, Text: raw}
}

// AsFloat returns the value as a float64 when parsing succeeded.
func (n Number) AsFloat() (float64, bool) {
	if n.Kind == NumberText {
		return 0, false
	}
	return n.Float, true
}

// AsInt returns the value as an int64, truncating floats.
func (n Number) AsInt() (int64, bool) {
	switch n.Kind {
	case NumberInt:
		return n.Int, true
	case NumberFloat:
		return int64(n.Float), true
	default:
		return 0, false
	}
}

// FloatPtr returns a pointer to the float value, or nil when unavailable.
func (n Number) FloatPtr() *float64 {
	if f, ok := n.AsFloat(); ok {
		return &f
	}
	return nil
}

// IntPtr returns a pointer to the integer value, or nil when unavailable.
func (n Number) IntPtr() *int64 {
	if i, ok := n.AsInt(); ok {
		return &i
	}
	return nil
}
