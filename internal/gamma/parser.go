// Package gamma turns dashboard text into a Total Gamma figure.
//
// The dashboard formats the figure client-side, so separator and sign
// glyphs vary between renders: minus may arrive as hyphen, en-dash,
// em-dash or U+2212, and thousands groups as commas or spaces. Text is
// normalized first and then matched against one tolerant grammar.
package gamma

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Label, anything up to the first "$", then the signed literal. The literal
// must not be followed by a digit so ungrouped figures are not cut short.
var totalGammaRe = regexp.MustCompile(`(?i)Total\s*Gamma[^$]*\$\s*([-\x{2013}\x{2014}\x{2212}]?\d{1,3}(?:[,\s]?\d{3})*(?:\.\d+)?)(?:\D|$)`)

var signReplacer = strings.NewReplacer("\u2013", "-", "\u2014", "-", "\u2212", "-")

var separatorReplacer = strings.NewReplacer(",", "", " ", "")

var (
	minAmount = decimal.NewFromInt(math.MinInt64)
	maxAmount = decimal.NewFromInt(math.MaxInt64)
)

// Result is a parsed Total Gamma figure.
type Result struct {
	Value   float64
	Amount  decimal.Decimal
	Display string // "$" + matched literal with the sign glyph normalized
}

// Truncated is the integer part of the amount, rounded toward zero.
func (r Result) Truncated() int64 {
	return r.Amount.IntPart()
}

// Parse finds the first Total Gamma figure in normalized text. The bool
// is false when nothing matches or the literal does not convert, which
// includes figures whose integer part does not fit an int64.
func Parse(text string) (Result, bool) {
	m := totalGammaRe.FindStringSubmatch(text)
	if m == nil {
		return Result{}, false
	}
	literal := signReplacer.Replace(m[1])
	amount, err := decimal.NewFromString(separatorReplacer.Replace(literal))
	if err != nil {
		return Result{}, false
	}
	if whole := amount.Truncate(0); whole.LessThan(minAmount) || whole.GreaterThan(maxAmount) {
		return Result{}, false
	}
	return Result{
		Value:   amount.InexactFloat64(),
		Amount:  amount,
		Display: "$" + literal,
	}, true
}

// ParseCorpus normalizes raw text and parses it.
func ParseCorpus(raw string) (Result, bool) {
	return Parse(Normalize(raw))
}
