package gamma

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"empty", "", ""},
		{"untouched", "Total Gamma $1", "Total Gamma $1"},
		{"nbsp", "Total\u00a0Gamma", "Total Gamma"},
		{"nbsp next to space", "Gamma\u00a0 $", "Gamma $"},
		{"newlines and tabs", "Total\n\n\tGamma\r\n$5", "Total Gamma $5"},
		{"leading and trailing runs kept as one space", "  x  ", " x "},
		{"narrow nbsp", "12\u202f345", "12 345"},
		{"other characters untouched", "\u2013\u2212\u2014$,.", "\u2013\u2212\u2014$,."},
		{"invalid utf-8 kept byte for byte", "a\xffb \xc3  c", "a\xffb \xc3 c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeNoNBSPOrDoubleSpace(t *testing.T) {
	alphabet := []rune{'a', 'Z', '$', '1', ',', ' ', '\t', '\n', '\r', '\u00a0', '\u2009', '\v', '\f', '\u2212'}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		n := rng.Intn(40)
		var b strings.Builder
		for j := 0; j < n; j++ {
			b.WriteRune(alphabet[rng.Intn(len(alphabet))])
		}
		out := Normalize(b.String())
		assert.NotContains(t, out, "\u00a0")
		assert.NotContains(t, out, "  ")
		for _, ws := range []string{"\t", "\n", "\r", "\v", "\f"} {
			assert.NotContains(t, out, ws)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		value     float64
		truncated int64
		display   string
	}{
		{"grouped with decimals", "Total Gamma ... $1,234.50", 1234.50, 1234, "$1,234.50"},
		{"minus sign", "Total Gamma: $\u2212987", -987, -987, "$-987"},
		{"en-dash", "Total Gamma $\u20131,000", -1000, -1000, "$-1,000"},
		{"em-dash", "Total Gamma $\u20142.5", -2.5, -2, "$-2.5"},
		{"hyphen after space", "Total Gamma $ -4,560,000 ...", -4560000, -4560000, "$-4,560,000"},
		{"space separated groups", "Total Gamma $12 345 678", 12345678, 12345678, "$12 345 678"},
		{"no separators", "Total Gamma $1234", 1234, 1234, "$1234"},
		{"case insensitive, no gap", "TOTALGAMMA$5", 5, 5, "$5"},
		{"label far from figure", "Total Gamma (all expiries) | updated 10:00 | $7.25", 7.25, 7, "$7.25"},
		{"year after figure", "Total Gamma $1,234 2024", 1234, 1234, "$1,234"},
		{"ungrouped seven digits", "Total Gamma $1234567", 1234567, 1234567, "$1234567"},
		{"first match wins", "Total Gamma $1 | Total Gamma $2", 1, 1, "$1"},
		// a group of four digits is not a group: only the lead digits before the separator count
		{"malformed group stops at separator", "Total Gamma $1,2345", 1, 1, "$1"},
		{"int64 bounds", "Total Gamma $-9,223,372,036,854,775,808", -9223372036854775808, math.MinInt64, "$-9,223,372,036,854,775,808"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := Parse(tt.in)
			require.True(t, ok)
			assert.InDelta(t, tt.value, res.Value, 1e-9)
			assert.Equal(t, tt.truncated, res.Truncated())
			assert.Equal(t, tt.display, res.Display)
		})
	}
}

func TestParseAbsent(t *testing.T) {
	for _, in := range []string{
		"",
		"Net Gamma $1,000",
		"Total Gamma is not available",
		"Total Gamma $ n/a",
		"$1,000 Total Gamma",
		"Total Gamma $99999999999999999999999",
		"Total Gamma $-9,223,372,036,854,775,809",
	} {
		_, ok := Parse(in)
		assert.False(t, ok, in)
	}
}

func TestParseCorpus(t *testing.T) {
	res, ok := ParseCorpus("SPX\n... Total Gamma\u00a0 $ -4,560,000 ... | ")
	require.True(t, ok)
	assert.Equal(t, int64(-4560000), res.Truncated())
	assert.Equal(t, "$-4,560,000", res.Display)
}
