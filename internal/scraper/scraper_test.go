package scraper

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEncoders verifies every space is replaced and nothing else changes
func TestEncoders(t *testing.T) {
	titles := []string{
		"software engineer",
		"  leading and trailing  ",
		"c++ developer (remote) & lead",
		"nospaces",
		"",
	}

	for _, title := range titles {
		var plus, pct strings.Builder
		for _, r := range title {
			if r == ' ' {
				plus.WriteString("+")
				pct.WriteString("%20")
				continue
			}
			plus.WriteRune(r)
			pct.WriteRune(r)
		}

		assert.Equal(t, plus.String(), EncodePlus(title), title)
		assert.Equal(t, pct.String(), EncodePercent20(title), title)
	}

	assert.Equal(t, "software+engineer", EncodePlus("software engineer"))
	assert.Equal(t, "software%20engineer", EncodePercent20("software engineer"))
	assert.Equal(t, "c++%20developer", EncodePercent20("c++ developer"))
}

// TestParseLeadingToken verifies the first whitespace token is parsed as the count
func TestParseLeadingToken(t *testing.T) {
	n, err := ParseLeadingToken("123 jobs")
	require.NoError(t, err)
	assert.Equal(t, uint64(123), n)

	n, err = ParseLeadingToken("  \n 42\tjobs found")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), n)
}

// TestParseLeadingToken_CommaIsNotStripped pins the current behaviour for thousands separators
func TestParseLeadingToken_CommaIsNotStripped(t *testing.T) {
	_, err := ParseLeadingToken("1,234 jobs")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
}

// TestParseLeadingToken_Invalid verifies non-numeric tokens fail with ErrParse
func TestParseLeadingToken_Invalid(t *testing.T) {
	for _, text := range []string{"jobs 123", "-5 jobs", "", "   "} {
		_, err := ParseLeadingToken(text)
		require.Error(t, err, text)
		assert.Equal(t, ErrParse, KindOf(err), text)
	}
}

// TestParseFirstDigitRun verifies the first run of digits anywhere is the count
func TestParseFirstDigitRun(t *testing.T) {
	cases := map[string]uint64{
		"No. of results: 58":           58,
		"58 jobs found in New Zealand": 58,
		"Showing 1,234 results":        1,
		"page 2 of 10":                 2,
	}
	for text, want := range cases {
		n, err := ParseFirstDigitRun(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, n, text)
	}
}

// TestParseFirstDigitRun_NoDigits verifies text without digits is a parse error
func TestParseFirstDigitRun_NoDigits(t *testing.T) {
	_, err := ParseFirstDigitRun("no digits here")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
}

// TestParseFirstDigitRun_Overflow verifies a run too large for uint64 fails
func TestParseFirstDigitRun_Overflow(t *testing.T) {
	_, err := ParseFirstDigitRun("99999999999999999999999 jobs")
	assert.True(t, errors.Is(err, ErrParse))
}

// TestError_Is verifies kinds and causes are both reachable through the chain
func TestError_Is(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("wrapped: %w", NewError(ErrNetwork, "seek", "request failed", cause))

	assert.True(t, errors.Is(err, ErrNetwork))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrParse))
	assert.Equal(t, ErrNetwork, KindOf(err))
	assert.Equal(t, "wrapped: seek: network: request failed: connection reset", err.Error())
}

// TestKindOf verifies classification of bare kinds and foreign errors
func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrNotImplemented, KindOf(fmt.Errorf("jora: %w", ErrNotImplemented)))
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, "element_not_found", ErrElementNotFound.String())
}
