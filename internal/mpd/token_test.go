package mpd

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestIntegerRoundTrip covers property #1: any non-negative integer,
// formatted as a bare token, parses back to the same value.
func TestIntegerRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 9, 10, 42, 255, 65536, 4294967295, 18446744073709551615}
	for _, v := range values {
		r := newReader([]byte(strconv.FormatUint(v, 10)))
		got, ok, err := r.integer()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, v, got)
	}
}

// TestRangeParsing covers property #2: both the bare "N" and "N:M" range
// forms.
func TestRangeParsing(t *testing.T) {
	cases := []struct {
		in   string
		want Range
	}{
		{"0", Range{Start: 0, End: 0}},
		{"5", Range{Start: 5, End: 5}},
		{"2:5", Range{Start: 2, End: 5}},
		{"0:0", Range{Start: 0, End: 0}},
		{"10:3", Range{Start: 10, End: 3}}, // reader does not reject inverted ranges
	}
	for _, c := range cases {
		r := newReader([]byte(c.in))
		rg, ok, err := r.rangeVal()
		require.NoError(t, err, c.in)
		require.True(t, ok, c.in)
		require.Equal(t, c.want, rg, c.in)
	}
}

func TestRangeMissingEndIsError(t *testing.T) {
	r := newReader([]byte("2:"))
	_, ok, err := r.rangeVal()
	require.True(t, ok)
	require.Error(t, err)
}

// TestQuotedTokenEscaping covers property #3: quoting and backslash
// escaping within quoted tokens.
func TestQuotedTokenEscaping(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"hello"`, "hello"},
		{`"with space"`, "with space"},
		{`"escaped \" quote"`, `escaped " quote`},
		{`"back\\slash"`, `back\slash`},
		{`'single quoted'`, "single quoted"},
		{`""`, ""},
	}
	for _, c := range cases {
		r := newReader([]byte(c.in))
		tok, err := r.token()
		require.NoError(t, err, c.in)
		require.Equal(t, c.want, string(tok), c.in)
	}
}

func TestUnterminatedQuoteIsError(t *testing.T) {
	r := newReader([]byte(`"unterminated`))
	_, err := r.token()
	require.Error(t, err)
	require.Equal(t, `Missing closing '"'`, err.Error())
}

func TestTrailingBackslashIsBadEscape(t *testing.T) {
	r := newReader([]byte(`"trailing\`))
	_, err := r.token()
	require.Error(t, err)
	require.Equal(t, "Missing escaped character", err.Error())
}

func TestBareTokenStopsAtSpace(t *testing.T) {
	r := newReader([]byte("first second"))
	tok, err := r.token()
	require.NoError(t, err)
	require.Equal(t, "first", string(tok))
	tok, err = r.token()
	require.NoError(t, err)
	require.Equal(t, "second", string(tok))
}

func TestIntegerOverflow(t *testing.T) {
	r := newReader([]byte("99999999999999999999999"))
	_, _, err := r.integer()
	require.Error(t, err)
	require.Equal(t, "Integer too large", err.Error())
}
