package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want Amount
	}{
		{"0", 0},
		{"12", 1200},
		{"12.3", 1230},
		{"12.34", 1234},
		{"12.345", 1235},  // rounds up
		{"12.344", 1234},  // rounds down
		{"12.3450", 1235}, // half away from zero
		{"-12.345", -1235},
		{"-0.005", -1},
		{"+3.50", 350},
		{".5", 50},
		{"0.1", 10},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseAmountRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "1e3", "1E3", "1.2.3", "12.x"} {
		_, err := ParseAmount(in)
		assert.Error(t, err, in)
	}
}

func TestParseAmountRejectsOverflow(t *testing.T) {
	// 18+ digit unit parts would overflow once scaled to cents.
	for _, in := range []string{"999999999999999999", "-999999999999999999", "92233720368547758.07"} {
		_, err := ParseAmount(in)
		assert.Error(t, err, in)
	}

	// A large but representable amount still parses.
	got, err := ParseAmount("92233720368547757.00")
	require.NoError(t, err)
	assert.Equal(t, Amount(9223372036854775700), got)
}

func TestAmountJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(Amount(1234))
	require.NoError(t, err)
	assert.Equal(t, "12.34", string(b))

	b, err = json.Marshal(Amount(-5))
	require.NoError(t, err)
	assert.Equal(t, "-0.05", string(b))

	var a Amount
	require.NoError(t, json.Unmarshal([]byte("19.99"), &a))
	assert.Equal(t, Amount(1999), a)

	// Quoted strings are accepted too.
	require.NoError(t, json.Unmarshal([]byte(`"7.5"`), &a))
	assert.Equal(t, Amount(750), a)
}

func TestAverageAmount(t *testing.T) {
	assert.Equal(t, Amount(0), AverageAmount(1000, 0))
	assert.Equal(t, Amount(500), AverageAmount(1000, 2))
	assert.Equal(t, Amount(333), AverageAmount(1000, 3))
	assert.Equal(t, Amount(334), AverageAmount(1001, 3))
	assert.Equal(t, Amount(-334), AverageAmount(-1001, 3))
	// Exact half rounds away from zero.
	assert.Equal(t, Amount(1), AverageAmount(1, 2))
	assert.Equal(t, Amount(-1), AverageAmount(-1, 2))
}

func TestAmountScan(t *testing.T) {
	var a Amount
	require.NoError(t, a.Scan(int64(150)))
	assert.Equal(t, Amount(150), a)

	require.NoError(t, a.Scan([]byte("275")))
	assert.Equal(t, Amount(275), a)

	require.NoError(t, a.Scan(nil))
	assert.Equal(t, Amount(0), a)

	assert.Error(t, a.Scan(3.14))
}
