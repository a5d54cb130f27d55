package csvutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_Accessors(t *testing.T) {
	r := NewRow(2,
		[]string{"when", "unix", "flag", "meta", "opt", "small"},
		[]string{"2021-03-01T10:00:00Z", " 1600000000 ", "yes", `{"b":1, "a":"x"}`, "", "7"},
	)

	assert.Equal(t, time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC).Unix(), r.Time("when"))
	assert.Equal(t, int64(1600000000), r.Time("unix"))
	assert.True(t, r.Bool("flag"))
	assert.False(t, r.Bool("missing"))
	require.NotNil(t, r.JSONObject("meta"))
	assert.Equal(t, `{"a":"x","b":1}`, *r.JSONObject("meta"))
	assert.Nil(t, r.OptInt32("opt"))
	require.NotNil(t, r.OptInt16("small"))
	assert.Equal(t, int16(7), *r.OptInt16("small"))
	assert.NoError(t, r.Err())
}

func TestRow_FirstErrorWins(t *testing.T) {
	r := NewRow(5, []string{"a", "b"}, []string{"x", "[1]"})

	_ = r.Int32("a")
	_ = r.JSONObject("b")

	require.Error(t, r.Err())
	assert.Contains(t, r.Err().Error(), "a:")
}

func TestRow_RequiredNumbers(t *testing.T) {
	r := NewRow(2, []string{"n"}, []string{""})
	_ = r.Int64("n")
	require.Error(t, r.Err())
	assert.Contains(t, r.Err().Error(), "missing value")
}

func TestParseTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{in: "2025-01-02", want: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{in: "2025-01-02T03:04:05.5Z", want: time.Date(2025, 1, 2, 3, 4, 5, 500000000, time.UTC)},
		{in: "2025-01-02T03:04:05+01:00", want: time.Date(2025, 1, 2, 2, 4, 5, 0, time.UTC)},
		{in: "0", want: time.Unix(0, 0).UTC()},
	}
	for _, tc := range cases {
		got, err := ParseTime(tc.in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("%q: want %s got %s", tc.in, tc.want, got)
		}
	}

	if _, err := ParseTime("soon"); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := ParseTime(""); err == nil {
		t.Fatalf("expected error for empty value")
	}
}
