package client

import (
	"errors"
	"testing"
	"time"

	"github.com/Sternrassler/monbillet-client/pkg/jsonvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(s))
	require.NoError(t, err)
	return v
}

func TestNormalizeDates_DepthAgnostic(t *testing.T) {
	in := mustParse(t, `{"a":{"dateHappens":"2024-01-01"},"b":[{"dateFirstShow":"2024-02-02"}],"date":"2024-03-03"}`)

	out, err := NormalizeDates(in, time.UTC)
	require.NoError(t, err)

	a, _ := out.Get("a")
	happens, _ := a.Get("dateHappens")
	require.Equal(t, jsonvalue.KindTime, happens.Kind())
	assert.True(t, happens.Time().Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	b, _ := out.Get("b")
	first, _ := b.Index(0).Get("dateFirstShow")
	require.Equal(t, jsonvalue.KindTime, first.Kind())
	assert.True(t, first.Time().Equal(time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)))

	plain, _ := out.Get("date")
	assert.Equal(t, jsonvalue.KindString, plain.Kind())
	assert.Equal(t, "2024-03-03", plain.Str())

	// The input is not modified.
	a, _ = in.Get("a")
	happens, _ = a.Get("dateHappens")
	assert.Equal(t, jsonvalue.KindString, happens.Kind())
}

func TestNormalizeDates_Formats(t *testing.T) {
	zurich, err := time.LoadLocation("Europe/Zurich")
	if err != nil {
		t.Skipf("tzdata not available: %v", err)
	}

	tests := []struct {
		name     string
		json     string
		expected time.Time
	}{
		{
			name:     "rfc3339 with offset",
			json:     `{"dateLastShow":"2024-06-01T20:00:00+02:00"}`,
			expected: time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC),
		},
		{
			name:     "date and time without offset uses location",
			json:     `{"dateLastShow":"2024-06-01 20:00:00"}`,
			expected: time.Date(2024, 6, 1, 20, 0, 0, 0, zurich),
		},
		{
			name:     "date only uses location",
			json:     `{"dateLastShow":"2024-12-20"}`,
			expected: time.Date(2024, 12, 20, 0, 0, 0, 0, zurich),
		},
		{
			name:     "unix seconds",
			json:     `{"dateLastShow":1700000000}`,
			expected: time.Unix(1700000000, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NormalizeDates(mustParse(t, tt.json), zurich)
			require.NoError(t, err)

			got, _ := out.Get("dateLastShow")
			require.Equal(t, jsonvalue.KindTime, got.Kind())
			assert.True(t, got.Time().Equal(tt.expected), "got %s, want %s", got.Time(), tt.expected)
		})
	}
}

func TestNormalizeDates_NullAndAbsent(t *testing.T) {
	out, err := NormalizeDates(mustParse(t, `{"dateLastShow":null,"title":"x"}`), nil)
	require.NoError(t, err)

	last, ok := out.Get("dateLastShow")
	require.True(t, ok)
	assert.True(t, last.IsNull())
	assert.Equal(t, []string{"dateLastShow", "title"}, out.Keys())
}

func TestNormalizeDates_Invalid(t *testing.T) {
	for _, doc := range []string{
		`{"dateHappens":"not a date"}`,
		`{"x":[{"dateFirstShow":true}]}`,
		`{"dateFirstShow":{"nested":"2024-01-01"}}`,
	} {
		_, err := NormalizeDates(mustParse(t, doc), time.UTC)
		require.Error(t, err, doc)
		assert.True(t, errors.Is(err, ErrDecode), doc)
	}
}
