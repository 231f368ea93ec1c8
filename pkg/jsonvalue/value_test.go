package jsonvalue

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PreservesMemberOrder(t *testing.T) {
	v, err := Parse([]byte(`{"zeta":1,"alpha":{"b":2,"a":3},"mid":[true,null,"x"]}`))
	require.NoError(t, err)

	assert.Equal(t, KindObject, v.Kind())
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, v.Keys())

	alpha, ok := v.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, alpha.Keys())

	mid, ok := v.Get("mid")
	require.True(t, ok)
	require.Equal(t, 3, mid.Len())
	assert.True(t, mid.Index(0).Bool())
	assert.True(t, mid.Index(1).IsNull())
	assert.Equal(t, "x", mid.Index(2).Str())
	assert.True(t, mid.Index(7).IsNull())
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		``,
		`{`,
		`{"a":}`,
		`not json`,
		`{"a":1} trailing`,
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse([]byte(input))
			assert.True(t, errors.Is(err, ErrInvalidJSON), "got %v", err)
			assert.False(t, Valid([]byte(input)))
		})
	}
}

func TestParse_RejectsInvalidUTF8(t *testing.T) {
	input := []byte("{\"event\":{\"title\":\"\xff\xfe\"}}")

	assert.False(t, Valid(input))
	_, err := Parse(input)
	assert.True(t, errors.Is(err, ErrInvalidJSON), "got %v", err)

	v, err := Parse([]byte(`{"event":{"title":"Fête de la musique"}}`))
	require.NoError(t, err)
	out, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(out), "Fête de la musique")
}

func TestMarshalJSON_RoundTrip(t *testing.T) {
	input := `{"id":"summer-fest","price":12.50,"big":12345678901234567890,"tags":["a","b"],"nested":{"ok":false,"none":null},"text":"quote \" and <tag>"}`

	v, err := Parse([]byte(input))
	require.NoError(t, err)

	out, err := v.MarshalJSON()
	require.NoError(t, err)

	again, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, v, again)

	// Number literals are kept verbatim.
	assert.True(t, strings.Contains(string(out), `"price":12.50`))
	assert.True(t, strings.Contains(string(out), `"big":12345678901234567890`))
}

func TestMarshalJSON_Time(t *testing.T) {
	when := time.Date(2024, 6, 1, 20, 30, 0, 0, time.UTC)
	v := Object(Member{Key: "dateHappens", Value: Time(when)})

	out, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"dateHappens":"2024-06-01T20:30:00Z"}`, string(out))
}

func TestDecode(t *testing.T) {
	type event struct {
		ID            string    `json:"id"`
		DateFirstShow time.Time `json:"dateFirstShow"`
	}

	when := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	v := Object(
		Member{Key: "id", Value: String("summer-fest")},
		Member{Key: "dateFirstShow", Value: Time(when)},
	)

	var got event
	require.NoError(t, v.Decode(&got))
	assert.Equal(t, "summer-fest", got.ID)
	assert.True(t, got.DateFirstShow.Equal(when))
}

func TestUnmarshalJSON(t *testing.T) {
	var v Value
	require.NoError(t, v.UnmarshalJSON([]byte(`[1,2,3]`)))
	assert.Equal(t, KindArray, v.Kind())
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, "2", v.Index(1).Str())
}

func TestAccessors_WrongKind(t *testing.T) {
	s := String("x")
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Items())
	assert.Nil(t, s.Members())
	assert.Nil(t, s.Keys())
	assert.True(t, s.Time().IsZero())
	_, ok := s.Get("x")
	assert.False(t, ok)
	assert.Equal(t, "", Bool(true).Str())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "time", KindTime.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
