package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_UnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string id", `{"id":"rec123","name":"A"}`, "rec123"},
		{"numeric id", `{"id":42,"name":"A"}`, "42"},
		{"null id", `{"id":null,"name":"A"}`, ""},
		{"missing id", `{"name":"A"}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Event
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &e))
			assert.Equal(t, tt.want, e.ID)
			assert.Equal(t, "A", e.Name)
		})
	}
}

func TestEvent_UnmarshalKeepsOptionalFields(t *testing.T) {
	raw := `{"id":"r1","name":"Opening Ceremony","linked_space":"Main Stage",
		"start_time":"2025-06-01T18:00:00Z","end_time":null,"notes":"Bring a jacket"}`

	var e Event
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	assert.Equal(t, "Main Stage", e.LinkedSpace)
	assert.Equal(t, "2025-06-01T18:00:00Z", e.StartTime)
	assert.Empty(t, e.EndTime)
	assert.Equal(t, "Bring a jacket", e.Notes)
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	for _, in := range []string{
		"2025-06-01T18:00:00Z",
		"2025-06-01T18:00:00.000Z",
		"2025-06-01T20:00:00+02:00",
		"2025-06-01T18:00:00",
		"2025-06-01 18:00:00+00:00",
		"2025-06-01 18:00:00",
	} {
		got, ok := ParseTimestamp(in)
		require.True(t, ok, in)
		assert.True(t, want.Equal(got), "%s parsed as %s", in, got)
		assert.Equal(t, time.UTC, got.Location())
	}

	day, ok := ParseTimestamp("2025-07-19")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC), day)

	_, ok = ParseTimestamp("")
	assert.False(t, ok)
	_, ok = ParseTimestamp("next tuesday")
	assert.False(t, ok)
}
