package model

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceConfig_EntriesAreStableAcrossReorder(t *testing.T) {
	a := Source{Name: "A", UseLocalFiles: true}
	b := Source{Name: "B", TripUpdateURL: "http://b.example/tu"}

	before := SourceConfig{Sources: []Source{a, b}, CurrentSource: 1}
	after := SourceConfig{Sources: []Source{b}, CurrentSource: 0}

	entriesBefore := before.Entries()
	require.Len(t, entriesBefore, 2)
	assert.False(t, entriesBefore[0].Current)
	assert.True(t, entriesBefore[1].Current)

	resolved, ok := after.Resolve(entriesBefore[1].ID)
	require.True(t, ok)
	assert.Equal(t, 0, resolved.Index)
	assert.Equal(t, "B", resolved.Source.Name)

	_, ok = after.Resolve(entriesBefore[0].ID)
	assert.False(t, ok, "removed source must not resolve to another position")
}

func TestSourceConfig_DuplicateSourcesGetDistinctIDs(t *testing.T) {
	dup := Source{Name: "Dup", UseLocalFiles: true}
	config := SourceConfig{Sources: []Source{dup, dup}}

	entries := config.Entries()
	require.Len(t, entries, 2)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)

	resolved, ok := config.Resolve(entries[1].ID)
	require.True(t, ok)
	assert.Equal(t, 1, resolved.Index)
}

func TestSourceConfig_Current(t *testing.T) {
	_, ok := SourceConfig{}.Current()
	assert.False(t, ok)

	config := SourceConfig{Sources: []Source{{Name: "x"}}, CurrentSource: 0}
	current, ok := config.Current()
	require.True(t, ok)
	assert.Equal(t, "x", current.Name)

	config.CurrentSource = 3
	_, ok = config.Current()
	assert.False(t, ok)
}

func TestSource_NormalizedClearsURLsForLocalFiles(t *testing.T) {
	source := Source{Name: "  Local ", UseLocalFiles: true, AlertURL: "http://x"}
	normalized := source.Normalized()

	assert.Equal(t, "Local", normalized.Name)
	assert.Empty(t, normalized.AlertURL)
	assert.True(t, normalized.URLs().Empty())
}

func TestFeedTestResult_UnmarshalJSON(t *testing.T) {
	var results map[FeedType]FeedTestResult
	payload := `{"trip_update": true, "vehicle_position": {"success": false, "status_code": 404}, "alert": {}}`
	require.NoError(t, json.Unmarshal([]byte(payload), &results))

	assert.Equal(t, FeedTestResult{Success: true}, results[FeedTripUpdate])
	assert.Equal(t, FeedTestResult{Success: false, StatusCode: 404}, results[FeedVehiclePosition])
	assert.True(t, results[FeedAlert].Unknown)
}

func TestFeedTestResult_NullIsUnknown(t *testing.T) {
	var results map[FeedType]FeedTestResult
	require.NoError(t, json.Unmarshal([]byte(`{"alert": null}`), &results))
	assert.Equal(t, FeedTestResult{Unknown: true}, results[FeedAlert])

	var result FeedTestResult
	require.NoError(t, result.UnmarshalJSON([]byte("  ")))
	assert.True(t, result.Unknown)
	assert.False(t, result.Success)
}
