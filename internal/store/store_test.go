package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

func dataWithRoutes(routes ...string) model.AllData {
	var data model.AllData
	for _, route := range routes {
		data.VehiclePositions.Data = append(data.VehiclePositions.Data, model.VehiclePositionRecord{
			VehicleID: "v-" + route,
			RouteID:   route,
		})
	}
	return data
}

func TestStore_InitialState(t *testing.T) {
	state := New().Snapshot()
	assert.False(t, state.HasData)
	assert.False(t, state.HasConfig)
	assert.Equal(t, model.DefaultFilters(), state.Filters)
	assert.Equal(t, []string{"all"}, state.RouteOptions)
}

func TestStore_ApplyDataReplacesSnapshot(t *testing.T) {
	store := New()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.True(t, store.ApplyData(store.NextSequence(), dataWithRoutes("A", "B"), at))
	require.True(t, store.ApplyData(store.NextSequence(), dataWithRoutes("C"), at.Add(time.Minute)))

	state := store.Snapshot()
	assert.True(t, state.HasData)
	assert.Equal(t, at.Add(time.Minute), state.UpdatedAt)
	require.Len(t, state.Data.VehiclePositions.Data, 1)
	assert.Equal(t, []string{"all", "C"}, state.RouteOptions)
}

func TestStore_StaleResponseIsDiscarded(t *testing.T) {
	store := New()
	first := store.NextSequence()
	second := store.NextSequence()

	require.True(t, store.ApplyData(second, dataWithRoutes("NEW"), time.Now()))
	assert.False(t, store.ApplyData(first, dataWithRoutes("OLD"), time.Now()))

	assert.Equal(t, "NEW", store.Snapshot().Data.VehiclePositions.Data[0].RouteID)
}

func TestStore_RouteSelectionSurvivesRefreshWhenStillOffered(t *testing.T) {
	store := New()
	store.ApplyData(store.NextSequence(), dataWithRoutes("A", "B"), time.Now())
	store.SetFilters(model.FilterSelection{Route: "B", Status: "STOPPED_AT"})

	store.ApplyData(store.NextSequence(), dataWithRoutes("B", "C"), time.Now())
	assert.Equal(t, model.FilterSelection{Route: "B", Status: "STOPPED_AT"}, store.Snapshot().Filters)

	store.ApplyData(store.NextSequence(), dataWithRoutes("C"), time.Now())
	assert.Equal(t, model.FilterSelection{Route: "all", Status: "STOPPED_AT"}, store.Snapshot().Filters)
}

func TestStore_SetFiltersRejectsUnknownValues(t *testing.T) {
	store := New()
	store.ApplyData(store.NextSequence(), dataWithRoutes("A"), time.Now())

	state := store.SetFilters(model.FilterSelection{Route: "Z", Status: "FLYING"})
	assert.Equal(t, model.DefaultFilters(), state.Filters)

	state = store.SetFilters(model.FilterSelection{})
	assert.Equal(t, model.DefaultFilters(), state.Filters)
}

func TestStore_ApplyConfigIsSequenced(t *testing.T) {
	store := New()
	first := store.NextSequence()
	second := store.NextSequence()

	newer := model.SourceConfig{Sources: []model.Source{{Name: "new"}}}
	older := model.SourceConfig{Sources: []model.Source{{Name: "old"}}}

	assert.True(t, store.ApplyConfig(second, newer))
	assert.False(t, store.ApplyConfig(first, older))
	assert.Equal(t, "new", store.Snapshot().Config.Sources[0].Name)
}

func TestStore_SnapshotIsNotAffectedByLaterUpdates(t *testing.T) {
	store := New()
	store.ApplyData(store.NextSequence(), dataWithRoutes("A"), time.Now())
	before := store.Snapshot()

	store.ApplyData(store.NextSequence(), dataWithRoutes("B", "C"), time.Now())
	assert.Equal(t, "A", before.Data.VehiclePositions.Data[0].RouteID)
	assert.Equal(t, []string{"all", "A"}, before.RouteOptions)
}

func TestStore_ConcurrentReadersSeeCompleteStates(t *testing.T) {
	store := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.ApplyData(store.NextSequence(), dataWithRoutes("A", "B"), time.Now())
		}()
		go func() {
			defer wg.Done()
			state := store.Snapshot()
			if state.HasData {
				assert.Len(t, state.Data.VehiclePositions.Data, 2)
				assert.Equal(t, []string{"all", "A", "B"}, state.RouteOptions)
			}
		}()
	}
	wg.Wait()
}
