// Package store holds the dashboard's application state.
//
// Readers get a State value that is never mutated afterwards: every update
// builds a new State and swaps it in under the lock.
package store

import (
	"sync"
	"time"

	"github.com/YoanAncelly/gtfs-viewer/internal/filter"
	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

type State struct {
	Data      model.AllData
	HasData   bool
	UpdatedAt time.Time

	Filters      model.FilterSelection
	RouteOptions []string

	Config    model.SourceConfig
	HasConfig bool
}

type Store struct {
	mu    sync.RWMutex
	state State

	sequence      uint64
	appliedData   uint64
	appliedConfig uint64
}

func New() *Store {
	return &Store{
		state: State{
			Filters:      model.DefaultFilters(),
			RouteOptions: filter.RouteOptions(nil),
		},
	}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

// NextSequence reserves the number a fetch must present when applying its
// response. Numbers are handed out in request order.
func (store *Store) NextSequence() uint64 {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.sequence++
	return store.sequence
}

// ApplyData replaces the snapshot unless a response to a later request has
// already been applied. It reports whether the data was applied.
func (store *Store) ApplyData(sequence uint64, data model.AllData, at time.Time) bool {
	store.mu.Lock()
	defer store.mu.Unlock()

	if sequence <= store.appliedData {
		return false
	}
	store.appliedData = sequence

	next := store.state
	next.Data = data
	next.HasData = true
	next.UpdatedAt = at
	next.RouteOptions = filter.RouteOptions(data.VehiclePositions.Data)
	next.Filters = model.FilterSelection{
		Route:  filter.ReconcileRoute(next.Filters.Route, next.RouteOptions),
		Status: next.Filters.Status,
	}

	store.state = next
	return true
}

func (store *Store) ApplyConfig(sequence uint64, config model.SourceConfig) bool {
	store.mu.Lock()
	defer store.mu.Unlock()

	if sequence <= store.appliedConfig {
		return false
	}
	store.appliedConfig = sequence

	next := store.state
	next.Config = config
	next.HasConfig = true
	store.state = next
	return true
}

// SetFilters stores a user selection. Values that are not currently offered
// fall back to "all".
func (store *Store) SetFilters(selection model.FilterSelection) State {
	store.mu.Lock()
	defer store.mu.Unlock()

	route := selection.Route
	if route == "" {
		route = model.FilterAll
	}

	next := store.state
	next.Filters = model.FilterSelection{
		Route:  filter.ReconcileRoute(route, next.RouteOptions),
		Status: filter.ReconcileStatus(selection.Status),
	}
	store.state = next
	return next
}
