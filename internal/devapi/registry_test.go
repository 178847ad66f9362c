package devapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoanAncelly/gtfs-viewer/internal/api"
	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

func threeSources() model.SourceConfig {
	return model.SourceConfig{
		Sources: []model.Source{
			{Name: "A", UseLocalFiles: true},
			{Name: "B", TripUpdateURL: "http://b.example/tu.pb"},
			{Name: "C", AlertURL: "http://c.example/alerts.pb"},
		},
		CurrentSource: 2,
	}
}

func TestNewRegistry_DefaultsToLocalFiles(t *testing.T) {
	registry := NewRegistry(model.SourceConfig{CurrentSource: 4})
	config := registry.Config()
	assert.Equal(t, []model.Source{DefaultSource}, config.Sources)
	assert.Equal(t, 0, config.CurrentSource)
}

func TestRegistry_AddValidates(t *testing.T) {
	registry := NewRegistry(threeSources())

	_, err := registry.Add(model.Source{Name: "No URLs"})
	assert.True(t, api.IsValidation(err))

	index, err := registry.Add(model.Source{Name: " D ", AlertURL: " http://d.example/a.pb "})
	require.NoError(t, err)
	assert.Equal(t, 3, index)
	assert.Equal(t, model.Source{Name: "D", AlertURL: "http://d.example/a.pb"}, registry.Config().Sources[3])
}

func TestRegistry_IndexBounds(t *testing.T) {
	registry := NewRegistry(threeSources())

	assert.ErrorIs(t, registry.Update(3, model.Source{Name: "X", UseLocalFiles: true}), ErrInvalidIndex)
	assert.ErrorIs(t, registry.Remove(-1), ErrInvalidIndex)
	assert.ErrorIs(t, registry.SetCurrent(7), ErrInvalidIndex)

	require.NoError(t, registry.SetCurrent(1))
	assert.Equal(t, "B", registry.Current().Name)
}

func TestRegistry_RemoveKeepsCurrentSource(t *testing.T) {
	registry := NewRegistry(threeSources())

	require.NoError(t, registry.Remove(0))
	assert.Equal(t, "C", registry.Current().Name)
	assert.Equal(t, 1, registry.Config().CurrentSource)

	require.NoError(t, registry.Remove(1))
	assert.Equal(t, "B", registry.Current().Name)

	assert.ErrorIs(t, registry.Remove(0), ErrLastSource)
	assert.Len(t, registry.Config().Sources, 1)
}

func TestRegistry_ConfigIsACopy(t *testing.T) {
	registry := NewRegistry(threeSources())
	config := registry.Config()
	config.Sources[0].Name = "changed"
	assert.Equal(t, "A", registry.Config().Sources[0].Name)
}
