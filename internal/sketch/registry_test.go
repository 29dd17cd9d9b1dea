package sketch

import (
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ajinqya/sketchloop/internal/domain"
	"github.com/Ajinqya/sketchloop/internal/logger"
)

func newTestRegistry() *Registry {
	return NewRegistry(logger.NewTestLogger())
}

func testDescriptor(id string) Descriptor {
	return Descriptor{
		ID:     id,
		Render: func(*Context) {},
	}
}

func TestRegistry_RegisterNormalizes(t *testing.T) {
	r := newTestRegistry()

	require.NoError(t, r.Register(testDescriptor("orbit")))

	d, err := r.Get("orbit")
	require.NoError(t, err)

	// Defaults are fixed at registration
	assert.Equal(t, float64(DefaultFPS), d.FPS)
	assert.Equal(t, DefaultWidth, d.Width)
	assert.Equal(t, DefaultHeight, d.Height)
	assert.Equal(t, color.Black, d.Background)
	assert.Equal(t, "orbit", d.Name)
	assert.Equal(t, ShapeMinimal, d.Shape)
	assert.True(t, d.Infinite())
}

func TestRegistry_RegisterKeepsExplicitValues(t *testing.T) {
	r := newTestRegistry()

	require.NoError(t, r.Register(Descriptor{
		ID:       "custom",
		Name:     "Custom Thing",
		FPS:      24,
		Duration: 3 * time.Second,
		Width:    320,
		Height:   240,
		Shape:    ShapeFull,
		Render:   func(*Context) {},
	}))

	d, err := r.Get("custom")
	require.NoError(t, err)
	assert.Equal(t, 24.0, d.FPS)
	assert.Equal(t, 320, d.Width)
	assert.Equal(t, "Custom Thing", d.Name)
	assert.Equal(t, ShapeFull, d.Shape)
	assert.False(t, d.Infinite())
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := newTestRegistry()

	require.NoError(t, r.Register(testDescriptor("orbit")))
	assert.ErrorIs(t, r.Register(testDescriptor("orbit")), domain.ErrDuplicateSketch)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_RejectsInvalidDescriptors(t *testing.T) {
	r := newTestRegistry()

	var ce *domain.ConstructionError

	err := r.Register(Descriptor{Render: func(*Context) {}})
	require.Error(t, err)
	assert.True(t, errors.As(err, &ce))

	err = r.Register(Descriptor{ID: "no-render"})
	require.Error(t, err)
	assert.True(t, errors.As(err, &ce))
	assert.ErrorIs(t, err, domain.ErrNoRender)
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Get("nope")
	assert.ErrorIs(t, err, domain.ErrSketchNotFound)
}

func TestRegistry_ListSorted(t *testing.T) {
	r := newTestRegistry()

	require.NoError(t, r.Register(testDescriptor("zeta")))
	require.NoError(t, r.Register(testDescriptor("alpha")))
	require.NoError(t, r.Register(testDescriptor("mid")))

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].ID)
	assert.Equal(t, "mid", list[1].ID)
	assert.Equal(t, "zeta", list[2].ID)
}

func TestContext_Param(t *testing.T) {
	c := &Context{}
	assert.Equal(t, 0.5, c.Param("gain", 0.5))

	c.Params = map[string]float64{"gain": 2}
	assert.Equal(t, 2.0, c.Param("gain", 0.5))
	assert.Equal(t, 0.5, c.Param("missing", 0.5))
}
