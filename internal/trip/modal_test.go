package trip

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDragController_BoundsFromViewport(t *testing.T) {
	c := NewDragController(1000)

	min, max := c.Bounds()
	assert.Equal(t, 300.0, min, "min is 30% of viewport")
	assert.Equal(t, 700.0, max, "max is 70% of viewport")
	assert.Equal(t, 300.0, c.Height(), "starts at min height")
}

func TestDragController_ApplyDelta(t *testing.T) {
	c := NewDragController(1000)

	assert.Equal(t, 500.0, c.ApplyDelta(200))
	assert.Equal(t, 450.0, c.ApplyDelta(-50))
}

func TestDragController_ClampsOvershoot(t *testing.T) {
	c := NewDragController(1000)

	assert.Equal(t, 700.0, c.ApplyDelta(5000), "large upward drag clamps to max")
	assert.Equal(t, 300.0, c.ApplyDelta(-5000), "large downward drag clamps to min")

	// Repeated overshoot never accumulates beyond the bounds.
	for range 5 {
		assert.Equal(t, 300.0, c.ApplyDelta(-1000))
	}
	assert.Equal(t, 700.0, c.ApplyDelta(10000))
}

func TestDragController_SetViewportReclamps(t *testing.T) {
	c := NewDragController(1000)
	c.ApplyDelta(400) // 700, at max

	c.SetViewport(500)
	min, max := c.Bounds()
	assert.Equal(t, 150.0, min)
	assert.Equal(t, 350.0, max)
	assert.Equal(t, 350.0, c.Height(), "height re-clamped into new bounds")
}

func TestDragController_ZeroViewportUsesDefault(t *testing.T) {
	c := NewDragController(0)

	min, max := c.Bounds()
	assert.Equal(t, DefaultViewportHeight*MinHeightFraction, min)
	assert.Equal(t, DefaultViewportHeight*MaxHeightFraction, max)
}

func TestSession_IndependentModals(t *testing.T) {
	m := NewSessionManager(newScriptedFetcher(), zerolog.Nop())
	s := m.Get("usr_1")

	s.ListModal.ApplyDelta(200)
	assert.Equal(t, DefaultViewportHeight*MinHeightFraction+200, s.ListModal.Height())
	assert.Equal(t, DefaultViewportHeight*MinHeightFraction, s.DetailModal.Height(),
		"dragging one modal leaves the other untouched")
}

func TestSession_ModalLookup(t *testing.T) {
	m := NewSessionManager(newScriptedFetcher(), zerolog.Nop())
	s := m.Get("usr_1")

	assert.Same(t, s.ListModal, s.Modal(ModalList))
	assert.Same(t, s.DetailModal, s.Modal(ModalDetail))
	assert.Nil(t, s.Modal("sidebar"))
}

func TestSessionManager_OneSessionPerUser(t *testing.T) {
	m := NewSessionManager(newScriptedFetcher(), zerolog.Nop())

	first := m.Get("usr_1")
	second := m.Get("usr_1")
	other := m.Get("usr_2")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, m.Count())

	m.Remove("usr_1")
	assert.Equal(t, 1, m.Count())
	require.NotSame(t, first, m.Get("usr_1"), "removed session is rebuilt fresh")
}
