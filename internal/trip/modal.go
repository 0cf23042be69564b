package trip

import "sync"

// Modal height bounds as fractions of the viewport height.
const (
	MinHeightFraction = 0.30
	MaxHeightFraction = 0.70
)

// DefaultViewportHeight is used until the client reports its own.
const DefaultViewportHeight = 800.0

// Modal identifiers.
const (
	ModalList   = "list"
	ModalDetail = "detail"
)

// DragController clamps the height of one draggable modal. The height is
// clamped on every update and is never transiently outside [min, max].
// There is no snapping on drag end.
type DragController struct {
	mu     sync.Mutex
	height float64
	min    float64
	max    float64
}

// NewDragController creates a controller for the given viewport height,
// starting at the minimum height.
func NewDragController(viewportHeight float64) *DragController {
	c := &DragController{}
	c.setViewportLocked(viewportHeight)
	return c
}

// ApplyDelta moves the modal by dy (positive grows the modal) and returns
// the clamped height.
func (c *DragController) ApplyDelta(dy float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.height = clamp(c.height+dy, c.min, c.max)
	return c.height
}

// Height returns the current clamped height.
func (c *DragController) Height() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

// Bounds returns the current [min, max] height bounds.
func (c *DragController) Bounds() (min, max float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.min, c.max
}

// SetViewport re-derives the bounds from a new viewport height and
// re-clamps the current height into them.
func (c *DragController) SetViewport(viewportHeight float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setViewportLocked(viewportHeight)
}

func (c *DragController) setViewportLocked(viewportHeight float64) {
	if viewportHeight <= 0 {
		viewportHeight = DefaultViewportHeight
	}

	c.min = viewportHeight * MinHeightFraction
	c.max = viewportHeight * MaxHeightFraction

	if c.height == 0 {
		c.height = c.min
		return
	}
	c.height = clamp(c.height, c.min, c.max)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
