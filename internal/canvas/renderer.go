package canvas

import "github.com/10Vaibhav/CollabDraw/internal/shape"

// Frame is everything a renderer needs for one deterministic redraw:
// committed shapes in paint order plus the transient overlay state. The
// editor rebuilds it on every mutation.
type Frame struct {
	Shapes []shape.Shape

	// Selection is the index of the selected shape, or -1.
	Selection int

	// Overlay is the in-progress drawing preview, never stored.
	Overlay *shape.Shape

	// EraserTrail is the live eraser stroke, rendered as a visual-only
	// trail.
	EraserTrail []shape.Coordinate
}

// Renderer is the two-layer compositor contract. RedrawStatic repaints the
// committed-shapes layer; Redraw composites the interactive layer (overlay,
// selection handles, eraser trail) over it. Implementations must tolerate
// being called on every pointer move.
type Renderer interface {
	RedrawStatic(shapes []shape.Shape, selection int)
	Redraw(frame Frame)
}

// NopRenderer discards every redraw. Useful for headless sessions and
// tests that only exercise state.
type NopRenderer struct{}

func (NopRenderer) RedrawStatic([]shape.Shape, int) {}
func (NopRenderer) Redraw(Frame)                    {}
