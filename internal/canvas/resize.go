package canvas

import (
	"math"

	"github.com/10Vaibhav/CollabDraw/internal/geometry"
	"github.com/10Vaibhav/CollabDraw/internal/shape"
)

// Minimum sizes enforced during resize, per kind.
const (
	minRectSize   = 10.0
	minCircleSize = 5.0
)

// Baseline is the geometry snapshot captured when a resize gesture begins.
// Every subsequent transform is computed from it with the total pointer
// delta, never incrementally. Lines and arrows keep their raw endpoints
// since their bounds lose orientation.
type Baseline struct {
	Bounds geometry.Rect

	StartX, StartY float64
	EndX, EndY     float64
	HasEndpoints   bool
}

// SnapshotBaseline captures the resize baseline for a shape.
func SnapshotBaseline(s shape.Shape) Baseline {
	bounds, _ := geometry.BoundsOf(s)
	b := Baseline{Bounds: bounds}
	if s.Kind == shape.KindLine || s.Kind == shape.KindArrow {
		b.StartX, b.StartY = s.StartX, s.StartY
		b.EndX, b.EndY = s.EndX, s.EndY
		b.HasEndpoints = true
	}
	return b
}

func resizeShape(s *shape.Shape, handle geometry.Handle, dx, dy float64, baseline Baseline) {
	switch s.Kind {
	case shape.KindRect, shape.KindParallelogram:
		resizeRectangular(s, handle, dx, dy, baseline.Bounds)
	case shape.KindCircle:
		resizeCircle(s, handle, dx, dy, baseline.Bounds)
	case shape.KindDiamond:
		resizeDiamond(s, handle, dx, dy, baseline.Bounds)
	case shape.KindEllipse:
		resizeEllipse(s, handle, dx, dy, baseline.Bounds)
	case shape.KindLine, shape.KindArrow:
		resizeLine(s, handle, dx, dy, baseline)
	}
}

func resizeRectangular(s *shape.Shape, handle geometry.Handle, dx, dy float64, orig geometry.Rect) {
	x, y := orig.X, orig.Y
	w, h := orig.Width, orig.Height

	switch handle {
	case geometry.HandleNW:
		x += dx
		y += dy
		w -= dx
		h -= dy
	case geometry.HandleNE:
		y += dy
		w += dx
		h -= dy
	case geometry.HandleSW:
		x += dx
		w -= dx
		h += dy
	case geometry.HandleSE:
		w += dx
		h += dy
	case geometry.HandleN:
		y += dy
		h -= dy
	case geometry.HandleS:
		h += dy
	case geometry.HandleW:
		x += dx
		w -= dx
	case geometry.HandleE:
		w += dx
	}

	if math.Abs(w) < minRectSize {
		w = floorSigned(w, minRectSize)
	}
	if math.Abs(h) < minRectSize {
		h = floorSigned(h, minRectSize)
	}

	s.X, s.Y = x, y
	s.Width, s.Height = w, h
}

// floorSigned clamps v to the minimum size preserving its sign; a zero
// value collapses to the positive minimum.
func floorSigned(v, min float64) float64 {
	if v < 0 {
		return -min
	}
	return min
}

func resizeCircle(s *shape.Shape, handle geometry.Handle, dx, dy float64, orig geometry.Rect) {
	radius := orig.Width / 2
	switch handle {
	case geometry.HandleE:
		radius = math.Abs(orig.Width/2 + dx)
	case geometry.HandleW:
		radius = math.Abs(orig.Width/2 - dx)
	case geometry.HandleS:
		radius = math.Abs(orig.Height/2 + dy)
	case geometry.HandleN:
		radius = math.Abs(orig.Height/2 - dy)
	case geometry.HandleNE, geometry.HandleNW, geometry.HandleSE, geometry.HandleSW:
		avg := (math.Abs(dx) + math.Abs(dy)) / 2
		radius = math.Abs(orig.Width/2 + avg)
	}
	if radius < minCircleSize {
		radius = minCircleSize
	}
	s.Radius = radius
}

func resizeDiamond(s *shape.Shape, handle geometry.Handle, dx, dy float64, orig geometry.Rect) {
	w, h := orig.Width, orig.Height
	// A diamond handle sits on the bounds, half a diagonal from center, so
	// the size change is twice the handle delta.
	switch handle {
	case geometry.HandleE:
		w = math.Abs(orig.Width + dx*2)
	case geometry.HandleW:
		w = math.Abs(orig.Width - dx*2)
	case geometry.HandleS:
		h = math.Abs(orig.Height + dy*2)
	case geometry.HandleN:
		h = math.Abs(orig.Height - dy*2)
	case geometry.HandleNE, geometry.HandleNW, geometry.HandleSE, geometry.HandleSW:
		w = math.Abs(orig.Width + dx*2)
		h = math.Abs(orig.Height + dy*2)
	}
	if w < minRectSize {
		w = minRectSize
	}
	if h < minRectSize {
		h = minRectSize
	}
	s.Width = math.Copysign(w, signOrPositive(s.Width))
	s.Height = math.Copysign(h, signOrPositive(s.Height))
}

func signOrPositive(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func resizeEllipse(s *shape.Shape, handle geometry.Handle, dx, dy float64, orig geometry.Rect) {
	rx := orig.Width / 2
	ry := orig.Height / 2
	switch handle {
	case geometry.HandleE:
		rx = math.Abs(orig.Width/2 + dx)
	case geometry.HandleW:
		rx = math.Abs(orig.Width/2 - dx)
	case geometry.HandleS:
		ry = math.Abs(orig.Height/2 + dy)
	case geometry.HandleN:
		ry = math.Abs(orig.Height/2 - dy)
	case geometry.HandleNE, geometry.HandleNW, geometry.HandleSE, geometry.HandleSW:
		rx = math.Abs(orig.Width/2 + dx)
		ry = math.Abs(orig.Height/2 + dy)
	}
	if rx < minCircleSize {
		rx = minCircleSize
	}
	if ry < minCircleSize {
		ry = minCircleSize
	}
	s.RadiusX, s.RadiusY = rx, ry
}

// resizeLine moves only the endpoint(s) implied by the handle: corner and
// edge handles on the start side move the start point, handles on the end
// side move the end point.
func resizeLine(s *shape.Shape, handle geometry.Handle, dx, dy float64, baseline Baseline) {
	startX, startY := baseline.StartX, baseline.StartY
	endX, endY := baseline.EndX, baseline.EndY
	if !baseline.HasEndpoints {
		startX = math.Min(s.StartX, s.EndX)
		startY = math.Min(s.StartY, s.EndY)
		endX = math.Max(s.StartX, s.EndX)
		endY = math.Max(s.StartY, s.EndY)
	}

	switch handle {
	case geometry.HandleNW, geometry.HandleN, geometry.HandleW:
		s.StartX = startX + dx
		s.StartY = startY + dy
	case geometry.HandleNE, geometry.HandleE:
		s.EndX = endX + dx
		s.StartY = startY + dy
	case geometry.HandleSW, geometry.HandleS:
		s.StartX = startX + dx
		s.EndY = endY + dy
	case geometry.HandleSE:
		s.EndX = endX + dx
		s.EndY = endY + dy
	}
}
