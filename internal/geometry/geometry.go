// Package geometry provides pure spatial queries over shapes: bounding
// boxes, resize-handle hit-testing and near-outline predicates. Nothing in
// this package mutates a shape or holds state.
package geometry

import (
	"math"

	"github.com/10Vaibhav/CollabDraw/internal/shape"
)

// Rect is a normalized axis-aligned box: X/Y is the minimum corner and
// Width/Height are non-negative.
type Rect struct {
	X, Y, Width, Height float64
}

// Handle identifies one of the eight resize handles, or none.
type Handle string

const (
	HandleNone Handle = ""
	HandleNW   Handle = "nw"
	HandleNE   Handle = "ne"
	HandleSW   Handle = "sw"
	HandleSE   Handle = "se"
	HandleN    Handle = "n"
	HandleS    Handle = "s"
	HandleW    Handle = "w"
	HandleE    Handle = "e"
)

const (
	handleSize      = 8.0
	handleTolerance = 4.0

	// SelectTolerance is the near-outline tolerance for selection hit-tests.
	SelectTolerance = 10.0
	// EraseTolerance is the near-outline tolerance for erase hit-tests.
	EraseTolerance = 15.0
)

// BoundsOf returns the normalized bounding box of a shape. The second
// return is false for eraser actions and unknown kinds, which have no
// selectable bounds. An axis-aligned line or arrow degenerates to a
// 10-unit thickness so its handles stay selectable.
func BoundsOf(s shape.Shape) (Rect, bool) {
	switch s.Kind {
	case shape.KindRect, shape.KindParallelogram:
		return Rect{
			X:      math.Min(s.X, s.X+s.Width),
			Y:      math.Min(s.Y, s.Y+s.Height),
			Width:  math.Abs(s.Width),
			Height: math.Abs(s.Height),
		}, true
	case shape.KindCircle:
		return Rect{
			X:      s.CenterX - s.Radius,
			Y:      s.CenterY - s.Radius,
			Width:  s.Radius * 2,
			Height: s.Radius * 2,
		}, true
	case shape.KindLine, shape.KindArrow:
		minX := math.Min(s.StartX, s.EndX)
		minY := math.Min(s.StartY, s.EndY)
		w := math.Max(s.StartX, s.EndX) - minX
		h := math.Max(s.StartY, s.EndY) - minY
		if w == 0 {
			w = 10
		}
		if h == 0 {
			h = 10
		}
		return Rect{X: minX, Y: minY, Width: w, Height: h}, true
	case shape.KindDiamond:
		halfW := math.Abs(s.Width) / 2
		halfH := math.Abs(s.Height) / 2
		return Rect{
			X:      s.CenterX - halfW,
			Y:      s.CenterY - halfH,
			Width:  math.Abs(s.Width),
			Height: math.Abs(s.Height),
		}, true
	case shape.KindEllipse:
		return Rect{
			X:      s.CenterX - s.RadiusX,
			Y:      s.CenterY - s.RadiusY,
			Width:  s.RadiusX * 2,
			Height: s.RadiusY * 2,
		}, true
	default:
		return Rect{}, false
	}
}

// HandleAt returns the resize handle under (x, y) for the shape, or
// HandleNone. Handles are 8x8 boxes centered on the bounds corners and
// edge midpoints, with a few pixels of tolerance. Evaluation order is
// fixed (nw, ne, sw, se, n, s, w, e) and the first match wins.
func HandleAt(x, y float64, s shape.Shape) Handle {
	bounds, ok := BoundsOf(s)
	if !ok {
		return HandleNone
	}

	half := handleSize / 2
	candidates := []struct {
		x, y   float64
		handle Handle
	}{
		{bounds.X - half, bounds.Y - half, HandleNW},
		{bounds.X + bounds.Width - half, bounds.Y - half, HandleNE},
		{bounds.X - half, bounds.Y + bounds.Height - half, HandleSW},
		{bounds.X + bounds.Width - half, bounds.Y + bounds.Height - half, HandleSE},
		{bounds.X + bounds.Width/2 - half, bounds.Y - half, HandleN},
		{bounds.X + bounds.Width/2 - half, bounds.Y + bounds.Height - half, HandleS},
		{bounds.X - half, bounds.Y + bounds.Height/2 - half, HandleW},
		{bounds.X + bounds.Width - half, bounds.Y + bounds.Height/2 - half, HandleE},
	}

	for _, c := range candidates {
		if x >= c.x-handleTolerance && x <= c.x+handleSize+handleTolerance &&
			y >= c.y-handleTolerance && y <= c.y+handleSize+handleTolerance {
			return c.handle
		}
	}
	return HandleNone
}

// DistanceToSegment returns the Euclidean distance from (px, py) to the
// segment (x1, y1)-(x2, y2), clamping the projection parameter to [0, 1].
func DistanceToSegment(px, py, x1, y1, x2, y2 float64) float64 {
	a := px - x1
	b := py - y1
	c := x2 - x1
	d := y2 - y1

	lenSq := c*c + d*d
	param := -1.0
	if lenSq != 0 {
		param = (a*c + b*d) / lenSq
	}

	var xx, yy float64
	switch {
	case param < 0:
		xx, yy = x1, y1
	case param > 1:
		xx, yy = x2, y2
	default:
		xx, yy = x1+param*c, y1+param*d
	}
	return math.Hypot(px-xx, py-yy)
}

// NearRectOutline reports whether the point lies in the tolerance band
// around the rect border: inside the tolerance-expanded outer box but
// outside the tolerance-shrunk inner box. The interior does not count.
func NearRectOutline(px, py float64, r Rect, tolerance float64) bool {
	outerX := r.X - tolerance
	outerY := r.Y - tolerance
	outerW := r.Width + 2*tolerance
	outerH := r.Height + 2*tolerance

	innerX := r.X + tolerance
	innerY := r.Y + tolerance
	innerW := r.Width - 2*tolerance
	innerH := r.Height - 2*tolerance

	inOuter := px > outerX && px < outerX+outerW && py > outerY && py < outerY+outerH
	inInner := px > innerX && px < innerX+innerW && py > innerY && py < innerY+innerH
	return inOuter && !inInner
}

// NearCircle reports whether the point is within tolerance of the circle's
// circumference.
func NearCircle(px, py, centerX, centerY, radius, tolerance float64) bool {
	dist := math.Hypot(px-centerX, py-centerY)
	return math.Abs(dist-radius) <= tolerance
}

// NearDiamond reports whether the point is within tolerance of any of the
// diamond's four edges.
func NearDiamond(px, py, centerX, centerY, width, height, tolerance float64) bool {
	halfW := math.Abs(width) / 2
	halfH := math.Abs(height) / 2
	topX, topY := centerX, centerY-halfH
	rightX, rightY := centerX+halfW, centerY
	bottomX, bottomY := centerX, centerY+halfH
	leftX, leftY := centerX-halfW, centerY

	return DistanceToSegment(px, py, topX, topY, rightX, rightY) <= tolerance ||
		DistanceToSegment(px, py, rightX, rightY, bottomX, bottomY) <= tolerance ||
		DistanceToSegment(px, py, bottomX, bottomY, leftX, leftY) <= tolerance ||
		DistanceToSegment(px, py, leftX, leftY, topX, topY) <= tolerance
}

// NearEllipse approximates whether the point is near the ellipse boundary
// using the normalized implicit equation, with the tolerance scaled by the
// smaller radius. Not geometrically exact for eccentric ellipses; the
// error grows with the radius ratio.
func NearEllipse(px, py, centerX, centerY, radiusX, radiusY, tolerance float64) bool {
	if radiusX <= 0 || radiusY <= 0 {
		return false
	}
	dx := px - centerX
	dy := py - centerY
	normalized := (dx*dx)/(radiusX*radiusX) + (dy*dy)/(radiusY*radiusY)
	return math.Abs(normalized-1) <= tolerance/math.Min(radiusX, radiusY)
}

// NearParallelogram reports whether the point is within tolerance of any of
// the parallelogram's four edges. The top edge is shifted by the skew.
func NearParallelogram(px, py float64, p shape.Shape, tolerance float64) bool {
	tlX, tlY := p.X+p.Skew, p.Y
	trX, trY := p.X+p.Width+p.Skew, p.Y
	brX, brY := p.X+p.Width, p.Y+p.Height
	blX, blY := p.X, p.Y+p.Height

	return DistanceToSegment(px, py, tlX, tlY, trX, trY) <= tolerance ||
		DistanceToSegment(px, py, trX, trY, brX, brY) <= tolerance ||
		DistanceToSegment(px, py, brX, brY, blX, blY) <= tolerance ||
		DistanceToSegment(px, py, blX, blY, tlX, tlY) <= tolerance
}

// IsPointInside reports whether (x, y) hits the shape's outline within the
// given tolerance. One predicate per kind; unknown kinds and eraser
// actions never match. Zero or negative radii make a shape unselectable
// rather than an error.
func IsPointInside(s shape.Shape, x, y, tolerance float64) bool {
	switch s.Kind {
	case shape.KindRect, shape.KindParallelogram:
		if s.Kind == shape.KindParallelogram {
			return NearParallelogram(x, y, s, tolerance)
		}
		bounds, ok := BoundsOf(s)
		if !ok {
			return false
		}
		return NearRectOutline(x, y, bounds, tolerance)
	case shape.KindCircle:
		if s.Radius <= 0 {
			return false
		}
		return NearCircle(x, y, s.CenterX, s.CenterY, s.Radius, tolerance)
	case shape.KindLine, shape.KindArrow:
		return DistanceToSegment(x, y, s.StartX, s.StartY, s.EndX, s.EndY) <= tolerance
	case shape.KindDiamond:
		return NearDiamond(x, y, s.CenterX, s.CenterY, s.Width, s.Height, tolerance)
	case shape.KindEllipse:
		return NearEllipse(x, y, s.CenterX, s.CenterY, s.RadiusX, s.RadiusY, tolerance)
	default:
		return false
	}
}
