package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/10Vaibhav/CollabDraw/internal/geometry"
	"github.com/10Vaibhav/CollabDraw/internal/shape"
)

func resized(s shape.Shape, handle geometry.Handle, dx, dy float64) shape.Shape {
	resizeShape(&s, handle, dx, dy, SnapshotBaseline(s))
	return s
}

func TestResizeRect(t *testing.T) {
	base := shape.Shape{Kind: shape.KindRect, X: 10, Y: 10, Width: 100, Height: 80}

	tests := []struct {
		name   string
		handle geometry.Handle
		dx, dy float64
		want   shape.Shape
	}{
		{
			name: "southeast grows", handle: geometry.HandleSE, dx: 20, dy: 10,
			want: shape.Shape{Kind: shape.KindRect, X: 10, Y: 10, Width: 120, Height: 90},
		},
		{
			name: "northwest moves origin", handle: geometry.HandleNW, dx: 5, dy: 5,
			want: shape.Shape{Kind: shape.KindRect, X: 15, Y: 15, Width: 95, Height: 75},
		},
		{
			name: "east only changes width", handle: geometry.HandleE, dx: 30, dy: 99,
			want: shape.Shape{Kind: shape.KindRect, X: 10, Y: 10, Width: 130, Height: 80},
		},
		{
			name: "north shrinks from top", handle: geometry.HandleN, dx: 0, dy: 20,
			want: shape.Shape{Kind: shape.KindRect, X: 10, Y: 30, Width: 100, Height: 60},
		},
		{
			name: "collapse floors at minimum", handle: geometry.HandleSE, dx: -95, dy: -75,
			want: shape.Shape{Kind: shape.KindRect, X: 10, Y: 10, Width: 10, Height: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resized(base, tt.handle, tt.dx, tt.dy))
		})
	}
}

func TestResizeCircle(t *testing.T) {
	base := shape.Shape{Kind: shape.KindCircle, CenterX: 50, CenterY: 50, Radius: 20}

	assert.Equal(t, 30.0, resized(base, geometry.HandleE, 10, 0).Radius)
	assert.Equal(t, 30.0, resized(base, geometry.HandleW, -10, 0).Radius)
	assert.Equal(t, 30.0, resized(base, geometry.HandleS, 0, 10).Radius)
	// Corner handles average the two deltas.
	assert.Equal(t, 30.0, resized(base, geometry.HandleSE, 10, 10).Radius)
	// The center never moves during a resize.
	got := resized(base, geometry.HandleSE, 10, 10)
	assert.Equal(t, 50.0, got.CenterX)
	assert.Equal(t, 50.0, got.CenterY)
	// Collapsing floors at the minimum radius.
	assert.Equal(t, 5.0, resized(base, geometry.HandleE, -19, 0).Radius)
}

func TestResizeDiamond(t *testing.T) {
	base := shape.Shape{Kind: shape.KindDiamond, CenterX: 50, CenterY: 50, Width: 40, Height: 20}

	// Edge handles sit half a diagonal out, so the size change doubles.
	got := resized(base, geometry.HandleE, 10, 0)
	assert.Equal(t, 60.0, got.Width)
	assert.Equal(t, 20.0, got.Height)

	got = resized(base, geometry.HandleSE, 5, 5)
	assert.Equal(t, 50.0, got.Width)
	assert.Equal(t, 30.0, got.Height)

	// Size floors apply.
	got = resized(base, geometry.HandleE, -18, 0)
	assert.Equal(t, 10.0, got.Width)
}

func TestResizeEllipse(t *testing.T) {
	base := shape.Shape{Kind: shape.KindEllipse, CenterX: 50, CenterY: 50, RadiusX: 30, RadiusY: 20}

	got := resized(base, geometry.HandleE, 10, 0)
	assert.Equal(t, 40.0, got.RadiusX)
	assert.Equal(t, 20.0, got.RadiusY)

	got = resized(base, geometry.HandleN, 0, -10)
	assert.Equal(t, 30.0, got.RadiusX)
	assert.Equal(t, 30.0, got.RadiusY)

	got = resized(base, geometry.HandleE, -29, 0)
	assert.Equal(t, 5.0, got.RadiusX)
}

func TestResizeLine(t *testing.T) {
	base := shape.Shape{Kind: shape.KindLine, StartX: 10, StartY: 10, EndX: 100, EndY: 100}

	// The northwest handle moves only the start point.
	got := resized(base, geometry.HandleNW, 5, 5)
	assert.Equal(t, shape.Shape{Kind: shape.KindLine, StartX: 15, StartY: 15, EndX: 100, EndY: 100}, got)

	// The southeast handle moves only the end point.
	got = resized(base, geometry.HandleSE, -10, 20)
	assert.Equal(t, shape.Shape{Kind: shape.KindLine, StartX: 10, StartY: 10, EndX: 90, EndY: 120}, got)

	// Mixed-corner handles split across both endpoints.
	got = resized(base, geometry.HandleNE, 5, 5)
	assert.Equal(t, shape.Shape{Kind: shape.KindLine, StartX: 10, StartY: 15, EndX: 105, EndY: 100}, got)
}
