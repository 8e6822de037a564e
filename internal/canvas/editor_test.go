package canvas

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/10Vaibhav/CollabDraw/internal/protocol"
	"github.com/10Vaibhav/CollabDraw/internal/shape"
)

type fakeShapeService struct {
	shapes    []shape.Shape
	deleted   [][]int64
	deleteErr error
	listCalls int
}

func (f *fakeShapeService) ListShapes(ctx context.Context, documentID int64) ([]shape.Shape, error) {
	f.listCalls++
	return f.shapes, nil
}

func (f *fakeShapeService) DeleteShapes(ctx context.Context, ids []int64) error {
	f.deleted = append(f.deleted, ids)
	return f.deleteErr
}

func newTestEditor(t *testing.T, svc ShapeService) (*Editor, *recorderConn, *Store) {
	t.Helper()
	conn := &recorderConn{}
	store := NewStore()
	sy, _ := newTestSync(conn, store)
	ed := NewEditor(context.Background(), store, sy, nil, svc, 7)
	return ed, conn, store
}

func TestEditorCreateRect(t *testing.T) {
	ed, conn, store := newTestEditor(t, nil)
	ed.SetTool(ToolRect)

	ed.PointerDown(10, 10)
	ed.PointerMove(50, 40)

	// The preview lives in the overlay, not the store.
	require.NotNil(t, ed.OverlayShape())
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, conn.byType(protocol.TypeDraw))

	ed.PointerUp(60, 50)

	assert.Nil(t, ed.OverlayShape())
	require.Equal(t, 1, store.Len())
	s, _ := store.At(0)
	assert.Equal(t, shape.Shape{Kind: shape.KindRect, X: 10, Y: 10, Width: 50, Height: 40}, s)
	assert.Nil(t, s.ID, "id arrives only with the relay ack")

	draws := conn.byType(protocol.TypeDraw)
	require.Len(t, draws, 1)
	assert.True(t, draws[0].Shape.Equal(s))
}

func TestEditorTinyDragCreatesNothing(t *testing.T) {
	tests := []struct {
		tool   Tool
		ex, ey float64
	}{
		{ToolRect, 11, 11},
		{ToolCircle, 11, 11},
		{ToolDiamond, 12, 10.5},
		{ToolEllipse, 11, 11},
		{ToolParallelogram, 10, 10},
	}

	for _, tt := range tests {
		t.Run(string(tt.tool), func(t *testing.T) {
			ed, conn, store := newTestEditor(t, nil)
			ed.SetTool(tt.tool)

			ed.PointerDown(10, 10)
			ed.PointerUp(tt.ex, tt.ey)

			assert.Equal(t, 0, store.Len())
			assert.Empty(t, conn.sent)
		})
	}
}

func TestEditorZeroLengthLineDiscarded(t *testing.T) {
	ed, conn, store := newTestEditor(t, nil)
	ed.SetTool(ToolLine)

	ed.PointerDown(10, 10)
	ed.PointerUp(10, 10)

	assert.Equal(t, 0, store.Len())
	assert.Empty(t, conn.sent)

	// Any nonzero extent is enough for a line.
	ed.PointerDown(10, 10)
	ed.PointerUp(11, 10)
	assert.Equal(t, 1, store.Len())
}

func TestEditorCreatedAckBindsID(t *testing.T) {
	ed, _, store := newTestEditor(t, nil)
	ed.SetTool(ToolRect)
	ed.PointerDown(0, 0)
	ed.PointerUp(50, 50)

	created, _ := store.At(0)
	ed.HandleMessage(&protocol.Message{
		Type:      protocol.TypeShapeCreated,
		TempShape: &created,
		DBID:      42,
	})

	s, _ := store.At(0)
	require.NotNil(t, s.ID)
	assert.Equal(t, int64(42), *s.ID)
}

func TestEditorDragMove(t *testing.T) {
	ed, conn, store := newTestEditor(t, nil)
	store.Append(shape.Shape{Kind: shape.KindRect, X: 0, Y: 0, Width: 100, Height: 100}.WithID(9))

	// (30, 0) is on the outline but away from every handle.
	ed.PointerDown(30, 0)
	idx, ok := ed.SelectionIndex()
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	ed.PointerMove(40, 20)
	s, _ := store.At(0)
	assert.Equal(t, 10.0, s.X)
	assert.Equal(t, 20.0, s.Y)

	// During the gesture only ephemeral updates go out.
	assert.Len(t, conn.byType(protocol.TypeRealtimeUpdate), 1)
	assert.Empty(t, conn.byType(protocol.TypeUpdate))

	ed.PointerUp(40, 20)
	updates := conn.byType(protocol.TypeUpdate)
	require.Len(t, updates, 1)
	assert.Equal(t, int64(9), updates[0].ShapeID)
	assert.Equal(t, map[string]float64{"x": 10, "y": 20, "width": 100, "height": 100}, updates[0].Update)
}

func TestEditorDragThrottlesEphemeral(t *testing.T) {
	conn := &recorderConn{}
	store := NewStore()
	sy, clock := newTestSync(conn, store)
	ed := NewEditor(context.Background(), store, sy, nil, nil, 7)
	store.Append(shape.Shape{Kind: shape.KindRect, X: 0, Y: 0, Width: 100, Height: 100}.WithID(9))

	ed.PointerDown(30, 0)
	for i := 0; i < 10; i++ {
		ed.PointerMove(31+float64(i), 0)
	}
	assert.Len(t, conn.byType(protocol.TypeRealtimeUpdate), 1, "all moves inside one throttle window collapse")

	clock.advance(DefaultThrottle)
	ed.PointerMove(50, 0)
	assert.Len(t, conn.byType(protocol.TypeRealtimeUpdate), 2)
}

func TestEditorResizeFromBaseline(t *testing.T) {
	ed, conn, store := newTestEditor(t, nil)
	store.Append(shape.Shape{Kind: shape.KindRect, X: 0, Y: 0, Width: 100, Height: 100}.WithID(3))

	// Grab the southeast handle and pull outward.
	ed.PointerDown(100, 100)
	ed.PointerMove(120, 130)

	s, _ := store.At(0)
	assert.Equal(t, 120.0, s.Width)
	assert.Equal(t, 130.0, s.Height)

	// The transform anchors on the gesture-start baseline: moving back to
	// the start restores the original geometry exactly.
	ed.PointerMove(100, 100)
	s, _ = store.At(0)
	assert.Equal(t, 100.0, s.Width)
	assert.Equal(t, 100.0, s.Height)

	ed.PointerUp(100, 100)
	assert.Len(t, conn.byType(protocol.TypeUpdate), 1)
}

func TestEditorResizeFloorsSize(t *testing.T) {
	ed, _, store := newTestEditor(t, nil)
	store.Append(shape.Shape{Kind: shape.KindRect, X: 0, Y: 0, Width: 100, Height: 100}.WithID(3))

	ed.PointerDown(100, 100)
	ed.PointerMove(5, 5) // would collapse to 5x5

	s, _ := store.At(0)
	assert.Equal(t, 10.0, s.Width)
	assert.Equal(t, 10.0, s.Height)
}

func TestEditorEraser(t *testing.T) {
	svc := &fakeShapeService{}
	ed, conn, store := newTestEditor(t, svc)
	store.Append(shape.Shape{Kind: shape.KindRect, X: 0, Y: 0, Width: 10, Height: 10}.WithID(1))
	store.Append(shape.Shape{Kind: shape.KindRect, X: 200, Y: 200, Width: 10, Height: 10}.WithID(2))

	ed.SetTool(ToolEraser)
	ed.PointerDown(0, 0)

	// Local removal and the durable delete happen immediately.
	assert.Equal(t, 1, store.Len())
	require.Len(t, svc.deleted, 1)
	assert.Equal(t, []int64{1}, svc.deleted[0])

	ed.PointerMove(5, 5)
	ed.PointerUp(5, 5)

	// A multi-point stroke is broadcast as an eraser action.
	draws := conn.byType(protocol.TypeDraw)
	require.Len(t, draws, 1)
	require.NotNil(t, draws[0].Shape)
	assert.Equal(t, shape.KindEraser, draws[0].Shape.Kind)
	assert.Equal(t, []shape.Coordinate{{X: 0, Y: 0}, {X: 5, Y: 5}}, draws[0].Shape.Points)
}

func TestEditorEraserSingleClickNotBroadcast(t *testing.T) {
	svc := &fakeShapeService{}
	ed, conn, store := newTestEditor(t, svc)
	store.Append(shape.Shape{Kind: shape.KindRect, X: 0, Y: 0, Width: 10, Height: 10}.WithID(1))

	ed.SetTool(ToolEraser)
	ed.PointerDown(0, 0)
	ed.PointerUp(0, 0)

	assert.Equal(t, 0, store.Len(), "local erase still applies")
	assert.Empty(t, conn.byType(protocol.TypeDraw))
}

func TestEditorEraseFailureTriggersReload(t *testing.T) {
	svc := &fakeShapeService{
		deleteErr: errors.New("boom"),
		shapes:    []shape.Shape{shape.Shape{Kind: shape.KindRect, X: 0, Y: 0, Width: 10, Height: 10}.WithID(1)},
	}
	ed, _, store := newTestEditor(t, svc)
	store.Append(shape.Shape{Kind: shape.KindRect, X: 0, Y: 0, Width: 10, Height: 10}.WithID(1))

	ed.SetTool(ToolEraser)
	ed.PointerDown(0, 0)

	assert.Equal(t, 1, svc.listCalls, "failed delete resynchronizes with a full reload")
	assert.Equal(t, 1, store.Len(), "reload restored the authoritative state")
}

func TestEditorHandleMessageDraw(t *testing.T) {
	ed, _, store := newTestEditor(t, nil)

	remote := shape.Shape{Kind: shape.KindCircle, CenterX: 5, CenterY: 5, Radius: 3}.WithID(8)
	ed.HandleMessage(&protocol.Message{Type: protocol.TypeDraw, Shape: &remote})

	require.Equal(t, 1, store.Len())
	s, _ := store.At(0)
	assert.True(t, s.Equal(remote))
}

func TestEditorHandleMessageEraserReplay(t *testing.T) {
	svc := &fakeShapeService{}
	ed, _, store := newTestEditor(t, svc)
	store.Append(shape.Shape{Kind: shape.KindRect, X: 0, Y: 0, Width: 10, Height: 10}.WithID(1))

	stroke := shape.Shape{Kind: shape.KindEraser, Points: []shape.Coordinate{{X: 0, Y: 0}}}
	ed.HandleMessage(&protocol.Message{Type: protocol.TypeDraw, Shape: &stroke})

	assert.Equal(t, 0, store.Len())
}

func TestEditorHandleMessageUpdates(t *testing.T) {
	ed, _, store := newTestEditor(t, nil)
	store.Append(shape.Shape{Kind: shape.KindRect, X: 0, Y: 0, Width: 10, Height: 10}.WithID(4))

	ed.HandleMessage(&protocol.Message{
		Type:    protocol.TypeRealtimeUpdate,
		ShapeID: 4,
		Update:  map[string]float64{"x": 30},
	})
	s, _ := store.At(0)
	assert.Equal(t, 30.0, s.X)

	ed.HandleMessage(&protocol.Message{
		Type:    protocol.TypeUpdate,
		ShapeID: 4,
		Update:  map[string]float64{"x": 60, "width": 20},
	})
	s, _ = store.At(0)
	assert.Equal(t, 60.0, s.X)
	assert.Equal(t, 20.0, s.Width)
}

func TestEditorHandleMessageUnknownTypeIgnored(t *testing.T) {
	ed, _, store := newTestEditor(t, nil)
	store.Append(shape.Shape{Kind: shape.KindRect, Width: 10, Height: 10}.WithID(1))

	ed.HandleMessage(&protocol.Message{Type: "mystery"})
	assert.Equal(t, 1, store.Len())
}

func TestEditorSetToolCancelsGesture(t *testing.T) {
	ed, conn, store := newTestEditor(t, nil)
	ed.SetTool(ToolRect)

	ed.PointerDown(0, 0)
	ed.PointerMove(50, 50)
	ed.SetTool(ToolSelect)
	ed.PointerUp(60, 60)

	assert.Equal(t, 0, store.Len(), "cancelled gesture commits nothing")
	assert.Empty(t, conn.byType(protocol.TypeDraw))
	assert.Nil(t, ed.OverlayShape())
}

func TestEditorSwitchingToolClearsSelection(t *testing.T) {
	ed, _, store := newTestEditor(t, nil)
	store.Append(shape.Shape{Kind: shape.KindRect, X: 0, Y: 0, Width: 100, Height: 100}.WithID(1))

	ed.PointerDown(30, 0)
	_, ok := ed.SelectionIndex()
	require.True(t, ok)

	ed.SetTool(ToolRect)
	_, ok = ed.SelectionIndex()
	assert.False(t, ok)
}

func TestEditorConcurrentPointerAndMessages(t *testing.T) {
	ed, _, store := newTestEditor(t, nil)
	for i := 0; i < 50; i++ {
		store.Append(shape.Shape{Kind: shape.KindRect, X: float64(i * 40), Y: 0, Width: 20, Height: 20})
	}
	ed.SetTool(ToolEraser)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		ed.PointerDown(0, 500)
		for i := 0; i < 200; i++ {
			ed.PointerMove(float64(i), 500)
		}
		ed.PointerUp(200, 500)
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			ed.HandleMessage(&protocol.Message{
				Type: protocol.TypeDraw,
				Shape: &shape.Shape{
					Kind:   shape.KindEraser,
					Points: []shape.Coordinate{{X: float64(i * 40), Y: 10}},
				},
			})
		}
	}()

	wg.Wait()
	assert.Equal(t, 0, store.Len(), "every rect lies on an eraser point")
}
