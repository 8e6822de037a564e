package canvas

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/10Vaibhav/CollabDraw/internal/geometry"
	"github.com/10Vaibhav/CollabDraw/internal/protocol"
	"github.com/10Vaibhav/CollabDraw/internal/shape"
)

// Tool selects what pointer gestures mean.
type Tool string

const (
	ToolSelect        Tool = "select"
	ToolEraser        Tool = "eraser"
	ToolRect          Tool = "rect"
	ToolCircle        Tool = "circle"
	ToolLine          Tool = "line"
	ToolArrow         Tool = "arrow"
	ToolDiamond       Tool = "diamond"
	ToolEllipse       Tool = "ellipse"
	ToolParallelogram Tool = "parallelogram"
)

// Creation epsilons: a released drag smaller than these is discarded.
const (
	createMinExtent = 2.0
	createMinRadius = 1.0
)

// Editor is the per-session editing state machine. It consumes normalized
// pointer events (the platform input layer collapses mouse and touch into
// one coordinate+phase stream), mutates the Store, drives the Renderer and
// emits sync messages. Pointer events arrive on the session's event loop
// while HandleMessage arrives on the inbound socket goroutine; mu
// serializes the two over the gesture state.
type Editor struct {
	ctx        context.Context
	store      *Store
	sync       *Sync
	renderer   Renderer
	shapes     ShapeService
	documentID int64

	mu   sync.Mutex
	tool Tool

	// drawing gesture
	drawing        bool
	startX, startY float64
	overlay        *shape.Shape

	// selection gesture
	selected   int // -1 = none
	dragging   bool
	resizing   bool
	handle     geometry.Handle
	baseline   *Baseline
	lastX      float64
	lastY      float64
	eraserPath []shape.Coordinate
}

func NewEditor(ctx context.Context, store *Store, sy *Sync, renderer Renderer, shapes ShapeService, documentID int64) *Editor {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	return &Editor{
		ctx:        ctx,
		store:      store,
		sync:       sy,
		renderer:   renderer,
		shapes:     shapes,
		documentID: documentID,
		tool:       ToolSelect,
		selected:   -1,
	}
}

// SetTool switches the active tool, cancelling any in-progress gesture.
// Switching away from the select tool clears the selection.
func (e *Editor) SetTool(t Tool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tool = t
	e.drawing = false
	e.dragging = false
	e.resizing = false
	e.handle = geometry.HandleNone
	e.baseline = nil
	e.overlay = nil
	e.eraserPath = nil

	if t != ToolSelect {
		e.selected = -1
		e.redrawStatic()
	}
	e.redraw()
}

func (e *Editor) Tool() Tool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tool
}

// PointerDown begins a gesture according to the active tool.
func (e *Editor) PointerDown(x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.tool {
	case ToolSelect:
		e.selectDown(x, y)
	case ToolEraser:
		e.drawing = true
		e.eraserPath = []shape.Coordinate{{X: x, Y: y}}
		e.erasePass()
	default:
		e.drawing = true
		e.startX, e.startY = x, y
	}
}

func (e *Editor) selectDown(x, y float64) {
	idx, hit := e.store.HitTest(x, y)
	if !hit {
		e.selected = -1
		e.redrawStatic()
		e.redraw()
		return
	}

	e.selected = idx
	s, _ := e.store.At(idx)

	if h := geometry.HandleAt(x, y, s); h != geometry.HandleNone {
		e.resizing = true
		e.handle = h
		baseline := SnapshotBaseline(s)
		e.baseline = &baseline
	} else {
		e.dragging = true
	}
	e.lastX, e.lastY = x, y

	e.redrawStatic()
	e.redraw()
}

// PointerMove advances the active gesture.
func (e *Editor) PointerMove(x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tool == ToolSelect {
		switch {
		case e.dragging && e.selected >= 0:
			e.store.MoveBy(e.selected, x-e.lastX, y-e.lastY)
			e.lastX, e.lastY = x, y
			e.redrawStatic()
			e.redraw()
			e.sync.SendRealtimeUpdate(e.selected)
		case e.resizing && e.selected >= 0 && e.baseline != nil:
			e.store.ResizeAt(e.selected, e.handle, x-e.lastX, y-e.lastY, *e.baseline)
			e.redrawStatic()
			e.redraw()
			e.sync.SendRealtimeUpdate(e.selected)
		}
		return
	}

	if !e.drawing {
		return
	}

	if e.tool == ToolEraser {
		e.eraserPath = append(e.eraserPath, shape.Coordinate{X: x, Y: y})
		e.erasePass()
		e.redraw()
		return
	}

	// Drawing preview: same construction rule as release, shown as an
	// overlay and never written into the store.
	s, _ := construct(e.tool, e.startX, e.startY, x, y)
	e.overlay = &s
	e.redraw()
}

// PointerUp completes the active gesture.
func (e *Editor) PointerUp(x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tool == ToolSelect {
		switch {
		case e.dragging:
			e.dragging = false
			if e.selected >= 0 {
				e.sync.SendDatabaseUpdate(e.selected)
			}
		case e.resizing:
			e.resizing = false
			e.handle = geometry.HandleNone
			e.baseline = nil
			if e.selected >= 0 {
				e.sync.SendDatabaseUpdate(e.selected)
			}
		}
		return
	}

	if !e.drawing {
		return
	}
	e.drawing = false

	if e.tool == ToolEraser {
		if len(e.eraserPath) > 1 {
			stroke := make([]shape.Coordinate, len(e.eraserPath))
			copy(stroke, e.eraserPath)
			e.sync.SendShape(shape.Shape{Kind: shape.KindEraser, Points: stroke})
		}
		e.eraserPath = nil
		e.redraw()
		return
	}

	e.overlay = nil
	s, ok := construct(e.tool, e.startX, e.startY, x, y)
	if ok {
		e.store.Append(s)
		e.redrawStatic()
		e.sync.SendShape(s)
	}
	e.redraw()
}

// erasePass removes everything the accumulated path touches, locally and
// immediately, then attempts one batched durable delete of the ids that
// had been persisted. On failure the session resynchronizes with a full
// reload instead of retrying the delete.
func (e *Editor) erasePass() {
	deletedIDs, erased := e.store.Erase(e.eraserPath, geometry.EraseTolerance)
	if erased {
		if e.selected >= e.store.Len() {
			e.selected = -1
		}
		e.redrawStatic()
		e.redraw()
	}
	if len(deletedIDs) == 0 || e.shapes == nil {
		return
	}
	if err := e.shapes.DeleteShapes(e.ctx, deletedIDs); err != nil {
		slog.Error("delete erased shapes", "error", err)
		if err := e.reload(e.ctx); err != nil {
			slog.Error("resync after failed delete", "error", err)
		}
	}
}

// Reload replaces the whole store from the persistence service. The
// ultimate consistency backstop: last full reload wins.
func (e *Editor) Reload(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reload(ctx)
}

func (e *Editor) reload(ctx context.Context) error {
	if e.shapes == nil {
		return nil
	}
	shapes, err := e.shapes.ListShapes(ctx, e.documentID)
	if err != nil {
		return err
	}
	e.store.ReplaceAll(shapes)
	e.selected = -1
	e.redrawStatic()
	e.redraw()
	return nil
}

// LoadShapes replaces the store with shapes fetched by the caller, for
// hosts that manage persistence themselves.
func (e *Editor) LoadShapes(shapes []shape.Shape) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store.ReplaceAll(shapes)
	e.selected = -1
	e.redrawStatic()
	e.redraw()
}

// Sync exposes the session's outbound sync for room control.
func (e *Editor) Sync() *Sync { return e.sync }

// HandleMessage applies one inbound relay message to local state. Safe to
// call from the socket goroutine while pointer events are in flight.
// Unrecognized types are logged and ignored, never fatal.
func (e *Editor) HandleMessage(msg *protocol.Message) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch msg.Type {
	case protocol.TypeDraw:
		if msg.Shape == nil {
			return
		}
		if msg.Shape.Kind == shape.KindEraser {
			e.eraserPath = msg.Shape.Points
			e.erasePass()
			e.eraserPath = nil
			return
		}
		e.store.Append(*msg.Shape)
		e.redrawStatic()
		e.redraw()

	case protocol.TypeRealtimeUpdate, protocol.TypeUpdate:
		if msg.Update == nil {
			return
		}
		if e.store.ApplyUpdate(msg.ShapeID, msg.Update) {
			e.redrawStatic()
			e.redraw()
		}

	case protocol.TypeShapeCreated:
		if msg.TempShape == nil {
			return
		}
		if !e.store.BindID(*msg.TempShape, msg.DBID) {
			slog.Debug("no local shape matched created ack", "dbId", msg.DBID)
		}

	case protocol.TypeJoinedRoom, protocol.TypeLeftRoom, protocol.TypePresence:
		// Presence rendering is outside the canvas core.

	case protocol.TypeError:
		slog.Warn("relay error", "message", msg.Message)

	default:
		slog.Warn("unknown message type", "type", msg.Type)
	}
}

// Renderer contract accessors.

func (e *Editor) VisibleShapes() []shape.Shape { return e.store.Shapes() }

func (e *Editor) SelectionIndex() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selected < 0 {
		return 0, false
	}
	return e.selected, true
}

func (e *Editor) OverlayShape() *shape.Shape {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.overlay
}

func (e *Editor) EraserTrail() []shape.Coordinate {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.eraserTrail()
}

func (e *Editor) eraserTrail() []shape.Coordinate {
	if e.tool != ToolEraser || len(e.eraserPath) == 0 {
		return nil
	}
	return e.eraserPath
}

func (e *Editor) redrawStatic() {
	e.renderer.RedrawStatic(e.store.Shapes(), e.selected)
}

func (e *Editor) redraw() {
	e.renderer.Redraw(Frame{
		Shapes:      e.store.Shapes(),
		Selection:   e.selected,
		Overlay:     e.overlay,
		EraserTrail: e.eraserTrail(),
	})
}

// construct builds the shape implied by a drag from (sx, sy) to (ex, ey)
// with the given tool. The second return reports whether the result
// exceeds the per-kind creation epsilon; previews use the shape either
// way, releases discard shapes that fail it.
func construct(tool Tool, sx, sy, ex, ey float64) (shape.Shape, bool) {
	switch tool {
	case ToolRect:
		w, h := ex-sx, ey-sy
		return shape.Shape{Kind: shape.KindRect, X: sx, Y: sy, Width: w, Height: h},
			math.Abs(w) > createMinExtent && math.Abs(h) > createMinExtent
	case ToolCircle:
		radius := math.Hypot(ex-sx, ey-sy) / 2
		return shape.Shape{
			Kind:    shape.KindCircle,
			CenterX: (sx + ex) / 2,
			CenterY: (sy + ey) / 2,
			Radius:  radius,
		}, radius > createMinRadius
	case ToolLine:
		return shape.Shape{Kind: shape.KindLine, StartX: sx, StartY: sy, EndX: ex, EndY: ey},
			sx != ex || sy != ey
	case ToolArrow:
		return shape.Shape{Kind: shape.KindArrow, StartX: sx, StartY: sy, EndX: ex, EndY: ey},
			sx != ex || sy != ey
	case ToolDiamond:
		w, h := ex-sx, ey-sy
		return shape.Shape{
			Kind:    shape.KindDiamond,
			CenterX: (sx + ex) / 2,
			CenterY: (sy + ey) / 2,
			Width:   w,
			Height:  h,
		}, math.Abs(w) > createMinExtent && math.Abs(h) > createMinExtent
	case ToolEllipse:
		rx := math.Abs(ex-sx) / 2
		ry := math.Abs(ey-sy) / 2
		return shape.Shape{
			Kind:    shape.KindEllipse,
			CenterX: (sx + ex) / 2,
			CenterY: (sy + ey) / 2,
			RadiusX: rx,
			RadiusY: ry,
		}, rx > createMinRadius && ry > createMinRadius
	case ToolParallelogram:
		w, h := ex-sx, ey-sy
		return shape.Shape{
			Kind:   shape.KindParallelogram,
			X:      sx,
			Y:      sy,
			Width:  w,
			Height: h,
			Skew:   w * 0.2,
		}, math.Abs(w) > createMinExtent && math.Abs(h) > createMinExtent
	default:
		return shape.Shape{}, false
	}
}
