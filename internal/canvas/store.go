// Package canvas holds one editing session's client-side state: the
// ordered shape store, the pointer-driven editing state machine, the
// outbound sync throttle and the inbound message dispatch. All canvas
// mutations are synchronous; the only suspension points are the network
// calls made by the sync layer.
package canvas

import (
	"sync"

	"github.com/10Vaibhav/CollabDraw/internal/geometry"
	"github.com/10Vaibhav/CollabDraw/internal/shape"
)

// Store is the ordered, mutable shape collection for one document view.
// Insertion order is z-order: the last inserted shape paints on top and
// wins hit-test ties. Indices are stable only within a single synchronous
// mutation; a full reload replaces the whole sequence.
//
// The mutex guards against the inbound socket goroutine racing the
// pointer-event caller. No lock is held across a network call.
type Store struct {
	mu     sync.RWMutex
	shapes []shape.Shape
}

func NewStore() *Store {
	return &Store{}
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.shapes)
}

// Shapes returns a copy of the sequence in paint order.
func (st *Store) Shapes() []shape.Shape {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]shape.Shape, len(st.shapes))
	copy(out, st.shapes)
	return out
}

// At returns the shape at index i, or false if the index is stale.
func (st *Store) At(i int) (shape.Shape, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if i < 0 || i >= len(st.shapes) {
		return shape.Shape{}, false
	}
	return st.shapes[i], true
}

func (st *Store) Append(s shape.Shape) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.shapes = append(st.shapes, s)
}

// ReplaceAll swaps in a freshly loaded sequence. Last full reload wins.
func (st *Store) ReplaceAll(shapes []shape.Shape) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.shapes = make([]shape.Shape, len(shapes))
	copy(st.shapes, shapes)
}

// HitTest returns the index of the topmost shape whose outline is within
// the selection tolerance of (x, y). Iteration is in reverse so the most
// recently inserted shape wins.
func (st *Store) HitTest(x, y float64) (int, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for i := len(st.shapes) - 1; i >= 0; i-- {
		if geometry.IsPointInside(st.shapes[i], x, y, geometry.SelectTolerance) {
			return i, true
		}
	}
	return 0, false
}

// MoveBy translates the shape at index i by the pointer delta.
func (st *Store) MoveBy(i int, dx, dy float64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if i < 0 || i >= len(st.shapes) {
		return
	}
	st.shapes[i].Translate(dx, dy)
}

// ResizeAt applies a handle-specific transform against the baseline
// captured at gesture start. The baseline, not the current shape, anchors
// the transform so repeated moves do not accumulate drift.
func (st *Store) ResizeAt(i int, handle geometry.Handle, dx, dy float64, baseline Baseline) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if i < 0 || i >= len(st.shapes) {
		return
	}
	resizeShape(&st.shapes[i], handle, dx, dy, baseline)
}

// ApplyUpdate overwrites the carried fields of the shape with the given
// durable id. Returns false when no shape with that id exists locally, in
// which case the update is ignored.
func (st *Store) ApplyUpdate(id int64, fields map[string]float64) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.shapes {
		if st.shapes[i].ID != nil && *st.shapes[i].ID == id {
			st.shapes[i].ApplyUpdate(fields)
			return true
		}
	}
	return false
}

// BindID attaches a relay-assigned durable id to the most recently created
// id-less shape structurally equal to temp. Returns false when no match
// remains (the shape may have been erased before the ack arrived).
func (st *Store) BindID(temp shape.Shape, id int64) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := len(st.shapes) - 1; i >= 0; i-- {
		if st.shapes[i].ID == nil && st.shapes[i].Equal(temp) {
			st.shapes[i].ID = &id
			return true
		}
	}
	return false
}

// Erase removes every shape whose outline is within tolerance of any point
// on the path. Shapes that had a durable id are returned for batched
// server-side deletion; id-less shapes are simply dropped. The second
// return reports whether anything was removed.
func (st *Store) Erase(points []shape.Coordinate, tolerance float64) ([]int64, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	var deletedIDs []int64
	kept := st.shapes[:0]
	erased := false

	for _, s := range st.shapes {
		hit := false
		for _, pt := range points {
			if geometry.IsPointInside(s, pt.X, pt.Y, tolerance) {
				hit = true
				break
			}
		}
		if hit {
			erased = true
			if s.ID != nil {
				deletedIDs = append(deletedIDs, *s.ID)
			}
			continue
		}
		kept = append(kept, s)
	}
	st.shapes = kept
	return deletedIDs, erased
}
