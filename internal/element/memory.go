package element

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/10Vaibhav/CollabDraw/internal/shape"
)

// Memory is an in-process Store used in tests and when the server runs
// without a database. Ids are assigned from a serial counter; List returns
// shapes in id order, matching insertion order.
type Memory struct {
	mu       sync.Mutex
	nextID   int64
	elements map[int64]memoryElement
}

type memoryElement struct {
	documentID int64
	shape      shape.Shape
}

func NewMemory() *Memory {
	return &Memory{
		nextID:   1,
		elements: make(map[int64]memoryElement),
	}
}

func (m *Memory) Create(_ context.Context, documentID int64, s shape.Shape) (int64, error) {
	if s.Kind == shape.KindEraser {
		return 0, ErrNotPersistable
	}
	switch s.Kind {
	case shape.KindRect, shape.KindCircle, shape.KindLine, shape.KindArrow,
		shape.KindDiamond, shape.KindEllipse, shape.KindParallelogram:
	default:
		return 0, ErrNotPersistable
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	s.ID = &id
	m.elements[id] = memoryElement{documentID: documentID, shape: s}
	return id, nil
}

func (m *Memory) Update(_ context.Context, id int64, kind shape.Kind, fields map[string]float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.elements[id]
	if !ok {
		return ErrNotFound
	}
	if el.shape.Kind != kind {
		return ErrNotFound
	}
	el.shape.ApplyUpdate(fields)
	m.elements[id] = el
	return nil
}

func (m *Memory) Delete(_ context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.elements, id)
	}
	return nil
}

func (m *Memory) DeleteNear(_ context.Context, documentID int64, points []shape.Coordinate, tolerance float64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	for id, el := range m.elements {
		if el.documentID != documentID {
			continue
		}
		rep, ok := el.shape.Representative()
		if !ok {
			continue
		}
		for _, pt := range points {
			if math.Abs(rep.X-pt.X) <= tolerance && math.Abs(rep.Y-pt.Y) <= tolerance {
				delete(m.elements, id)
				deleted++
				break
			}
		}
	}
	return deleted, nil
}

func (m *Memory) List(_ context.Context, documentID int64) ([]shape.Shape, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.elements))
	for id, el := range m.elements {
		if el.documentID == documentID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	shapes := make([]shape.Shape, 0, len(ids))
	for _, id := range ids {
		shapes = append(shapes, m.elements[id].shape)
	}
	return shapes, nil
}
