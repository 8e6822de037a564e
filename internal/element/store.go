// Package element is the durable shape store behind the relay. The relay
// is its sole writer; editing sessions read it over the HTTP API.
package element

import (
	"context"
	"errors"

	"github.com/10Vaibhav/CollabDraw/internal/shape"
)

var (
	ErrNotFound = errors.New("element not found")

	// ErrNotPersistable is returned when a shape kind that never reaches
	// storage (eraser, unknown) is handed to Create.
	ErrNotPersistable = errors.New("shape kind is not persistable")
)

// Store persists shapes keyed by document. Implementations must assign a
// unique durable id on Create.
type Store interface {
	Create(ctx context.Context, documentID int64, s shape.Shape) (int64, error)
	Update(ctx context.Context, id int64, kind shape.Kind, fields map[string]float64) error
	Delete(ctx context.Context, ids []int64) error

	// DeleteNear removes every shape whose representative coordinate lies
	// within tolerance of any of the given points. This is the coarse
	// server-side corroboration of a client's precise local erase; it can
	// over-delete nearby shapes of other kinds sharing coordinate ranges.
	DeleteNear(ctx context.Context, documentID int64, points []shape.Coordinate, tolerance float64) (int64, error)

	List(ctx context.Context, documentID int64) ([]shape.Shape, error)
}
