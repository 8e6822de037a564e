package element

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/10Vaibhav/CollabDraw/internal/shape"
)

// Postgres stores shapes in the elements table: one row per shape with
// nullable columns per kind, mirroring the wire field names.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// columnsFor maps update-field names to table columns, per kind. Fields
// outside the kind's whitelist are silently dropped so a malformed update
// can never touch another kind's columns.
func columnsFor(kind shape.Kind) map[string]string {
	switch kind {
	case shape.KindRect:
		return map[string]string{"x": "x", "y": "y", "width": "width", "height": "height"}
	case shape.KindCircle:
		return map[string]string{"centerX": "center_x", "centerY": "center_y", "radius": "radius"}
	case shape.KindLine, shape.KindArrow:
		return map[string]string{"startX": "start_x", "startY": "start_y", "endX": "end_x", "endY": "end_y"}
	case shape.KindDiamond:
		return map[string]string{"centerX": "center_x", "centerY": "center_y", "width": "width", "height": "height"}
	case shape.KindEllipse:
		return map[string]string{"centerX": "center_x", "centerY": "center_y", "radiusX": "radius_x", "radiusY": "radius_y"}
	case shape.KindParallelogram:
		return map[string]string{"x": "x", "y": "y", "width": "width", "height": "height", "skew": "skew"}
	default:
		return nil
	}
}

func (p *Postgres) Create(ctx context.Context, documentID int64, s shape.Shape) (int64, error) {
	cols := columnsFor(s.Kind)
	if cols == nil {
		return 0, ErrNotPersistable
	}

	names := []string{"document_id", "type"}
	args := []any{documentID, string(s.Kind)}
	fields := s.UpdateFields()
	// Deterministic column order keeps the statement cacheable.
	for _, field := range orderedFields(s.Kind) {
		names = append(names, cols[field])
		args = append(args, fields[field])
	}

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO elements (%s) VALUES (%s) RETURNING id",
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "),
	)

	var id int64
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert element: %w", err)
	}
	return id, nil
}

func orderedFields(kind shape.Kind) []string {
	switch kind {
	case shape.KindRect:
		return []string{"x", "y", "width", "height"}
	case shape.KindCircle:
		return []string{"centerX", "centerY", "radius"}
	case shape.KindLine, shape.KindArrow:
		return []string{"startX", "startY", "endX", "endY"}
	case shape.KindDiamond:
		return []string{"centerX", "centerY", "width", "height"}
	case shape.KindEllipse:
		return []string{"centerX", "centerY", "radiusX", "radiusY"}
	case shape.KindParallelogram:
		return []string{"x", "y", "width", "height", "skew"}
	default:
		return nil
	}
}

func (p *Postgres) Update(ctx context.Context, id int64, kind shape.Kind, fields map[string]float64) error {
	cols := columnsFor(kind)
	if cols == nil {
		return ErrNotPersistable
	}

	sets := make([]string, 0, len(fields))
	args := []any{id}
	for _, field := range orderedFields(kind) {
		v, ok := fields[field]
		if !ok {
			continue
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", cols[field], len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, string(kind))
	query := fmt.Sprintf("UPDATE elements SET %s WHERE id = $1 AND type = $%d",
		strings.Join(sets, ", "), len(args))

	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update element: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := p.pool.Exec(ctx, "DELETE FROM elements WHERE id = ANY($1)", ids); err != nil {
		return fmt.Errorf("delete elements: %w", err)
	}
	return nil
}

func (p *Postgres) DeleteNear(ctx context.Context, documentID int64, points []shape.Coordinate, tolerance float64) (int64, error) {
	var deleted int64
	for _, pt := range points {
		tag, err := p.pool.Exec(ctx, `
			DELETE FROM elements
			WHERE document_id = $1 AND (
				(x IS NOT NULL AND y IS NOT NULL
					AND x BETWEEN $2 AND $3 AND y BETWEEN $4 AND $5)
				OR (center_x IS NOT NULL AND center_y IS NOT NULL
					AND center_x BETWEEN $2 AND $3 AND center_y BETWEEN $4 AND $5)
				OR (start_x IS NOT NULL AND start_y IS NOT NULL
					AND start_x BETWEEN $2 AND $3 AND start_y BETWEEN $4 AND $5)
			)`,
			documentID,
			pt.X-tolerance, pt.X+tolerance,
			pt.Y-tolerance, pt.Y+tolerance,
		)
		if err != nil {
			return deleted, fmt.Errorf("delete elements near point: %w", err)
		}
		deleted += tag.RowsAffected()
	}
	return deleted, nil
}

func (p *Postgres) List(ctx context.Context, documentID int64) ([]shape.Shape, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, type, x, y, width, height,
		       center_x, center_y, radius, radius_x, radius_y,
		       start_x, start_y, end_x, end_y, skew
		FROM elements
		WHERE document_id = $1
		ORDER BY id`,
		documentID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("list elements: %w", err)
	}
	defer rows.Close()

	var shapes []shape.Shape
	for rows.Next() {
		var (
			id   int64
			kind string
			x, y, width, height, centerX, centerY,
			radius, radiusX, radiusY,
			startX, startY, endX, endY, skew sql.NullFloat64
		)
		if err := rows.Scan(&id, &kind, &x, &y, &width, &height,
			&centerX, &centerY, &radius, &radiusX, &radiusY,
			&startX, &startY, &endX, &endY, &skew); err != nil {
			return nil, fmt.Errorf("scan element: %w", err)
		}

		s := shape.Shape{
			Kind:    shape.Kind(kind),
			X:       x.Float64,
			Y:       y.Float64,
			Width:   width.Float64,
			Height:  height.Float64,
			CenterX: centerX.Float64,
			CenterY: centerY.Float64,
			Radius:  radius.Float64,
			RadiusX: radiusX.Float64,
			RadiusY: radiusY.Float64,
			StartX:  startX.Float64,
			StartY:  startY.Float64,
			EndX:    endX.Float64,
			EndY:    endY.Float64,
			Skew:    skew.Float64,
		}
		s.ID = &id
		shapes = append(shapes, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate elements: %w", err)
	}
	return shapes, nil
}
