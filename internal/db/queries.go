package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Queries wraps the pool with typed accessors for the users and documents
// tables. Element rows go through the element package instead.
type Queries struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	CreatedAt   time.Time
}

type Document struct {
	ID        int64
	Name      string
	OwnerID   string
	CreatedAt time.Time
}

type CreateUserParams struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
}

func (q *Queries) CreateUser(ctx context.Context, p CreateUserParams) (User, error) {
	var u User
	err := q.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password, display_name, created_at`,
		p.ID, p.Email, p.Password, p.DisplayName,
	).Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := q.pool.QueryRow(ctx, `
		SELECT id, email, password, display_name, created_at
		FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	var u User
	err := q.pool.QueryRow(ctx, `
		SELECT id, email, password, display_name, created_at
		FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

type CreateDocumentParams struct {
	Name    string
	OwnerID string
}

func (q *Queries) CreateDocument(ctx context.Context, p CreateDocumentParams) (Document, error) {
	var d Document
	err := q.pool.QueryRow(ctx, `
		INSERT INTO documents (name, owner_id)
		VALUES ($1, $2)
		RETURNING id, name, owner_id, created_at`,
		p.Name, p.OwnerID,
	).Scan(&d.ID, &d.Name, &d.OwnerID, &d.CreatedAt)
	if err != nil {
		return Document{}, err
	}
	return d, nil
}

func (q *Queries) GetDocument(ctx context.Context, id int64) (Document, error) {
	var d Document
	err := q.pool.QueryRow(ctx, `
		SELECT id, name, owner_id, created_at
		FROM documents WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.Name, &d.OwnerID, &d.CreatedAt)
	return d, err
}

func (q *Queries) ListDocumentsByOwner(ctx context.Context, ownerID string) ([]Document, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT id, name, owner_id, created_at
		FROM documents WHERE owner_id = $1
		ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Name, &d.OwnerID, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (q *Queries) DeleteDocument(ctx context.Context, id int64, ownerID string) (int64, error) {
	tag, err := q.pool.Exec(ctx,
		"DELETE FROM documents WHERE id = $1 AND owner_id = $2", id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete document: %w", err)
	}
	return tag.RowsAffected(), nil
}
