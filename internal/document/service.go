// Package document manages drawing documents: the rooms clients join over
// the websocket and the owner of every persisted element.
package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/10Vaibhav/CollabDraw/internal/db"
	"github.com/10Vaibhav/CollabDraw/internal/element"
	"github.com/10Vaibhav/CollabDraw/internal/shape"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrForbidden = errors.New("forbidden")
)

type Service struct {
	queries  *db.Queries
	elements element.Store
}

func NewService(queries *db.Queries, elements element.Store) *Service {
	return &Service{queries: queries, elements: elements}
}

type Document struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
}

func (s *Service) Create(ctx context.Context, name, ownerID string) (*Document, error) {
	doc, err := s.queries.CreateDocument(ctx, db.CreateDocumentParams{
		Name:    name,
		OwnerID: ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return dbDocumentToDocument(doc), nil
}

func (s *Service) Get(ctx context.Context, documentID int64) (*Document, error) {
	doc, err := s.queries.GetDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return dbDocumentToDocument(doc), nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]Document, error) {
	dbDocs, err := s.queries.ListDocumentsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	docs := make([]Document, len(dbDocs))
	for i, d := range dbDocs {
		docs[i] = *dbDocumentToDocument(d)
	}
	return docs, nil
}

func (s *Service) Delete(ctx context.Context, documentID int64, userID string) error {
	doc, err := s.queries.GetDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get document: %w", err)
	}

	if doc.OwnerID != userID {
		return ErrForbidden
	}

	_, err = s.queries.DeleteDocument(ctx, documentID, userID)
	return err
}

// ListElements returns every persisted shape of a document in creation
// order, ready for a canvas reload.
func (s *Service) ListElements(ctx context.Context, documentID int64) ([]shape.Shape, error) {
	if _, err := s.Get(ctx, documentID); err != nil {
		return nil, err
	}
	return s.elements.List(ctx, documentID)
}

func (s *Service) DeleteElements(ctx context.Context, ids []int64) error {
	return s.elements.Delete(ctx, ids)
}

func dbDocumentToDocument(d db.Document) *Document {
	return &Document{
		ID:        d.ID,
		Name:      d.Name,
		OwnerID:   d.OwnerID,
		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339),
	}
}
