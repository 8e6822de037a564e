package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/10Vaibhav/CollabDraw/internal/shape"
)

// ShapeService is the narrow view of the persistence collaborator an
// editing session consumes directly: full reload and batched delete. All
// other writes go through the relay.
type ShapeService interface {
	ListShapes(ctx context.Context, documentID int64) ([]shape.Shape, error)
	DeleteShapes(ctx context.Context, ids []int64) error
}

// HTTPShapeService reaches the persistence API over HTTP with a small
// bounded retry: transient failures back off linearly, and the caller
// falls back to a full reload when deletion ultimately fails.
type HTTPShapeService struct {
	baseURL string
	token   string
	client  *http.Client

	maxRetries int
	retryDelay time.Duration
}

func NewHTTPShapeService(baseURL, token string) *HTTPShapeService {
	return &HTTPShapeService{
		baseURL:    baseURL,
		token:      token,
		client:     &http.Client{Timeout: 10 * time.Second},
		maxRetries: 2,
		retryDelay: time.Second,
	}
}

func (s *HTTPShapeService) ListShapes(ctx context.Context, documentID int64) ([]shape.Shape, error) {
	var out struct {
		Elements []shape.Shape `json:"elements"`
	}
	err := s.retry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			fmt.Sprintf("%s/api/documents/%d/elements", s.baseURL, documentID), nil)
		if err != nil {
			return err
		}
		return s.do(req, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("list shapes: %w", err)
	}
	return out.Elements, nil
}

func (s *HTTPShapeService) DeleteShapes(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	body, err := json.Marshal(map[string][]int64{"ids": ids})
	if err != nil {
		return fmt.Errorf("marshal ids: %w", err)
	}
	err = s.retry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
			s.baseURL+"/api/elements", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		return s.do(req, nil)
	})
	if err != nil {
		return fmt.Errorf("delete shapes: %w", err)
	}
	return nil
}

func (s *HTTPShapeService) do(req *http.Request, out any) error {
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *HTTPShapeService) retry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == s.maxRetries {
			break
		}
		select {
		case <-time.After(s.retryDelay * time.Duration(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
