package canvas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/10Vaibhav/CollabDraw/internal/shape"
)

func TestHTTPShapeServiceListShapes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/documents/7/elements", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"elements": []shape.Shape{
				shape.Shape{Kind: shape.KindRect, X: 1, Y: 2, Width: 3, Height: 4}.WithID(1),
			},
		})
	}))
	defer srv.Close()

	svc := NewHTTPShapeService(srv.URL, "tok")
	shapes, err := svc.ListShapes(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, shapes, 1)
	assert.Equal(t, shape.KindRect, shapes[0].Kind)
	require.NotNil(t, shapes[0].ID)
	assert.Equal(t, int64(1), *shapes[0].ID)
}

func TestHTTPShapeServiceDeleteShapes(t *testing.T) {
	var gotIDs []int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/elements", r.URL.Path)

		var body struct {
			IDs []int64 `json:"ids"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotIDs = body.IDs
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	svc := NewHTTPShapeService(srv.URL, "tok")
	require.NoError(t, svc.DeleteShapes(context.Background(), []int64{3, 5}))
	assert.Equal(t, []int64{3, 5}, gotIDs)

	// Empty batches never hit the network.
	srv.Close()
	assert.NoError(t, svc.DeleteShapes(context.Background(), nil))
}

func TestHTTPShapeServiceRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"elements": []shape.Shape{}})
	}))
	defer srv.Close()

	svc := NewHTTPShapeService(srv.URL, "")
	svc.retryDelay = time.Millisecond

	_, err := svc.ListShapes(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPShapeServiceGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewHTTPShapeService(srv.URL, "")
	svc.retryDelay = time.Millisecond

	err := svc.DeleteShapes(context.Background(), []int64{1})
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load(), "bounded retry stops after the limit")
}
