package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/10Vaibhav/CollabDraw/internal/geometry"
	"github.com/10Vaibhav/CollabDraw/internal/shape"
)

func TestStoreHitTestTopmostWins(t *testing.T) {
	st := NewStore()
	st.Append(shape.Shape{Kind: shape.KindRect, X: 0, Y: 0, Width: 100, Height: 100})
	st.Append(shape.Shape{Kind: shape.KindRect, X: 0, Y: 0, Width: 100, Height: 100})

	idx, ok := st.HitTest(100, 50)
	require.True(t, ok)
	assert.Equal(t, 1, idx, "later shape paints on top and wins the tie")

	_, ok = st.HitTest(500, 500)
	assert.False(t, ok)
}

func TestStoreApplyUpdate(t *testing.T) {
	st := NewStore()
	st.Append(shape.Shape{Kind: shape.KindRect, X: 0, Y: 0, Width: 10, Height: 10}.WithID(3))

	assert.True(t, st.ApplyUpdate(3, map[string]float64{"x": 50}))
	s, _ := st.At(0)
	assert.Equal(t, 50.0, s.X)

	assert.False(t, st.ApplyUpdate(99, map[string]float64{"x": 1}), "unknown id is ignored")
}

func TestStoreBindID(t *testing.T) {
	st := NewStore()
	temp := shape.Shape{Kind: shape.KindCircle, CenterX: 5, CenterY: 5, Radius: 2}
	st.Append(temp)

	require.True(t, st.BindID(temp, 17))
	s, _ := st.At(0)
	require.NotNil(t, s.ID)
	assert.Equal(t, int64(17), *s.ID)

	// A second ack for the same geometry has nothing left to bind.
	assert.False(t, st.BindID(temp, 18))
}

func TestStoreBindIDPrefersNewest(t *testing.T) {
	st := NewStore()
	temp := shape.Shape{Kind: shape.KindRect, X: 1, Y: 1, Width: 5, Height: 5}
	st.Append(temp)
	st.Append(temp)

	require.True(t, st.BindID(temp, 1))
	newest, _ := st.At(1)
	oldest, _ := st.At(0)
	assert.NotNil(t, newest.ID)
	assert.Nil(t, oldest.ID)
}

func TestStoreErase(t *testing.T) {
	st := NewStore()
	st.Append(shape.Shape{Kind: shape.KindRect, X: 0, Y: 0, Width: 10, Height: 10}.WithID(1))
	st.Append(shape.Shape{Kind: shape.KindRect, X: 200, Y: 200, Width: 10, Height: 10}.WithID(2))
	st.Append(shape.Shape{Kind: shape.KindRect, X: 0, Y: 0, Width: 10, Height: 10}) // not yet persisted

	ids, erased := st.Erase([]shape.Coordinate{{X: 0, Y: 0}}, geometry.EraseTolerance)
	require.True(t, erased)
	assert.Equal(t, []int64{1}, ids, "only persisted shapes report ids")
	assert.Equal(t, 1, st.Len())

	remaining, _ := st.At(0)
	require.NotNil(t, remaining.ID)
	assert.Equal(t, int64(2), *remaining.ID)
}

func TestStoreEraseNoHit(t *testing.T) {
	st := NewStore()
	st.Append(shape.Shape{Kind: shape.KindRect, X: 0, Y: 0, Width: 10, Height: 10})

	ids, erased := st.Erase([]shape.Coordinate{{X: 500, Y: 500}}, geometry.EraseTolerance)
	assert.False(t, erased)
	assert.Empty(t, ids)
	assert.Equal(t, 1, st.Len())
}

func TestStoreReplaceAllCopies(t *testing.T) {
	st := NewStore()
	in := []shape.Shape{{Kind: shape.KindRect, Width: 1, Height: 1}}
	st.ReplaceAll(in)
	in[0].Width = 99

	s, _ := st.At(0)
	assert.Equal(t, 1.0, s.Width)
}
