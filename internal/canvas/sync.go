package canvas

import (
	"log/slog"
	"time"

	"github.com/10Vaibhav/CollabDraw/internal/protocol"
	"github.com/10Vaibhav/CollabDraw/internal/shape"
)

// Conn is the outbound half of the session's relay connection. The real
// implementation wraps a websocket; tests substitute a recorder.
type Conn interface {
	Send(msg *protocol.Message) error
}

// DefaultThrottle is the minimum interval between ephemeral updates for an
// active gesture.
const DefaultThrottle = 50 * time.Millisecond

// Sync classifies and throttles a session's outbound mutations. Ephemeral
// updates are rate-limited and never persisted by the relay; durable
// updates and creates go out exactly once per gesture.
type Sync struct {
	conn     Conn
	roomID   string
	store    *Store
	throttle time.Duration
	lastSent time.Time
	now      func() time.Time
}

func NewSync(conn Conn, roomID string, store *Store) *Sync {
	return &Sync{
		conn:     conn,
		roomID:   roomID,
		store:    store,
		throttle: DefaultThrottle,
		now:      time.Now,
	}
}

// SetThrottle overrides the ephemeral send interval (from configuration).
func (sy *Sync) SetThrottle(d time.Duration) {
	if d > 0 {
		sy.throttle = d
	}
}

// SetRoom retargets the session at another room. The caller leaves the old
// room and joins the new one itself.
func (sy *Sync) SetRoom(roomID string) {
	sy.roomID = roomID
}

// SendRealtimeUpdate emits a rate-limited ephemeral update for the shape at
// the given index. Skipped silently when the shape has no durable id yet or
// the throttle window has not elapsed.
func (sy *Sync) SendRealtimeUpdate(index int) {
	now := sy.now()
	if now.Sub(sy.lastSent) < sy.throttle {
		return
	}

	s, ok := sy.store.At(index)
	if !ok || s.ID == nil {
		return
	}
	sy.lastSent = now

	sy.send(&protocol.Message{
		Type:      protocol.TypeRealtimeUpdate,
		RoomID:    sy.roomID,
		ShapeID:   *s.ID,
		ShapeType: s.Kind,
		Update:    s.UpdateFields(),
	})
}

// SendDatabaseUpdate emits the one-shot durable update on gesture
// completion. A shape without a durable id is a silent no-op.
func (sy *Sync) SendDatabaseUpdate(index int) {
	s, ok := sy.store.At(index)
	if !ok || s.ID == nil {
		return
	}

	sy.send(&protocol.Message{
		Type:      protocol.TypeUpdate,
		RoomID:    sy.roomID,
		ShapeID:   *s.ID,
		ShapeType: s.Kind,
		Update:    s.UpdateFields(),
	})
}

// SendShape broadcasts a newly drawn shape or a completed eraser stroke.
func (sy *Sync) SendShape(s shape.Shape) {
	sy.send(&protocol.Message{
		Type:      protocol.TypeDraw,
		RoomID:    sy.roomID,
		Shape:     &s,
		Timestamp: sy.now().UnixMilli(),
	})
}

// JoinRoom / LeaveRoom manage room membership on the relay.
func (sy *Sync) JoinRoom() {
	sy.send(&protocol.Message{
		Type:      protocol.TypeJoinRoom,
		RoomID:    sy.roomID,
		Timestamp: sy.now().UnixMilli(),
	})
}

func (sy *Sync) LeaveRoom() {
	sy.send(&protocol.Message{Type: protocol.TypeLeaveRoom, RoomID: sy.roomID})
}

func (sy *Sync) send(msg *protocol.Message) {
	if err := sy.conn.Send(msg); err != nil {
		slog.Warn("send sync message", "type", msg.Type, "error", err)
	}
}
