// Package protocol defines the wire messages exchanged between an editing
// session and the relay. Messages are flat JSON envelopes carrying a type
// tag plus the fields relevant to that type; unknown fields are ignored on
// receipt.
package protocol

import "github.com/10Vaibhav/CollabDraw/internal/shape"

const (
	TypeJoinRoom  = "join_room"
	TypeLeaveRoom = "leave_room"

	TypeJoinedRoom = "joined_room"
	TypeLeftRoom   = "left_room"

	// TypeDraw carries a newly created shape, or a completed eraser stroke.
	// It is the only mutation a shape without a durable id can broadcast.
	TypeDraw = "draw"

	// TypeRealtimeUpdate is the rate-limited ephemeral position/size stream
	// sent during an active gesture. Never persisted.
	TypeRealtimeUpdate = "realtime_update"

	// TypeUpdate is the one-shot durable update sent on gesture completion.
	TypeUpdate = "update"

	// TypeShapeCreated binds a durable id to a previously broadcast shape.
	// Sent by the relay to the originating session only.
	TypeShapeCreated = "shape_created"

	// TypePresence carries a cursor position. Broadcast to room peers,
	// never persisted.
	TypePresence = "presence"

	TypeError = "error"
)

// Cursor is a peer's pointer position, relayed for presence only.
type Cursor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Message is the envelope for every wire message. Type is always set;
// RoomID is set on everything except errors.
type Message struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId,omitempty"`

	// draw
	Shape *shape.Shape `json:"shape,omitempty"`

	// realtime_update / update
	ShapeID   int64              `json:"shapeId,omitempty"`
	ShapeType shape.Kind         `json:"shapeType,omitempty"`
	Update    map[string]float64 `json:"update,omitempty"`

	// shape_created
	TempShape *shape.Shape `json:"tempShape,omitempty"`
	DBID      int64        `json:"dbId,omitempty"`

	// presence
	Cursor *Cursor `json:"cursor,omitempty"`
	UserID string  `json:"userId,omitempty"`

	// error
	Message string `json:"message,omitempty"`

	Timestamp int64 `json:"timestamp,omitempty"`
}
