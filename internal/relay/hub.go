// Package relay routes canvas mutations between the editing sessions of a
// room and is the sole writer to the element store. Fan-out to peers never
// waits on storage: every mutation is broadcast before its persistence
// attempt, and a failed write is logged (and reported to the sender for
// durable updates) rather than rolled back.
package relay

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/10Vaibhav/CollabDraw/internal/element"
	"github.com/10Vaibhav/CollabDraw/internal/protocol"
	"github.com/10Vaibhav/CollabDraw/internal/shape"
)

// eraseTolerance is the server-side spatial tolerance for matching a
// stored shape's representative coordinate against an eraser point.
const eraseTolerance = 20.0

const persistTimeout = 10 * time.Second

// Room is the set of live connections editing one document.
type Room struct {
	id       string
	clients  map[string]*Client // clientID -> client
	presence *PresenceState
}

func NewRoom(id string) *Room {
	return &Room{
		id:       id,
		clients:  make(map[string]*Client),
		presence: NewPresenceState(),
	}
}

// Hub owns room membership and message routing. Rooms are created on first
// join and deleted when their last connection leaves.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}

	elements element.Store
}

func NewHub(elements element.Store) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		elements:   elements,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			slog.Info("client connected", "user", client.UserID, "client", client.ClientID)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.quit:
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.quit)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

// removeClient drops a disconnected client from every room it joined. No
// in-flight gesture state survives; a reconnecting session re-requests a
// full shape reload.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	var left []string
	for roomID, room := range h.rooms {
		if _, ok := room.clients[client.ClientID]; !ok {
			continue
		}
		delete(room.clients, client.ClientID)
		room.presence.Remove(client.UserID)
		left = append(left, roomID)
		if len(room.clients) == 0 {
			delete(h.rooms, roomID)
		}
	}
	h.mu.Unlock()

	client.shutdown()
	slog.Info("client disconnected", "user", client.UserID, "rooms", len(left))
}

func (h *Hub) handleMessage(sender *Client, msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeJoinRoom:
		h.joinRoom(sender, msg.RoomID)
	case protocol.TypeLeaveRoom:
		h.leaveRoom(sender, msg.RoomID)
	case protocol.TypeDraw:
		h.handleDraw(sender, msg)
	case protocol.TypeRealtimeUpdate:
		h.handleRealtimeUpdate(sender, msg)
	case protocol.TypeUpdate:
		h.handleUpdate(sender, msg)
	case protocol.TypePresence:
		h.handlePresence(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
		sender.Send(&protocol.Message{
			Type:    protocol.TypeError,
			Message: "unknown message type: " + msg.Type,
		})
	}
}

func (h *Hub) joinRoom(sender *Client, roomID string) {
	if roomID == "" {
		return
	}

	h.mu.Lock()
	room, ok := h.rooms[roomID]
	if !ok {
		room = NewRoom(roomID)
		h.rooms[roomID] = room
		slog.Info("room created", "room", roomID)
	}
	room.clients[sender.ClientID] = sender
	size := len(room.clients)
	h.mu.Unlock()

	sender.Send(&protocol.Message{Type: protocol.TypeJoinedRoom, RoomID: roomID})

	// Catch the joiner up on peer cursors.
	for userID, cursor := range room.presence.All() {
		sender.Send(&protocol.Message{
			Type:   protocol.TypePresence,
			RoomID: roomID,
			UserID: userID,
			Cursor: &cursor,
		})
	}

	slog.Info("client joined room", "user", sender.UserID, "room", roomID, "size", size)
}

func (h *Hub) leaveRoom(sender *Client, roomID string) {
	if roomID == "" {
		return
	}

	h.mu.Lock()
	if room, ok := h.rooms[roomID]; ok {
		delete(room.clients, sender.ClientID)
		room.presence.Remove(sender.UserID)
		if len(room.clients) == 0 {
			delete(h.rooms, roomID)
			slog.Info("empty room deleted", "room", roomID)
		}
	}
	h.mu.Unlock()

	sender.Send(&protocol.Message{Type: protocol.TypeLeftRoom, RoomID: roomID})
}

// handleDraw fans a new shape (or eraser stroke) out to the room first,
// then persists. On create success the durable id goes back to the
// originating session only, as a shape_created reconciliation message.
func (h *Hub) handleDraw(sender *Client, msg *protocol.Message) {
	if msg.RoomID == "" || msg.Shape == nil {
		return
	}

	h.broadcastToRoom(msg.RoomID, &protocol.Message{
		Type:   protocol.TypeDraw,
		RoomID: msg.RoomID,
		Shape:  msg.Shape,
	}, sender.ClientID)

	documentID, err := strconv.ParseInt(msg.RoomID, 10, 64)
	if err != nil {
		slog.Warn("room id is not a document id, skipping persistence", "room", msg.RoomID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if msg.Shape.Kind == shape.KindEraser {
		deleted, err := h.elements.DeleteNear(ctx, documentID, msg.Shape.Points, eraseTolerance)
		if err != nil {
			// The erase was already broadcast; the eraser's own session
			// falls back to a full reload when its delete call fails.
			slog.Error("erase persistence failed", "room", msg.RoomID, "error", err)
			return
		}
		slog.Info("eraser deleted elements", "room", msg.RoomID, "count", deleted)
		return
	}

	id, err := h.elements.Create(ctx, documentID, *msg.Shape)
	if err != nil {
		slog.Error("persist shape failed", "room", msg.RoomID, "kind", msg.Shape.Kind, "error", err)
		return
	}

	sender.Send(&protocol.Message{
		Type:      protocol.TypeShapeCreated,
		RoomID:    msg.RoomID,
		TempShape: msg.Shape,
		DBID:      id,
	})
}

// handleRealtimeUpdate is broadcast-only: ephemeral updates never touch
// storage.
func (h *Hub) handleRealtimeUpdate(sender *Client, msg *protocol.Message) {
	if msg.RoomID == "" || msg.ShapeID == 0 || msg.Update == nil {
		return
	}
	h.broadcastToRoom(msg.RoomID, &protocol.Message{
		Type:    protocol.TypeRealtimeUpdate,
		RoomID:  msg.RoomID,
		ShapeID: msg.ShapeID,
		Update:  msg.Update,
	}, sender.ClientID)
}

func (h *Hub) handleUpdate(sender *Client, msg *protocol.Message) {
	if msg.RoomID == "" || msg.ShapeID == 0 || msg.ShapeType == "" || msg.Update == nil {
		return
	}

	h.broadcastToRoom(msg.RoomID, &protocol.Message{
		Type:    protocol.TypeUpdate,
		RoomID:  msg.RoomID,
		ShapeID: msg.ShapeID,
		Update:  msg.Update,
	}, sender.ClientID)

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := h.elements.Update(ctx, msg.ShapeID, msg.ShapeType, msg.Update); err != nil {
		// Peers already applied the optimistic update; only the sender
		// learns the write failed.
		slog.Error("persist update failed", "shape", msg.ShapeID, "error", err)
		sender.Send(&protocol.Message{
			Type:    protocol.TypeError,
			ShapeID: msg.ShapeID,
			Message: "failed to save shape update",
		})
	}
}

func (h *Hub) handlePresence(sender *Client, msg *protocol.Message) {
	if msg.RoomID == "" || msg.Cursor == nil {
		return
	}

	h.mu.RLock()
	room, ok := h.rooms[msg.RoomID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	room.presence.Update(sender.UserID, *msg.Cursor)

	h.broadcastToRoom(msg.RoomID, &protocol.Message{
		Type:   protocol.TypePresence,
		RoomID: msg.RoomID,
		UserID: sender.UserID,
		Cursor: msg.Cursor,
	}, sender.ClientID)
}

// broadcastToRoom fans a message out to every room member except the
// excluded client. The relay never echoes a message back to its sender.
func (h *Hub) broadcastToRoom(roomID string, msg *protocol.Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[roomID]
	if !ok {
		h.mu.RUnlock()
		slog.Warn("broadcast to missing room", "room", roomID)
		return
	}
	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

// RoomSize reports the member count of a room, zero when absent.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[roomID]
	if !ok {
		return 0
	}
	return len(room.clients)
}
