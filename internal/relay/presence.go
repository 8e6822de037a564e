package relay

import (
	"sync"

	"github.com/10Vaibhav/CollabDraw/internal/protocol"
)

// PresenceState tracks the last reported cursor of each user in a room.
// It is advisory only and is never persisted.
type PresenceState struct {
	mu      sync.RWMutex
	cursors map[string]protocol.Cursor // userID -> cursor
}

func NewPresenceState() *PresenceState {
	return &PresenceState{cursors: make(map[string]protocol.Cursor)}
}

func (p *PresenceState) Update(userID string, cursor protocol.Cursor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cursors[userID] = cursor
}

func (p *PresenceState) Remove(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.cursors, userID)
}

// All returns a copy of the current cursor map.
func (p *PresenceState) All() map[string]protocol.Cursor {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]protocol.Cursor, len(p.cursors))
	for id, c := range p.cursors {
		out[id] = c
	}
	return out
}
