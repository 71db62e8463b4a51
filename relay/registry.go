package relay

import "sync"

// Registry is the table of active rooms for one relay instance. A room is
// registered for exactly as long as its host connection is open; there is
// no idle expiry. Scans walk rooms in registration order so auto-join is
// deterministic for a fixed arrival order.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Register adds the room, failing with ErrDuplicateRoom if its identifier
// is already taken.
func (reg *Registry) Register(room *Room) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.rooms[room.ID()]; exists {
		return ErrDuplicateRoom
	}
	reg.rooms[room.ID()] = room
	reg.order = append(reg.order, room.ID())
	return nil
}

// Lookup returns the room with the given identifier.
func (reg *Registry) Lookup(id string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[id]
	return room, ok
}

// Delete removes the room with the given identifier, returning whether it
// was present.
func (reg *Registry) Delete(id string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.remove(id)
}

// DeleteByHost removes the room owned by the given host connection and
// returns it. Used when a host connection drops.
func (reg *Registry) DeleteByHost(conn Conn) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, id := range reg.order {
		room := reg.rooms[id]
		if room.Host().ID() == conn.ID() {
			reg.remove(id)
			return room, true
		}
	}
	return nil, false
}

// FindFirstWithCapacity returns the earliest-registered room that still has
// a free player slot.
func (reg *Registry) FindFirstWithCapacity() (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	for _, id := range reg.order {
		room := reg.rooms[id]
		if !room.IsFull() {
			return room, true
		}
	}
	return nil, false
}

// Rooms returns the active rooms in registration order.
func (reg *Registry) Rooms() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	out := make([]*Room, 0, len(reg.order))
	for _, id := range reg.order {
		out = append(out, reg.rooms[id])
	}
	return out
}

// Len returns the number of active rooms.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// remove deletes id from both the map and the order slice. Caller holds the
// write lock.
func (reg *Registry) remove(id string) bool {
	if _, ok := reg.rooms[id]; !ok {
		return false
	}
	delete(reg.rooms, id)
	for i, rid := range reg.order {
		if rid == id {
			reg.order = append(reg.order[:i], reg.order[i+1:]...)
			break
		}
	}
	return true
}
