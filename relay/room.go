package relay

import (
	"sync"
	"time"
)

// GameKind classifies a game family by how many players it needs before the
// host can start play.
type GameKind string

const (
	// KindVersus is a two-sided game: play needs both player slots filled.
	KindVersus GameKind = "versus"

	// KindSolo is a host-driven game where a single player is enough.
	KindSolo GameKind = "solo"
)

// MinPlayers returns the minimum player count for the kind.
func (k GameKind) MinPlayers() int {
	if k == KindSolo {
		return 1
	}
	return 2
}

// Valid reports whether k is a known game kind.
func (k GameKind) Valid() bool {
	return k == KindVersus || k == KindSolo
}

// DefaultMaxPlayers is the room capacity unless the host raises it.
const DefaultMaxPlayers = 2

// Player is a participant admitted into a room. The identifier is the stable
// routing key for the life of the connection; the slot is a 1-based display
// ordinal that gets renumbered whenever membership changes.
type Player struct {
	id       string
	index    int // wire index under the dense-integer policy, -1 otherwise
	slot     int
	conn     Conn
	joinedAt time.Time
}

// ID returns the player's routing identifier.
func (p *Player) ID() string { return p.id }

// Index returns the player's wire index, or -1 if the room's allocation
// policy does not assign one.
func (p *Player) Index() int { return p.index }

// Slot returns the player's current 1-based display ordinal.
func (p *Player) Slot() int { return p.slot }

// Room is a single game session: one host connection, up to maxPlayers
// player connections. The host is bound at creation and never reassigned;
// when it goes away the room is torn down, not failed over.
type Room struct {
	id      string
	kind    GameKind
	host    Conn
	policy  SlotPolicy
	created time.Time

	mu         sync.RWMutex
	maxPlayers int
	minPlayers int
	players    []*Player // insertion order, significant for renumbering
	byID       map[string]*Player
}

// NewRoom creates a room bound to the given host connection.
func NewRoom(id string, kind GameKind, host Conn, policy SlotPolicy) *Room {
	if policy == nil {
		policy = DenseIntegerPolicy{}
	}
	return &Room{
		id:         id,
		kind:       kind,
		host:       host,
		policy:     policy,
		created:    time.Now(),
		maxPlayers: DefaultMaxPlayers,
		minPlayers: kind.MinPlayers(),
		byID:       make(map[string]*Player),
	}
}

// ID returns the room identifier.
func (r *Room) ID() string { return r.id }

// Kind returns the room's game kind.
func (r *Room) Kind() GameKind { return r.kind }

// Host returns the host connection.
func (r *Room) Host() Conn { return r.host }

// Admit allocates an identifier and slot for the connection and inserts the
// resulting player. Returns ErrRoomFull when the room is at capacity.
func (r *Room) Admit(conn Conn) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) >= r.maxPlayers {
		return nil, ErrRoomFull
	}

	id, index := r.policy.Assign(conn, r.players)
	player := &Player{
		id:       id,
		index:    index,
		slot:     len(r.players) + 1,
		conn:     conn,
		joinedAt: time.Now(),
	}

	r.players = append(r.players, player)
	r.byID[id] = player
	return player, nil
}

// Remove deletes the player and renumbers the remaining players as a dense
// 1-based sequence in their original join order. Identifiers are stable;
// only the display ordinals change. Returns the removed player with the
// slot it held at departure.
func (r *Room) Remove(playerID string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, ok := r.byID[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	delete(r.byID, playerID)
	for i, p := range r.players {
		if p == player {
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}

	for i, p := range r.players {
		p.slot = i + 1
	}

	return player, nil
}

// Player looks up a player by identifier.
func (r *Room) Player(id string) (*Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	return p, ok
}

// Players returns the current players in join order.
func (r *Room) Players() []*Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Player, len(r.players))
	copy(out, r.players)
	return out
}

// IsFull reports whether the room is at capacity.
func (r *Room) IsFull() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players) >= r.maxPlayers
}

// IsReady reports whether enough players have joined for play to start.
func (r *Room) IsReady() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players) >= r.minPlayers
}

// PlayerCount returns the number of connected players.
func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// MaxPlayers returns the room capacity.
func (r *Room) MaxPlayers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.maxPlayers
}

// MinPlayers returns the minimum player count derived from the game kind.
func (r *Room) MinPlayers() int { return r.minPlayers }

// SetMaxPlayers changes the room capacity. Intended for the host to call
// once before play starts. Returns ErrInvalidCapacity for n < 1 or for a
// capacity below the current membership.
func (r *Room) SetMaxPlayers(n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n < 1 || n < len(r.players) {
		return ErrInvalidCapacity
	}
	r.maxPlayers = n
	return nil
}

// PlayerInfo is a read-only view of a player for status reporting.
type PlayerInfo struct {
	ID       string    `json:"player_id"`
	Slot     int       `json:"slot"`
	Index    int       `json:"index,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

// RoomInfo is a read-only snapshot of a room for status reporting.
type RoomInfo struct {
	ID         string       `json:"room_id"`
	Game       string       `json:"game,omitempty"`
	Kind       GameKind     `json:"kind"`
	MaxPlayers int          `json:"max_players"`
	MinPlayers int          `json:"min_players"`
	Ready      bool         `json:"ready"`
	Full       bool         `json:"full"`
	Players    []PlayerInfo `json:"players"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Snapshot returns a point-in-time view of the room.
func (r *Room) Snapshot() RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, PlayerInfo{
			ID:       p.id,
			Slot:     p.slot,
			Index:    p.index,
			JoinedAt: p.joinedAt,
		})
	}

	return RoomInfo{
		ID:         r.id,
		Kind:       r.kind,
		MaxPlayers: r.maxPlayers,
		MinPlayers: r.minPlayers,
		Ready:      len(r.players) >= r.minPlayers,
		Full:       len(r.players) >= r.maxPlayers,
		Players:    players,
		CreatedAt:  r.created,
	}
}
