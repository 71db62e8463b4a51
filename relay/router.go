package relay

import (
	"encoding/json"
	"sync"

	log "github.com/inconshreveable/log15/v3"
)

// Role tags a connection at attachment time and selects the close cascade
// that runs when it goes away.
type Role string

const (
	RoleHost   Role = "host"
	RoleClient Role = "client"
)

// GameProfile configures one relay instance: which game family it carries,
// how player identifiers are allocated, and whether the binary input path
// is enabled.
type GameProfile struct {
	// Name is the game's routing name (upgrade path prefix).
	Name string

	// Kind determines the minimum player policy of new rooms.
	Kind GameKind

	// MaxPlayers overrides the default room capacity when > 0.
	MaxPlayers int

	// Policy allocates player identifiers. Defaults to DenseIntegerPolicy.
	Policy SlotPolicy

	// BinaryInput enables the framed binary client input path. Requires a
	// policy that allocates wire indexes.
	BinaryInput bool
}

// attachment records what the relay knows about one live connection.
type attachment struct {
	role   Role
	conn   Conn
	room   *Room
	player *Player // nil for hosts
}

// Relay routes messages between the host and the players of each room for
// a single game. It owns the room registry and the per-connection role
// bookkeeping; the transport layer feeds it attach, message, and close
// events and handles everything socket-level.
//
// All entry points serialize on an internal mutex, which is the
// serialization point for room and registry mutations across connections.
// Sends performed under that mutex are non-blocking enqueues on the target
// connection's outbound queue.
type Relay struct {
	profile  GameProfile
	registry *Registry
	logger   log.Logger

	mu       sync.Mutex
	attached map[string]*attachment
	onClose  map[Role]func(*attachment)
}

// New creates a relay for the given game profile.
func New(profile GameProfile, logger log.Logger) *Relay {
	if profile.Policy == nil {
		profile.Policy = DenseIntegerPolicy{}
	}
	if logger == nil {
		logger = log.New()
		logger.SetHandler(log.DiscardHandler())
	}

	rl := &Relay{
		profile:  profile,
		registry: NewRegistry(),
		logger:   logger.New("game", profile.Name),
		attached: make(map[string]*attachment),
	}
	rl.onClose = map[Role]func(*attachment){
		RoleHost:   rl.closeHost,
		RoleClient: rl.closeClient,
	}
	return rl
}

// Profile returns the relay's game profile.
func (rl *Relay) Profile() GameProfile { return rl.profile }

// AttachHost binds the connection as the authoritative host of a new room.
// A missing room identifier or a duplicate one gets an error message
// followed by a close; on success the host receives a room-created ack and
// the room starts accepting players.
func (rl *Relay) AttachHost(conn Conn, roomID string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if roomID == "" {
		rl.reject(conn, ErrMissingRoomID)
		return ErrMissingRoomID
	}

	room := NewRoom(roomID, rl.profile.Kind, conn, rl.profile.Policy)
	if rl.profile.MaxPlayers > 0 {
		room.SetMaxPlayers(rl.profile.MaxPlayers)
	}

	if err := rl.registry.Register(room); err != nil {
		rl.logger.Warn("room create rejected", "room", roomID, "conn", conn.ID(), "err", err)
		rl.reject(conn, err)
		return err
	}

	rl.attached[conn.ID()] = &attachment{role: RoleHost, conn: conn, room: room}
	conn.SendJSON(roomCreatedMsg(roomID))

	rl.logger.Info("room created", "room", roomID, "host", conn.ID(), "rooms", rl.registry.Len())
	return nil
}

// AttachClient admits the connection into the earliest-registered room with
// a free slot. The client receives a joined-room ack plus an identity game
// message; the host is told about the new player and, once the room has
// enough players, that the game is ready.
func (rl *Relay) AttachClient(conn Conn) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	room, ok := rl.registry.FindFirstWithCapacity()
	if !ok {
		rl.logger.Debug("no room available", "conn", conn.ID())
		rl.reject(conn, ErrNoRoomAvailable)
		return ErrNoRoomAvailable
	}

	player, err := room.Admit(conn)
	if err != nil {
		rl.reject(conn, err)
		return err
	}

	rl.attached[conn.ID()] = &attachment{role: RoleClient, conn: conn, room: room, player: player}

	conn.SendJSON(joinedRoomMsg(room.ID(), player.Slot()))
	conn.SendJSON(gameMessage(DataTypeID, rawString(player.ID())))

	host := room.Host()
	host.SendJSON(playerJoinedMsg(player, room.PlayerCount()))
	if room.IsReady() {
		host.SendJSON(gameReadyMsg(room.ID(), room.PlayerCount()))
	}

	rl.logger.Info("player joined", "room", room.ID(), "player", player.ID(),
		"slot", player.Slot(), "players", room.PlayerCount())
	return nil
}

// HandleText processes one text message from an attached connection.
// Messages from connections the relay does not know are ignored, and
// malformed JSON is dropped without closing the connection.
func (rl *Relay) HandleText(conn Conn, data []byte) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	att, ok := rl.attached[conn.ID()]
	if !ok {
		return
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
		rl.logger.Debug("dropping malformed message", "conn", conn.ID(), "err", ErrInvalidPayload)
		return
	}

	switch att.role {
	case RoleHost:
		rl.handleHostMessage(att, env)
	case RoleClient:
		rl.handleClientMessage(att, env)
	}
}

// HandleBinary forwards one binary client payload to the room's host,
// framed with the player's wire index. The path is only live for clients
// in rooms whose policy allocates wire indexes and whose game enables it;
// everything else is dropped.
func (rl *Relay) HandleBinary(conn Conn, payload []byte) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	att, ok := rl.attached[conn.ID()]
	if !ok || att.role != RoleClient {
		return
	}
	if !rl.profile.BinaryInput || att.player.Index() < 0 {
		rl.logger.Debug("dropping binary frame, path disabled", "conn", conn.ID())
		return
	}

	att.room.Host().SendBinary(FramePlayerInput(att.player.Index(), payload))
}

// HandleClose runs the role-appropriate cascade for a connection that went
// away, whatever the reason. Unknown connections are ignored.
func (rl *Relay) HandleClose(conn Conn) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	att, ok := rl.attached[conn.ID()]
	if !ok {
		return
	}
	delete(rl.attached, conn.ID())

	rl.onClose[att.role](att)
}

// Rooms returns snapshots of the active rooms in registration order.
func (rl *Relay) Rooms() []RoomInfo {
	rooms := rl.registry.Rooms()
	out := make([]RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		info := room.Snapshot()
		info.Game = rl.profile.Name
		out = append(out, info)
	}
	return out
}

// RoomInfo returns a snapshot of one room.
func (rl *Relay) RoomInfo(id string) (RoomInfo, bool) {
	room, ok := rl.registry.Lookup(id)
	if !ok {
		return RoomInfo{}, false
	}
	info := room.Snapshot()
	info.Game = rl.profile.Name
	return info, true
}

// RoomCount returns the number of active rooms.
func (rl *Relay) RoomCount() int { return rl.registry.Len() }

// handleHostMessage dispatches one control message from a room host.
func (rl *Relay) handleHostMessage(att *attachment, env Envelope) {
	room := att.room

	switch env.Type {
	case TypeHostReady:
		if env.MaxPlayers > 0 {
			if err := room.SetMaxPlayers(env.MaxPlayers); err != nil {
				rl.logger.Warn("capacity change rejected", "room", room.ID(),
					"requested", env.MaxPlayers, "err", err)
				att.conn.SendJSON(errorMsg(err.Error()))
				return
			}
		}
		att.conn.SendJSON(readyAckMsg(room.ID(), room.MaxPlayers()))

	case TypeSendToPlayer:
		player, ok := room.Player(env.PlayerID)
		if !ok {
			// Best-effort relay: unknown destinations are a no-op.
			rl.logger.Debug("unicast to unknown player", "room", room.ID(), "player", env.PlayerID)
			return
		}
		player.conn.SendJSON(gameMessage(env.DataType, env.JSONData))

	case TypeSendToAll:
		for _, player := range room.Players() {
			player.conn.SendJSON(gameMessage(env.DataType, env.JSONData))
		}

	case TypeDisconnectPlayer:
		player, ok := room.Player(env.PlayerID)
		if !ok {
			return
		}
		rl.logger.Info("host disconnecting player", "room", room.ID(), "player", env.PlayerID)
		player.conn.Close()

	default:
		rl.logger.Debug("dropping unknown host message", "room", room.ID(), "type", env.Type)
	}
}

// handleClientMessage dispatches one control message from a player.
func (rl *Relay) handleClientMessage(att *attachment, env Envelope) {
	switch env.Type {
	case TypeSendMessage:
		att.room.Host().SendJSON(playerMessageMsg(att.player, env.DataType, env.JSONData))
	default:
		rl.logger.Debug("dropping unknown client message", "room", att.room.ID(), "type", env.Type)
	}
}

// closeHost tears the room down: every still-connected player gets one
// best-effort Reset notification, then the room leaves the registry.
func (rl *Relay) closeHost(att *attachment) {
	room, ok := rl.registry.DeleteByHost(att.conn)
	if !ok {
		return
	}

	players := room.Players()
	for _, player := range players {
		player.conn.SendJSON(gameMessage(DataTypeReset, rawString("host disconnected")))
	}

	rl.logger.Info("room closed, host left", "room", room.ID(),
		"notified", len(players), "rooms", rl.registry.Len())
}

// closeClient removes the player from its room and tells the host. If the
// room was already torn down by the host-close cascade the notification is
// dropped.
func (rl *Relay) closeClient(att *attachment) {
	player, err := att.room.Remove(att.player.ID())
	if err != nil {
		return
	}

	rl.logger.Info("player left", "room", att.room.ID(), "player", player.ID(),
		"remaining", att.room.PlayerCount())

	if current, ok := rl.registry.Lookup(att.room.ID()); !ok || current != att.room {
		return
	}
	att.room.Host().SendJSON(playerLeftMsg(player, att.room.PlayerCount(), att.room.ID()))
}

// reject sends an error control message and closes the connection. Used
// for attachment failures; the relay never leaves a connection
// half-admitted.
func (rl *Relay) reject(conn Conn, err error) {
	conn.SendJSON(errorMsg(err.Error()))
	conn.Close()
}
