package relay

import "encoding/json"

// Control message vocabulary. Host and client connections speak small
// tagged JSON objects; the jsonData field is opaque game payload that the
// relay forwards without interpretation.
const (
	// Host to relay.
	TypeHostReady        = "host-ready"
	TypeSendToPlayer     = "send-to-player"
	TypeSendToAll        = "send-to-all"
	TypeDisconnectPlayer = "disconnect-player"

	// Client to relay.
	TypeSendMessage = "send-message"

	// Relay to host.
	TypeRoomCreated   = "room-created"
	TypeReadyAck      = "ready-ack"
	TypePlayerJoined  = "player-joined"
	TypeGameReady     = "game-ready"
	TypePlayerLeft    = "player-left"
	TypePlayerMessage = "player-message"

	// Relay to client.
	TypeJoinedRoom  = "joined-room"
	TypeGameMessage = "game-message"
	TypeError       = "error"
)

// Well-known dataType values the relay itself emits inside game messages.
const (
	// DataTypeID carries the assigned player identifier to a joining client.
	DataTypeID = "ID"

	// DataTypeReset tells a client its room's host went away.
	DataTypeReset = "Reset"
)

// Envelope is the wire shape of every control message. Fields are a union
// over all message types; unused ones are omitted, except the player
// counters, which always serialize so an explicit zero reaches the wire.
type Envelope struct {
	Type         string          `json:"type"`
	RoomID       string          `json:"roomId,omitempty"`
	PlayerID     string          `json:"playerId,omitempty"`
	PlayerNumber int             `json:"playerNumber"`
	TotalPlayers int             `json:"totalPlayers"`
	Players      int             `json:"players,omitempty"`
	MaxPlayers   int             `json:"maxPlayers,omitempty"`
	DataType     string          `json:"dataType,omitempty"`
	JSONData     json.RawMessage `json:"jsonData,omitempty"`
	Message      string          `json:"message,omitempty"`
}

func roomCreatedMsg(roomID string) Envelope {
	return Envelope{Type: TypeRoomCreated, RoomID: roomID}
}

func readyAckMsg(roomID string, maxPlayers int) Envelope {
	return Envelope{Type: TypeReadyAck, RoomID: roomID, MaxPlayers: maxPlayers}
}

func joinedRoomMsg(roomID string, playerNumber int) Envelope {
	return Envelope{Type: TypeJoinedRoom, RoomID: roomID, PlayerNumber: playerNumber}
}

func gameMessage(dataType string, jsonData json.RawMessage) Envelope {
	return Envelope{Type: TypeGameMessage, DataType: dataType, JSONData: jsonData}
}

func playerJoinedMsg(p *Player, totalPlayers int) Envelope {
	return Envelope{
		Type:         TypePlayerJoined,
		PlayerID:     p.ID(),
		PlayerNumber: p.Slot(),
		TotalPlayers: totalPlayers,
	}
}

func gameReadyMsg(roomID string, players int) Envelope {
	return Envelope{Type: TypeGameReady, RoomID: roomID, Players: players}
}

func playerLeftMsg(p *Player, totalPlayers int, roomID string) Envelope {
	return Envelope{
		Type:         TypePlayerLeft,
		PlayerID:     p.ID(),
		PlayerNumber: p.Slot(),
		TotalPlayers: totalPlayers,
		RoomID:       roomID,
	}
}

func playerMessageMsg(p *Player, dataType string, jsonData json.RawMessage) Envelope {
	return Envelope{
		Type:         TypePlayerMessage,
		PlayerID:     p.ID(),
		PlayerNumber: p.Slot(),
		DataType:     dataType,
		JSONData:     jsonData,
	}
}

func errorMsg(message string) Envelope {
	return Envelope{Type: TypeError, Message: message}
}

// rawString marshals s as a JSON string for use in an opaque jsonData field.
func rawString(s string) json.RawMessage {
	data, _ := json.Marshal(s)
	return data
}
