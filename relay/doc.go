// Package relay implements the room lifecycle and message routing core of
// the game relay server.
//
// The relay package implements:
//   - Room creation, uniqueness, and host binding
//   - Player admission, slot renumbering, and identifier allocation
//   - Host-authoritative routing: unicast, broadcast, forced disconnect
//   - Binary input framing for low-latency client input
//   - Connection-close cascades keyed on connection role
//
// Model:
//
// Each Relay instance carries one game family. A room is created when a
// host connection attaches with a room identifier, and exists exactly as
// long as that connection stays open. Clients auto-join the earliest
// registered room with a free slot. The host is the single source of truth
// for game logic; the relay forwards opaque payloads and never interprets
// them beyond the control-message vocabulary in protocol.go.
//
// Close cascades:
//
// The relay tags each connection with a role at attach time and dispatches
// its close through a per-role table. A host close broadcasts a Reset game
// message to every connected player and deletes the room. A client close
// removes the player, renumbers the remaining slots densely, and notifies
// the host unless the room is already gone.
//
// Transport independence:
//
// The package never touches sockets. Transports hand it connections as
// Conn capabilities (identity, send, close) and feed it attach, text,
// binary, and close events; see transport/websocket for the WebSocket
// surface.
//
// Concurrency:
//
// Relay entry points serialize on one mutex per relay instance, which
// makes room and registry mutations safe across connections. Sends are
// fire-and-forget enqueues and never block on network I/O under that
// mutex. Rooms and the registry also carry their own locks so read-only
// consumers (the status API) can snapshot them without going through the
// relay.
package relay
