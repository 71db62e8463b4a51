// Package websocket provides the WebSocket transport surface of the game
// relay server.
//
// The websocket package implements:
//   - Per-game upgrade endpoints: /{game}/host and /{game}/client
//   - A relay.Conn adapter over gorilla/websocket connections
//   - Non-blocking outbound queues with a write pump per connection
//   - Ping/pong keepalive and read limits
//
// Connection model:
//
// Every accepted connection gets a uuid identity, a buffered outbound
// queue, and two loops: the write pump (its own goroutine, owner of all
// socket writes) and the read loop (the HTTP handler goroutine, so inbound
// messages are handled strictly in arrival order). Text frames and binary
// frames are delivered to the relay separately; binary is the low-latency
// input path and never touches JSON.
//
// Lifecycle:
//
// 1. HTTP request upgrades; hosts carry ?room=<id>
// 2. The connection attaches to the game's relay as host or client
// 3. Attachment failures are answered in-band (error message, then close)
// 4. Inbound frames flow to the relay until the socket dies
// 5. The read loop exits and reports the close, triggering the relay's
//    role-specific cascade
//
// The transport never inspects message contents; routing decisions belong
// to the relay package.
package websocket
