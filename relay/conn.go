package relay

// Conn is the capability a room holds for reaching a connection. Ownership
// of the underlying transport stays with the transport layer; the relay
// only sends, closes, and compares identities.
//
// Sends are fire-and-forget: implementations enqueue onto the connection's
// outbound queue and drop the message if the connection is closed or the
// queue is full. They must never block on network I/O, because the relay
// calls them while holding room and registry locks.
type Conn interface {
	// ID returns the transport-assigned identity for this connection.
	ID() string

	// SendJSON marshals v and enqueues it as a text message.
	SendJSON(v any)

	// SendBinary enqueues p as a binary message.
	SendBinary(p []byte)

	// Close tears the connection down. Safe to call more than once.
	Close()
}
