package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/inconshreveable/log15/v3"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Outbound queue depth per connection.
	sendQueueSize = 256
)

// frame is one queued outbound message.
type frame struct {
	messageType int
	data        []byte
}

// Conn wraps a WebSocket connection as a relay.Conn capability. Outbound
// messages go through a buffered queue drained by a dedicated write pump,
// so sends never block the caller; when the queue is full or the
// connection is closing, messages are dropped.
type Conn struct {
	id     string
	ws     *websocket.Conn
	logger log.Logger

	out       chan frame
	done      chan struct{}
	closeOnce sync.Once
}

func newConn(ws *websocket.Conn, logger log.Logger) *Conn {
	id := uuid.NewString()
	return &Conn{
		id:     id,
		ws:     ws,
		logger: logger.New("conn", id),
		out:    make(chan frame, sendQueueSize),
		done:   make(chan struct{}),
	}
}

// ID returns the connection's transport-assigned identity.
func (c *Conn) ID() string { return c.id }

// SendJSON marshals v and enqueues it as a text message.
func (c *Conn) SendJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("marshal outbound message", "err", err)
		return
	}
	c.enqueue(frame{messageType: websocket.TextMessage, data: data})
}

// SendBinary enqueues p as a binary message.
func (c *Conn) SendBinary(p []byte) {
	c.enqueue(frame{messageType: websocket.BinaryMessage, data: p})
}

// Close initiates teardown. Safe to call more than once; the write pump
// sends the close frame and closes the socket, which in turn unblocks the
// read loop.
func (c *Conn) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// enqueue adds a frame to the outbound queue without blocking. Closed
// connections and full queues drop the frame.
func (c *Conn) enqueue(f frame) {
	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.out <- f:
	default:
		c.logger.Warn("outbound queue full, dropping message")
	}
}

// writePump drains the outbound queue onto the socket and keeps the peer
// alive with pings. It owns all writes to the socket.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case <-c.done:
			// Frames enqueued before Close still go out ahead of the
			// close frame, so rejects deliver their error message.
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			for {
				select {
				case f := <-c.out:
					if err := c.ws.WriteMessage(f.messageType, f.data); err != nil {
						return
					}
				default:
					c.ws.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
			}

		case f := <-c.out:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(f.messageType, f.data); err != nil {
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads messages until the connection dies, delivering each to
// the matching callback. It runs in the connection's handler goroutine, so
// messages from one connection are processed strictly in arrival order.
func (c *Conn) readPump(onText, onBinary func([]byte)) {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("read error", "err", err)
			}
			return
		}

		switch messageType {
		case websocket.TextMessage:
			onText(data)
		case websocket.BinaryMessage:
			onBinary(data)
		}
	}
}
