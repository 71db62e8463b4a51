package websocket

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	log "github.com/inconshreveable/log15/v3"
	"github.com/totemplay/gamerelay/relay"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Game hosts and clients connect from arbitrary origins.
		return true
	},
}

// Dispatcher owns one relay per configured game and exposes a pair of
// upgrade endpoints for each: /{game}/host and /{game}/client. Hosts name
// their room with the ?room= query parameter; clients carry no parameters
// and auto-join.
type Dispatcher struct {
	relays map[string]*relay.Relay
	order  []string
	logger log.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger log.Logger) *Dispatcher {
	return &Dispatcher{
		relays: make(map[string]*relay.Relay),
		logger: logger,
	}
}

// Add registers a relay under its game name. Later additions with the same
// name are ignored.
func (d *Dispatcher) Add(rl *relay.Relay) {
	name := rl.Profile().Name
	if _, exists := d.relays[name]; exists {
		return
	}
	d.relays[name] = rl
	d.order = append(d.order, name)
}

// Relay returns the relay carrying the named game.
func (d *Dispatcher) Relay(name string) (*relay.Relay, bool) {
	rl, ok := d.relays[name]
	return rl, ok
}

// Games returns the configured game names in registration order.
func (d *Dispatcher) Games() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Register mounts the upgrade endpoints for every game on the router.
func (d *Dispatcher) Register(router *mux.Router) {
	for _, name := range d.order {
		rl := d.relays[name]
		router.HandleFunc("/"+name+"/host", d.serveHost(rl))
		router.HandleFunc("/"+name+"/client", d.serveClient(rl))
	}
}

// serveHost upgrades a host connection and binds it to a new room. The
// relay owns the handshake: attachment failures have already been answered
// with an error message and a close by the time AttachHost returns.
func (d *Dispatcher) serveHost(rl *relay.Relay) http.HandlerFunc {
	game := rl.Profile().Name
	logger := d.logger.New("game", game, "role", "host")

	return func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Query().Get("room")

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("upgrade failed", "err", err)
			return
		}

		conn := newConn(ws, logger)
		go conn.writePump()
		logger.Info("host connected", "conn", conn.ID(), "room", roomID)

		if err := rl.AttachHost(conn, roomID); err != nil {
			return
		}

		conn.readPump(
			func(data []byte) { rl.HandleText(conn, data) },
			func(data []byte) { rl.HandleBinary(conn, data) },
		)

		rl.HandleClose(conn)
		conn.Close()
		logger.Info("host disconnected", "conn", conn.ID())
	}
}

// serveClient upgrades a player connection and auto-joins it into the
// first room with a free slot.
func (d *Dispatcher) serveClient(rl *relay.Relay) http.HandlerFunc {
	game := rl.Profile().Name
	logger := d.logger.New("game", game, "role", "client")

	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("upgrade failed", "err", err)
			return
		}

		conn := newConn(ws, logger)
		go conn.writePump()
		logger.Info("client connected", "conn", conn.ID())

		if err := rl.AttachClient(conn); err != nil {
			return
		}

		conn.readPump(
			func(data []byte) { rl.HandleText(conn, data) },
			func(data []byte) { rl.HandleBinary(conn, data) },
		)

		rl.HandleClose(conn)
		conn.Close()
		logger.Info("client disconnected", "conn", conn.ID())
	}
}
