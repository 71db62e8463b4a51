package relay_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/totemplay/gamerelay/relay"
)

// fakeConn is an in-memory Conn capability that records everything the
// relay sends through it.
type fakeConn struct {
	id string

	mu     sync.Mutex
	sent   []relay.Envelope
	frames [][]byte
	closed bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) SendJSON(v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if env, ok := v.(relay.Envelope); ok {
		c.sent = append(c.sent, env)
	}
}

func (c *fakeConn) SendBinary(p []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	buf := make([]byte, len(p))
	copy(buf, p)
	c.frames = append(c.frames, buf)
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) messages() []relay.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]relay.Envelope, len(c.sent))
	copy(out, c.sent)
	return out
}

func (c *fakeConn) messagesOfType(msgType string) []relay.Envelope {
	var out []relay.Envelope
	for _, env := range c.messages() {
		if env.Type == msgType {
			out = append(out, env)
		}
	}
	return out
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestGameKindMinPlayers(t *testing.T) {
	assert.Equal(t, 2, relay.KindVersus.MinPlayers())
	assert.Equal(t, 1, relay.KindSolo.MinPlayers())
}

func TestRoomAdmitUntilFull(t *testing.T) {
	room := relay.NewRoom("r1", relay.KindVersus, newFakeConn("host"), nil)

	require.Equal(t, relay.DefaultMaxPlayers, room.MaxPlayers())

	for i := 0; i < room.MaxPlayers(); i++ {
		assert.False(t, room.IsFull())
		player, err := room.Admit(newFakeConn("c"))
		require.NoError(t, err)
		assert.Equal(t, i+1, player.Slot())
		assert.Equal(t, i+1, room.PlayerCount())
	}

	assert.True(t, room.IsFull())

	_, err := room.Admit(newFakeConn("late"))
	assert.ErrorIs(t, err, relay.ErrRoomFull)
	assert.Equal(t, room.MaxPlayers(), room.PlayerCount())
}

func TestRoomRemoveRenumbersSlots(t *testing.T) {
	room := relay.NewRoom("r1", relay.KindSolo, newFakeConn("host"), nil)
	require.NoError(t, room.SetMaxPlayers(4))

	var players []*relay.Player
	for i := 0; i < 4; i++ {
		p, err := room.Admit(newFakeConn("c"))
		require.NoError(t, err)
		players = append(players, p)
	}

	// Drop the second player; the rest close ranks in join order.
	removed, err := room.Remove(players[1].ID())
	require.NoError(t, err)
	assert.Equal(t, 2, removed.Slot())

	remaining := room.Players()
	require.Len(t, remaining, 3)
	for i, p := range remaining {
		assert.Equal(t, i+1, p.Slot())
	}
	assert.Equal(t, players[0].ID(), remaining[0].ID())
	assert.Equal(t, players[2].ID(), remaining[1].ID())
	assert.Equal(t, players[3].ID(), remaining[2].ID())
}

func TestRoomRemoveUnknownPlayer(t *testing.T) {
	room := relay.NewRoom("r1", relay.KindVersus, newFakeConn("host"), nil)

	_, err := room.Remove("missing")
	assert.ErrorIs(t, err, relay.ErrPlayerNotFound)
}

func TestRoomIsReady(t *testing.T) {
	tests := []struct {
		name         string
		kind         relay.GameKind
		readyAfter   int
		notReadyUpTo int
	}{
		{name: "versus needs two players", kind: relay.KindVersus, readyAfter: 2, notReadyUpTo: 1},
		{name: "solo needs one player", kind: relay.KindSolo, readyAfter: 1, notReadyUpTo: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := relay.NewRoom("r1", tt.kind, newFakeConn("host"), nil)

			for i := 0; i < tt.notReadyUpTo; i++ {
				_, err := room.Admit(newFakeConn("c"))
				require.NoError(t, err)
			}
			assert.False(t, room.IsReady())

			for i := tt.notReadyUpTo; i < tt.readyAfter; i++ {
				_, err := room.Admit(newFakeConn("c"))
				require.NoError(t, err)
			}
			assert.True(t, room.IsReady())
		})
	}
}

func TestRoomSetMaxPlayers(t *testing.T) {
	room := relay.NewRoom("r1", relay.KindSolo, newFakeConn("host"), nil)

	require.NoError(t, room.SetMaxPlayers(4))
	assert.Equal(t, 4, room.MaxPlayers())

	for i := 0; i < 3; i++ {
		_, err := room.Admit(newFakeConn("c"))
		require.NoError(t, err)
	}

	// Narrowing below current membership is rejected.
	assert.ErrorIs(t, room.SetMaxPlayers(2), relay.ErrInvalidCapacity)
	assert.ErrorIs(t, room.SetMaxPlayers(0), relay.ErrInvalidCapacity)
	assert.Equal(t, 4, room.MaxPlayers())

	require.NoError(t, room.SetMaxPlayers(3))
	assert.True(t, room.IsFull())
}

func TestRoomSnapshot(t *testing.T) {
	room := relay.NewRoom("r1", relay.KindVersus, newFakeConn("host"), nil)
	_, err := room.Admit(newFakeConn("c1"))
	require.NoError(t, err)

	info := room.Snapshot()
	assert.Equal(t, "r1", info.ID)
	assert.Equal(t, relay.KindVersus, info.Kind)
	assert.Equal(t, 2, info.MaxPlayers)
	assert.Equal(t, 2, info.MinPlayers)
	assert.False(t, info.Ready)
	assert.False(t, info.Full)
	require.Len(t, info.Players, 1)
	assert.Equal(t, 1, info.Players[0].Slot)
}
