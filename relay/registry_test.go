package relay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/totemplay/gamerelay/relay"
)

func TestRegistryRejectsDuplicateID(t *testing.T) {
	reg := relay.NewRegistry()

	require.NoError(t, reg.Register(relay.NewRoom("abc", relay.KindVersus, newFakeConn("h1"), nil)))
	err := reg.Register(relay.NewRoom("abc", relay.KindVersus, newFakeConn("h2"), nil))
	assert.ErrorIs(t, err, relay.ErrDuplicateRoom)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryLookup(t *testing.T) {
	reg := relay.NewRegistry()
	room := relay.NewRoom("abc", relay.KindVersus, newFakeConn("h1"), nil)
	require.NoError(t, reg.Register(room))

	found, ok := reg.Lookup("abc")
	require.True(t, ok)
	assert.Same(t, room, found)

	_, ok = reg.Lookup("nope")
	assert.False(t, ok)
}

func TestRegistryFindFirstWithCapacity(t *testing.T) {
	reg := relay.NewRegistry()

	full := relay.NewRoom("full", relay.KindVersus, newFakeConn("h1"), nil)
	for i := 0; i < full.MaxPlayers(); i++ {
		_, err := full.Admit(newFakeConn("c"))
		require.NoError(t, err)
	}
	open1 := relay.NewRoom("open1", relay.KindVersus, newFakeConn("h2"), nil)
	open2 := relay.NewRoom("open2", relay.KindVersus, newFakeConn("h3"), nil)

	require.NoError(t, reg.Register(full))
	require.NoError(t, reg.Register(open1))
	require.NoError(t, reg.Register(open2))

	// The earliest-registered qualifying room wins, and a full room never does.
	room, ok := reg.FindFirstWithCapacity()
	require.True(t, ok)
	assert.Same(t, open1, room)
	assert.False(t, room.IsFull())
}

func TestRegistryFindFirstWithCapacityEmpty(t *testing.T) {
	reg := relay.NewRegistry()

	_, ok := reg.FindFirstWithCapacity()
	assert.False(t, ok)

	full := relay.NewRoom("full", relay.KindSolo, newFakeConn("h1"), nil)
	for i := 0; i < full.MaxPlayers(); i++ {
		_, err := full.Admit(newFakeConn("c"))
		require.NoError(t, err)
	}
	require.NoError(t, reg.Register(full))

	_, ok = reg.FindFirstWithCapacity()
	assert.False(t, ok)
}

func TestRegistryDeleteByHost(t *testing.T) {
	reg := relay.NewRegistry()
	host := newFakeConn("h1")
	room := relay.NewRoom("abc", relay.KindVersus, host, nil)
	other := relay.NewRoom("def", relay.KindVersus, newFakeConn("h2"), nil)
	require.NoError(t, reg.Register(room))
	require.NoError(t, reg.Register(other))

	deleted, ok := reg.DeleteByHost(host)
	require.True(t, ok)
	assert.Same(t, room, deleted)
	assert.Equal(t, 1, reg.Len())

	_, ok = reg.Lookup("abc")
	assert.False(t, ok)

	_, ok = reg.DeleteByHost(host)
	assert.False(t, ok)
}

func TestRegistryRoomsOrder(t *testing.T) {
	reg := relay.NewRegistry()
	ids := []string{"c", "a", "b"}
	for _, id := range ids {
		require.NoError(t, reg.Register(relay.NewRoom(id, relay.KindSolo, newFakeConn("h-"+id), nil)))
	}

	rooms := reg.Rooms()
	require.Len(t, rooms, 3)
	for i, room := range rooms {
		assert.Equal(t, ids[i], room.ID())
	}

	reg.Delete("a")
	rooms = reg.Rooms()
	require.Len(t, rooms, 2)
	assert.Equal(t, "c", rooms[0].ID())
	assert.Equal(t, "b", rooms[1].ID())
}
