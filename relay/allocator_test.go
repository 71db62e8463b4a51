package relay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/totemplay/gamerelay/relay"
)

func TestDenseIntegerPolicyAssignsLowestFree(t *testing.T) {
	room := relay.NewRoom("r1", relay.KindSolo, newFakeConn("host"), relay.DenseIntegerPolicy{})
	require.NoError(t, room.SetMaxPlayers(4))

	var players []*relay.Player
	for i := 0; i < 3; i++ {
		p, err := room.Admit(newFakeConn("c"))
		require.NoError(t, err)
		assert.Equal(t, i, p.Index())
		players = append(players, p)
	}

	// Free index 1 and admit again: the freed index is reused.
	_, err := room.Remove(players[1].ID())
	require.NoError(t, err)

	p, err := room.Admit(newFakeConn("c"))
	require.NoError(t, err)
	assert.Equal(t, 1, p.Index())
	assert.Equal(t, "1", p.ID())

	// All low indexes taken again, so the next admit probes past them.
	p, err = room.Admit(newFakeConn("c"))
	require.NoError(t, err)
	assert.Equal(t, 3, p.Index())
}

func TestIdentityTokenPolicyUsesConnID(t *testing.T) {
	room := relay.NewRoom("r1", relay.KindSolo, newFakeConn("host"), relay.IdentityTokenPolicy{})

	conn := newFakeConn("conn-abc")
	p, err := room.Admit(conn)
	require.NoError(t, err)

	assert.Equal(t, "conn-abc", p.ID())
	assert.Equal(t, -1, p.Index())
}

func TestPolicyByName(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{name: "", want: "dense", wantOK: true},
		{name: "dense", want: "dense", wantOK: true},
		{name: "token", want: "token", wantOK: true},
		{name: "bogus", wantOK: false},
	}

	for _, tt := range tests {
		policy, ok := relay.PolicyByName(tt.name)
		assert.Equal(t, tt.wantOK, ok, "name %q", tt.name)
		if ok {
			assert.Equal(t, tt.want, policy.Name())
		}
	}
}
