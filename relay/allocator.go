package relay

import "strconv"

// SlotPolicy decides the identifier a joining player gets. The room calls
// Assign with its current membership while holding its own lock, so
// implementations must not call back into the room.
type SlotPolicy interface {
	// Name identifies the policy in configuration and status output.
	Name() string

	// Assign returns the routing identifier for the connection and its wire
	// index, or -1 when the policy does not allocate wire indexes.
	Assign(conn Conn, players []*Player) (id string, index int)
}

// DenseIntegerPolicy assigns the lowest non-negative integer not currently
// held by any player in the room. The integer doubles as the player's wire
// index in binary input framing, so it stays fixed for the life of the
// connection and is reclaimed as soon as the player leaves.
type DenseIntegerPolicy struct{}

// Name implements SlotPolicy.
func (DenseIntegerPolicy) Name() string { return "dense" }

// Assign implements SlotPolicy by linear probing from 0 upward.
func (DenseIntegerPolicy) Assign(_ Conn, players []*Player) (string, int) {
	index := 0
	for taken(players, index) {
		index++
	}
	return strconv.Itoa(index), index
}

func taken(players []*Player, index int) bool {
	for _, p := range players {
		if p.index == index {
			return true
		}
	}
	return false
}

// IdentityTokenPolicy uses the connection's transport-assigned identity as
// the player identifier. No wire index is allocated, so rooms using this
// policy cannot carry binary input.
type IdentityTokenPolicy struct{}

// Name implements SlotPolicy.
func (IdentityTokenPolicy) Name() string { return "token" }

// Assign implements SlotPolicy.
func (IdentityTokenPolicy) Assign(conn Conn, _ []*Player) (string, int) {
	return conn.ID(), -1
}

// PolicyByName returns the policy registered under name, defaulting to the
// dense-integer policy for an empty name.
func PolicyByName(name string) (SlotPolicy, bool) {
	switch name {
	case "", "dense":
		return DenseIntegerPolicy{}, true
	case "token":
		return IdentityTokenPolicy{}, true
	}
	return nil, false
}
