// Package chat models in-game channels and their access rules.
package chat

// Kind classifies a channel's audience.
type Kind string

const (
	// KindGlobal is the table-wide channel every player can read and write.
	KindGlobal Kind = "global"
	// KindFaction is a channel scoped to one alignment's members.
	KindFaction Kind = "faction"
	// KindGroup is a channel scoped to an arbitrary member list.
	KindGroup Kind = "group"
	// KindPrivate is a two-player channel created on first message.
	KindPrivate Kind = "private"
)

// Channel is one chat room inside a game. Messages themselves live in
// the read model; the channel tracks membership and a running count.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	// Readers and Writers are player name lists. Both are ignored for
	// global channels, which admit everyone.
	Readers      []string `json:"readers,omitempty"`
	Writers      []string `json:"writers,omitempty"`
	MessageCount int      `json:"message_count,omitempty"`
}

// CanRead reports whether the player may read the channel.
func (c Channel) CanRead(name string) bool {
	if c.Kind == KindGlobal {
		return true
	}
	return contains(c.Readers, name)
}

// CanWrite reports whether the player may post to the channel.
func (c Channel) CanWrite(name string) bool {
	if c.Kind == KindGlobal {
		return true
	}
	return contains(c.Writers, name)
}

// Clone returns a deep copy of the channel.
func (c Channel) Clone() Channel {
	out := c
	if c.Readers != nil {
		out.Readers = append([]string(nil), c.Readers...)
	}
	if c.Writers != nil {
		out.Writers = append([]string(nil), c.Writers...)
	}
	return out
}

// PairID returns the canonical id for a private channel between two
// players, independent of argument order.
func PairID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return "pm:" + a + ":" + b
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
