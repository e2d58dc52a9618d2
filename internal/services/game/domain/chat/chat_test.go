package chat

import "testing"

func TestGlobalChannelAdmitsEveryone(t *testing.T) {
	c := Channel{ID: "global", Kind: KindGlobal}
	if !c.CanRead("anyone") || !c.CanWrite("anyone") {
		t.Fatal("global channel should admit every player")
	}
}

func TestScopedChannelChecksMembership(t *testing.T) {
	c := Channel{
		ID:      "faction:mafia",
		Kind:    KindFaction,
		Readers: []string{"alice", "bob"},
		Writers: []string{"alice", "bob"},
	}
	if !c.CanRead("alice") || !c.CanWrite("bob") {
		t.Fatal("members should read and write the faction channel")
	}
	if c.CanRead("carol") || c.CanWrite("carol") {
		t.Fatal("non-members should be shut out of the faction channel")
	}
}

func TestReadOnlyMembership(t *testing.T) {
	c := Channel{
		ID:      "group:masons",
		Kind:    KindGroup,
		Readers: []string{"alice", "bob", "observer"},
		Writers: []string{"alice", "bob"},
	}
	if !c.CanRead("observer") {
		t.Fatal("reader-only member should read")
	}
	if c.CanWrite("observer") {
		t.Fatal("reader-only member should not write")
	}
}

func TestPairIDIsOrderIndependent(t *testing.T) {
	if got, want := PairID("bob", "alice"), "pm:alice:bob"; got != want {
		t.Fatalf("PairID = %q, want %q", got, want)
	}
	if PairID("alice", "bob") != PairID("bob", "alice") {
		t.Fatal("PairID should not depend on argument order")
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := Channel{ID: "group:masons", Kind: KindGroup, Readers: []string{"alice"}, Writers: []string{"alice"}}
	clone := c.Clone()
	clone.Readers[0] = "mallory"
	clone.Writers[0] = "mallory"
	if c.Readers[0] != "alice" || c.Writers[0] != "alice" {
		t.Fatalf("clone shares member slices with original: %+v", c)
	}
}
