package player

import "testing"

func uses(n int) *int {
	return &n
}

func TestAliveTracksDeathCauses(t *testing.T) {
	p := Player{Name: "alice"}
	if !p.Alive() {
		t.Fatal("new player should be alive")
	}
	p.Die("killed by the mafia")
	if p.Alive() {
		t.Fatal("player with a death cause should be dead")
	}
	p.Die("elimination")
	if len(p.DeathCauses) != 2 {
		t.Fatalf("len(DeathCauses) = %d, want 2", len(p.DeathCauses))
	}
	if p.DeathCauses[0] != "killed by the mafia" {
		t.Fatalf("DeathCauses[0] = %q, want first cause preserved", p.DeathCauses[0])
	}
}

func TestConsumeAbilityDecrementsLimitedUses(t *testing.T) {
	p := Player{
		Name: "bob",
		Abilities: []AbilityInstance{
			{AbilityID: "vigilante.shoot", UsesLeft: uses(1), Active: true},
		},
	}
	p.ConsumeAbility("vigilante.shoot", 2)

	inst, ok := p.Ability("vigilante.shoot")
	if !ok {
		t.Fatal("Ability() did not find instance")
	}
	if inst.UsesLeft == nil || *inst.UsesLeft != 0 {
		t.Fatalf("UsesLeft = %v, want 0", inst.UsesLeft)
	}
	if inst.LastUsedDay != 2 {
		t.Fatalf("LastUsedDay = %d, want 2", inst.LastUsedDay)
	}
	if !inst.Exhausted() {
		t.Fatal("instance with zero uses should be exhausted")
	}
}

func TestConsumeAbilityUnlimitedKeepsNilCounter(t *testing.T) {
	p := Player{
		Name: "carol",
		Abilities: []AbilityInstance{
			{AbilityID: "doctor.protect", Active: true},
		},
	}
	p.ConsumeAbility("doctor.protect", 3)

	inst, _ := p.Ability("doctor.protect")
	if inst.UsesLeft != nil {
		t.Fatalf("UsesLeft = %v, want nil for unlimited ability", inst.UsesLeft)
	}
	if inst.LastUsedDay != 3 {
		t.Fatalf("LastUsedDay = %d, want 3", inst.LastUsedDay)
	}
	if inst.Limited() || inst.Exhausted() {
		t.Fatal("unlimited instance should never be limited or exhausted")
	}
}

func TestConsumeAbilityIgnoresUnknownID(t *testing.T) {
	p := Player{Name: "dave", Abilities: []AbilityInstance{{AbilityID: "cop.investigate", Active: true}}}
	p.ConsumeAbility("missing", 1)
	inst, _ := p.Ability("cop.investigate")
	if inst.LastUsedDay != 0 {
		t.Fatalf("LastUsedDay = %d, want untouched", inst.LastUsedDay)
	}
}

func TestHasTag(t *testing.T) {
	p := Player{Name: "erin", Tags: []string{"bulletproof", "macho"}}
	if !p.HasTag("macho") {
		t.Fatal("HasTag(macho) = false, want true")
	}
	if p.HasTag("weak") {
		t.Fatal("HasTag(weak) = true, want false")
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := Player{
		Name:        "frank",
		Modifiers:   []string{"1-Shot"},
		Tags:        []string{"bulletproof"},
		DeathCauses: []string{"shot by vigilante"},
		Abilities: []AbilityInstance{
			{AbilityID: "vigilante.shoot", UsesLeft: uses(1), Active: true},
		},
	}
	clone := p.Clone()

	clone.Modifiers[0] = "changed"
	clone.Tags[0] = "changed"
	clone.DeathCauses[0] = "changed"
	*clone.Abilities[0].UsesLeft = 99
	clone.Abilities[0].LastUsedDay = 5

	if p.Modifiers[0] != "1-Shot" || p.Tags[0] != "bulletproof" || p.DeathCauses[0] != "shot by vigilante" {
		t.Fatalf("clone shares slices with original: %+v", p)
	}
	if *p.Abilities[0].UsesLeft != 1 || p.Abilities[0].LastUsedDay != 0 {
		t.Fatalf("clone shares ability instance with original: %+v", p.Abilities[0])
	}
}
