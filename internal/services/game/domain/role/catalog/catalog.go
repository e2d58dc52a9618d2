// Package catalog ships the standard roster: the classic town and
// mafia roles, the third-party serial killer, and the modifiers games
// compose onto any of them. Everything here is plain configuration of
// the role and ability extension points; games that want a different
// roster build their own role.Set the same way.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/smalltown/internal/platform/errors"
	"github.com/louisbranch/smalltown/internal/services/game/domain/ability"
	"github.com/louisbranch/smalltown/internal/services/game/domain/knowledge"
	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
	"github.com/louisbranch/smalltown/internal/services/game/domain/role"
)

// Priority bands, ascending. Roleblocks land first so a blocked
// player's pending invocations are stripped before they would fire;
// trackers and watchers run last so every visit of the night is on
// record by the time they look.
const (
	PriorityRoleblock   = 10
	PriorityProtect     = 20
	PriorityInvestigate = 30
	PriorityKill        = 40
	PriorityCleanup     = 90
)

// Standard returns the built-in role set. It panics on a registration
// error, which can only mean the catalog itself is malformed.
func Standard() *role.Set {
	set := role.NewSet()
	roles := []role.Role{
		vanilla(),
		cop(),
		doctor(),
		roleblocker(),
		vigilante(),
		tracker(),
		watcher(),
		bodyguard(),
		bulletproof(),
		jailkeeper(),
		mason(),
		neapolitan(),
		innocentChild(),
		serialKillerRole(),
	}
	for _, r := range roles {
		if err := set.RegisterRole(r); err != nil {
			panic(fmt.Sprintf("catalog: register role: %v", err))
		}
	}
	alignments := []role.Alignment{town(), mafia(), serialKiller()}
	for _, a := range alignments {
		if err := set.RegisterAlignment(a); err != nil {
			panic(fmt.Sprintf("catalog: register alignment: %v", err))
		}
	}
	modifiers := []role.Modifier{
		XShot(1),
		XShot(2),
		XShot(3),
		NonConsecutive(),
		NightSpecific(1),
		NightSpecific(2),
		Personal(),
		Weak(),
		Macho(),
		Loyal(),
		Disloyal(),
	}
	for _, m := range modifiers {
		if err := set.RegisterModifier(m); err != nil {
			panic(fmt.Sprintf("catalog: register modifier: %v", err))
		}
	}
	return set
}

// noSelfTarget rejects invocations naming the user among the targets.
func noSelfTarget(msg string) ability.QueueCheckFunc {
	return func(_ ability.View, inv ability.Invocation) error {
		for _, t := range inv.Targets {
			if t == inv.User {
				return apperrors.New(apperrors.CodeInvalidTarget, msg)
			}
		}
		return nil
	}
}

// killOutcome maps a kill attempt to the invocation's outcome. A guard
// dying in the target's place still counts as the kill landing.
func killOutcome(result ability.KillResult) ability.Outcome {
	switch result {
	case ability.KillResultDied, ability.KillResultGuarded:
		return ability.Resolved()
	case ability.KillResultProtected:
		return ability.Blocked("the target was protected")
	default:
		return ability.Fizzled("the target was already gone")
	}
}

func vanilla() role.Role {
	return role.Role{
		Name:        "Vanilla",
		Description: "No ability beyond the day vote.",
	}
}

func cop() role.Role {
	return role.Role{
		Name:        "Cop",
		Description: "Investigates one player each night.",
		Abilities: []ability.Descriptor{{
			ID:          "cop.investigate",
			Name:        "Investigate",
			Description: "Learn a player's alignment.",
			Kind:        ability.KindAction,
			Phase:       phase.KindNight,
			TargetCount: 1,
			Priority:    PriorityInvestigate,
			Category:    ability.CategoryInformational,
			QueueCheck:  noSelfTarget("you cannot investigate yourself"),
			Apply: func(env ability.Env, inv ability.Invocation) ability.Outcome {
				target := inv.Targets[0]
				env.Learn(inv.User, target, knowledge.Fact{Alignment: env.PlayerAlignment(target)})
				return ability.Resolved()
			},
		}},
	}
}

func doctor() role.Role {
	return role.Role{
		Name:        "Doctor",
		Description: "Protects one player each night.",
		Abilities: []ability.Descriptor{{
			ID:          "doctor.protect",
			Name:        "Protect",
			Description: "Shield a player from kills tonight.",
			Kind:        ability.KindAction,
			Phase:       phase.KindNight,
			TargetCount: 1,
			Priority:    PriorityProtect,
			Category:    ability.CategoryProtective,
			QueueCheck:  noSelfTarget("you cannot protect yourself"),
			Apply: func(env ability.Env, inv ability.Invocation) ability.Outcome {
				env.Protect(inv.Targets[0])
				return ability.Resolved()
			},
		}},
	}
}

func roleblocker() role.Role {
	return role.Role{
		Name:        "Roleblocker",
		Description: "Stops one player's action each night.",
		Abilities: []ability.Descriptor{{
			ID:          "roleblocker.block",
			Name:        "Block",
			Description: "Void a player's pending actions tonight.",
			Kind:        ability.KindAction,
			Phase:       phase.KindNight,
			TargetCount: 1,
			Priority:    PriorityRoleblock,
			Category:    ability.CategoryProtective,
			QueueCheck:  noSelfTarget("you cannot block yourself"),
			Apply: func(env ability.Env, inv ability.Invocation) ability.Outcome {
				env.Block(inv.Targets[0])
				return ability.Resolved()
			},
		}},
	}
}

func vigilante() role.Role {
	return role.Role{
		Name:        "Vigilante",
		Description: "Kills one player each night.",
		Abilities: []ability.Descriptor{{
			ID:          "vigilante.shoot",
			Name:        "Shoot",
			Description: "Kill a player tonight.",
			Kind:        ability.KindAction,
			Phase:       phase.KindNight,
			TargetCount: 1,
			Priority:    PriorityKill,
			Category:    ability.CategoryOffensive,
			QueueCheck:  noSelfTarget("you cannot shoot yourself"),
			Apply: func(env ability.Env, inv ability.Invocation) ability.Outcome {
				return killOutcome(env.Kill(inv.Targets[0], "shot"))
			},
		}},
	}
}

func tracker() role.Role {
	return role.Role{
		Name:        "Tracker",
		Description: "Sees who their target visits at night.",
		Abilities: []ability.Descriptor{{
			ID:          "tracker.track",
			Name:        "Track",
			Description: "Learn who a player visited tonight.",
			Kind:        ability.KindAction,
			Phase:       phase.KindNight,
			TargetCount: 1,
			Priority:    PriorityCleanup,
			Category:    ability.CategoryInformational,
			QueueCheck:  noSelfTarget("you cannot track yourself"),
			Apply: func(env ability.Env, inv ability.Invocation) ability.Outcome {
				target := inv.Targets[0]
				fact := knowledge.Fact{Flavor: "visited no one"}
				if visits := env.VisitsBy(target); len(visits) > 0 {
					fact.Flavor = "visited " + strings.Join(visits, ", ")
				}
				env.Learn(inv.User, target, fact)
				return ability.Resolved()
			},
		}},
	}
}

func watcher() role.Role {
	return role.Role{
		Name:        "Watcher",
		Description: "Sees who visits their target at night.",
		Abilities: []ability.Descriptor{{
			ID:          "watcher.watch",
			Name:        "Watch",
			Description: "Learn who visited a player tonight.",
			Kind:        ability.KindAction,
			Phase:       phase.KindNight,
			TargetCount: 1,
			Priority:    PriorityCleanup,
			Category:    ability.CategoryInformational,
			QueueCheck:  noSelfTarget("you cannot watch yourself"),
			Apply: func(env ability.Env, inv ability.Invocation) ability.Outcome {
				target := inv.Targets[0]
				// The watcher's own visit is on record by now; it is
				// not news to them.
				var seen []string
				for _, v := range env.VisitorsOf(target) {
					if v != inv.User {
						seen = append(seen, v)
					}
				}
				fact := knowledge.Fact{Flavor: "visited by no one"}
				if len(seen) > 0 {
					fact.Flavor = "visited by " + strings.Join(seen, ", ")
				}
				env.Learn(inv.User, target, fact)
				return ability.Resolved()
			},
		}},
	}
}

func bodyguard() role.Role {
	return role.Role{
		Name:        "Bodyguard",
		Description: "Dies in place of the player they guard.",
		Abilities: []ability.Descriptor{{
			ID:          "bodyguard.guard",
			Name:        "Guard",
			Description: "Take the first kill aimed at a player tonight.",
			Kind:        ability.KindAction,
			Phase:       phase.KindNight,
			TargetCount: 1,
			Priority:    PriorityProtect,
			Category:    ability.CategoryProtective,
			QueueCheck:  noSelfTarget("you cannot guard yourself"),
			Apply: func(env ability.Env, inv ability.Invocation) ability.Outcome {
				env.Guard(inv.Targets[0], inv.User)
				return ability.Resolved()
			},
		}},
	}
}

func bulletproof() role.Role {
	return role.Role{
		Name:        "Bulletproof",
		Description: "Survives kills outright.",
		Tags:        []string{"bulletproof"},
	}
}

func jailkeeper() role.Role {
	return role.Role{
		Name:        "Jailkeeper",
		Description: "Jails one player each night, blocking and protecting them.",
		Abilities: []ability.Descriptor{{
			ID:          "jailkeeper.jail",
			Name:        "Jail",
			Description: "Block and protect a player tonight.",
			Kind:        ability.KindAction,
			Phase:       phase.KindNight,
			TargetCount: 1,
			// Runs in the roleblock band so the jailed player's own
			// action is stripped before it would fire.
			Priority:   PriorityRoleblock,
			Category:   ability.CategoryProtective,
			QueueCheck: noSelfTarget("you cannot jail yourself"),
			Apply: func(env ability.Env, inv ability.Invocation) ability.Outcome {
				target := inv.Targets[0]
				env.Block(target)
				env.Protect(target)
				return ability.Resolved()
			},
		}},
	}
}

func mason() role.Role {
	return role.Role{
		Name:           "Mason",
		Description:    "Knows the other masons from the start.",
		KnowsRolemates: true,
	}
}

func neapolitan() role.Role {
	return role.Role{
		Name:        "Neapolitan",
		Description: "Learns whether a player is vanilla town.",
		Abilities: []ability.Descriptor{{
			ID:          "neapolitan.see",
			Name:        "See",
			Description: "Learn whether a player is vanilla town.",
			Kind:        ability.KindAction,
			Phase:       phase.KindNight,
			TargetCount: 1,
			Priority:    PriorityInvestigate,
			Category:    ability.CategoryInformational,
			QueueCheck:  noSelfTarget("you cannot see yourself"),
			Apply: func(env ability.Env, inv ability.Invocation) ability.Outcome {
				target := inv.Targets[0]
				fact := knowledge.Fact{Flavor: "not vanilla town"}
				if env.PlayerRole(target) == "Vanilla" && !env.PlayerHostile(target) {
					fact.Flavor = "vanilla town"
				}
				env.Learn(inv.User, target, fact)
				return ability.Resolved()
			},
		}},
	}
}

func innocentChild() role.Role {
	return role.Role{
		Name:        "Innocent Child",
		Description: "May reveal their role to the whole town, once.",
		Abilities: []ability.Descriptor{{
			ID:          "child.reveal",
			Name:        "Reveal",
			Description: "Show your role to every living player.",
			Kind:        ability.KindAction,
			Phase:       phase.KindDay,
			Immediate:   true,
			Priority:    PriorityCleanup,
			Category:    ability.CategoryCleanup,
			InitialUses: ability.Uses(1),
			Apply: func(env ability.Env, inv ability.Invocation) ability.Outcome {
				fact := knowledge.Fact{
					RoleName:  "Innocent Child",
					Alignment: env.PlayerAlignment(inv.User),
				}
				for _, name := range env.Living() {
					if name == inv.User {
						continue
					}
					env.Learn(name, inv.User, fact)
				}
				return ability.Resolved()
			},
		}},
	}
}

func serialKillerRole() role.Role {
	return role.Role{
		Name:        "Serial Killer",
		Description: "Kills one player each night, answering to no one.",
		Abilities: []ability.Descriptor{{
			ID:          "serialkiller.stab",
			Name:        "Stab",
			Description: "Kill a player tonight.",
			Kind:        ability.KindAction,
			Phase:       phase.KindNight,
			TargetCount: 1,
			Priority:    PriorityKill,
			Category:    ability.CategoryOffensive,
			QueueCheck:  noSelfTarget("you cannot stab yourself"),
			Apply: func(env ability.Env, inv ability.Invocation) ability.Outcome {
				return killOutcome(env.Kill(inv.Targets[0], "stabbed"))
			},
		}},
	}
}

func town() role.Alignment {
	return role.Alignment{
		Name:        "town",
		Description: "Wins once no hostile faction survives.",
		WinCheck: func(snap role.Snapshot) bool {
			for _, m := range snap.Living() {
				if m.Hostile {
					return false
				}
			}
			return true
		},
	}
}

func mafia() role.Alignment {
	return role.Alignment{
		Name:        "mafia",
		Description: "Wins at parity with everyone outside the family.",
		Hostile:     true,
		Informed:    true,
		Shared: []ability.Descriptor{{
			ID:          "mafia.kill",
			Name:        "Factional Kill",
			Description: "Kill a player tonight on the family's behalf.",
			Kind:        ability.KindShared,
			Alignment:   "mafia",
			Phase:       phase.KindNight,
			TargetCount: 1,
			Priority:    PriorityKill,
			Category:    ability.CategoryOffensive,
			Apply: func(env ability.Env, inv ability.Invocation) ability.Outcome {
				return killOutcome(env.Kill(inv.Targets[0], "killed by the mafia"))
			},
		}},
		WinCheck: func(snap role.Snapshot) bool {
			var members, rivals int
			hostileRival := false
			for _, m := range snap.Living() {
				if m.Alignment == "mafia" {
					members++
					continue
				}
				rivals++
				if m.Hostile {
					hostileRival = true
				}
			}
			return members > 0 && members >= rivals && !hostileRival
		},
	}
}

func serialKiller() role.Alignment {
	return role.Alignment{
		Name:        "serialkiller",
		Description: "Wins as the sole survivor.",
		Hostile:     true,
		WinCheck: func(snap role.Snapshot) bool {
			living := snap.Living()
			return len(living) == 1 && living[0].Alignment == "serialkiller"
		},
	}
}

// XShot limits every ability of the role to n total uses.
func XShot(n int) role.Modifier {
	return role.Modifier{
		Name:        fmt.Sprintf("%d-Shot", n),
		Description: fmt.Sprintf("Each ability works %d time(s) in total.", n),
		Transform: func(d ability.Descriptor) ability.Descriptor {
			d.InitialUses = ability.Uses(n)
			return d
		},
	}
}

// NonConsecutive forbids using an ability two nights running.
func NonConsecutive() role.Modifier {
	return role.Modifier{
		Name:        "Non-Consecutive",
		Description: "Abilities cannot be used on consecutive nights.",
		Transform: func(d ability.Descriptor) ability.Descriptor {
			id := d.ID
			check := d.QueueCheck
			d.QueueCheck = func(view ability.View, inv ability.Invocation) error {
				if last := view.LastUsedDay(inv.User, id); last > 0 && view.Phase().Day == last+1 {
					return apperrors.New(apperrors.CodeIneligibleNow, "you cannot use this two nights running")
				}
				if check != nil {
					return check(view, inv)
				}
				return nil
			}
			return d
		},
	}
}

// NightSpecific restricts abilities to one specific night.
func NightSpecific(night int) role.Modifier {
	return role.Modifier{
		Name:        fmt.Sprintf("Night-%d", night),
		Description: fmt.Sprintf("Abilities only work on night %d.", night),
		Transform: func(d ability.Descriptor) ability.Descriptor {
			check := d.QueueCheck
			d.QueueCheck = func(view ability.View, inv ability.Invocation) error {
				if view.Phase().Day != night {
					return apperrors.New(apperrors.CodeIneligibleNow,
						fmt.Sprintf("this ability only works on night %d", night))
				}
				if check != nil {
					return check(view, inv)
				}
				return nil
			}
			return d
		},
	}
}

// Personal turns every ability inward: the holder may only target
// themselves, replacing any no-self-target rule the base role carries.
func Personal() role.Modifier {
	return role.Modifier{
		Name:        "Personal",
		Description: "Abilities only work on yourself.",
		Transform: func(d ability.Descriptor) ability.Descriptor {
			d.QueueCheck = func(_ ability.View, inv ability.Invocation) error {
				for _, t := range inv.Targets {
					if t != inv.User {
						return apperrors.New(apperrors.CodeInvalidTarget, "this ability only works on yourself")
					}
				}
				return nil
			}
			return d
		},
	}
}

// Weak kills the holder whenever they visit a hostile player.
func Weak() role.Modifier {
	return role.Modifier{
		Name:        "Weak",
		Description: "Visiting a hostile player is fatal.",
		Transform: func(d ability.Descriptor) ability.Descriptor {
			base := d.Apply
			if base == nil {
				return d
			}
			d.Apply = func(env ability.Env, inv ability.Invocation) ability.Outcome {
				outcome := base(env, inv)
				for _, t := range inv.Targets {
					if env.PlayerHostile(t) {
						env.Kill(inv.User, "visited a hostile player")
						break
					}
				}
				return outcome
			}
			return d
		},
	}
}

// Macho players refuse protection; kills aimed at them always land.
func Macho() role.Modifier {
	return role.Modifier{
		Name:        "Macho",
		Description: "Refuses all protection.",
		Tags:        []string{"macho"},
	}
}

// Loyal abilities only work on players sharing the holder's alignment.
func Loyal() role.Modifier {
	return role.Modifier{
		Name:        "Loyal",
		Description: "Abilities only work on your own alignment.",
		Transform: func(d ability.Descriptor) ability.Descriptor {
			check := d.ResolveCheck
			d.ResolveCheck = func(env ability.Env, inv ability.Invocation) error {
				for _, t := range inv.Targets {
					if env.PlayerAlignment(t) != env.PlayerAlignment(inv.User) {
						return errors.New("the target is not an ally")
					}
				}
				if check != nil {
					return check(env, inv)
				}
				return nil
			}
			return d
		},
	}
}

// Disloyal abilities only work on players outside the holder's alignment.
func Disloyal() role.Modifier {
	return role.Modifier{
		Name:        "Disloyal",
		Description: "Abilities only work outside your own alignment.",
		Transform: func(d ability.Descriptor) ability.Descriptor {
			check := d.ResolveCheck
			d.ResolveCheck = func(env ability.Env, inv ability.Invocation) error {
				for _, t := range inv.Targets {
					if env.PlayerAlignment(t) == env.PlayerAlignment(inv.User) {
						return errors.New("the target is an ally")
					}
				}
				if check != nil {
					return check(env, inv)
				}
				return nil
			}
			return d
		},
	}
}
