// Package vote tracks day-phase elimination votes.
package vote

import "sort"

// Tally maps each voter to their current target. One vote per voter;
// casting again moves the vote.
type Tally map[string]string

// Cast records the voter's target, replacing any earlier vote, and
// returns the tally so callers can start from a nil map.
func (t Tally) Cast(voter, target string) Tally {
	if t == nil {
		t = make(Tally)
	}
	t[voter] = target
	return t
}

// Retract removes the voter's vote if present.
func (t Tally) Retract(voter string) {
	delete(t, voter)
}

// Target returns the voter's current target.
func (t Tally) Target(voter string) (string, bool) {
	target, ok := t[voter]
	return target, ok
}

// Voters returns the voters in sorted order.
func (t Tally) Voters() []string {
	out := make([]string, 0, len(t))
	for voter := range t {
		out = append(out, voter)
	}
	sort.Strings(out)
	return out
}

// Clone returns a copy of the tally.
func (t Tally) Clone() Tally {
	if t == nil {
		return nil
	}
	out := make(Tally, len(t))
	for voter, target := range t {
		out[voter] = target
	}
	return out
}

// Majority returns the target holding votes from a strict majority of
// the living players. Votes from voters not in the living set are
// ignored. At most one target can hold a majority, so the result is
// deterministic.
func Majority(t Tally, living []string) (string, bool) {
	if len(living) == 0 {
		return "", false
	}
	alive := make(map[string]bool, len(living))
	for _, name := range living {
		alive[name] = true
	}
	counts := make(map[string]int)
	for voter, target := range t {
		if alive[voter] {
			counts[target]++
		}
	}
	need := len(living)/2 + 1
	for target, n := range counts {
		if n >= need {
			return target, true
		}
	}
	return "", false
}
