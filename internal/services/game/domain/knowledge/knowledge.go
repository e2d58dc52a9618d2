// Package knowledge tracks what each player has learned about other players.
//
// Facts are monotonic: once an observer learns something about a subject the
// fact is merged into what is already known and never revoked. The store is
// the single source for visibility gating in player-facing views.
package knowledge

import "sort"

// Fact captures what an observer knows about a subject. Empty fields are
// unknown; merging never clears a known field.
type Fact struct {
	// Alignment is the subject's alignment name, when learned.
	Alignment string `json:"alignment,omitempty"`
	// RoleName is the subject's role name, when learned.
	RoleName string `json:"role_name,omitempty"`
	// Flavor carries free-form results, e.g. a tracker's sighting.
	Flavor string `json:"flavor,omitempty"`
}

// IsZero reports whether the fact carries no information.
func (f Fact) IsZero() bool {
	return f.Alignment == "" && f.RoleName == "" && f.Flavor == ""
}

// merge folds newer information into f without dropping known fields.
func (f Fact) merge(other Fact) Fact {
	if other.Alignment != "" {
		f.Alignment = other.Alignment
	}
	if other.RoleName != "" {
		f.RoleName = other.RoleName
	}
	if other.Flavor != "" {
		f.Flavor = other.Flavor
	}
	return f
}

// Store maps observer -> subject -> learned fact.
type Store map[string]map[string]Fact

// Learn merges a fact into what observer knows about subject and returns the
// store. A nil store is allocated on first learn.
func (s Store) Learn(observer, subject string, fact Fact) Store {
	if fact.IsZero() {
		return s
	}
	if s == nil {
		s = make(Store)
	}
	known := s[observer]
	if known == nil {
		known = make(map[string]Fact)
		s[observer] = known
	}
	known[subject] = known[subject].merge(fact)
	return s
}

// Knows returns the fact observer has learned about subject, if any.
func (s Store) Knows(observer, subject string) (Fact, bool) {
	known, ok := s[observer]
	if !ok {
		return Fact{}, false
	}
	fact, ok := known[subject]
	return fact, ok
}

// Subjects returns the subjects observer knows about, sorted for
// deterministic iteration.
func (s Store) Subjects(observer string) []string {
	known := s[observer]
	if len(known) == 0 {
		return nil
	}
	subjects := make([]string, 0, len(known))
	for subject := range known {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	return subjects
}

// Clone returns a deep copy of the store.
func (s Store) Clone() Store {
	if s == nil {
		return nil
	}
	cloned := make(Store, len(s))
	for observer, known := range s {
		facts := make(map[string]Fact, len(known))
		for subject, fact := range known {
			facts[subject] = fact
		}
		cloned[observer] = facts
	}
	return cloned
}
