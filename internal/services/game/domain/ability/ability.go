// Package ability defines the ability vocabulary shared by roles,
// alignments, and the resolution engine.
package ability

import (
	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
)

// Kind classifies how an ability is owned and invoked.
type Kind string

const (
	// KindAction is a targeted ability owned by a single player.
	KindAction Kind = "action"
	// KindShared is a faction ability any living member may claim for a phase.
	KindShared Kind = "shared"
	// KindPassive fires automatically and never enters the queue by hand.
	KindPassive Kind = "passive"
)

// Category groups abilities for resolution ordering within a priority band.
type Category string

const (
	// CategoryProtective covers protection and blocking effects.
	CategoryProtective Category = "protective"
	// CategoryInformational covers investigations and observations.
	CategoryInformational Category = "informational"
	// CategoryOffensive covers kills and other harmful effects.
	CategoryOffensive Category = "offensive"
	// CategoryCleanup covers effects that run after everything else.
	CategoryCleanup Category = "cleanup"
)

// categoryLabels maps lowercase labels to categories.
var categoryLabels = map[string]Category{
	"protective":    CategoryProtective,
	"informational": CategoryInformational,
	"offensive":     CategoryOffensive,
	"cleanup":       CategoryCleanup,
}

// CategoryFromLabel parses a category label.
func CategoryFromLabel(label string) (Category, bool) {
	c, ok := categoryLabels[label]
	return c, ok
}

// DefaultCategoryOrder is the category tie-break order used when a game
// does not configure its own.
func DefaultCategoryOrder() []Category {
	return []Category{
		CategoryProtective,
		CategoryInformational,
		CategoryOffensive,
		CategoryCleanup,
	}
}

// Invocation identifies one use of an ability by a player.
type Invocation struct {
	AbilityID string     `json:"ability_id"`
	User      string     `json:"user"`
	Targets   []string   `json:"targets,omitempty"`
	Phase     phase.Kind `json:"phase"`
	Day       int        `json:"day"`
}

// Status classifies how an invocation concluded during resolution.
type Status string

const (
	// StatusResolved indicates the ability took effect.
	StatusResolved Status = "resolved"
	// StatusBlocked indicates the effect was stopped by another ability.
	StatusBlocked Status = "blocked"
	// StatusFizzled indicates the ability never fired.
	StatusFizzled Status = "fizzled"
)

// Outcome reports how an invocation concluded and why.
type Outcome struct {
	Status Status
	Reason string
}

// Resolved returns an outcome for an ability that took effect.
func Resolved() Outcome {
	return Outcome{Status: StatusResolved}
}

// Blocked returns an outcome for an effect stopped by another ability.
func Blocked(reason string) Outcome {
	return Outcome{Status: StatusBlocked, Reason: reason}
}

// Fizzled returns an outcome for an ability that never fired.
func Fizzled(reason string) Outcome {
	return Outcome{Status: StatusFizzled, Reason: reason}
}

// QueueCheckFunc vets an invocation before it enters the queue.
type QueueCheckFunc func(View, Invocation) error

// ResolveCheckFunc vets an invocation at its resolution turn. A non-nil
// error fizzles the invocation with the error text as the reason.
type ResolveCheckFunc func(Env, Invocation) error

// ApplyFunc applies the ability's effect and reports the outcome.
type ApplyFunc func(Env, Invocation) Outcome

// Descriptor is the immutable template for an ability. Role and alignment
// catalogs register descriptors; per-player state tracks only usage.
type Descriptor struct {
	ID          string
	Name        string
	Description string
	Kind        Kind
	// Alignment names the owning faction for shared abilities.
	Alignment string
	// Phase restricts when the ability may be queued. KindAny allows both.
	Phase phase.Kind
	// Immediate abilities resolve at queue time instead of phase end.
	Immediate   bool
	TargetCount int
	// Priority orders resolution ascending. Ties fall back to category order,
	// then to queue insertion order.
	Priority int
	Category Category
	Tags     []string
	// InitialUses seeds the per-holder use counter. Nil means unlimited.
	InitialUses *int

	QueueCheck   QueueCheckFunc
	ResolveCheck ResolveCheckFunc
	Apply        ApplyFunc
}

// WithTag returns a copy of the descriptor with tag appended.
func (d Descriptor) WithTag(tag string) Descriptor {
	tags := make([]string, 0, len(d.Tags)+1)
	tags = append(tags, d.Tags...)
	tags = append(tags, tag)
	d.Tags = tags
	return d
}

// HasTag reports whether the descriptor carries the tag.
func (d Descriptor) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Uses returns a pointer to n for limited-use descriptors.
func Uses(n int) *int {
	return &n
}
