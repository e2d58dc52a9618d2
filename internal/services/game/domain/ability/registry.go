package ability

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrIDRequired indicates a missing ability id.
	ErrIDRequired = errors.New("ability id is required")
	// ErrDuplicateID indicates the ability id is already registered.
	ErrDuplicateID = errors.New("ability id is already registered")
	// ErrKindInvalid indicates an unknown ability kind.
	ErrKindInvalid = errors.New("ability kind is invalid")
	// ErrCategoryInvalid indicates an unknown resolution category.
	ErrCategoryInvalid = errors.New("ability category is invalid")
	// ErrTargetCountNegative indicates a negative target count.
	ErrTargetCountNegative = errors.New("target count must not be negative")
	// ErrPassiveTargeted indicates a passive declaring targets.
	ErrPassiveTargeted = errors.New("passive abilities take no targets")
	// ErrAlignmentRequired indicates a shared ability without an owner.
	ErrAlignmentRequired = errors.New("shared abilities require an owning alignment")
	// ErrApplyRequired indicates a missing apply hook.
	ErrApplyRequired = errors.New("apply hook is required")
	// ErrUsesInvalid indicates a non-positive initial use count.
	ErrUsesInvalid = errors.New("initial uses must be positive")
)

// Registry stores ability descriptors keyed by id.
type Registry struct {
	descriptors map[string]Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[string]Descriptor)}
}

// Register adds a descriptor after validating it.
func (r *Registry) Register(d Descriptor) error {
	if r == nil {
		return errors.New("registry is required")
	}
	d.ID = strings.TrimSpace(d.ID)
	if d.ID == "" {
		return ErrIDRequired
	}
	if _, exists := r.descriptors[d.ID]; exists {
		return ErrDuplicateID
	}
	switch d.Kind {
	case KindAction, KindShared, KindPassive:
	default:
		return ErrKindInvalid
	}
	switch d.Category {
	case CategoryProtective, CategoryInformational, CategoryOffensive, CategoryCleanup:
	default:
		return ErrCategoryInvalid
	}
	if d.TargetCount < 0 {
		return ErrTargetCountNegative
	}
	if d.Kind == KindPassive && d.TargetCount > 0 {
		return ErrPassiveTargeted
	}
	if d.Kind == KindShared && strings.TrimSpace(d.Alignment) == "" {
		return ErrAlignmentRequired
	}
	if d.Apply == nil {
		return ErrApplyRequired
	}
	if d.InitialUses != nil && *d.InitialUses <= 0 {
		return ErrUsesInvalid
	}
	if d.Name == "" {
		d.Name = d.ID
	}
	if r.descriptors == nil {
		r.descriptors = make(map[string]Descriptor)
	}
	r.descriptors[d.ID] = d
	return nil
}

// Get returns the descriptor for the id.
func (r *Registry) Get(id string) (Descriptor, bool) {
	if r == nil {
		return Descriptor{}, false
	}
	d, ok := r.descriptors[id]
	return d, ok
}

// List returns registered descriptors sorted by id.
func (r *Registry) List() []Descriptor {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.descriptors))
	for id := range r.descriptors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Descriptor, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.descriptors[id])
	}
	return out
}
