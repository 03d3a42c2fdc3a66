package ownerid

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/iancoleman/strcase"
	"gorm.io/gorm"
)

// Resolution errors. Callers decide whether these are soft (owner entities
// can be deleted out-of-band) or hard failures.
var (
	ErrUnknownOwnerType = errors.New("unknown owner type tag")
	ErrOwnerNotFound    = errors.New("owner not found")
)

// LookupFunc fetches the owner entity carrying the given identifier.
// Implementations return ErrOwnerNotFound (or gorm.ErrRecordNotFound)
// when no entity matches.
type LookupFunc func(db *gorm.DB, id ID) (Owner, error)

// Registry maps owner type tags to lookup functions.
//
// This is the portable replacement for a framework generic-relation
// feature: a stored (tag, id) pair plus a registered lookup is all that is
// needed to get back to the concrete entity.
type Registry struct {
	mu      sync.RWMutex
	lookups map[string]LookupFunc
}

// NewRegistry creates an empty owner type registry.
func NewRegistry() *Registry {
	return &Registry{lookups: make(map[string]LookupFunc)}
}

// TagFor derives the canonical type tag for an owner value, e.g.
// *TestCompany -> "test_company". Used when a tag is not given explicitly.
func TagFor(owner Owner) string {
	t := reflect.TypeOf(owner)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return strcase.ToSnake(t.Name())
}

// Register associates a type tag with a lookup function.
// Returns an error on empty input or a duplicate tag.
func (r *Registry) Register(tag string, lookup LookupFunc) error {
	if tag == "" {
		return fmt.Errorf("owner type tag cannot be empty")
	}
	if lookup == nil {
		return fmt.Errorf("lookup function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.lookups[tag]; exists {
		return fmt.Errorf("owner type tag already registered: %s", tag)
	}
	r.lookups[tag] = lookup
	return nil
}

// MustRegister is Register panicking on error. Intended for package init
// of concrete owner types.
func (r *Registry) MustRegister(tag string, lookup LookupFunc) {
	if err := r.Register(tag, lookup); err != nil {
		panic(err)
	}
}

// Tags returns the registered type tags in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.lookups))
	for tag := range r.lookups {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Resolve maps a (tag, id) pair back to the concrete owner entity.
//
// Returns ErrUnknownOwnerType for an unregistered tag and ErrOwnerNotFound
// when the lookup matches no entity.
func (r *Registry) Resolve(db *gorm.DB, tag string, id ID) (Owner, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("owner ID cannot be zero")
	}

	r.mu.RLock()
	lookup, ok := r.lookups[tag]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOwnerType, tag)
	}

	owner, err := lookup(db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrOwnerNotFound, tag, id)
		}
		return nil, err
	}
	if owner == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrOwnerNotFound, tag, id)
	}
	return owner, nil
}
