package compiler

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-formmarkup/pkg/fieldset"
)

// Built-in type tags.
const (
	TypeFiller   = "filler"
	TypeText     = "text"
	TypeTextarea = "textarea"
	TypeCheckbox = "checkbox"
	TypeButton   = "button"
	TypeSelect   = "select"
	TypeRadio    = "radio"
)

// Rule renders one field into a markup fragment. Fragments start with a
// newline before their first tag.
type Rule func(field *fieldset.FieldSet) (string, error)

// ErrRegistrySealed is returned when registering into a read-only registry.
var ErrRegistrySealed = errors.New("compiler: registry is read-only")

// Registry maps type tags to rules.
type Registry struct {
	mu     sync.RWMutex
	rules  map[string]Rule
	sealed bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// NewBuiltinRegistry creates a mutable registry pre-loaded with the built-in
// rules, for callers that want to add or replace tags.
func NewBuiltinRegistry() *Registry {
	reg := NewRegistry()
	for name, rule := range builtinRules() {
		reg.rules[name] = rule
	}
	return reg
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultRegistry returns the shared read-only registry of built-in rules.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewBuiltinRegistry()
		defaultRegistry.sealed = true
	})
	return defaultRegistry
}

// Register binds name to rule. Empty names, nil rules and duplicates are
// rejected.
func (r *Registry) Register(name string, rule Rule) error {
	if name == "" {
		return errors.New("compiler: rule name is required")
	}
	if rule == nil {
		return fmt.Errorf("compiler: rule %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrRegistrySealed
	}
	if _, exists := r.rules[name]; exists {
		return fmt.Errorf("compiler: rule %q already registered", name)
	}
	r.rules[name] = rule
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, rule Rule) {
	if err := r.Register(name, rule); err != nil {
		panic(err)
	}
}

// Lookup returns the rule bound to name.
func (r *Registry) Lookup(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.rules[name]
	return rule, ok
}

// Has reports whether a rule is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// List returns the registered tags, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func builtinRules() map[string]Rule {
	return map[string]Rule{
		TypeFiller:   renderFiller,
		TypeText:     controlRule("input", flagDisabled, flagRequired),
		TypeTextarea: controlRule("textarea", flagDisabled, flagRequired),
		TypeCheckbox: controlRule("input", flagDisabled, flagChecked, flagRequired),
		TypeButton:   renderButton,
		TypeSelect:   renderSelect,
		TypeRadio:    renderRadio,
	}
}
