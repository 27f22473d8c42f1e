// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit

import (
	"fmt"
)

// Kind classifies registered components.
type Kind int

const (
	// KindDataSource is a database/sql Target.
	KindDataSource Kind = iota + 1
	// KindPool is a native pool Target. It takes precedence over data sources.
	KindPool
	// KindInitializer is a DatabaseInitializer run by Startup.
	KindInitializer
)

func (k Kind) String() string {
	switch k {
	case KindDataSource:
		return "datasource"
	case KindPool:
		return "pool"
	case KindInitializer:
		return "initializer"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Component is a named entry in a Registry.
type Component struct {
	Name    string
	Kind    Kind
	Value   any
	Primary bool
	// DependsOn names components that must be initialized first.
	DependsOn []string
}

// Registry holds the application's components in registration order.
type Registry struct {
	components []Component
	byName     map[string]int
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register adds c. Names must be unique and the value must suit the kind.
func (r *Registry) Register(c Component) error {
	if c.Name == "" {
		return fmt.Errorf("register %s: missing name", c.Kind)
	}
	if _, ok := r.byName[c.Name]; ok {
		return fmt.Errorf("register %s: duplicate component %q", c.Kind, c.Name)
	}
	switch c.Kind {
	case KindDataSource, KindPool:
		if _, ok := c.Value.(Target); !ok {
			return fmt.Errorf("register %s %q: %T is not a Target", c.Kind, c.Name, c.Value)
		}
	case KindInitializer:
		if _, ok := c.Value.(DatabaseInitializer); !ok {
			return fmt.Errorf("register %s %q: %T is not a DatabaseInitializer", c.Kind, c.Name, c.Value)
		}
	default:
		return fmt.Errorf("register %q: unknown kind %s", c.Name, c.Kind)
	}
	r.byName[c.Name] = len(r.components)
	r.components = append(r.components, c)
	return nil
}

// RegisterDataSource registers a database/sql target.
func (r *Registry) RegisterDataSource(name string, t Target) error {
	return r.Register(Component{Name: name, Kind: KindDataSource, Value: t})
}

// RegisterPool registers a native pool target.
func (r *Registry) RegisterPool(name string, t Target) error {
	return r.Register(Component{Name: name, Kind: KindPool, Value: t})
}

// RegisterInitializer registers an initializer that runs after dependsOn.
func (r *Registry) RegisterInitializer(name string, init DatabaseInitializer, dependsOn ...string) error {
	return r.Register(Component{Name: name, Kind: KindInitializer, Value: init, DependsOn: dependsOn})
}

// Lookup returns the component called name.
func (r *Registry) Lookup(name string) (Component, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Component{}, false
	}
	return r.components[i], true
}

// OfKind returns the components of kind in registration order.
func (r *Registry) OfKind(kind Kind) []Component {
	var out []Component
	for _, c := range r.components {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// SingleCandidate returns the only component of kind, or the only primary
// one when there are several.
func (r *Registry) SingleCandidate(kind Kind) (Component, bool) {
	all := r.OfKind(kind)
	if len(all) == 1 {
		return all[0], true
	}
	var primary []Component
	for _, c := range all {
		if c.Primary {
			primary = append(primary, c)
		}
	}
	if len(primary) == 1 {
		return primary[0], true
	}
	return Component{}, false
}
