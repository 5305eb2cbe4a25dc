package namespace

import (
	"fmt"

	"github.com/google/uuid"
)

// Namespace is the registry of Vars plus refer/alias tables (spec.md §3.2).
// A Var is uniquely owned by the Namespace that interned it; referring
// elsewhere is a pointer copy into the referring namespace's refers table.
type Namespace struct {
	ID   uuid.UUID
	Name string

	mappings map[string]*Var
	refers   map[string]*Var
	aliases  map[string]*Namespace
}

func newNamespace(name string) *Namespace {
	return &Namespace{
		ID:       uuid.New(),
		Name:     name,
		mappings: make(map[string]*Var),
		refers:   make(map[string]*Var),
		aliases:  make(map[string]*Namespace),
	}
}

// Intern creates a Var in ns.mappings, owned by ns. Calling Intern again for
// an already-interned name returns the existing Var unchanged (idempotent),
// matching find_or_create's idempotence contract for the Var layer.
func (ns *Namespace) Intern(name string) *Var {
	if v, ok := ns.mappings[name]; ok {
		return v
	}
	v := newVar(ns.Name, name)
	ns.mappings[name] = v
	return v
}

// Refer adds var* to ns.refers under name; it is an error to shadow an
// existing local mapping (spec.md §4.3).
func (ns *Namespace) Refer(name string, v *Var) error {
	if _, ok := ns.mappings[name]; ok {
		return fmt.Errorf("refer %s would shadow local mapping in namespace %s", name, ns.Name)
	}
	ns.refers[name] = v
	return nil
}

// AddAlias names another namespace for qualified resolution.
func (ns *Namespace) AddAlias(alias string, target *Namespace) {
	ns.aliases[alias] = target
}

// ResolveAlias implements value.NSContext for auto-resolved keywords.
func (ns *Namespace) ResolveAlias(alias string) (string, bool) {
	if target, ok := ns.aliases[alias]; ok {
		return target.Name, true
	}
	return "", false
}

// CurrentNSName implements value.NSContext.
func (ns *Namespace) CurrentNSName() string { return ns.Name }

// Resolve looks up a bare name per the order in spec.md §3.2: (1)
// ns.mappings, (2) ns.refers, (3) fail.
func (ns *Namespace) Resolve(name string) (*Var, bool) {
	if v, ok := ns.mappings[name]; ok {
		return v, true
	}
	if v, ok := ns.refers[name]; ok {
		return v, true
	}
	return nil, false
}

// Mappings exposes the local mapping table for GC root tracing and
// introspection; callers must not mutate the returned map.
func (ns *Namespace) Mappings() map[string]*Var { return ns.mappings }

func (ns *Namespace) Aliases() map[string]*Namespace { return ns.aliases }
