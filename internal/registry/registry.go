package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/flowgraph/internal/flowdag"
)

// Func is the node-function shape a Registry resolves names to. It is the
// same type flowgraph.Func aliases, taken from internal/flowdag directly so
// this package does not depend on the root module.
type Func = flowdag.Func

// Module groups a set of related node-function constructors behind one
// Register call, mirroring the teacher's module-per-package convention.
type Module interface {
	Register(r *Registry)
}

// Registry maps the names a declarative graph definition references to the
// compiled Go functions that implement them.
type Registry struct {
	funcs map[string]Func
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register installs fn under name. Registering the same name twice panics at
// startup, the same "fail loud, fail early" choice the teacher makes for its
// runner and asset handlers: a name collision is a programming error, never
// a runtime condition callers should need to recover from.
func (r *Registry) Register(name string, fn Func) {
	if _, exists := r.funcs[name]; exists {
		panic(fmt.Sprintf("registry: node function %q already registered", name))
	}
	slog.Debug("registry: registered node function", "name", name)
	r.funcs[name] = fn
}

// RegisterModule calls Register for everything m contributes.
func (r *Registry) RegisterModule(m Module) {
	m.Register(r)
}

// Lookup returns the function registered under name, or false if none is.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns every registered name, sorted, for diagnostics and tests.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate reports an error naming every entry of wanted not present in the
// registry. internal/hclgraph calls this once a graph definition has been
// parsed, so an unresolved node name is reported as one structural error
// before any node runs, rather than as a nil-function panic mid-execution.
func (r *Registry) Validate(wanted []string) error {
	var missing []string
	for _, name := range wanted {
		if _, ok := r.funcs[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("registry: unresolved node function(s): %v", missing)
	}
	return nil
}
