// Package envvars adapts the teacher's env_vars module into a flowgraph
// source node function: it ignores its input and returns a snapshot of the
// process environment.
package envvars

import (
	"os"
	"strings"

	"github.com/vk/flowgraph/internal/registry"
)

// New returns a node function suitable for a graph's start node: it snapshots
// os.Environ() into a map[string]string, ignoring whatever payload it is
// called with.
func New() registry.Func {
	return func(any) (any, error) {
		env := make(map[string]string)
		for _, kv := range os.Environ() {
			pair := strings.SplitN(kv, "=", 2)
			if len(pair) == 2 {
				env[pair[0]] = pair[1]
			}
		}
		return env, nil
	}
}

type module struct{}

// Module is registered under the name "env_vars".
var Module registry.Module = module{}

func (module) Register(r *registry.Registry) {
	r.Register("env_vars", New())
}
