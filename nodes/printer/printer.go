// Package printer adapts the teacher's print module into a flowgraph node
// function: a debug sink that writes its input to stdout, sorted by key.
package printer

import (
	"fmt"
	"sort"

	"github.com/vk/flowgraph/internal/registry"
)

// New returns a node function that prints its input map, one "key = value"
// line per entry in sorted key order, and passes the input through
// unchanged as its return value.
func New() registry.Func {
	return func(in any) (any, error) {
		m, ok := in.(map[string]any)
		if !ok {
			fmt.Printf("      (value) %v\n", in)
			return in, nil
		}
		if len(m) == 0 {
			fmt.Println("      (null)")
			return in, nil
		}

		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			fmt.Printf("      %s = %v\n", k, m[k])
		}
		return in, nil
	}
}

// module implements registry.Module so New's function can be wired into a
// Registry by name for declarative (HCL) graphs.
type module struct{}

// Module is registered under the name "printer".
var Module registry.Module = module{}

func (module) Register(r *registry.Registry) {
	r.Register("printer", New())
}
