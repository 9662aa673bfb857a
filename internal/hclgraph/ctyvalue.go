package hclgraph

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgraph/internal/registry"
)

// ctyToAny converts a cty.Value produced by evaluating a "with" attribute
// into the plain Go value flowdag node functions operate on: string, bool,
// float64, map[string]any, or []any, recursively.
func ctyToAny(v cty.Value) (any, error) {
	if !v.IsKnown() || v.IsNull() {
		return nil, nil
	}

	switch {
	case v.Type() == cty.String:
		return v.AsString(), nil
	case v.Type() == cty.Bool:
		return v.True(), nil
	case v.Type() == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	case v.Type().IsObjectType() || v.Type().IsMapType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			k, elem := it.Element()
			goVal, err := ctyToAny(elem)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = goVal
		}
		return out, nil
	case v.Type().IsTupleType() || v.Type().IsListType() || v.Type().IsSetType():
		out := make([]any, 0)
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			goVal, err := ctyToAny(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, goVal)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("hclgraph: unsupported value type %s", v.Type().FriendlyName())
	}
}

// withStaticConfig evaluates a node's "with" expression (a literal HCL
// object, no variables in scope) and wraps fn so every call merges that
// static configuration underneath whatever inbound edges contribute - an
// edge's value for a given key always wins over a "with" default.
func withStaticConfig(fn registry.Func, expr hcl.Expression) (registry.Func, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("evaluating \"with\": %w", diags)
	}

	goVal, err := ctyToAny(val)
	if err != nil {
		return nil, err
	}
	cfg, ok := goVal.(map[string]any)
	if !ok || len(cfg) == 0 {
		return fn, nil
	}

	return func(in any) (any, error) {
		m, _ := in.(map[string]any)
		merged := make(map[string]any, len(m)+len(cfg))
		for k, v := range cfg {
			merged[k] = v
		}
		for k, v := range m {
			merged[k] = v
		}
		return fn(merged)
	}, nil
}
