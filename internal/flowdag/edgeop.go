package flowdag

// applyEdge shapes one upstream value into a consumer's input contribution.
// Transform runs before Filter; this order is observable and must never be
// reversed. omit is true when the contribution should not appear in the
// consumer's input map at all.
func applyEdge(opts *EdgeOptions, from NodeID, v any) (key string, value any, omit bool) {
	if opts != nil && opts.Transform != nil {
		v = opts.Transform(v)
	}
	if opts != nil && opts.Filter != nil && !opts.Filter(v) {
		return "", nil, true
	}
	key = string(from)
	if opts != nil && opts.Name != "" {
		key = opts.Name
	}
	return key, v, false
}
