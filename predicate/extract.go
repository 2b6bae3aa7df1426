package predicate

// EqualityValue walks AND chains of the tree looking for an equality
// leaf whose left side references the given field, returning the first
// constant value found depth-first.
//
// OR branches are deliberately not explored: a filter using OR against
// an indexed field contributes no cache subkey, which only widens the
// set of keys invalidation fans out over, never narrows it incorrectly.
func EqualityValue(e Expr, field string) (any, bool) {
	switch x := e.(type) {
	case *Logic:
		if x.Op != LogicAnd {
			return nil, false
		}
		for _, child := range x.Children {
			if v, ok := EqualityValue(child, field); ok {
				return v, true
			}
		}
	case *Compare:
		if x.Op != OpEQ {
			return nil, false
		}
		ref, ok := x.Left.(*FieldRef)
		if !ok || ref.Name != field {
			return nil, false
		}
		if c, ok := x.Right.(*Constant); ok {
			return c.Value, true
		}
	}
	return nil, false
}
