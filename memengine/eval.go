package memengine

import (
	"fmt"
	"time"

	"github.com/wardenkit/warden/predicate"
	"github.com/wardenkit/warden/schema"
)

// eval decides whether the record satisfies the predicate.
func (e *Engine) eval(expr predicate.Expr, r *schema.Record) (bool, error) {
	switch n := expr.(type) {
	case *predicate.Logic:
		for _, c := range n.Children {
			ok, err := e.eval(c, r)
			if err != nil {
				return false, err
			}
			if n.Op == predicate.LogicAnd && !ok {
				return false, nil
			}
			if n.Op == predicate.LogicOr && ok {
				return true, nil
			}
		}
		return n.Op == predicate.LogicAnd, nil
	case *predicate.Compare:
		return e.evalCompare(n, r)
	}
	return false, &predicate.UnsupportedError{Fragment: expr.String()}
}

func (e *Engine) evalCompare(c *predicate.Compare, r *schema.Record) (bool, error) {
	if c.Op == predicate.OpIn {
		list, ok := c.Right.(*predicate.List)
		if !ok {
			return false, &predicate.UnsupportedError{Fragment: c.String()}
		}
		left, err := e.operand(c.Left, r)
		if err != nil {
			return false, err
		}
		for _, elem := range list.Elems {
			v, err := e.operand(elem, r)
			if err != nil {
				return false, err
			}
			if e.equal(left, v) {
				return true, nil
			}
		}
		return false, nil
	}

	left, err := e.operand(c.Left, r)
	if err != nil {
		return false, err
	}
	right, err := e.operand(c.Right, r)
	if err != nil {
		return false, err
	}

	switch c.Op {
	case predicate.OpEQ:
		return e.equal(left, right), nil
	case predicate.OpNEQ:
		return !e.equal(left, right), nil
	}

	cmp, ok := e.compare(left, right)
	if !ok {
		return false, nil
	}
	switch c.Op {
	case predicate.OpLT:
		return cmp < 0, nil
	case predicate.OpLTE:
		return cmp <= 0, nil
	case predicate.OpGT:
		return cmp > 0, nil
	case predicate.OpGTE:
		return cmp >= 0, nil
	}
	return false, &predicate.UnsupportedError{Fragment: c.String()}
}

// operand resolves a comparison operand against the record. Only field
// references and constants carry values.
func (e *Engine) operand(x predicate.Expr, r *schema.Record) (any, error) {
	switch v := x.(type) {
	case *predicate.Constant:
		return v.Value, nil
	case *predicate.FieldRef:
		val, _ := r.Get(v.Name)
		return val, nil
	}
	return nil, &predicate.UnsupportedError{Fragment: x.String()}
}

func (e *Engine) equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if cmp, ok := e.compare(a, b); ok {
		return cmp == 0
	}
	return a == b
}

// compare orders two values when they share a comparable kind. Mixed
// integer widths and int/float mixes are normalized; incomparable pairs
// report false.
func (e *Engine) compare(a, b any) (int, bool) {
	if a == nil || b == nil {
		if a == nil && b == nil {
			return 0, true
		}
		return 0, false
	}

	if ai, aok := asInt64(a); aok {
		if bi, bok := asInt64(b); bok {
			switch {
			case ai < bi:
				return -1, true
			case ai > bi:
				return 1, true
			}
			return 0, true
		}
	}
	if af, aok := asFloat64(a); aok {
		if bf, bok := asFloat64(b); bok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			}
			return 0, true
		}
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return e.coll.CompareString(av, bv), true
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0, true
			case bv:
				return -1, true
			}
			return 1, true
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv), true
		}
	}
	return 0, false
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	if i, ok := asInt64(v); ok {
		return float64(i), true
	}
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func stringOf(v any) string {
	return fmt.Sprintf("%v", v)
}
