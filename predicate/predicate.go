// Package predicate implements the filter expression language: a tree
// representation of boolean/comparison predicates, a compiler from the
// small textual form into that tree, and the equality extraction used
// for cache key derivation.
//
// The grammar is deliberately tiny and side-effect free: and/or,
// the six comparison operators plus "in", identifiers bound against a
// schema, literal constants, list and tuple literals, and a unary sign
// marking sort direction on an identifier. Nothing else parses, so
// caller-supplied text can never reach arbitrary evaluation.
package predicate

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is a comparison operator.
type Op int

// Comparison operators supported by the grammar.
const (
	OpEQ Op = iota
	OpNEQ
	OpLT
	OpLTE
	OpGT
	OpGTE
	OpIn
)

var opNames = [...]string{
	OpEQ:  "==",
	OpNEQ: "!=",
	OpLT:  "<",
	OpLTE: "<=",
	OpGT:  ">",
	OpGTE: ">=",
	OpIn:  "in",
}

func (op Op) String() string {
	if op < OpEQ || int(op) >= len(opNames) {
		return "?"
	}
	return opNames[op]
}

// LogicOp combines predicate children.
type LogicOp int

// Logical combinators.
const (
	LogicAnd LogicOp = iota
	LogicOr
)

func (op LogicOp) String() string {
	if op == LogicOr {
		return "||"
	}
	return "&&"
}

// Expr is a node of a predicate tree. Trees are built fresh per query
// and never mutated afterwards.
type Expr interface {
	// String renders the canonical text form of the node. Rendering is
	// deterministic; the cache tag is a content hash of it.
	String() string

	expr()
}

// Constant is a literal value: string, int64, float64, bool or nil.
type Constant struct {
	Value any
}

func (*Constant) expr() {}

// String returns the literal in its canonical form.
func (c *Constant) String() string { return formatValue(c.Value) }

// FieldRef references a schema field by name.
type FieldRef struct {
	Name string
}

func (*FieldRef) expr() {}

// String returns the field name.
func (f *FieldRef) String() string { return f.Name }

// List is an ordered list or tuple literal.
type List struct {
	Elems []Expr
}

func (*List) expr() {}

// String renders the list as [a,b,c].
func (l *List) String() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Order marks a field as a sort key. Desc is set when the field was
// prefixed with a unary minus.
type Order struct {
	Field string
	Desc  bool
}

func (*Order) expr() {}

// String renders the sort marker in its input form.
func (o *Order) String() string {
	if o.Desc {
		return "-" + o.Field
	}
	return o.Field
}

// Compare is a single comparison between two operands.
type Compare struct {
	Op    Op
	Left  Expr
	Right Expr
}

func (*Compare) expr() {}

// String renders "left op right".
func (c *Compare) String() string {
	return c.Left.String() + " " + c.Op.String() + " " + c.Right.String()
}

// Logic combines two or more children with a single boolean operator.
// Children keep their source order.
type Logic struct {
	Op       LogicOp
	Children []Expr
}

func (*Logic) expr() {}

// String renders binary combinations inline and n-ary ones wrapped in
// parentheses. Nested logic children are always parenthesized.
func (l *Logic) String() string {
	parts := make([]string, len(l.Children))
	for i, c := range l.Children {
		s := c.String()
		if _, ok := c.(*Logic); ok {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	joined := strings.Join(parts, " "+l.Op.String()+" ")
	if len(parts) > 2 {
		return "(" + joined + ")"
	}
	return joined
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(x)
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}
