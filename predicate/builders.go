package predicate

// Programmatic constructors, mainly for engines and tests that build
// trees without going through Compile.

// And combines predicates with a logical AND.
func And(children ...Expr) Expr {
	if len(children) == 1 {
		return children[0]
	}
	return &Logic{Op: LogicAnd, Children: children}
}

// Or combines predicates with a logical OR.
func Or(children ...Expr) Expr {
	if len(children) == 1 {
		return children[0]
	}
	return &Logic{Op: LogicOr, Children: children}
}

// FieldOp compares the named field with a constant using op.
func FieldOp(op Op, name string, v any) Expr {
	return &Compare{Op: op, Left: &FieldRef{Name: name}, Right: &Constant{Value: v}}
}

// FieldEQ checks the field equals the given value.
func FieldEQ(name string, v any) Expr { return FieldOp(OpEQ, name, v) }

// FieldNEQ checks the field does not equal the given value.
func FieldNEQ(name string, v any) Expr { return FieldOp(OpNEQ, name, v) }

// FieldLT checks the field is less than the given value.
func FieldLT(name string, v any) Expr { return FieldOp(OpLT, name, v) }

// FieldLTE checks the field is less than or equal to the given value.
func FieldLTE(name string, v any) Expr { return FieldOp(OpLTE, name, v) }

// FieldGT checks the field is greater than the given value.
func FieldGT(name string, v any) Expr { return FieldOp(OpGT, name, v) }

// FieldGTE checks the field is greater than or equal to the given value.
func FieldGTE(name string, v any) Expr { return FieldOp(OpGTE, name, v) }

// FieldIn checks the field value is in the given list.
func FieldIn(name string, vs ...any) Expr {
	elems := make([]Expr, len(vs))
	for i, v := range vs {
		elems[i] = &Constant{Value: v}
	}
	return &Compare{Op: OpIn, Left: &FieldRef{Name: name}, Right: &List{Elems: elems}}
}

// Asc returns an ascending sort marker on the field.
func Asc(name string) Expr { return &Order{Field: name} }

// Desc returns a descending sort marker on the field.
func Desc(name string) Expr { return &Order{Field: name, Desc: true} }
