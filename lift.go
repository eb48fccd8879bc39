package shiftz

import (
	"reflect"
)

// lift resolves a builder operand into a Transformer. It is the single
// normalisation step every builder goes through:
//
//   - a Transformer is used as is
//   - untyped nil, function values and tail markers are rejected
//   - a Condition built with a nil matcher or branch is rejected
//   - anything else becomes Value(operand)
//
// Functions are rejected rather than lifted because a constant function is
// almost always a forgotten Transform, Apply or Wrap.
func lift(op string, operand any) (Transformer, error) {
	switch v := operand.(type) {
	case nil:
		return nil, &ChainError{Op: op, Operand: operand, Reason: "operand is nil"}
	case Transformer:
		if isNilPointer(v) {
			return nil, &ChainError{Op: op, Operand: operand, Reason: "transformer is a nil pointer"}
		}
		if c, ok := v.(*Condition); ok && c.err != nil {
			return nil, c.err
		}
		return v, nil
	case Injector, *Injector, DefaultMarker, *DefaultMarker:
		return nil, &ChainError{Op: op, Operand: operand, Reason: "markers are only valid on the right of Then"}
	}
	if reflect.TypeOf(operand).Kind() == reflect.Func {
		return nil, &ChainError{Op: op, Operand: operand, Reason: "functions must be wrapped with Transform, Apply or Wrap"}
	}
	return Value(operand), nil
}

// Lift resolves operand into a Transformer exactly as the builders do.
func Lift(operand any) (Transformer, error) {
	return lift("lift", operand)
}

// liftAll lifts every operand, failing on the first invalid one.
func liftAll(op string, operands []any) ([]Transformer, error) {
	out := make([]Transformer, 0, len(operands))
	for _, operand := range operands {
		t, err := lift(op, operand)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func isNilPointer(operand any) bool {
	v := reflect.ValueOf(operand)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
