package extract

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/zoobzio/shiftz"
)

// CoerceTo converts a value to T and fails with shiftz.ErrExtract when it
// cannot. A value that already is a T passes through. Otherwise:
//
//   - strings parse into numbers and bools, surrounding space ignored
//   - numbers and bools format into strings
//   - numbers convert between numeric types only when no information is
//     lost, so 3.0 becomes int 3 while 3.5, 300 as int8 and -1 as uint fail
//   - named types convert to and from their underlying type
//
// Pointers and interfaces are followed. For any other conversion compose
// shiftz.Apply with the conversion function.
func CoerceTo[T any]() shiftz.Processor {
	target := reflect.TypeFor[T]()
	return shiftz.Wrap("coerce-to-"+target.String(), func(_ context.Context, value any) (any, error) {
		if v, ok := value.(T); ok {
			return v, nil
		}
		out, err := coerce(indirect(reflect.ValueOf(value)), target)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", shiftz.ErrExtract, err)
		}
		return out.Interface(), nil
	})
}

func coerce(v reflect.Value, target reflect.Type) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Value{}, errors.New("value is nil")
	}
	from := v.Kind()
	switch {
	case v.Type().AssignableTo(target):
		return v, nil
	case from == reflect.String && target.Kind() != reflect.String:
		return parse(strings.TrimSpace(v.String()), target)
	case target.Kind() == reflect.String && (numeric(from) || from == reflect.Bool):
		return reflect.ValueOf(fmt.Sprint(v.Interface())).Convert(target), nil
	case numeric(from) && numeric(target.Kind()):
		return convertNumber(v, target)
	case from == target.Kind() && v.Type().ConvertibleTo(target):
		return v.Convert(target), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot coerce %s to %s", v.Type(), target)
}

func parse(s string, target reflect.Type) (reflect.Value, error) {
	var (
		parsed any
		err    error
	)
	switch target.Kind() {
	case reflect.Bool:
		parsed, err = strconv.ParseBool(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err = strconv.ParseInt(s, 10, target.Bits())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		parsed, err = strconv.ParseUint(s, 10, target.Bits())
	case reflect.Float32, reflect.Float64:
		parsed, err = strconv.ParseFloat(s, target.Bits())
	default:
		return reflect.Value{}, fmt.Errorf("cannot parse a string into %s", target)
	}
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(parsed).Convert(target), nil
}

// convertNumber converts v to target when the round trip gives v back.
func convertNumber(v reflect.Value, target reflect.Type) (reflect.Value, error) {
	negative := (v.CanInt() && v.Int() < 0) || (v.CanFloat() && v.Float() < 0)
	if negative && unsigned(target.Kind()) {
		return reflect.Value{}, fmt.Errorf("%v is negative, %s is unsigned", v.Interface(), target)
	}
	out := v.Convert(target)
	if !out.Convert(v.Type()).Equal(v) {
		return reflect.Value{}, fmt.Errorf("%v does not fit %s", v.Interface(), target)
	}
	return out, nil
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return unsigned(k)
}

func unsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}
