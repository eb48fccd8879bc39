// Package extract provides transformers that pull one part out of a value:
// an element of a map, slice or array, a struct field, a regular expression
// group or the result of an expression.
//
// Every extractor fails with a recoverable failure carrying shiftz.ErrExtract
// when the part is missing, so extractors compose with OrElse and Default:
//
//	city := shiftz.Must(shiftz.Then(
//	    extract.Item("address"),
//	    extract.Item("city"),
//	    shiftz.Default("unknown"),
//	))
package extract

import (
	"context"
	"fmt"
	"reflect"

	"github.com/zoobzio/shiftz"
)

// Item extracts the element at key. Maps are indexed by key; slices, arrays
// and strings by an int, where a negative index counts from the end.
// Strings are indexed by rune and yield a one-character string.
// Pointers and interfaces are followed.
func Item(key any) shiftz.Processor {
	name := fmt.Sprintf("item[%v]", key)
	return shiftz.Wrap(name, func(_ context.Context, value any) (any, error) {
		v := indirect(reflect.ValueOf(value))
		if !v.IsValid() {
			return nil, shiftz.Failf(name, value, "%w: value is nil", shiftz.ErrExtract)
		}

		switch v.Kind() {
		case reflect.Map:
			k := reflect.ValueOf(key)
			if !k.IsValid() || !k.Type().AssignableTo(v.Type().Key()) {
				return nil, shiftz.Failf(name, value, "%w: key %v does not fit %s", shiftz.ErrExtract, key, v.Type())
			}
			elem := v.MapIndex(k)
			if !elem.IsValid() {
				return nil, shiftz.Failf(name, value, "%w: key %v not found", shiftz.ErrExtract, key)
			}
			return elem.Interface(), nil

		case reflect.Slice, reflect.Array, reflect.String:
			i, ok := key.(int)
			if !ok {
				return nil, shiftz.Failf(name, value, "%w: index %v is not an int", shiftz.ErrExtract, key)
			}
			var runes []rune
			n := v.Len()
			if v.Kind() == reflect.String {
				runes = []rune(v.String())
				n = len(runes)
			}
			if i < 0 {
				i += n
			}
			if i < 0 || i >= n {
				return nil, shiftz.Failf(name, value, "%w: index %d out of range for length %d", shiftz.ErrExtract, key, n)
			}
			if v.Kind() == reflect.String {
				return string(runes[i]), nil
			}
			return v.Index(i).Interface(), nil
		}

		return nil, shiftz.Failf(name, value, "%w: cannot index %s", shiftz.ErrExtract, v.Type())
	})
}

// Field extracts an exported struct field by name. Pointers and interfaces
// are followed.
func Field(field string) shiftz.Processor {
	name := "field[" + field + "]"
	return shiftz.Wrap(name, func(_ context.Context, value any) (any, error) {
		v := indirect(reflect.ValueOf(value))
		if !v.IsValid() || v.Kind() != reflect.Struct {
			return nil, shiftz.Failf(name, value, "%w: %T is not a struct", shiftz.ErrExtract, value)
		}
		sf, ok := v.Type().FieldByName(field)
		if !ok || !sf.IsExported() {
			return nil, shiftz.Failf(name, value, "%w: %s has no exported field %s", shiftz.ErrExtract, v.Type(), field)
		}
		f, err := v.FieldByIndexErr(sf.Index)
		if err != nil {
			return nil, shiftz.Failf(name, value, "%w: %v", shiftz.ErrExtract, err)
		}
		return f.Interface(), nil
	})
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}
