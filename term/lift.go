package term

import (
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/wippyai/etf/errors"
)

// Field is one key/value pair of an Object.
type Field struct {
	Key   string
	Value any
}

// Object is an ordered keyed container. Lift keeps its field order, unlike
// Go maps whose keys are sorted first.
type Object []Field

// Lift converts a Go value into a Term.
//
//   - Terms are returned unchanged.
//   - nil is Null, bool is Bool.
//   - Integers are Int, or BigInt beyond 64 bits. Floats are Float.
//   - string is String. []byte is Binary. time.Time is a timestamp tuple.
//   - Slices and arrays are Lists. A non-empty list whose elements all lift
//     to {Atom, Value} with distinct atoms becomes a Proplist.
//   - A keyed container (Object, map with string keys) with exactly one key
//     is the 2-tuple {Atom(key), Value}. Any other keyed container is a Map
//     whose keys are String and written per the map key type.
//
// The input is never modified.
func Lift(v any) (Term, error) {
	return lift(v, nil)
}

// MustLift is like Lift but panics on error. It is intended for literals
// in tests and examples.
func MustLift(v any) Term {
	t, err := Lift(v)
	if err != nil {
		panic(err)
	}
	return t
}

func lift(v any, path []string) (Term, error) {
	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case Term:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(x), nil
	case int8:
		return Int(x), nil
	case int16:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return Int(x), nil
	case uint:
		return liftUint(uint64(x)), nil
	case uint8:
		return Int(x), nil
	case uint16:
		return Int(x), nil
	case uint32:
		return Int(x), nil
	case uint64:
		return liftUint(x), nil
	case float32:
		return Float(x), nil
	case float64:
		return Float(x), nil
	case string:
		return String(x), nil
	case []byte:
		return Binary(append([]byte(nil), x...)), nil
	case *big.Int:
		if x == nil {
			return Null{}, nil
		}
		return Integer(x), nil
	case time.Time:
		return Timestamp(x), nil
	case Object:
		return liftFields(x, path)
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make(Object, len(keys))
		for i, k := range keys {
			fields[i] = Field{Key: k, Value: x[k]}
		}
		return liftFields(fields, path)
	case []any:
		return liftSeq(len(x), func(i int) any { return x[i] }, path)
	}
	return liftReflect(reflect.ValueOf(v), v, path)
}

func liftUint(u uint64) Term {
	if u <= 1<<63-1 {
		return Int(int64(u))
	}
	return BigInt{Value: new(big.Int).SetUint64(u)}
}

func liftFields(fields Object, path []string) (Term, error) {
	if len(fields) == 1 {
		val, err := lift(fields[0].Value, child(path, fields[0].Key))
		if err != nil {
			return nil, err
		}
		return Tuple{Atom(fields[0].Key), val}, nil
	}
	m := Map{Entries: make([]MapEntry, 0, len(fields))}
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Key]; dup {
			return nil, errors.DuplicateMapKey(errors.PhaseLift, errors.NoOffset, f.Key)
		}
		seen[f.Key] = struct{}{}
		val, err := lift(f.Value, child(path, f.Key))
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, MapEntry{Key: String(f.Key), Value: val})
	}
	return m, nil
}

func liftSeq(n int, at func(int) any, path []string) (Term, error) {
	out := make(List, n)
	for i := 0; i < n; i++ {
		t, err := lift(at(i), child(path, "["+strconv.Itoa(i)+"]"))
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return Fold(out), nil
}

func liftReflect(rv reflect.Value, v any, path []string) (Term, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return lift(rv.Elem().Interface(), path)
	case reflect.Slice:
		if rv.IsNil() {
			return List{}, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Binary(append([]byte(nil), rv.Bytes()...)), nil
		}
		return liftSeq(rv.Len(), func(i int) any { return rv.Index(i).Interface() }, path)
	case reflect.Array:
		return liftSeq(rv.Len(), func(i int) any { return rv.Index(i).Interface() }, path)
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			keys := make([]string, 0, rv.Len())
			for _, k := range rv.MapKeys() {
				keys = append(keys, k.String())
			}
			sort.Strings(keys)
			fields := make(Object, len(keys))
			for i, k := range keys {
				kv := reflect.ValueOf(k).Convert(rv.Type().Key())
				fields[i] = Field{Key: k, Value: rv.MapIndex(kv).Interface()}
			}
			return liftFields(fields, path)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return liftUint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	}
	return nil, errors.Unencodable(errors.PhaseLift, path, v, "no term form for this Go type")
}

func child(path []string, elem string) []string {
	return append(path[:len(path):len(path)], elem)
}
