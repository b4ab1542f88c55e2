package enum

import (
	"fmt"
	"reflect"
)

var enumManager = map[string]any{}

type enum[T ~string] struct {
	toEnum map[string]T
	values []T
}

func typeName[T any]() string {
	var t T
	return reflect.TypeOf(t).String()
}

// New registers a value of an enum type. Values are kept in registration
// order.
func New[T ~string](value T) T {
	name := typeName[T]()
	if _, ok := enumManager[name]; !ok {
		enumManager[name] = &enum[T]{toEnum: make(map[string]T)}
	}

	e := enumManager[name].(*enum[T])
	if _, ok := e.toEnum[string(value)]; !ok {
		e.values = append(e.values, value)
	}
	e.toEnum[string(value)] = value
	return value
}

func ToEnum[T ~string](s string) (T, error) {
	var defaultT T
	e, ok := enumManager[typeName[T]()]
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	t, ok := e.(*enum[T]).toEnum[s]
	if !ok {
		return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
	}

	return t, nil
}

// Values returns all registered values of the enum type.
func Values[T ~string]() []T {
	e, ok := enumManager[typeName[T]()]
	if !ok {
		return nil
	}

	values := e.(*enum[T]).values
	result := make([]T, len(values))
	copy(result, values)
	return result
}
