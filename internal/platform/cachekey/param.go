package cachekey

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// Param is one named request parameter. A nil Value (or a nil pointer) is absent.
type Param struct {
	Name  string
	Value any
}

func P(name string, value any) Param {
	return Param{Name: name, Value: value}
}

// OptionalInt treats non-positive ids as unset.
func OptionalInt(name string, value int64) Param {
	if value <= 0 {
		return Param{Name: name}
	}
	return Param{Name: name, Value: value}
}

func OptionalString(name, value string) Param {
	if value == "" {
		return Param{Name: name}
	}
	return Param{Name: name, Value: value}
}

func OptionalDate(name string, value Date) Param {
	if value.IsZero() {
		return Param{Name: name}
	}
	return Param{Name: name, Value: value}
}

func (p Param) Present() bool {
	_, ok := deref(p.Value)
	return ok
}

// Render returns the canonical text of the value, or "" when absent.
func (p Param) Render() string {
	v, ok := deref(p.Value)
	if !ok {
		return ""
	}

	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case Date:
		return x.String()
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func deref(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	return rv.Interface(), true
}
