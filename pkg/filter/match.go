package filter

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// FieldGetter resolves a field name to its value on the record under test.
// Repository adapters supply one of these per entity type; it is the only
// coupling point between the generic filter tree and a concrete struct.
type FieldGetter func(field string) (any, bool)

// Match evaluates f against a record, via get, returning whether the
// record satisfies the filter tree.
func Match(f Filter, get FieldGetter) bool {
	if f.IsEmpty() {
		return true
	}

	for field, want := range f.Where {
		got, ok := get(field)
		if !ok || !equalValue(got, want) {
			return false
		}
	}

	for _, c := range f.Comparisons {
		got, ok := get(c.Field)
		if !ok || !compare(got, c.Op, c.Value) {
			return false
		}
	}

	for _, ac := range f.ArrayContains {
		got, ok := get(ac.Field)
		if !ok || !arrayContains(got, ac) {
			return false
		}
	}

	if f.TextSearch != "" {
		if !matchesText(f, get) {
			return false
		}
	}

	for _, sub := range f.And {
		if !Match(sub, get) {
			return false
		}
	}

	if len(f.Or) > 0 {
		anyMatched := false
		for _, sub := range f.Or {
			if Match(sub, get) {
				anyMatched = true
				break
			}
		}
		if !anyMatched {
			return false
		}
	}

	return true
}

func matchesText(f Filter, get FieldGetter) bool {
	needle := strings.ToLower(f.TextSearch)
	fields := f.TextFields
	for _, field := range fields {
		got, ok := get(field)
		if !ok {
			continue
		}
		if s, ok := got.(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

func equalValue(a, b any) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

// normalize reduces numeric types to float64 so int/int64/float64 literals
// coming from config/JSON compare equal to struct field values.
func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	default:
		return v
	}
}

func compare(got any, op Op, want any) bool {
	switch op {
	case OpEq:
		return equalValue(got, want)
	case OpNe:
		return !equalValue(got, want)
	case OpGt, OpGte, OpLt, OpLte:
		return compareOrdered(got, op, want)
	case OpIn:
		return isIn(got, want)
	case OpNin:
		return !isIn(got, want)
	case OpRegex:
		pattern, ok := want.(string)
		if !ok {
			return false
		}
		s, ok := got.(string)
		if !ok {
			return false
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(s)
	default:
		return false
	}
}

func compareOrdered(got any, op Op, want any) bool {
	gf, gok := toFloat(got)
	wf, wok := toFloat(want)
	if gok && wok {
		switch op {
		case OpGt:
			return gf > wf
		case OpGte:
			return gf >= wf
		case OpLt:
			return gf < wf
		case OpLte:
			return gf <= wf
		}
	}
	gs, gsok := got.(string)
	ws, wsok := want.(string)
	if gsok && wsok {
		switch op {
		case OpGt:
			return gs > ws
		case OpGte:
			return gs >= ws
		case OpLt:
			return gs < ws
		case OpLte:
			return gs <= ws
		}
	}
	// time.Time and other types implementing a Before/After-less ordering
	// fall back to string representation.
	return compareOrdered(fmt.Sprint(got), op, fmt.Sprint(want))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func isIn(got, want any) bool {
	values, ok := toSlice(want)
	if !ok {
		return false
	}
	for _, v := range values {
		if equalValue(got, v) {
			return true
		}
	}
	return false
}

func toSlice(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func arrayContains(got any, ac ArrayContains) bool {
	haystack, ok := toSlice(got)
	if !ok {
		return false
	}
	var needles []any
	if ac.Values != nil {
		needles = ac.Values
	} else {
		needles = []any{ac.Value}
	}

	contains := func(n any) bool {
		for _, h := range haystack {
			if equalValue(h, n) {
				return true
			}
		}
		return false
	}

	mode := ac.Mode
	if mode == "" {
		mode = ArrayModeAny
	}

	switch mode {
	case ArrayModeAll:
		for _, n := range needles {
			if !contains(n) {
				return false
			}
		}
		return true
	default: // ArrayModeAny
		for _, n := range needles {
			if contains(n) {
				return true
			}
		}
		return false
	}
}
