// internal/schema/fields.go
package schema

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

func join(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

func index(base string, i int) string {
	return fmt.Sprintf("%s[%d]", base, i)
}

func asString(p string, v any, minLen int) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", &SchemaError{Path: p, Expected: "string", Actual: v}
	}
	if len(s) < minLen {
		return "", &SchemaError{Path: p, Expected: fmt.Sprintf("string of length >= %d", minLen), Actual: v}
	}
	return s, nil
}

// asInt aceita qualquer inteiro do Go e float64 integral (JSON decodifica
// números como float64). Valores que não cabem em int são rejeitados.
func asInt(p string, v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int8:
		return int(x), nil
	case int16:
		return int(x), nil
	case int32:
		return int(x), nil
	case int64:
		if x >= math.MinInt && x <= math.MaxInt {
			return int(x), nil
		}
	case uint:
		if x <= math.MaxInt {
			return int(x), nil
		}
	case uint8:
		return int(x), nil
	case uint16:
		return int(x), nil
	case uint32:
		if uint64(x) <= math.MaxInt {
			return int(x), nil
		}
	case uint64:
		if x <= math.MaxInt {
			return int(x), nil
		}
	case float32:
		return floatToInt(p, v, float64(x))
	case float64:
		return floatToInt(p, v, x)
	}
	return 0, &SchemaError{Path: p, Expected: "integer", Actual: v}
}

// float64(math.MaxInt) arredonda para 2^63, por isso o limite superior é
// exclusivo.
func floatToInt(p string, raw any, f float64) (int, error) {
	if f == math.Trunc(f) && f >= float64(math.MinInt) && f < float64(math.MaxInt) {
		return int(f), nil
	}
	return 0, &SchemaError{Path: p, Expected: "integer", Actual: raw}
}

func asIntMin(p string, v any, min int) (int, error) {
	n, err := asInt(p, v)
	if err != nil {
		return 0, err
	}
	if n < min {
		return 0, &SchemaError{Path: p, Expected: fmt.Sprintf("integer >= %d", min), Actual: v}
	}
	return n, nil
}

func asNumber(p string, v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		if !math.IsNaN(x) {
			return x, nil
		}
	case float32:
		if f := float64(x); !math.IsNaN(f) {
			return f, nil
		}
	default:
		if n, err := asInt(p, v); err == nil {
			return float64(n), nil
		}
	}
	return 0, &SchemaError{Path: p, Expected: "number", Actual: v}
}

func asNumberRange(p string, v any, min, max float64) (float64, error) {
	f, err := asNumber(p, v)
	if err != nil {
		return 0, err
	}
	if f < min || f > max {
		return 0, &SchemaError{Path: p, Expected: fmt.Sprintf("number in [%g, %g]", min, max), Actual: v}
	}
	return f, nil
}

func asBool(p string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, &SchemaError{Path: p, Expected: "boolean", Actual: v}
	}
	return b, nil
}

func asEnum(p string, v any, allowed []string) (string, error) {
	s, ok := v.(string)
	if ok {
		for _, a := range allowed {
			if s == a {
				return s, nil
			}
		}
	}
	return "", &SchemaError{Path: p, Expected: "one of [" + strings.Join(allowed, ", ") + "]", Actual: v}
}

func asList(p string, v any) ([]any, error) {
	switch x := v.(type) {
	case []any:
		return x, nil
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, nil
	case []map[string]any:
		out := make([]any, len(x))
		for i, m := range x {
			out[i] = m
		}
		return out, nil
	}
	return nil, &SchemaError{Path: p, Expected: "list", Actual: v}
}

// asArgs devolve sempre um slice novo. Escalares numéricos/booleanos viram
// texto (YAML lê "- 1" como int).
func asArgs(p string, v any) ([]string, error) {
	items, err := asList(p, v)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		switch x := item.(type) {
		case string:
			out = append(out, x)
		case bool:
			out = append(out, strconv.FormatBool(x))
		case float64:
			out = append(out, strconv.FormatFloat(x, 'f', -1, 64))
		default:
			n, err := asInt(index(p, i), item)
			if err != nil {
				return nil, &SchemaError{Path: index(p, i), Expected: "string argument", Actual: item}
			}
			out = append(out, strconv.Itoa(n))
		}
	}
	return out, nil
}

// asMapping aceita map[string]any e map[any]any com chaves string.
func asMapping(p string, v any) (map[string]any, error) {
	switch x := v.(type) {
	case map[string]any:
		return x, nil
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			ks, ok := k.(string)
			if !ok {
				return nil, &StructuralError{Path: p, Detail: fmt.Sprintf("non-string key %v", k)}
			}
			out[ks] = val
		}
		return out, nil
	}
	return nil, &StructuralError{Path: p, Detail: fmt.Sprintf("expected a mapping, got %s", describe(v))}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
