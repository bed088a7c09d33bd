package tools

import (
	"fmt"
	"math"

	"github.com/hublink/hublink/internal/models"
)

// validateArgs checks an incoming argument map against the tool's schema
// and returns a cleaned copy: required fields enforced, defaults filled in,
// JSON numbers coerced to the declared type, undeclared names rejected.
// Validation is local; no network call has happened yet.
func validateArgs(t Tool, args map[string]any) (map[string]any, error) {
	cleaned := make(map[string]any, len(t.Params))

	for name := range args {
		if _, ok := t.Params[name]; !ok {
			return nil, &models.ArgumentError{Field: name, Reason: "not a parameter of this tool"}
		}
	}

	for name, p := range t.Params {
		raw, present := args[name]
		if !present || raw == nil {
			if p.Required {
				return nil, &models.ArgumentError{Field: name, Reason: "is required"}
			}
			if p.Default != nil {
				cleaned[name] = p.Default
			}
			continue
		}

		coerced, err := coerce(p, raw)
		if err != nil {
			return nil, &models.ArgumentError{Field: name, Reason: err.Error()}
		}
		cleaned[name] = coerced
	}

	return cleaned, nil
}

func coerce(p Param, raw any) (any, error) {
	switch p.Type {
	case TypeString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %T", raw)
		}
		if len(p.Enum) > 0 && !contains(p.Enum, s) {
			return nil, fmt.Errorf("must be one of %v", p.Enum)
		}
		return s, nil

	case TypeInteger:
		switch v := raw.(type) {
		case float64: // JSON numbers decode as float64
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("expected an integer, got %v", v)
			}
			return int(v), nil
		case int:
			return v, nil
		default:
			return nil, fmt.Errorf("expected an integer, got %T", raw)
		}

	case TypeNumber:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		default:
			return nil, fmt.Errorf("expected a number, got %T", raw)
		}

	case TypeBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected a boolean, got %T", raw)
		}
		return b, nil

	case TypeObject:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected an object, got %T", raw)
		}
		return m, nil

	case TypeArray:
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("expected an array, got %T", raw)
		}
		if p.Items == TypeString {
			out := make([]string, 0, len(items))
			for _, it := range items {
				s, ok := it.(string)
				if !ok {
					return nil, fmt.Errorf("expected an array of strings, got %T element", it)
				}
				out = append(out, s)
			}
			return out, nil
		}
		return items, nil

	default:
		return nil, fmt.Errorf("unsupported parameter type %q", p.Type)
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// Typed accessors used by tool Execute closures on validated argument maps.

func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

func intArg(args map[string]any, name string) int {
	n, _ := args[name].(int)
	return n
}

func objectArg(args map[string]any, name string) map[string]any {
	m, _ := args[name].(map[string]any)
	return m
}

func stringSliceArg(args map[string]any, name string) []string {
	ss, _ := args[name].([]string)
	return ss
}

func stringMapArg(args map[string]any, name string) map[string]string {
	m, ok := args[name].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
		} else {
			out[k] = fmt.Sprintf("%v", v)
		}
	}
	return out
}
