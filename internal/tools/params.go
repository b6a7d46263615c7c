package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Argument preprocessing. MCP clients are inconsistent about structured
// arguments: arrays and objects frequently arrive as JSON-encoded strings.
// These helpers accept both forms so a retried agent call never fails on
// serialization shape alone.

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

func boolArg(args map[string]interface{}, key string) bool {
	switch v := args[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	}
	return false
}

func intArg(args map[string]interface{}, key string) (int, error) {
	switch v := args[key].(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("argument %q is not an integer: %v", key, v)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("argument %q is not an integer: %q", key, v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("argument %q has unsupported type %T", key, args[key])
}

func stringSliceArg(args map[string]interface{}, key string) ([]string, error) {
	raw := args[key]
	if raw == nil {
		return nil, nil
	}
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		var decoded []interface{}
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			// A bare string is treated as a single element.
			return []string{s}, nil
		}
		raw = decoded
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("argument %q must be an array of strings", key)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("argument %q must be an array of strings", key)
}

func floatSliceArg(args map[string]interface{}, key string) ([]float64, error) {
	raw := args[key]
	if raw == nil {
		return nil, nil
	}
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		var decoded []interface{}
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return nil, fmt.Errorf("argument %q is not a JSON array: %q", key, s)
		}
		raw = decoded
	}
	switch v := raw.(type) {
	case []float64:
		return v, nil
	case []interface{}:
		out := make([]float64, 0, len(v))
		for _, elem := range v {
			switch n := elem.(type) {
			case float64:
				out = append(out, n)
			case int:
				out = append(out, float64(n))
			case json.Number:
				f, err := n.Float64()
				if err != nil {
					return nil, fmt.Errorf("argument %q must be an array of numbers", key)
				}
				out = append(out, f)
			case string:
				f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
				if err != nil {
					return nil, fmt.Errorf("argument %q must be an array of numbers", key)
				}
				out = append(out, f)
			default:
				return nil, fmt.Errorf("argument %q must be an array of numbers", key)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("argument %q must be an array of numbers", key)
}

func mapArg(args map[string]interface{}, key string) (map[string]interface{}, error) {
	raw := args[key]
	if raw == nil {
		return nil, nil
	}
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		var decoded map[string]interface{}
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return nil, fmt.Errorf("argument %q is not a JSON object: %v", key, err)
		}
		return decoded, nil
	}
	if m, ok := raw.(map[string]interface{}); ok {
		return m, nil
	}
	return nil, fmt.Errorf("argument %q must be a JSON object", key)
}

// resolveDatetime expands the "latest" shorthand to today's full-day
// interval in UTC. Every other value passes through untouched.
func resolveDatetime(value string, now time.Time) string {
	if !strings.EqualFold(strings.TrimSpace(value), "latest") {
		return value
	}
	day := now.UTC().Format("2006-01-02")
	return day + "T00:00:00Z/" + day + "T23:59:59Z"
}
