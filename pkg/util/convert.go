package util

import (
	"fmt"
	"strconv"
	"strings"
)

// Loose coercion helpers for values coming out of CSV cells, JSON maps
// and sqlite scans, where the concrete type varies by source.

// GetAsString converts any scalar to its string representation.
func GetAsString(s any) (string, error) {
	if s == nil {
		return "", fmt.Errorf("cannot convert nil to string")
	}
	switch v := s.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

// GetAsInteger converts whole-number scalars and numeric strings to int.
func GetAsInteger(s any) (int, error) {
	switch v := s.(type) {
	case nil:
		return 0, fmt.Errorf("cannot convert nil to integer")
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("value %f is not a whole number", v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to integer: %w", v, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot convert type %T to integer", s)
	}
}

// GetAsFloat converts numeric scalars and strings to float64. Empty
// strings are an error so callers can distinguish "no value" from zero.
func GetAsFloat(s any) (float64, error) {
	switch v := s.(type) {
	case nil:
		return 0, fmt.Errorf("cannot convert nil to float")
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to float: %w", v, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot convert type %T to float", s)
	}
}
