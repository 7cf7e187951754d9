package settle

import (
	"fmt"
	"strconv"
)

// ValueType names the typed form a raw configuration string is coerced into.
type ValueType string

const (
	TypeString ValueType = "string"
	TypeInt    ValueType = "int"
	TypeFloat  ValueType = "float"
	TypeBool   ValueType = "bool"
)

// Coerce converts a raw string into the typed value declared for it. Booleans
// accept exactly the tokens "true", "false", "1", "0"; malformed int and float
// strings fail rather than producing a sentinel. Coerce has no side effects.
func Coerce(raw string, valueType ValueType) (any, error) {
	switch valueType {
	case TypeString:
		return raw, nil
	case TypeInt:
		value, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("coerce %q as int: %w", raw, err)
		}
		return value, nil
	case TypeFloat:
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("coerce %q as float: %w", raw, err)
		}
		return value, nil
	case TypeBool:
		switch raw {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrInvalidBooleanValue, raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, string(valueType))
	}
}

func validValueType(valueType ValueType) bool {
	switch valueType {
	case TypeString, TypeInt, TypeFloat, TypeBool:
		return true
	}
	return false
}
