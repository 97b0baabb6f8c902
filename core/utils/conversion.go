package utils

import (
	"strings"

	"github.com/spf13/cast"
)

// ToInt converts loosely typed catalog values ("12", 12, 12.0, "") to int.
// Unparseable values yield 0.
func ToInt(val any) int {
	if s, ok := val.(string); ok {
		val = strings.TrimSpace(s)
	}
	return cast.ToInt(val)
}

// ToFloat converts loosely typed catalog values to float64.
// Coordinates arrive as strings such as "127.3845475".
func ToFloat(val any) float64 {
	if s, ok := val.(string); ok {
		val = strings.TrimSpace(s)
	}
	return cast.ToFloat64(val)
}

// ToString converts various types to a trimmed string. nil yields "".
func ToString(val any) string {
	if val == nil {
		return ""
	}
	return strings.TrimSpace(cast.ToString(val))
}

// ToBool converts various types to bool.
// It handles bool, numeric types (1=true), and strings ("1", "true", "Y").
func ToBool(val any) bool {
	if s, ok := val.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "1", "true", "y", "yes":
			return true
		default:
			return false
		}
	}
	return cast.ToBool(val)
}

// NilIfEmpty returns nil for blank strings so nullable columns stay NULL.
func NilIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// IsBlank reports whether p is nil or holds only whitespace.
func IsBlank(p *string) bool {
	return p == nil || strings.TrimSpace(*p) == ""
}
