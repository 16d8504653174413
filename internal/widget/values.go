package widget

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Tools write their state as loosely typed JSON. The helpers below read it
// with the truthiness and coercion rules the tool pages themselves rely on.

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case string:
		return t != ""
	default:
		return true
	}
}

func stringOr(v any, fallback string) string {
	if !truthy(v) {
		return fallback
	}
	return formatValue(v)
}

func numberOr(v any, fallback float64) float64 {
	if !truthy(v) {
		return fallback
	}
	if n, ok := toNumber(v); ok {
		return n
	}
	return fallback
}

func toNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// leadingInt parses the integer prefix of a value the way parseInt does.
// Unparsable input yields 0; magnitudes beyond int64 saturate.
func leadingInt(v any) int64 {
	switch t := v.(type) {
	case float64:
		switch {
		case math.IsNaN(t):
			return 0
		case t >= math.MaxInt64:
			return math.MaxInt64
		case t <= math.MinInt64:
			return math.MinInt64
		}
		return int64(t)
	case string:
		s := strings.TrimLeftFunc(t, unicode.IsSpace)
		end := 0
		if end < len(s) && (s[end] == '-' || s[end] == '+') {
			end++
		}
		digits := end
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		if end == digits {
			return 0
		}
		n, err := strconv.ParseInt(s[:end], 10, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0
		}
		return n
	default:
		return 0
	}
}

// addSaturating adds b to a, pinning the result at the int64 bounds.
func addSaturating(a, b int64) int64 {
	sum := a + b
	switch {
	case b > 0 && sum < a:
		return math.MaxInt64
	case b < 0 && sum > a:
		return math.MinInt64
	}
	return sum
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			if item != nil {
				parts[i] = formatValue(item)
			}
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

// parseDay reads a follow-up date and truncates it to a UTC day.
func parseDay(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return startOfDay(parsed), true
		}
	}
	return time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func isoTimestamp(t time.Time) string {
	return t.UTC().Format(isoMillis)
}
