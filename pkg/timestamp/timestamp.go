// Package timestamp normalizes the timestamp shapes found in stored documents to
// ISO-8601 strings.
package timestamp

import (
	"encoding/json"
	"time"
)

// Layout matches the millisecond-precision UTC form used on the wire.
const Layout = "2006-01-02T15:04:05.000Z"

// ToISO converts v to an ISO-8601 string. Supported shapes are strings (returned
// as-is), time.Time, *time.Time, and {seconds, nanoseconds} or
// {_seconds, _nanoseconds} objects. The second result is false for anything else,
// including empty and zero values.
func ToISO(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, t != ""
	case time.Time:
		if t.IsZero() {
			return "", false
		}
		return Format(t), true
	case *time.Time:
		if t == nil || t.IsZero() {
			return "", false
		}
		return Format(*t), true
	case map[string]any:
		if secs, ok := number(t["seconds"]); ok {
			nanos, _ := number(t["nanoseconds"])
			return fromEpoch(secs, nanos), true
		}
		if secs, ok := number(t["_seconds"]); ok {
			nanos, _ := number(t["_nanoseconds"])
			return fromEpoch(secs, nanos), true
		}
	}
	return "", false
}

// Format renders t in Layout.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

func fromEpoch(seconds, nanos float64) string {
	ms := int64(seconds)*1000 + int64(nanos)/1_000_000
	return Format(time.UnixMilli(ms))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
