package apifootball

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// recordWrappers are the top-level members that hold record lists, in the
// order they are tried.
var recordWrappers = []string{"response", "competitions", "matches", "standings", "data"}

// decodeRecords parses payload and returns the record list plus the top-level
// object (nil for a bare array). An object without any wrapper member is taken
// as a single record. ok is false only for input that is not an array or object.
func decodeRecords(payload []byte) (records []any, top map[string]any, ok bool) {
	var doc any
	if err := sonic.Unmarshal(payload, &doc); err != nil {
		return nil, nil, false
	}

	switch typed := doc.(type) {
	case []any:
		return typed, nil, true
	case map[string]any:
		for _, key := range recordWrappers {
			switch inner := typed[key].(type) {
			case []any:
				return inner, typed, true
			case map[string]any:
				return []any{inner}, typed, true
			}
		}
		return []any{typed}, typed, true
	default:
		return nil, nil, false
	}
}

func asMap(raw any) map[string]any {
	m, _ := raw.(map[string]any)
	return m
}

func getMap(src map[string]any, key string) map[string]any {
	if src == nil {
		return nil
	}
	return asMap(src[key])
}

func getSlice(src map[string]any, key string) []any {
	if src == nil {
		return nil
	}
	s, _ := src[key].([]any)
	return s
}

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	switch typed := src[key].(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return ""
	}
}

func getInt(src map[string]any, key string) int {
	return int(getInt64(src, key))
}

func getInt64(src map[string]any, key string) int64 {
	v, _ := lookupInt64(src, key)
	return v
}

// getIntPtr keeps "not reported" (nil, missing) apart from zero.
func getIntPtr(src map[string]any, key string) *int {
	v, ok := lookupInt64(src, key)
	if !ok {
		return nil
	}
	i := int(v)
	return &i
}

func lookupInt64(src map[string]any, key string) (int64, bool) {
	if src == nil {
		return 0, false
	}
	switch typed := src[key].(type) {
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) {
			return 0, false
		}
		return int64(typed), true
	case int64:
		return typed, true
	case int:
		return int64(typed), true
	case string:
		v, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// getPath walks nested objects, e.g. getPath(m, "score", "fullTime").
func getPath(src map[string]any, keys ...string) map[string]any {
	cur := src
	for _, key := range keys {
		cur = getMap(cur, key)
		if cur == nil {
			return nil
		}
	}
	return cur
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if strings.TrimSpace(item) != "" {
			return strings.TrimSpace(item)
		}
	}
	return ""
}

func pickID(values ...int64) int64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// parsePercent accepts 55, "55" and "55%". Values outside [0,100] are dropped.
func parsePercent(raw any) *float64 {
	var v float64
	switch typed := raw.(type) {
	case float64:
		v = typed
	case string:
		text := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(typed), "%"))
		if text == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil
		}
		v = parsed
	default:
		return nil
	}
	if math.IsNaN(v) || v < 0 || v > 100 {
		return nil
	}
	return &v
}

var providerTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseProviderTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range providerTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// seasonYear reads a season that is either a year or an object with a start date.
func seasonYear(raw any) int {
	switch typed := raw.(type) {
	case float64:
		return int(typed)
	case string:
		v, _ := strconv.Atoi(strings.TrimSpace(typed))
		return v
	case map[string]any:
		if y := getInt(typed, "year"); y > 0 {
			return y
		}
		start := getString(typed, "startDate")
		if len(start) >= 4 {
			v, _ := strconv.Atoi(start[:4])
			return v
		}
	}
	return 0
}

// decodeEach runs the decoders in priority order on every record; the first
// decoder that recognizes a record wins. Records nobody recognizes are counted.
func decodeEach[T any](records []any, decoders ...func(map[string]any) (T, bool)) ([]T, int) {
	out := make([]T, 0, len(records))
	gaps := 0
	for _, raw := range records {
		rec := asMap(raw)
		if rec == nil {
			gaps++
			continue
		}
		decoded := false
		for _, decode := range decoders {
			if item, ok := decode(rec); ok {
				out = append(out, item)
				decoded = true
				break
			}
		}
		if !decoded {
			gaps++
		}
	}
	return out, gaps
}
