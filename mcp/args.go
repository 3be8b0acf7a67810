package mcp

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mohammad-safakhou/deckhand/internal/deck"
)

// require fails with InvalidFormat when any key is absent or null.
func require(args map[string]any, keys ...string) error {
	var missing []string
	for _, k := range keys {
		if v, ok := args[k]; !ok || v == nil {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &deck.Error{Kind: deck.KindInvalidFormat, Msg: "missing required argument: " + strings.Join(missing, ", ")}
}

func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// intArg returns def for an absent argument and an InvalidFormat error for
// one that is present but not an integer. Quoted numbers are accepted.
func intArg(args map[string]any, key string, def int) (int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	n, err := deck.ToPosition(v)
	if err != nil {
		return 0, &deck.Error{Kind: deck.KindInvalidFormat, Msg: key + " must be an integer", Err: err}
	}
	return n, nil
}

// asFloat reports ok=false when v is absent or not numeric.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// floatArg returns nil for an absent argument and an InvalidFormat error
// for one that is present but not a number.
func floatArg(args map[string]any, key string) (*float64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	f, ok := asFloat(v)
	if !ok {
		return nil, &deck.Error{Kind: deck.KindInvalidFormat, Msg: key + " must be a number"}
	}
	return &f, nil
}

func floatOr(args map[string]any, key string, def float64) (float64, error) {
	p, err := floatArg(args, key)
	if err != nil || p == nil {
		return def, err
	}
	return *p, nil
}

func boolOr(v any, def bool) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b
		}
	}
	return def
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
