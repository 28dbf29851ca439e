package constants

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Source supplies constant values by canonical name.
// Values may be undecoded (strings, integers, json.Number); Resolve coerces them.
type Source interface {
	Lookup(name string) (any, bool)
}

// Keyed is implemented by sources that can enumerate the names they hold.
type Keyed interface {
	Keys() []string
}

// Values is a source of already parsed values, such as command-line overrides.
type Values map[string]float64

func (v Values) Lookup(name string) (any, bool) {
	f, ok := v[name]
	return f, ok
}

func (v Values) Keys() []string { return sortedKeys(v) }

// Raw is a source of values as decoded from a data file.
type Raw map[string]any

func (r Raw) Lookup(name string) (any, bool) {
	val, ok := r[name]
	if ok && val == nil {
		return nil, false
	}
	return val, ok
}

func (r Raw) Keys() []string { return sortedKeys(r) }

// Layered consults each source in order; the first one holding a name wins.
type Layered []Source

func (l Layered) Lookup(name string) (any, bool) {
	for _, src := range l {
		if src == nil {
			continue
		}
		if v, ok := src.Lookup(name); ok {
			return v, true
		}
	}
	return nil, false
}

func (l Layered) Keys() []string {
	set := make(map[string]struct{})
	for _, src := range l {
		if k, ok := src.(Keyed); ok {
			for _, name := range k.Keys() {
				set[name] = struct{}{}
			}
		}
	}
	return sortedKeys(set)
}

// Env reads constants from environment variables named Prefix+name,
// e.g. SIMTUNING_STEALTH_MIN_DIST.
type Env struct {
	Prefix string
}

func (e Env) Lookup(name string) (any, bool) {
	raw, ok := os.LookupEnv(e.Prefix + name)
	if !ok {
		return nil, false
	}
	return raw, true
}

func (e Env) Keys() []string {
	var keys []string
	for _, kv := range os.Environ() {
		k, _, _ := strings.Cut(kv, "=")
		if e.Prefix != "" && strings.HasPrefix(k, e.Prefix) {
			keys = append(keys, strings.TrimPrefix(k, e.Prefix))
		}
	}
	sort.Strings(keys)
	return keys
}

// Unrecognized returns the names held by src that schema does not define.
// Sources that cannot enumerate their names report nothing.
func Unrecognized(schema Schema, src Source) []string {
	k, ok := src.(Keyed)
	if !ok {
		return nil
	}
	var out []string
	for _, name := range k.Keys() {
		if _, ok := schema.Lookup(name); !ok {
			out = append(out, name)
		}
	}
	return out
}

// toFloat coerces a decoded value into a float64.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	}
	return 0, fmt.Errorf("unsupported type %T", v)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
