// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// Environment holds the application's configured properties.
// Keys are dot separated paths such as "datasource.schema-username".
type Environment struct {
	k *koanf.Koanf
}

// Source loads properties into an Environment.
type Source func(k *koanf.Koanf) error

// NewEnvironment returns an environment loaded from sources in order;
// later sources override earlier ones.
func NewEnvironment(sources ...Source) (*Environment, error) {
	e := &Environment{k: koanf.New(".")}
	if err := e.Load(sources...); err != nil {
		return nil, err
	}
	return e, nil
}

// Load applies additional sources.
func (e *Environment) Load(sources ...Source) error {
	for _, src := range sources {
		if src == nil {
			continue
		}
		if err := src(e.k); err != nil {
			return err
		}
	}
	return nil
}

// Set sets a single property.
func (e *Environment) Set(key string, value any) error {
	return e.k.Set(key, value)
}

// Contains reports whether key is configured, whatever its value.
func (e *Environment) Contains(key string) bool {
	return e.k.Exists(key)
}

// Keys returns every configured key, sorted.
func (e *Environment) Keys() []string {
	keys := e.k.Keys()
	sort.Strings(keys)
	return keys
}

// String returns the value of key as a string, or "" when absent.
func (e *Environment) String(key string) string {
	v := e.k.Get(key)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Bool returns the value of key as a bool. An absent key is false.
func (e *Environment) Bool(key string) (bool, error) {
	switch v := e.k.Get(key).(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return false, nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("%s: %w", key, err)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%s: cannot use %T as bool", key, v)
	}
}

var reIndexed = regexp.MustCompile(`^(.+)\[(\d+)\]$`)

// Strings returns the list configured at key and whether it is configured
// at all. A list value, a comma separated string, and indexed keys
// (key[0], key[1], ...) are all accepted. A configured but empty value
// yields an empty, non-nil slice.
func (e *Environment) Strings(key string) ([]string, bool) {
	if e.k.Exists(key) {
		return toStrings(e.k.Get(key)), true
	}

	parent, name := "", key
	if i := strings.LastIndex(key, "."); i >= 0 {
		parent, name = key[:i], key[i+1:]
	}
	type item struct {
		index int
		value []string
	}
	var items []item
	for _, child := range e.k.MapKeys(parent) {
		m := reIndexed.FindStringSubmatch(child)
		if m == nil || m[1] != name {
			continue
		}
		index, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		path := child
		if parent != "" {
			path = parent + "." + child
		}
		items = append(items, item{index: index, value: toStrings(e.k.Get(path))})
	}
	if len(items) == 0 {
		return nil, false
	}
	sort.Slice(items, func(i, j int) bool { return items[i].index < items[j].index })
	out := []string{}
	for _, it := range items {
		out = append(out, it.value...)
	}
	return out, true
}

func toStrings(v any) []string {
	out := []string{}
	switch v := v.(type) {
	case nil:
	case []string:
		for _, s := range v {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range v {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	default:
		out = append(out, fmt.Sprint(v))
	}
	return out
}

// FromMap loads properties from a map. Nested maps and dotted keys are
// both accepted.
func FromMap(m map[string]any) Source {
	return func(k *koanf.Koanf) error {
		for key, value := range flattenMap("", m) {
			if err := k.Set(key, value); err != nil {
				return fmt.Errorf("set %s: %w", key, err)
			}
		}
		return nil
	}
}

// FromYAML loads properties from a YAML document.
func FromYAML(data []byte) Source {
	return func(k *koanf.Koanf) error {
		var m map[string]any
		if err := yaml.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("parse yaml: %w", err)
		}
		return FromMap(m)(k)
	}
}

// FromYAMLFile loads properties from a YAML file.
func FromYAMLFile(path string) Source {
	return func(k *koanf.Koanf) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if err := FromYAML(data)(k); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	}
}

// FromEnv loads properties from environment variables that start with
// prefix. After the prefix, "__" separates path segments and "_" becomes
// "-", so SQLINIT_DATASOURCE__SCHEMA_USERNAME sets datasource.schema-username.
func FromEnv(prefix string) Source {
	return func(k *koanf.Koanf) error {
		provider := env.Provider(".", env.Opt{
			Prefix: prefix,
			TransformFunc: func(key, value string) (string, any) {
				return envKey(strings.TrimPrefix(key, prefix)), value
			},
		})
		if err := k.Load(provider, nil); err != nil {
			return fmt.Errorf("load environment: %w", err)
		}
		return nil
	}
}

// envKey converts DATASOURCE__SCHEMA_USERNAME to datasource.schema-username.
func envKey(s string) string {
	var parts []string
	for _, part := range strings.Split(strings.ToLower(s), "__") {
		part = strings.Trim(strings.ReplaceAll(part, "_", "-"), "-")
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ".")
}

// flattenMap flattens a nested map into dot-notation keys.
func flattenMap(prefix string, m map[string]any) map[string]any {
	result := make(map[string]any)
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok && len(nested) > 0 {
			for fk, fv := range flattenMap(key, nested) {
				result[fk] = fv
			}
		} else {
			result[key] = v
		}
	}
	return result
}
