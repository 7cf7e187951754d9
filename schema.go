package settle

import (
	"fmt"
	"sort"
)

// Item declares how a single configuration key is resolved. The environment
// variable is always consulted first; RemoteRef and Default are optional
// fallbacks. At least one of the three must yield a value at resolution time.
type Item struct {
	// EnvVar names the environment variable checked first. The resolved value
	// is also written back to it after a successful pass.
	EnvVar string `yaml:"env"`
	// RemoteRef identifies a parameter in the remote store, when set.
	RemoteRef string `yaml:"remote,omitempty"`
	// Default is the literal fallback used when neither the environment nor
	// the remote store yields a value. Nil means no default.
	Default *string `yaml:"default,omitempty"`
	// Type selects the coercion applied to the raw value.
	Type ValueType `yaml:"type"`
}

// Schema maps configuration keys to their declarations. It is assigned to a
// Manager in full; partial merges are not supported.
type Schema map[string]Item

func (s Schema) validate() error {
	if len(s) == 0 {
		return ErrSchemaNotSet
	}
	for key, item := range s {
		if item.EnvVar == "" {
			return fmt.Errorf("schema key %q: environment variable name is required", key)
		}
		if !validValueType(item.Type) {
			return fmt.Errorf("schema key %q: %w: %q", key, ErrInvalidType, string(item.Type))
		}
	}
	return nil
}

func (s Schema) clone() Schema {
	out := make(Schema, len(s))
	for key, item := range s {
		out[key] = item
	}
	return out
}

// remoteRefs returns the distinct remote references declared across the
// schema, sorted for deterministic fetch order.
func (s Schema) remoteRefs() []string {
	seen := make(map[string]struct{})
	for _, item := range s {
		if item.RemoteRef != "" {
			seen[item.RemoteRef] = struct{}{}
		}
	}
	refs := make([]string, 0, len(seen))
	for ref := range seen {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

func (s Schema) sortedKeys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
