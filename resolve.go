package settle

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// runPass executes one full resolution pass over the given schema snapshot.
// It returns the per-key resolution records and the remote cache to commit on
// success; any single unresolvable or uncoercible item fails the whole pass.
func (m *Manager) runPass(ctx context.Context, schema Schema, keyID string) (map[string]Resolved, map[string]string, error) {
	passID := uuid.NewString()

	remote := map[string]string{}
	refs := schema.remoteRefs()
	if len(refs) > 0 {
		m.sink.Debug("fetching remote references",
			zap.Int("refs_total", len(refs)),
			zap.String("pass_id", passID),
		)
		remote = m.fetcher.Fetch(ctx, refs, keyID)
	}

	resolved := make(map[string]Resolved, len(schema))
	var fromEnv, fromRemote, fromDefault int
	for _, key := range schema.sortedKeys() {
		item := schema[key]

		raw, source, found := resolveRaw(item, remote)
		if !found {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingConfigValue, key)
		}

		value, err := Coerce(raw, item.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve %s: %w", key, err)
		}

		// Later direct environment reads must agree with the resolved value.
		if err := os.Setenv(item.EnvVar, raw); err != nil {
			return nil, nil, fmt.Errorf("write %s back to environment: %w", item.EnvVar, err)
		}

		resolved[key] = Resolved{Value: value, Raw: raw, Source: source}
		switch source {
		case SourceEnv:
			fromEnv++
		case SourceRemote:
			fromRemote++
		case SourceDefault:
			fromDefault++
		}

		m.sink.Debug("resolved configuration item",
			append([]zap.Field{
				zap.String("key", key),
				zap.String("source", string(source)),
				zap.String("pass_id", passID),
			}, breakdownFields(item.Type, raw)...)...,
		)
	}

	m.sink.Summary("configuration resolved",
		zap.Int("from_env", fromEnv),
		zap.Int("from_remote", fromRemote),
		zap.Int("from_default", fromDefault),
		zap.String("pass_id", passID),
	)
	return resolved, remote, nil
}

// breakdownFields describes a resolved value without disclosing it: length
// for strings, digit count for ints, decimal places for floats. Booleans are
// fully described by their source.
func breakdownFields(valueType ValueType, raw string) []zap.Field {
	switch valueType {
	case TypeString:
		return []zap.Field{zap.Int("length", len(raw))}
	case TypeInt:
		return []zap.Field{zap.Int("digits", digitCount(raw))}
	case TypeFloat:
		return []zap.Field{zap.Int("decimal_places", decimalPlaces(raw))}
	default:
		return nil
	}
}

func digitCount(raw string) int {
	count := 0
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}

func decimalPlaces(raw string) int {
	if _, frac, ok := strings.Cut(raw, "."); ok {
		return len(frac)
	}
	return 0
}
