package settle

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/settleconf/settle/fetch"
	"github.com/settleconf/settle/logging"
)

// Source labels the tier that satisfied a configuration item.
type Source string

const (
	SourceEnv     Source = "env"
	SourceRemote  Source = "remote"
	SourceDefault Source = "default"
)

// Resolved records the outcome of one item's resolution during the settled
// pass.
type Resolved struct {
	Value  any
	Raw    string
	Source Source
}

// Manager owns the process-wide configuration state: the schema, the remote
// cache, and the initialization lifecycle. Construct one per process and
// share it; all methods are safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	state    State
	inflight *pass

	schema      Schema
	resolved    map[string]Resolved
	remoteCache map[string]string

	sink    *logging.Sink
	fetcher *fetch.Fetcher
	store   fetch.Store
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithLogger attaches a zap logger to the manager's sink.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		m.sink.SetLogger(logger)
	}
}

// WithFetcher replaces the default remote-fetch orchestration, primarily for
// tests and for callers that tune agent or pacing behaviour.
func WithFetcher(fetcher *fetch.Fetcher) Option {
	return func(m *Manager) {
		m.fetcher = fetcher
	}
}

// New constructs a Manager over the given remote store. Without options it
// logs nowhere and uses the default fetch orchestration (local agent inside a
// serverless runtime, store otherwise).
func New(store fetch.Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		sink:  logging.NewSink(nil),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.fetcher == nil {
		m.fetcher = fetch.New(store,
			fetch.WithSink(m.sink),
			fetch.WithAgent(fetch.NewAgentClient(m.sink)),
		)
	}
	return m
}

// SetSchema assigns the full schema, replacing any previous one atomically.
// Replacing the schema after a pass has settled is permitted but does not
// trigger re-resolution; subsequent reads resolve against the new schema.
func (m *Manager) SetSchema(schema Schema) error {
	if err := schema.validate(); err != nil {
		return err
	}
	cloned := schema.clone()

	m.mu.Lock()
	m.schema = cloned
	m.mu.Unlock()
	return nil
}

// SetLogger replaces the logger behind the manager's sink.
func (m *Manager) SetLogger(logger *zap.Logger) {
	m.sink.SetLogger(logger)
}

// SetQuiet toggles quiet mode on the manager's sink.
func (m *Manager) SetQuiet(quiet bool) {
	m.sink.SetQuiet(quiet)
}

// State reports the current initialization state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// initOptions carries per-call Initialize settings.
type initOptions struct {
	quiet    bool
	quietSet bool
	keyID    string
}

// InitOption configures a call to Initialize.
type InitOption func(*initOptions)

// WithQuiet sets quiet mode for the pass (and the sink) before resolution
// starts.
func WithQuiet(quiet bool) InitOption {
	return func(o *initOptions) {
		o.quiet = quiet
		o.quietSet = true
	}
}

// WithDecryptionKey requests a non-default decryption key for remote fetches.
// A non-empty key bypasses batch fetching in favour of individual calls.
func WithDecryptionKey(keyID string) InitOption {
	return func(o *initOptions) {
		o.keyID = keyID
	}
}

// Initialize runs the resolution pass at most once per process. A settled
// manager returns immediately; callers arriving while a pass is in flight
// join it and observe its outcome. A failed pass resets the manager so a
// later call may retry from scratch.
func (m *Manager) Initialize(ctx context.Context, opts ...InitOption) error {
	var o initOptions
	for _, opt := range opts {
		opt(&o)
	}

	m.mu.Lock()
	if m.schema == nil {
		m.mu.Unlock()
		return ErrSchemaNotSet
	}

	switch m.state {
	case StateSettled:
		m.mu.Unlock()
		return nil
	case StatePending:
		p := m.inflight
		m.mu.Unlock()
		select {
		case <-p.done:
			return p.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	p := newPass()
	m.inflight = p
	m.state = StatePending
	schema := m.schema.clone()
	if o.quietSet {
		m.sink.SetQuiet(o.quiet)
	}
	m.mu.Unlock()

	resolved, remote, err := m.runPass(ctx, schema, o.keyID)

	m.mu.Lock()
	m.inflight = nil
	if err != nil {
		m.state = StateUninitialized
	} else {
		m.state = StateSettled
		m.resolved = resolved
		m.remoteCache = remote
	}
	m.mu.Unlock()

	p.err = err
	close(p.done)
	return err
}

// Get resolves a key's current value. Before the manager settles, only keys
// with a static default are readable. After settling, the environment is
// re-checked on every read, then the remote cache, then the default, so
// post-initialization environment edits are observed.
func (m *Manager) Get(key string) (any, error) {
	m.mu.Lock()
	schema := m.schema
	state := m.state
	remote := m.remoteCache
	m.mu.Unlock()

	if schema == nil {
		return nil, ErrSchemaNotSet
	}
	item, ok := schema[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	if state != StateSettled {
		if item.Default != nil {
			return Coerce(*item.Default, item.Type)
		}
		return nil, fmt.Errorf("%w: read of %s", ErrNotInitialized, key)
	}

	raw, _, found := resolveRaw(item, remote)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfigValue, key)
	}
	return Coerce(raw, item.Type)
}

// GetString reads a key declared as TypeString.
func (m *Manager) GetString(key string) (string, error) {
	value, err := m.Get(key)
	if err != nil {
		return "", err
	}
	typed, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("key %s holds %T, not string", key, value)
	}
	return typed, nil
}

// GetInt reads a key declared as TypeInt.
func (m *Manager) GetInt(key string) (int, error) {
	value, err := m.Get(key)
	if err != nil {
		return 0, err
	}
	typed, ok := value.(int)
	if !ok {
		return 0, fmt.Errorf("key %s holds %T, not int", key, value)
	}
	return typed, nil
}

// GetFloat reads a key declared as TypeFloat.
func (m *Manager) GetFloat(key string) (float64, error) {
	value, err := m.Get(key)
	if err != nil {
		return 0, err
	}
	typed, ok := value.(float64)
	if !ok {
		return 0, fmt.Errorf("key %s holds %T, not float64", key, value)
	}
	return typed, nil
}

// GetBool reads a key declared as TypeBool.
func (m *Manager) GetBool(key string) (bool, error) {
	value, err := m.Get(key)
	if err != nil {
		return false, err
	}
	typed, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("key %s holds %T, not bool", key, value)
	}
	return typed, nil
}

// Resolved returns the pass record for a key: the value, its raw string form,
// and the source tier that satisfied it during the settled pass. The second
// return value is false before the manager settles or for unknown keys.
func (m *Manager) Resolved(key string) (Resolved, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.resolved[key]
	return record, ok
}

// Keys returns the schema's keys in sorted order.
func (m *Manager) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.schema == nil {
		return nil
	}
	return m.schema.sortedKeys()
}

// Reset returns the manager to its uninitialized state, clearing the schema
// and all caches. Intended for tests; it must not race an in-flight
// Initialize.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.state = StateUninitialized
	m.inflight = nil
	m.schema = nil
	m.resolved = nil
	m.remoteCache = nil
	m.mu.Unlock()
}

// resolveRaw walks the precedence chain for one item: live environment value
// (empty counts as absent), then the remote cache, then the static default.
func resolveRaw(item Item, remote map[string]string) (string, Source, bool) {
	if value, ok := os.LookupEnv(item.EnvVar); ok && value != "" {
		return value, SourceEnv, true
	}
	if item.RemoteRef != "" {
		if value, ok := remote[item.RemoteRef]; ok {
			return value, SourceRemote, true
		}
	}
	if item.Default != nil {
		return *item.Default, SourceDefault, true
	}
	return "", "", false
}
