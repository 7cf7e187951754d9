package fetch

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/settleconf/settle/internal/lambdaenv"
	"github.com/settleconf/settle/logging"
)

const (
	defaultFetchRPS   = 25.0
	defaultFetchBurst = 50
)

// Fetcher selects between the local-agent path and the store path for a set
// of remote references. The agent is only attempted inside a detected
// serverless runtime; a single agent miss abandons the whole agent pass and
// the full set is re-fetched from the store.
type Fetcher struct {
	store    Store
	agent    *AgentClient
	sink     *logging.Sink
	limiter  *rate.Limiter
	detected func() bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithAgent supplies the local-agent client. Without one, the store path is
// the sole strategy.
func WithAgent(agent *AgentClient) Option {
	return func(f *Fetcher) {
		f.agent = agent
	}
}

// WithSink overrides the logging sink.
func WithSink(sink *logging.Sink) Option {
	return func(f *Fetcher) {
		f.sink = sink
	}
}

// WithRateLimit overrides the pacing applied to individual-fetch mode.
func WithRateLimit(ratePerSecond float64, burst int) Option {
	return func(f *Fetcher) {
		if ratePerSecond <= 0 {
			ratePerSecond = 1
		}
		if burst <= 0 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(ratePerSecond), burst)
	}
}

// WithRuntimeDetector overrides serverless runtime detection, primarily for
// tests.
func WithRuntimeDetector(detected func() bool) Option {
	return func(f *Fetcher) {
		f.detected = detected
	}
}

// New constructs a Fetcher over the given store.
func New(store Store, opts ...Option) *Fetcher {
	f := &Fetcher{
		store:    store,
		sink:     logging.NewSink(nil),
		limiter:  rate.NewLimiter(rate.Limit(defaultFetchRPS), defaultFetchBurst),
		detected: lambdaenv.Detected,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the given references and returns the subset that resolved.
// Missing references and transport failures are logged as warnings and simply
// omitted from the result; Fetch never fails the caller.
func (f *Fetcher) Fetch(ctx context.Context, refs []string, keyID string) map[string]string {
	if len(refs) == 0 {
		return map[string]string{}
	}

	if f.agent != nil && f.detected() {
		if found, ok := f.fetchViaAgent(ctx, refs, keyID); ok {
			return found
		}
	}
	return f.fetchViaStore(ctx, refs, keyID)
}

// fetchViaAgent attempts every reference against the local agent, one at a
// time. The first miss marks the whole pass unreliable: partial results are
// discarded and the caller falls back to the store for the full set.
func (f *Fetcher) fetchViaAgent(ctx context.Context, refs []string, keyID string) (map[string]string, bool) {
	found := make(map[string]string, len(refs))
	for _, ref := range refs {
		value, ok := f.agent.Get(ctx, ref, keyID)
		if !ok {
			f.sink.Warn("local agent pass abandoned, falling back to store",
				zap.String("ref", ref), zap.Int("refs_total", len(refs)))
			return nil, false
		}
		found[ref] = value
	}
	f.sink.Debug("all references resolved via local agent",
		zap.Int("refs_total", len(refs)))
	return found, true
}

func (f *Fetcher) fetchViaStore(ctx context.Context, refs []string, keyID string) map[string]string {
	if keyID != "" {
		return f.fetchIndividually(ctx, refs, keyID)
	}

	found, missing, err := f.store.GetMany(ctx, refs)
	if err != nil {
		f.sink.Warn("batch store fetch failed",
			zap.Int("refs_total", len(refs)), zap.Error(err))
		return map[string]string{}
	}
	for _, ref := range missing {
		f.sink.Warn("remote reference not found in store", zap.String("ref", ref))
	}
	if found == nil {
		found = map[string]string{}
	}
	return found
}

// fetchIndividually degrades to sequential single-item fetches. The remote
// API does not accept a decryption key in batch mode, so a non-default key
// forces this path.
func (f *Fetcher) fetchIndividually(ctx context.Context, refs []string, keyID string) map[string]string {
	found := make(map[string]string, len(refs))
	for _, ref := range refs {
		if err := f.limiter.Wait(ctx); err != nil {
			f.sink.Warn("individual fetch pacing interrupted",
				zap.String("ref", ref), zap.Error(err))
			return found
		}
		value, ok, err := f.store.GetOne(ctx, ref, keyID)
		if err != nil {
			f.sink.Warn("individual store fetch failed",
				zap.String("ref", ref), zap.Error(err))
			continue
		}
		if !ok {
			f.sink.Warn("remote reference not found in store", zap.String("ref", ref))
			continue
		}
		found[ref] = value
	}
	return found
}
