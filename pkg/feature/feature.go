package feature

import (
	"context"
	"log/slog"
	"maps"
	"sync"

	"github.com/golid-ai/dashkit/pkg/logger"
)

// Source returns the current flag map. apiclient.FeaturesAPI satisfies it.
type Source interface {
	List(ctx context.Context) (map[string]bool, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (map[string]bool, error)

func (f SourceFunc) List(ctx context.Context) (map[string]bool, error) {
	return f(ctx)
}

// Flags holds the last loaded flag set. Unknown flags are disabled.
type Flags struct {
	source Source
	logger *slog.Logger
	mu     sync.RWMutex
	flags  map[string]bool
}

type Option func(*Flags)

func WithLogger(l *slog.Logger) Option {
	return func(f *Flags) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithDefaults seeds flags used until the first successful Load.
func WithDefaults(defaults map[string]bool) Option {
	return func(f *Flags) {
		maps.Copy(f.flags, defaults)
	}
}

func New(source Source, opts ...Option) *Flags {
	f := &Flags{
		source: source,
		logger: logger.Discard(),
		flags:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Load replaces the flag set with the source's. On failure the previous set
// is kept and the error is returned for the caller to log or ignore.
func (f *Flags) Load(ctx context.Context) error {
	if f.source == nil {
		return ErrNoSource
	}

	flags, err := f.source.List(ctx)
	if err != nil {
		f.logger.WarnContext(ctx, "feature flags unavailable", logger.Error(err))
		return err
	}

	f.mu.Lock()
	f.flags = maps.Clone(flags)
	if f.flags == nil {
		f.flags = make(map[string]bool)
	}
	f.mu.Unlock()
	return nil
}

func (f *Flags) IsEnabled(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.flags[name]
}

// Snapshot returns a copy of the current flags.
func (f *Flags) Snapshot() map[string]bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return maps.Clone(f.flags)
}
