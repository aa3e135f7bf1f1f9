package shelf

import (
	"log/slog"
)

// Options configures a Shelf.
type Options struct {
	KeepHistory   bool
	ChangeComment func(path string, data []byte) string
	Concurrency   int
	Logger        *slog.Logger
}

// Option is a functional option for configuring Open.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		KeepHistory: true,
		Concurrency: 1,
		Logger:      slog.Default(),
	}
}

// WithKeepHistory controls whether commits link to their predecessor.
// When disabled every commit is a root commit; only the latest snapshot
// matters. Useful for the hash-keyed blob-store mode where lineage is
// irrelevant.
func WithKeepHistory(keep bool) Option {
	return func(o *Options) { o.KeepHistory = keep }
}

// WithChangeComment sets a hook describing a changed record. When a
// commit is made without an explicit message, the hook's output for
// each flushed record is concatenated into the commit message.
func WithChangeComment(fn func(path string, data []byte) string) Option {
	return func(o *Options) { o.ChangeComment = fn }
}

// WithConcurrency sets how many sibling subtrees may be flushed in
// parallel during a commit. Default is sequential.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}
