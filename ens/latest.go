package ens

import (
	"context"
	"sync"
)

// Latest serializes user-triggered searches so that only the most recent
// one is applied. Starting a new search cancels the previous one and bumps
// the generation; a result whose generation is no longer current is stale.
type Latest struct {
	resolver ProfileResolver

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc

	// applyMu serializes StartApply callbacks.
	applyMu sync.Mutex
}

func NewLatest(resolver ProfileResolver) *Latest {
	return &Latest{resolver: resolver}
}

func (l *Latest) begin(ctx context.Context) (context.Context, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	ctx, l.cancel = context.WithCancel(ctx)
	return ctx, l.gen
}

// Current reports whether gen is the latest generation handed out.
func (l *Latest) Current(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return gen == l.gen
}

// Start registers a search for name and returns the function running it.
// Generations follow the order of Start calls, so a caller can run the
// returned functions on other goroutines.
func (l *Latest) Start(ctx context.Context, name string) func() (Profile, bool) {
	ctx, gen := l.begin(ctx)
	return func() (Profile, bool) {
		p := l.resolver.Resolve(ctx, name)
		return p, l.Current(gen)
	}
}

// StartApply is Start with the result handed to apply only while it is
// current. The check and apply run under one lock shared by every
// StartApply search, so a stale result is never applied after a newer
// one. The returned function reports whether apply ran.
func (l *Latest) StartApply(ctx context.Context, name string, apply func(Profile)) func() bool {
	ctx, gen := l.begin(ctx)
	return func() bool {
		p := l.resolver.Resolve(ctx, name)
		l.applyMu.Lock()
		defer l.applyMu.Unlock()
		if !l.Current(gen) {
			return false
		}
		apply(p)
		return true
	}
}

// Search resolves name and reports whether the result is still current.
// Stale results must be discarded by the caller.
func (l *Latest) Search(ctx context.Context, name string) (Profile, bool) {
	return l.Start(ctx, name)()
}

// Stop cancels the search in flight, if any. Its result becomes stale.
func (l *Latest) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
}
