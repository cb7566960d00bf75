package ens

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options toggles the optional parts of the lookup cascade.
type Options struct {
	Owner         bool
	ContentHash   bool
	TextRecords   bool
	CoinAddresses bool
	Expiry        bool

	TextKeys    []string
	Coins       []Coin
	GatedSuffix string
	// Concurrency bounds the sub-lookups in flight for one resolution.
	Concurrency int
}

func DefaultOptions() Options {
	return Options{
		Owner:         true,
		ContentHash:   true,
		TextRecords:   true,
		CoinAddresses: true,
		Expiry:        true,
		TextKeys:      TextKeys,
		Coins:         Coins,
		GatedSuffix:   GatedSuffix,
		Concurrency:   8,
	}
}

// Recorder receives per-lookup and per-resolution observations.
type Recorder interface {
	ObserveLookup(field string, status string)
	ObserveResolve(outcome string, d time.Duration)
}

// ProfileResolver is anything that turns a name into a Profile.
type ProfileResolver interface {
	Resolve(ctx context.Context, name string) Profile
}

type Engine struct {
	dial     ProviderFactory
	opts     Options
	logger   *zap.Logger
	recorder Recorder
}

type EngineOption func(*Engine)

func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithRecorder(r Recorder) EngineOption {
	return func(e *Engine) {
		e.recorder = r
	}
}

func NewEngine(dial ProviderFactory, opts Options, options ...EngineOption) *Engine {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	e := &Engine{
		dial:   dial,
		opts:   opts,
		logger: zap.NewNop(),
	}
	for _, o := range options {
		o(e)
	}
	return e
}

// Resolve never returns an error: sub-lookup failures leave fields absent,
// a missing resolver yields NotFound and a setup or discovery failure
// yields FatalError.
func (e *Engine) Resolve(ctx context.Context, name string) Profile {
	start := time.Now()
	log := e.logger.With(
		zap.String("name", name),
		zap.String("request_id", uuid.NewString()),
	)
	p := e.resolve(ctx, log, name)
	if e.recorder != nil {
		e.recorder.ObserveResolve(p.Outcome().String(), time.Since(start))
	}
	log.Debug("resolution finished",
		zap.Stringer("outcome", p.Outcome()),
		zap.Duration("took", time.Since(start)),
	)
	return p
}

func (e *Engine) resolve(ctx context.Context, log *zap.Logger, name string) Profile {
	provider, err := e.dial(ctx)
	if err != nil {
		log.Error("couldn't set up provider", zap.Error(err))
		return fatalProfile(name, fmt.Errorf("couldn't set up provider: %w", err))
	}
	if c, ok := provider.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				log.Warn("couldn't close provider", zap.Error(err))
			}
		}()
	}

	c := &collector{profile: Profile{
		Name:          name,
		TextRecords:   map[string]string{},
		CoinAddresses: map[CoinLabel]string{},
	}}

	addr, err := provider.ResolveAddress(ctx, name)
	switch {
	case err != nil:
		log.Warn("forward resolution failed", zap.Error(err))
		c.report("address", lookup{status: StatusFailed, err: err})
	case addr == nil:
		c.report("address", lookup{status: StatusEmpty})
	default:
		c.profile.ResolvedAddress = addr
		c.report("address", lookup{status: StatusOK})
	}

	resolver, err := provider.Resolver(ctx, name)
	if err != nil {
		log.Error("resolver discovery failed", zap.Error(err))
		return fatalProfile(name, fmt.Errorf("resolver discovery failed: %w", err))
	}
	if resolver == nil {
		return notFoundProfile(name)
	}
	raddr := resolver.Address()
	c.profile.Resolver = &raddr

	g := new(errgroup.Group)
	g.SetLimit(e.opts.Concurrency)
	run := func(field string, fn func() lookup) {
		g.Go(func() error {
			res := isolate(fn)
			if res.status == StatusFailed {
				log.Warn("lookup failed",
					zap.String("lookup", field),
					zap.String("strategy", res.strategy),
					zap.Error(res.err),
				)
			}
			c.report(field, res)
			if e.recorder != nil {
				e.recorder.ObserveLookup(lookupKind(field), res.status.String())
			}
			return nil
		})
	}

	if e.opts.Owner {
		run("owner", func() lookup {
			owner, err := provider.Owner(ctx, NameHash(name))
			if err != nil {
				return lookup{status: StatusFailed, err: err}
			}
			if owner == (common.Address{}) {
				return lookup{status: StatusEmpty}
			}
			c.setOwner(owner)
			return lookup{status: StatusOK}
		})
	}

	if e.opts.ContentHash {
		run("contenthash", func() lookup {
			res := runStrategies(ctx, resolver, contentHashStrategies)
			if res.status == StatusOK {
				c.setContentHash(res.value)
			}
			return res
		})
	}

	if e.opts.TextRecords {
		for _, key := range e.opts.TextKeys {
			key := key
			run("text:"+key, func() lookup {
				res := runStrategies(ctx, resolver, textStrategies(key))
				if res.status == StatusOK {
					c.setText(key, res.value)
				}
				return res
			})
		}
	}

	if e.opts.CoinAddresses {
		for _, coin := range e.opts.Coins {
			coin := coin
			run("coin:"+string(coin.Label), func() lookup {
				res := runStrategies(ctx, resolver, coinStrategies(coin))
				if res.status == StatusOK {
					c.setCoin(coin.Label, res.value)
				}
				return res
			})
		}
	}

	if e.opts.Expiry {
		if HasSuffix(name, e.opts.GatedSuffix) {
			run("expiry", func() lookup {
				exp, err := provider.Expiry(ctx, LabelHash(FirstLabel(name)))
				if err != nil {
					return lookup{status: StatusFailed, err: err}
				}
				if exp == nil || exp.Sign() <= 0 || !exp.IsInt64() {
					return lookup{status: StatusEmpty}
				}
				c.setExpiry(time.Unix(exp.Int64(), 0).UTC())
				return lookup{status: StatusOK}
			})
		} else {
			c.report("expiry", lookup{status: StatusSkipped})
		}
	}

	_ = g.Wait()
	return c.finish()
}

// isolate turns a panicking lookup into a failed one.
func isolate(fn func() lookup) (res lookup) {
	defer func() {
		if r := recover(); r != nil {
			res = lookup{status: StatusFailed, err: fmt.Errorf("lookup panicked: %v", r)}
		}
	}()
	return fn()
}

func lookupKind(field string) string {
	kind, _, _ := strings.Cut(field, ":")
	return kind
}

type collector struct {
	mu      sync.Mutex
	profile Profile
}

func (c *collector) report(field string, res lookup) {
	r := LookupReport{Field: field, Status: res.status, Strategy: res.strategy}
	if res.err != nil {
		r.Error = res.err.Error()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile.Lookups = append(c.profile.Lookups, r)
}

func (c *collector) setOwner(owner common.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile.Owner = &owner
}

func (c *collector) setContentHash(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile.ContentHash = v
}

func (c *collector) setText(key, v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile.TextRecords[key] = v
}

func (c *collector) setCoin(label CoinLabel, v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile.CoinAddresses[label] = v
}

func (c *collector) setExpiry(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile.Expiry = &t
}

func (c *collector) finish() Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	sort.SliceStable(c.profile.Lookups, func(i, j int) bool {
		return c.profile.Lookups[i].Field < c.profile.Lookups[j].Field
	})
	return c.profile
}
