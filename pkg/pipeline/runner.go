package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/toparity/pkg/automaton/transform"
	"github.com/matzehuels/toparity/pkg/cache"
	"github.com/matzehuels/toparity/pkg/observability"
)

// keyType labels result cache events in observability hooks.
const keyType = "result"

// Runner executes conversions with caching.
// Both CLI and API use it so that caching and logging behave the same.
//
// The Runner is stateless except for its cache, hooks and logger; multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Hooks  Hooks
	Logger *log.Logger

	// TTL is the lifetime of cached results.
	TTL time.Duration
}

// Hooks groups the observability hooks a Runner reports to.
type Hooks struct {
	Transform observability.TransformHooks
	Cache     observability.CacheHooks
}

// NewRunner creates a runner.
// If cache is nil, a NullCache is used (caching disabled). If keyer is nil,
// a DefaultKeyer is used. Nil hooks fall back to the global registry.
func NewRunner(c cache.Cache, keyer cache.Keyer, hooks *Hooks, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	h := Hooks{Transform: observability.Transform(), Cache: observability.Cache()}
	if hooks != nil {
		if hooks.Transform != nil {
			h.Transform = hooks.Transform
		}
		if hooks.Cache != nil {
			h.Cache = hooks.Cache
		}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Hooks:  h,
		Logger: logger,
		TTL:    cache.ResultTTL,
	}
}

// cachedResult is the cache representation of a conversion.
type cachedResult struct {
	Artifacts map[string][]byte `json:"artifacts"`
	Stats     Stats             `json:"stats"`
}

// Convert runs parse, cleanup, transform and render on data.
func (r *Runner) Convert(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	if opts.InputFormat == FormatAuto {
		opts.InputFormat = DetectFormat(data)
	}

	result := &Result{ID: uuid.NewString()}
	cacheKey := r.Keyer.ResultKey(cache.Hash(data), opts.KeyOpts())

	if !opts.Refresh {
		if cached, ok := r.lookup(ctx, cacheKey, logger); ok {
			result.Artifacts = cached.Artifacts
			result.Stats = cached.Stats
			result.CacheHit = true
			logger.Debug("served from cache", "id", result.ID, "formats", opts.Formats)
			return result, nil
		}
	}

	// Stage 1: Parse
	start := time.Now()
	g, err := Parse(data, opts.InputFormat)
	result.Stats.ParseTime = time.Since(start)
	states := 0
	if g != nil {
		states = g.NumStates()
	}
	r.Hooks.Transform.OnDecodeComplete(ctx, opts.InputFormat, states, result.Stats.ParseTime, err)
	if err != nil {
		return nil, err
	}
	result.Stats.InputStates = g.NumStates()
	result.Stats.InputEdges = g.NumEdges()
	result.Stats.InputSets = g.NumSets()
	logger.Debug("parsed automaton",
		"id", result.ID,
		"states", g.NumStates(),
		"edges", g.NumEdges(),
		"acceptance", g.Acceptance().Name())

	// Stage 2: Cleanup
	if opts.Cleanup || opts.Simplify {
		g = Cleanup(g, opts)
		logger.Debug("cleaned acceptance", "id", result.ID,
			"sets", g.NumSets(), "acceptance", g.Acceptance().String())
	}
	result.Stats.CleanedSets = g.NumSets()
	result.Stats.StateBound = transform.StateBound(g)

	// Stage 3: Transform
	start = time.Now()
	r.Hooks.Transform.OnTransformStart(ctx, g.NumStates(), g.NumSets())
	out, passthrough, err := Transform(ctx, g, opts)
	result.Stats.TransformTime = time.Since(start)
	if err != nil {
		r.Hooks.Transform.OnTransformComplete(ctx, observability.TransformStats{}, result.Stats.TransformTime, err)
		return nil, err
	}
	result.Automaton = out
	result.Stats.Passthrough = passthrough
	result.Stats.OutputStates = out.NumStates()
	result.Stats.OutputEdges = out.NumEdges()
	result.Stats.Priorities = out.NumSets()
	r.Hooks.Transform.OnTransformComplete(ctx, observability.TransformStats{
		States:      out.NumStates(),
		Edges:       out.NumEdges(),
		Sets:        out.NumSets(),
		Passthrough: passthrough,
	}, result.Stats.TransformTime, nil)

	logger.Info("converted to parity",
		"id", result.ID,
		"states", out.NumStates(),
		"edges", out.NumEdges(),
		"priorities", out.NumSets(),
		"passthrough", passthrough,
		"duration", result.Stats.TransformTime)

	// Stage 4: Render
	start = time.Now()
	artifacts, err := Render(ctx, out, opts)
	result.Stats.RenderTime = time.Since(start)
	r.Hooks.Transform.OnEncodeComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts

	logger.Debug("rendered outputs",
		"id", result.ID,
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	r.store(ctx, cacheKey, cachedResult{Artifacts: artifacts, Stats: result.Stats}, logger)
	return result, nil
}

// lookup returns the cached result for key. Unreadable entries count as
// misses and are recomputed.
func (r *Runner) lookup(ctx context.Context, key string, logger *log.Logger) (cachedResult, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		r.Hooks.Cache.OnCacheMiss(ctx, keyType)
		return cachedResult{}, false
	}
	var cached cachedResult
	if err := json.Unmarshal(data, &cached); err != nil {
		logger.Debug("discarding corrupt cache entry", "err", err)
		r.Hooks.Cache.OnCacheMiss(ctx, keyType)
		return cachedResult{}, false
	}
	r.Hooks.Cache.OnCacheHit(ctx, keyType)
	return cached, true
}

// store writes a result to the cache. Failures are logged, not returned:
// the conversion itself succeeded.
func (r *Runner) store(ctx context.Context, key string, res cachedResult, logger *log.Logger) {
	data, err := json.Marshal(res)
	if err != nil {
		logger.Warn("cache encode failed", "err", err)
		return
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, r.TTL)
	})
	if err != nil {
		logger.Warn("cache write failed", "err", err)
		return
	}
	r.Hooks.Cache.OnCacheSet(ctx, keyType, len(data))
}

// Input is one automaton of a batch conversion.
type Input struct {
	Name string
	Data []byte
}

// ConvertAll converts inputs with at most parallel conversions running at
// once (parallel <= 0 means one). Results are index-aligned with inputs; the
// result of a failed input is nil. The returned error combines the errors
// of all failed inputs, each prefixed by the input name.
func (r *Runner) ConvertAll(ctx context.Context, inputs []Input, opts Options, parallel int) ([]*Result, error) {
	if parallel <= 0 {
		parallel = 1
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	results := make([]*Result, len(inputs))
	errs := make([]error, len(inputs))

	var g errgroup.Group
	g.SetLimit(parallel)
	for i, in := range inputs {
		g.Go(func() error {
			res, err := r.Convert(ctx, in.Data, opts)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", in.Name, err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results, multierr.Combine(errs...)
}

// Close releases resources held by the runner: the cache, and any hook that
// implements io.Closer. Every resource is closed even if an earlier one
// fails; the failures are combined.
func (r *Runner) Close() error {
	var err error
	if r.Cache != nil {
		err = multierr.Append(err, r.Cache.Close())
	}
	for _, h := range []any{r.Hooks.Transform, r.Hooks.Cache} {
		if c, ok := h.(io.Closer); ok {
			err = multierr.Append(err, c.Close())
		}
	}
	return err
}
