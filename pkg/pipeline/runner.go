package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxtree/pkg/boxtree"
	"github.com/matzehuels/boxtree/pkg/cache"
	"github.com/matzehuels/boxtree/pkg/errors"
	boxio "github.com/matzehuels/boxtree/pkg/io"
	"github.com/matzehuels/boxtree/pkg/observability"
	"github.com/matzehuels/boxtree/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so multiple goroutines can share one
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the default entry lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs measure → layout → render with caching.
func (r *Runner) Execute(ctx context.Context, t *tree.Tree[boxtree.Box], opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}
	hash, err := TreeHash(t)
	if err != nil {
		return nil, err
	}
	result.TreeHash = hash

	layoutStart := time.Now()
	res, hit, err := r.Layout(ctx, t, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = res.NodeCount()
	result.Stats.RowCount = len(res.RowHeights)
	result.CacheInfo.LayoutHit = hit

	r.Logger.Info("computed layout",
		"nodes", result.Stats.NodeCount,
		"rows", result.Stats.RowCount,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, res, t, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout returns the layout of t, from the cache when an entry for the
// same tree and options exists. The boolean reports a cache hit.
func (r *Runner) Layout(ctx context.Context, t *tree.Tree[boxtree.Box], opts Options) (*boxtree.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	hash, err := TreeHash(t)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached boxtree.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				hooks.OnCacheHit(ctx, "layout")
				return &cached, true, nil
			}
			opts.Logger.Warn("discarding unreadable cached layout", "key", key)
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "err", err)
		}
		hooks.OnCacheMiss(ctx, "layout")
	}

	res, err := ComputeLayout(ctx, t, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLLayout)); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, "layout", len(data))
		}
	}
	return res, false, nil
}

// RenderWithCacheInfo renders res, serving every format from the cache
// when all of them are present. The boolean reports that case.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *boxtree.Result, t *tree.Tree[boxtree.Box], opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	if res == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "no layout to render")
	}

	base, err := artifactHash(res, t)
	if err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(base, opts.ArtifactKeyOpts(format)))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		hooks.OnCacheMiss(ctx, "artifact")
	}

	rendered, err := Render(ctx, res, t, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(base, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err == nil {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Render is RenderWithCacheInfo without the cache hit report.
func (r *Runner) Render(ctx context.Context, res *boxtree.Result, t *tree.Tree[boxtree.Box], opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, t, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// TreeHash returns the content hash of t's canonical encoding.
func TreeHash(t *tree.Tree[boxtree.Box]) (string, error) {
	if t == nil {
		return "", errors.New(errors.ErrCodeInvalidTree, "tree is nil")
	}
	data, err := boxio.Canonical(t)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash tree")
	}
	return cache.Hash(data), nil
}

// artifactHash addresses the rendered outputs of res. The tree is part of
// the input because the dot formats draw it directly.
func artifactHash(res *boxtree.Result, t *tree.Tree[boxtree.Box]) (string, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	if t != nil {
		canon, err := boxio.Canonical(t)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "serialize tree for cache key")
		}
		data = append(data, canon...)
	}
	return cache.Hash(data), nil
}
