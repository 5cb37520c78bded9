package pipeline

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tmarceau/croquis/pkg/cache"
	"github.com/tmarceau/croquis/pkg/errors"
	"github.com/tmarceau/croquis/pkg/formats"
	treeio "github.com/tmarceau/croquis/pkg/io"
	"github.com/tmarceau/croquis/pkg/render/ascii"
	"github.com/tmarceau/croquis/pkg/render/nodelink"
	"github.com/tmarceau/croquis/pkg/treebank"
)

// Runner encapsulates pipeline execution with artifact caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dialect is the input dialect, guessed when Options.Format was empty.
	Dialect formats.Name

	// Trees are the parsed dependency trees.
	Trees []*treebank.Tree

	// Skipped counts trees dropped by KeepGoing.
	Skipped int

	// Artifacts contains rendered outputs keyed by output kind.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the render stage hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TreeCount  int
	WordCount  int
	ParseTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// Execute runs the complete detect → parse → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, input []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}
	lines := strings.Split(string(input), "\n")

	// Stage 1: Detect
	dialect, err := r.detect(lines, opts)
	if err != nil {
		return nil, err
	}
	result.Dialect = dialect

	// Stage 2: Parse
	parseStart := time.Now()
	trees, skipped, err := r.parse(lines, dialect, opts)
	if err != nil {
		return nil, err
	}
	result.Trees = trees
	result.Skipped = skipped
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.TreeCount = len(trees)
	for _, t := range trees {
		result.Stats.WordCount += t.WordCount()
	}
	opts.Logger.Info("parsed treebank",
		"dialect", dialect,
		"trees", len(trees),
		"words", result.Stats.WordCount,
		"duration", result.Stats.ParseTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hit, err := r.render(ctx, input, trees, dialect, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit
	opts.Logger.Info("rendered outputs",
		"outputs", opts.Outputs,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) detect(lines []string, opts Options) (formats.Name, error) {
	if opts.Format != "" {
		f, err := formats.Lookup(opts.Format)
		if err != nil {
			return "", err
		}
		return f.Name(), nil
	}
	name, err := formats.Guess(lines)
	if err != nil {
		return "", err
	}
	opts.Logger.Debug("guessed dialect", "dialect", name)
	return name, nil
}

func (r *Runner) parse(lines []string, dialect formats.Name, opts Options) ([]*treebank.Tree, int, error) {
	f, err := formats.Lookup(string(dialect))
	if err != nil {
		return nil, 0, err
	}

	if !opts.KeepGoing {
		trees, err := f.Parse(lines)
		return trees, 0, err
	}

	var trees []*treebank.Tree
	skipped := 0
	for _, b := range formats.Blocks(lines) {
		t, err := f.ParseBlock(b)
		if err != nil {
			skipped++
			opts.Logger.Warn("skipping unparsable tree", "err", err)
			continue
		}
		trees = append(trees, t)
	}
	if len(trees) == 0 && skipped > 0 {
		return nil, skipped, errors.New(errors.ErrCodeInvalidInput, "no tree could be parsed")
	}
	return trees, skipped, nil
}

// render produces every requested artifact, serving all of them from cache
// when possible. The cache key covers the raw input and everything that
// shapes the output, so a hit is always exact.
func (r *Runner) render(ctx context.Context, input []byte, trees []*treebank.Tree, dialect formats.Name, opts Options) (map[string][]byte, bool, error) {
	keyFor := func(kind string) string {
		variant := kind + "|" + string(dialect)
		if opts.Detailed {
			variant += "|detailed"
		}
		if opts.KeepGoing {
			variant += "|keepgoing"
		}
		return cache.ArtifactKey(variant, input)
	}

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Outputs))
		allCached := true
		for _, kind := range opts.Outputs {
			data, hit, err := r.Cache.Get(ctx, keyFor(kind))
			if err != nil || !hit {
				allCached = false
				break
			}
			artifacts[kind] = data
		}
		if allCached && len(artifacts) == len(opts.Outputs) {
			return artifacts, true, nil
		}
	}

	artifacts := make(map[string][]byte, len(opts.Outputs))
	for _, kind := range opts.Outputs {
		data, err := r.renderOne(ctx, kind, trees, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[kind] = data
	}

	for kind, data := range artifacts {
		_ = r.Cache.Set(ctx, keyFor(kind), data, TTLArtifact)
	}
	return artifacts, false, nil
}

func (r *Runner) renderOne(ctx context.Context, kind string, trees []*treebank.Tree, opts Options) ([]byte, error) {
	switch kind {
	case OutputASCII:
		parts := make([]string, len(trees))
		for i, t := range trees {
			parts[i] = ascii.Render(t)
		}
		return []byte(strings.Join(parts, "\n\n")), nil

	case OutputConllu, OutputConll2009Gold, OutputConll2009Sys:
		f, err := formats.Lookup(kind)
		if err != nil {
			return nil, err
		}
		parts := make([]string, len(trees))
		for i, t := range trees {
			parts[i], err = f.Marshal(t)
			if err != nil {
				return nil, err
			}
		}
		return []byte(strings.Join(parts, "\n\n")), nil

	case OutputJSON:
		var buf bytes.Buffer
		if err := treeio.WriteJSON(trees, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case OutputDOT:
		return []byte(nodelink.ToDOTAll(trees, nodelink.Options{Detailed: opts.Detailed})), nil

	case OutputSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOTAll(trees, nodelink.Options{Detailed: opts.Detailed}))

	case OutputPNG:
		return nodelink.RenderPNG(ctx, nodelink.ToDOTAll(trees, nodelink.Options{Detailed: opts.Detailed}))

	default:
		return nil, errors.New(errors.ErrCodeInvalidOutput, "invalid output %q", kind)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
