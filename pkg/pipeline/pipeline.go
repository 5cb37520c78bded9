// Package pipeline provides the core conversion pipeline for croquis.
//
// This package implements the complete detect → parse → render pipeline
// used by the CLI and the HTTP server. By centralizing this logic, both
// entry points behave identically for the same input.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Detect: Name the input dialect, guessing it when the caller doesn't
//  2. Parse: Turn the raw lines into canonical dependency trees
//  3. Render: Generate the requested outputs (text art, dialects, JSON, diagrams)
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Outputs: []string{pipeline.OutputASCII},
//	}
//	result, err := runner.Execute(ctx, input, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	art := result.Artifacts[pipeline.OutputASCII]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tmarceau/croquis/pkg/errors"
	"github.com/tmarceau/croquis/pkg/formats"
)

// Output kinds the render stage can produce.
const (
	OutputASCII         = "ascii"
	OutputConllu        = "conllu"
	OutputConll2009Gold = "conll2009_gold"
	OutputConll2009Sys  = "conll2009_sys"
	OutputJSON          = "json"
	OutputDOT           = "dot"
	OutputSVG           = "svg"
	OutputPNG           = "png"
)

// ValidOutputs is the set of supported output kinds.
var ValidOutputs = map[string]bool{
	OutputASCII:         true,
	OutputConllu:        true,
	OutputConll2009Gold: true,
	OutputConll2009Sys:  true,
	OutputJSON:          true,
	OutputDOT:           true,
	OutputSVG:           true,
	OutputPNG:           true,
}

// TTLArtifact is how long rendered artifacts stay cached. The key is a
// content hash, so a long TTL never serves stale data.
const TTLArtifact = 24 * time.Hour

// Options contains all configuration for the conversion pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Format names the input dialect. Empty means guess it from the input.
	Format string `json:"format,omitempty"`

	// Outputs lists the artifacts to render. Defaults to text art.
	Outputs []string `json:"outputs,omitempty"`

	// KeepGoing skips unparsable trees with a warning instead of aborting
	// on the first bad one.
	KeepGoing bool `json:"keep_going,omitempty"`

	// Detailed includes lemma and part of speech in diagram node labels.
	Detailed bool `json:"detailed,omitempty"`

	// Refresh bypasses the artifact cache.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Format != "" {
		if _, err := formats.Lookup(o.Format); err != nil {
			return err
		}
	}
	if len(o.Outputs) == 0 {
		o.Outputs = []string{OutputASCII}
	}
	for _, out := range o.Outputs {
		if !ValidOutputs[out] {
			return errors.New(errors.ErrCodeInvalidOutput,
				"invalid output %q (must be one of: ascii, conllu, conll2009_gold, conll2009_sys, json, dot, svg, png)", out)
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}
