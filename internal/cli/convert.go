package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tmarceau/croquis/pkg/errors"
	"github.com/tmarceau/croquis/pkg/pipeline"
)

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	output     string // output file path (or base path for multiple outputs)
	format     string // input dialect, empty means guess
	outputsStr string // comma-separated output kinds
	keepGoing  bool   // skip unparsable trees instead of aborting
	detailed   bool   // detailed node labels in diagrams
	noCache    bool   // disable the artifact cache
	refresh    bool   // bypass cached artifacts
}

// convertCommand creates the convert command, the main entry point of the
// tool: parse a treebank and render it into one or more output kinds.
func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a treebank to other dialects or renderings",
		Long: `Convert reads a CoNLL treebank (from a file, or stdin when the argument
is omitted or "-") and renders the requested outputs. The input dialect is
guessed unless --format names one.

Output kinds: ascii, conllu, conll2009_gold, conll2009_sys, json, dot, svg, png.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runConvert(cmd.Context(), input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single kind) or base path (multiple kinds)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "input dialect: conllu, conllx, talismane, conll2009_gold, conll2009_sys (default: guess)")
	cmd.Flags().StringVarP(&opts.outputsStr, "to", "t", "", "output kind(s), comma-separated (default: ascii)")
	cmd.Flags().BoolVarP(&opts.keepGoing, "keep-going", "k", false, "skip unparsable trees with a warning")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include lemma and part of speech in diagram labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when a cached artifact exists")

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, inputPath string, opts *convertOpts) error {
	input, err := readInput(inputPath)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	format := opts.format
	if format == "" {
		format = c.Config.Format
	}

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, input, pipeline.Options{
		Format:    format,
		Outputs:   c.parseOutputs(opts.outputsStr),
		KeepGoing: opts.keepGoing,
		Detailed:  opts.detailed || c.Config.Detailed,
		Refresh:   opts.refresh,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Converted %d trees from %s", result.Stats.TreeCount, result.Dialect))

	if err := c.writeArtifacts(inputPath, opts.output, result); err != nil {
		return err
	}
	if !toStdout(inputPath, opts.output) {
		printStats(result.Stats.TreeCount, result.Stats.WordCount, result.Skipped, result.CacheInfo.RenderHit)
	}
	return nil
}

// toStdout reports whether artifacts go to stdout: explicitly via "-o -",
// or implicitly when reading stdin without an output path.
func toStdout(inputPath, output string) bool {
	if output == "-" {
		return true
	}
	return output == "" && (inputPath == "" || inputPath == "-")
}

func (c *CLI) writeArtifacts(inputPath, output string, result *pipeline.Result) error {
	if toStdout(inputPath, output) {
		return writeStdout(result)
	}

	base := basePath(output, inputPath)
	multi := len(result.Artifacts) > 1
	for _, kind := range sortedKinds(result.Artifacts) {
		path := outputPath(base, kind, multi)
		if err := os.WriteFile(path, result.Artifacts[kind], 0o644); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

func writeStdout(result *pipeline.Result) error {
	// Reject binary artifacts up front so nothing is emitted for a request
	// that cannot be satisfied in full.
	if _, ok := result.Artifacts[pipeline.OutputPNG]; ok {
		return errors.New(errors.ErrCodeInvalidOutput, "png output needs a file, use --output")
	}

	for _, kind := range sortedKinds(result.Artifacts) {
		data := result.Artifacts[kind]
		if _, err := os.Stdout.Write(data); err != nil {
			return err
		}
		if !bytes.HasSuffix(data, []byte("\n")) {
			fmt.Println()
		}
	}
	return nil
}

// sortedKinds orders artifact kinds deterministically for output.
func sortedKinds(artifacts map[string][]byte) []string {
	order := []string{
		pipeline.OutputASCII,
		pipeline.OutputConllu,
		pipeline.OutputConll2009Gold,
		pipeline.OutputConll2009Sys,
		pipeline.OutputJSON,
		pipeline.OutputDOT,
		pipeline.OutputSVG,
		pipeline.OutputPNG,
	}
	kinds := make([]string, 0, len(artifacts))
	for _, k := range order {
		if _, ok := artifacts[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// kindExt maps output kinds to file extensions.
var kindExt = map[string]string{
	pipeline.OutputASCII:         "txt",
	pipeline.OutputConllu:        "conllu",
	pipeline.OutputConll2009Gold: "conll",
	pipeline.OutputConll2009Sys:  "conll",
	pipeline.OutputJSON:          "json",
	pipeline.OutputDOT:           "dot",
	pipeline.OutputSVG:           "svg",
	pipeline.OutputPNG:           "png",
}

// knownExts is the set of extensions basePath strips from an output path.
var knownExts = map[string]bool{
	"txt": true, "conllu": true, "conll": true, "json": true,
	"dot": true, "svg": true, "png": true,
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output carries a known artifact extension, that extension is stripped.
// This is used when generating multiple files (e.g., sample_ascii.txt,
// sample_conllu.conllu).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if knownExts[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath builds the file name for one artifact: base.ext for a single
// kind, base_kind.ext when several kinds are written.
func outputPath(base, kind string, multi bool) string {
	if multi {
		return fmt.Sprintf("%s_%s.%s", base, kind, kindExt[kind])
	}
	return fmt.Sprintf("%s.%s", base, kindExt[kind])
}
