package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tmarceau/croquis/pkg/errors"
	"github.com/tmarceau/croquis/pkg/pipeline"
)

const convertSample = "1\tle\tle\tDET\t_\t_\t2\tdet\t_\t_\n" +
	"2\tchat\tchat\tNOUN\t_\t_\t3\tnsubj\t_\t_\n" +
	"3\tdort\tdormir\tVERB\t_\t_\t0\troot\t_\t_\n"

func newTestCLI() *CLI {
	return &CLI{
		Logger: newLogger(io.Discard, log.InfoLevel),
		Config: &Config{},
	}
}

func TestRunConvertWritesFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "sample.conllu")
	if err := os.WriteFile(input, []byte(convertSample), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestCLI()
	opts := &convertOpts{outputsStr: "ascii,conllu", noCache: true}
	if err := c.runConvert(context.Background(), input, opts); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	art, err := os.ReadFile(filepath.Join(dir, "sample_ascii.txt"))
	if err != nil {
		t.Fatalf("ascii artifact not written: %v", err)
	}
	if !strings.Contains(string(art), "le  chat  dort") {
		t.Errorf("ascii artifact missing word line:\n%s", art)
	}
	if _, err := os.Stat(filepath.Join(dir, "sample_conllu.conllu")); err != nil {
		t.Errorf("conllu artifact not written: %v", err)
	}
}

func TestRunConvertSingleOutputPath(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "sample.conllu")
	if err := os.WriteFile(input, []byte(convertSample), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestCLI()
	out := filepath.Join(dir, "drawing.txt")
	opts := &convertOpts{output: out, noCache: true}
	if err := c.runConvert(context.Background(), input, opts); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("artifact not written to --output path: %v", err)
	}
}

func TestRunConvertBadFormat(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "sample.conllu")
	if err := os.WriteFile(input, []byte(convertSample), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestCLI()
	opts := &convertOpts{format: "tsv", noCache: true}
	if err := c.runConvert(context.Background(), input, opts); err == nil {
		t.Error("runConvert() should reject an unknown dialect")
	}
}

func TestWriteStdoutRejectsPNGUpFront(t *testing.T) {
	result := &pipeline.Result{Artifacts: map[string][]byte{
		pipeline.OutputASCII: []byte("art\n"),
		pipeline.OutputPNG:   {0x89, 0x50, 0x4e, 0x47},
	}}

	// Capture stdout: the rejection must happen before any artifact is
	// emitted, ascii included.
	read, write, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = write
	werr := writeStdout(result)
	os.Stdout = orig
	write.Close()

	if !errors.Is(werr, errors.ErrCodeInvalidOutput) {
		t.Errorf("err = %v, want INVALID_OUTPUT", werr)
	}
	out, _ := io.ReadAll(read)
	if len(out) != 0 {
		t.Errorf("wrote %q to stdout before rejecting the png artifact", out)
	}
}

func TestToStdout(t *testing.T) {
	tests := []struct {
		input, output string
		want          bool
	}{
		{"", "", true},
		{"-", "", true},
		{"file.conllu", "-", true},
		{"file.conllu", "", false},
		{"", "out.txt", false},
	}
	for _, tt := range tests {
		if got := toStdout(tt.input, tt.output); got != tt.want {
			t.Errorf("toStdout(%q, %q) = %v, want %v", tt.input, tt.output, got, tt.want)
		}
	}
}

func TestParseOutputs(t *testing.T) {
	c := newTestCLI()

	if got := c.parseOutputs(""); len(got) != 1 || got[0] != "ascii" {
		t.Errorf("parseOutputs(\"\") = %v, want [ascii]", got)
	}
	if got := c.parseOutputs("json,dot"); len(got) != 2 || got[0] != "json" || got[1] != "dot" {
		t.Errorf("parseOutputs(\"json,dot\") = %v", got)
	}

	c.Config.Outputs = []string{"conllu"}
	if got := c.parseOutputs(""); len(got) != 1 || got[0] != "conllu" {
		t.Errorf("configured default ignored: %v", got)
	}
}

func TestSortedKinds(t *testing.T) {
	artifacts := map[string][]byte{"dot": nil, "ascii": nil, "json": nil}
	got := sortedKinds(artifacts)
	want := []string{"ascii", "json", "dot"}
	if len(got) != len(want) {
		t.Fatalf("sortedKinds() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sortedKinds()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
