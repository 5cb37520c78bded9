package cli

import (
	"path/filepath"
	"testing"
)

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error = %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", appName) {
		t.Errorf("cacheDir() = %q, want XDG path", dir)
	}
}

func TestCacheDirHomeFallback(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "/tmp/home")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error = %v", err)
	}
	if dir != filepath.Join("/tmp/home", ".cache", appName) {
		t.Errorf("cacheDir() = %q, want ~/.cache fallback", dir)
	}
}

func TestConfigPathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")

	path, err := configPath()
	if err != nil {
		t.Fatalf("configPath() error = %v", err)
	}
	if path != filepath.Join("/tmp/xdg-config", appName, "config.toml") {
		t.Errorf("configPath() = %q, want XDG path", path)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"derive from input", "", "trees.conllu", "trees"},
		{"strip known extension", "out.svg", "trees.conllu", "out"},
		{"keep unknown extension", "out.data", "trees.conllu", "out.data"},
		{"bare output", "out", "trees.conllu", "out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	if got := outputPath("trees", "ascii", false); got != "trees.txt" {
		t.Errorf("single kind path = %q, want trees.txt", got)
	}
	if got := outputPath("trees", "ascii", true); got != "trees_ascii.txt" {
		t.Errorf("multi kind path = %q, want trees_ascii.txt", got)
	}
	if got := outputPath("trees", "conll2009_gold", true); got != "trees_conll2009_gold.conll" {
		t.Errorf("gold path = %q, want trees_conll2009_gold.conll", got)
	}
}
