package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "jobs.csv", "jobs"},
		{"", "data/jobs.json", "data/jobs"},
		{"out/plan", "jobs.csv", "out/plan"},
		{"out/plan.gantt.svg", "jobs.csv", "out/plan"},
		{"out/plan.pdf", "jobs.csv", "out/plan"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); got != nil {
		t.Errorf("parseFormats(\"\") = %v, want nil", got)
	}
	got := parseFormats("gantt, json,,dot")
	want := []string{"gantt", "json", "dot"}
	if len(got) != len(want) {
		t.Fatalf("parseFormats = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parseFormats[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
