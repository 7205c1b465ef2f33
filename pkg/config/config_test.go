package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/antscheduler/pkg/aco"
	apperrors "github.com/matzehuels/antscheduler/pkg/errors"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	f := Default()
	if err := f.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	cfg, err := f.SearchConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg != aco.DefaultConfig() {
		t.Errorf("SearchConfig() = %+v, want aco.DefaultConfig()", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	path := write(t, "antscheduler.toml", `
graph_file = "jobs.csv"
algorithm_type = "MaxMinAntSystem"
ants = 30
iterations = 200
time_budget = "1m30s"
min_pheromone = 0.5
max_pheromone = 4.0

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/0"
ttl = "1h"

[store]
backend = "mongo"
mongo_uri = "mongodb://localhost:27017"
`)
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.GraphFile != filepath.Join(filepath.Dir(path), "jobs.csv") {
		t.Errorf("GraphFile = %q, want it resolved next to the config", f.GraphFile)
	}
	cfg, err := f.SearchConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Variant != "MaxMinAntSystem" || cfg.Ants != 30 || cfg.MaxIterations != 200 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.TimeBudget != 90*time.Second {
		t.Errorf("TimeBudget = %s", cfg.TimeBudget)
	}
	// unset keys keep their defaults
	if cfg.Alpha != 1 || cfg.Beta != 2 {
		t.Errorf("alpha/beta = %g/%g, want defaults", cfg.Alpha, cfg.Beta)
	}
	if ttl, _ := f.CacheTTL(); ttl != time.Hour {
		t.Errorf("CacheTTL = %s", ttl)
	}
	if f.Store.Backend != StoreMongo {
		t.Errorf("Store.Backend = %q", f.Store.Backend)
	}
}

func TestLoadYAML(t *testing.T) {
	path := write(t, "cfg.yml", `
graph_file: /data/jobs.csv
algorithm_type: RankBasedAntSystem
rank_width: 4
heuristic: successors
cache:
  backend: none
`)
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.GraphFile != "/data/jobs.csv" {
		t.Errorf("absolute GraphFile changed: %q", f.GraphFile)
	}
	cfg, _ := f.SearchConfig()
	if cfg.Variant != "RankBasedAntSystem" || cfg.RankWidth != 4 || cfg.Heuristic != aco.HeuristicSuccessors {
		t.Errorf("cfg = %+v", cfg)
	}
	if f.Cache.Backend != CacheNone {
		t.Errorf("Cache.Backend = %q", f.Cache.Backend)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    apperrors.Code
	}{
		{"unknown toml key", "c.toml", "colony_size = 3\n", apperrors.ErrCodeInvalidConfig},
		{"unknown yaml key", "c.yaml", "colony_size: 3\n", apperrors.ErrCodeInvalidConfig},
		{"bad syntax", "c.toml", "ants = [\n", apperrors.ErrCodeInvalidConfig},
		{"unsupported format", "c.ini", "ants=3\n", apperrors.ErrCodeInvalidConfig},
		{"bad duration", "c.toml", "time_budget = \"soon\"\n", apperrors.ErrCodeInvalidConfig},
		{"bad cache backend", "c.toml", "[cache]\nbackend = \"memcached\"\n", apperrors.ErrCodeInvalidConfig},
		{"redis without url", "c.toml", "[cache]\nbackend = \"redis\"\n", apperrors.ErrCodeInvalidConfig},
		{"mongo without uri", "c.toml", "[store]\nbackend = \"mongo\"\n", apperrors.ErrCodeInvalidConfig},
		{"unknown variant", "c.toml", "algorithm_type = \"BeeColony\"\n", apperrors.ErrCodeUnknownStrategy},
		{"bad parameter", "c.toml", "evaporation_rate = 1.5\n", apperrors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(write(t, tt.file, tt.content))
			if !apperrors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v", err)
	}
}
