// Package config loads antscheduler configuration files.
//
// A configuration file names the graph to schedule, the search variant and
// its parameters, and the cache and run-store backends. TOML and YAML are
// supported; the format is chosen by file extension:
//
//	graph_file = "jobs.csv"
//	algorithm_type = "MaxMinAntSystem"
//	ants = 30
//	iterations = 200
//	time_budget = "30s"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
// Keys that are not set keep the values of [Default].
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/antscheduler/pkg/aco"
	apperrors "github.com/matzehuels/antscheduler/pkg/errors"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
	StoreNone   = "none"
)

// File mirrors a configuration file.
type File struct {
	GraphFile string `toml:"graph_file" yaml:"graph_file"`

	AlgorithmType      string  `toml:"algorithm_type" yaml:"algorithm_type"`
	InitPheromoneValue float64 `toml:"init_pheromone_value" yaml:"init_pheromone_value"`
	Ants               int     `toml:"ants" yaml:"ants"`
	Iterations         int     `toml:"iterations" yaml:"iterations"`
	StagnationLimit    int     `toml:"stagnation_limit" yaml:"stagnation_limit"`
	TimeBudget         string  `toml:"time_budget" yaml:"time_budget"`
	Alpha              float64 `toml:"alpha" yaml:"alpha"`
	Beta               float64 `toml:"beta" yaml:"beta"`
	EvaporationRate    float64 `toml:"evaporation_rate" yaml:"evaporation_rate"`
	Q                  float64 `toml:"q" yaml:"q"`
	MinPheromone       float64 `toml:"min_pheromone" yaml:"min_pheromone"`
	MaxPheromone       float64 `toml:"max_pheromone" yaml:"max_pheromone"`
	ElitistWeight      float64 `toml:"elitist_weight" yaml:"elitist_weight"`
	RankWidth          int     `toml:"rank_width" yaml:"rank_width"`
	Heuristic          string  `toml:"heuristic" yaml:"heuristic"`
	Seed               int64   `toml:"seed" yaml:"seed"`
	Workers            int     `toml:"workers" yaml:"workers"`

	Cache Cache `toml:"cache" yaml:"cache"`
	Store Store `toml:"store" yaml:"store"`
}

// Cache configures the result cache.
type Cache struct {
	Backend  string `toml:"backend" yaml:"backend"`
	Dir      string `toml:"dir" yaml:"dir"`
	RedisURL string `toml:"redis_url" yaml:"redis_url"`
	TTL      string `toml:"ttl" yaml:"ttl"`
}

// Store configures run persistence.
type Store struct {
	Backend  string `toml:"backend" yaml:"backend"`
	MongoURI string `toml:"mongo_uri" yaml:"mongo_uri"`
	Database string `toml:"database" yaml:"database"`
}

// Default returns the configuration used when no file is given.
// Search parameters match aco.DefaultConfig.
func Default() File {
	d := aco.DefaultConfig()
	return File{
		AlgorithmType:      d.Variant,
		InitPheromoneValue: d.InitialPheromone,
		Ants:               d.Ants,
		Iterations:         d.MaxIterations,
		StagnationLimit:    d.StagnationLimit,
		Alpha:              d.Alpha,
		Beta:               d.Beta,
		EvaporationRate:    d.EvaporationRate,
		Q:                  d.Q,
		MinPheromone:       d.MinPheromone,
		MaxPheromone:       d.MaxPheromone,
		ElitistWeight:      d.ElitistWeight,
		RankWidth:          d.RankWidth,
		Heuristic:          d.Heuristic,
		Seed:               d.Seed,
		Workers:            d.Workers,
		Cache:              Cache{Backend: CacheFile},
		Store:              Store{Backend: StoreNone},
	}
}

// Load reads the file at path on top of [Default] and validates it.
// A relative graph_file is resolved against the directory of path and may
// not climb out of it.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return File{}, fmt.Errorf("read config %s: %w", path, err)
	}

	f := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return File{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "config %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return File{}, apperrors.New(apperrors.ErrCodeInvalidConfig, "config %s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return File{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "config %s", path)
		}
	default:
		return File{}, apperrors.New(apperrors.ErrCodeInvalidConfig, "config %s: unsupported format %q (use .toml, .yaml or .yml)", path, ext)
	}

	if f.GraphFile != "" && !filepath.IsAbs(f.GraphFile) {
		if err := apperrors.ValidatePath(f.GraphFile); err != nil {
			return File{}, fmt.Errorf("config %s: graph_file: %w", path, err)
		}
		f.GraphFile = filepath.Join(filepath.Dir(path), f.GraphFile)
	}
	if err := f.Validate(); err != nil {
		return File{}, fmt.Errorf("config %s: %w", path, err)
	}
	return f, nil
}

// Validate checks backends, durations and the search parameters.
func (f File) Validate() error {
	if _, err := f.SearchConfig(); err != nil {
		return err
	}
	if _, err := f.CacheTTL(); err != nil {
		return err
	}
	switch f.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if f.Cache.RedisURL == "" {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache backend redis requires redis_url")
		}
	default:
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown cache backend %q (must be one of: file, redis, none)", f.Cache.Backend)
	}
	switch f.Store.Backend {
	case StoreMemory, StoreNone:
	case StoreMongo:
		if f.Store.MongoURI == "" {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "store backend mongo requires mongo_uri")
		}
	default:
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown store backend %q (must be one of: memory, mongo, none)", f.Store.Backend)
	}
	return nil
}

// SearchConfig converts the search parameters into a validated aco.Config.
func (f File) SearchConfig() (aco.Config, error) {
	budget, err := parseDuration("time_budget", f.TimeBudget)
	if err != nil {
		return aco.Config{}, err
	}
	cfg := aco.Config{
		Variant:          f.AlgorithmType,
		InitialPheromone: f.InitPheromoneValue,
		Ants:             f.Ants,
		MaxIterations:    f.Iterations,
		StagnationLimit:  f.StagnationLimit,
		TimeBudget:       budget,
		Alpha:            f.Alpha,
		Beta:             f.Beta,
		EvaporationRate:  f.EvaporationRate,
		Q:                f.Q,
		MinPheromone:     f.MinPheromone,
		MaxPheromone:     f.MaxPheromone,
		ElitistWeight:    f.ElitistWeight,
		RankWidth:        f.RankWidth,
		Heuristic:        f.Heuristic,
		Seed:             f.Seed,
		Workers:          f.Workers,
	}
	if err := cfg.Validate(); err != nil {
		return aco.Config{}, err
	}
	return cfg, nil
}

// CacheTTL returns the configured cache TTL, or 0 to use the cache's default.
func (f File) CacheTTL() (time.Duration, error) {
	return parseDuration("cache.ttl", f.Cache.TTL)
}

func parseDuration(key, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, apperrors.New(apperrors.ErrCodeInvalidConfig, "%s: invalid duration %q", key, s)
	}
	return d, nil
}
