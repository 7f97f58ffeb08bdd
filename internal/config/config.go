/*
PURPOSE:
  Defines the configuration structure and loading logic for the Ruversi tools.
  One file drives both the artifact sync and the benchmark binaries.

REQUIREMENTS:
  User-specified:
  - Owner/repo, page cap and archive limits for artifact sync.
  - Engine invocation knobs (depth, eval table, positions) for benchmarks.

  Implementation-discovered:
  - YAML config file is optional; defaults must reproduce the stock workflow.
  - FEATURES is read from the environment (and .env) and handed to cargo.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/artifact, internal/engine
  - Dependencies: gopkg.in/yaml.v3, github.com/joho/godotenv

ERROR HANDLING:
  - Returns explicit error if an explicitly named config file is missing or invalid.
  - Missing default files are not an error (defaults are returned).

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Environment overrides win over file values.

USAGE:
  cfg, err := config.Load("")

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to the struct and to DefaultConfig().

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read on top of the config file.
const (
	EnvFeatures  = "FEATURES"
	EnvOwner     = "RUVERSI_OWNER"
	EnvRepo      = "RUVERSI_REPO"
	EnvAPIURL    = "RUVERSI_API_URL"
	EnvEngineDir = "RUVERSI_ENGINE_DIR"
)

// Config represents the full configuration for the tools.
type Config struct {
	Artifacts ArtifactConfig `yaml:"artifacts"`
	Bench     BenchConfig    `yaml:"bench"`
}

// ArtifactConfig controls listing and downloading CI artifacts.
type ArtifactConfig struct {
	Owner  string `yaml:"owner"`
	Repo   string `yaml:"repo"`
	APIURL string `yaml:"api_url"` // empty means api.github.com

	LogFile    string `yaml:"log_file"`
	ArchiveDir string `yaml:"archive_dir"`
	ExtractDir string `yaml:"extract_dir"`

	// Prefix gates downloads; ExtractPrefix gates unzipping.
	Prefix        string `yaml:"prefix"`
	ExtractPrefix string `yaml:"extract_prefix"`

	PerPage     int `yaml:"per_page"`
	MaxPages    int `yaml:"max_pages"`
	MaxArchives int `yaml:"max_archives"`
	TableSize   int `yaml:"table_size"`
}

// BenchConfig controls how the external engine is driven.
type BenchConfig struct {
	Cargo        string   `yaml:"cargo"`
	EngineDir    string   `yaml:"engine_dir"`
	Features     string   `yaml:"features"`
	EvalFile     string   `yaml:"eval_file"`
	Runs         int      `yaml:"runs"`
	SearchDepth  int      `yaml:"search_depth"`
	GameDepth    int      `yaml:"game_depth"`
	DuelLevel    int      `yaml:"duel_level"`
	Positions    []string `yaml:"positions"`
	ResultPrefix string   `yaml:"result_prefix"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Artifacts: ArtifactConfig{
			Owner:         "o-jill",
			Repo:          "ruversi",
			LogFile:       "ikkatsu.log",
			ArchiveDir:    "archive",
			ExtractDir:    "kifu",
			Prefix:        "kifu-",
			ExtractPrefix: "kifu",
			PerPage:       100,
			MaxPages:      3,
			MaxArchives:   200,
			TableSize:     100,
		},
		Bench: BenchConfig{
			Cargo:       "cargo",
			EngineDir:   ".",
			EvalFile:    "data/evaltable.txt",
			Runs:        6,
			SearchDepth: 11,
			GameDepth:   7,
			DuelLevel:   2,
			Positions: []string{
				"8/8/8/3Aa3/3aA3/8/8/8 b",
				"8/8/8/3aA3/3Aa3/8/8/8 b",
				"A1A1A3/1c4/Aa1dA/1c4/A1a1a3/2a2a2/2a3a1/2A4A b",
			},
			ResultPrefix: "speedcheck",
		},
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
// Environment overrides (including a .env file) are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// A missing .env is normal.
	_ = godotenv.Load()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		for _, name := range []string{"ruversi_tools.yaml", "tools.yaml"} {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				break
			}
		}
	}

	if data != nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvFeatures); ok {
		c.Bench.Features = v
	}
	if v := os.Getenv(EnvOwner); v != "" {
		c.Artifacts.Owner = v
	}
	if v := os.Getenv(EnvRepo); v != "" {
		c.Artifacts.Repo = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.Artifacts.APIURL = v
	}
	if v := os.Getenv(EnvEngineDir); v != "" {
		c.Bench.EngineDir = v
	}
}

// Validate rejects values the tools cannot run with.
func (c *Config) Validate() error {
	a := c.Artifacts
	if a.Owner == "" || a.Repo == "" {
		return fmt.Errorf("artifacts: owner and repo are required")
	}
	if a.PerPage <= 0 || a.MaxPages <= 0 {
		return fmt.Errorf("artifacts: per_page and max_pages must be positive")
	}
	if a.TableSize <= 0 || a.MaxArchives <= 0 {
		return fmt.Errorf("artifacts: table_size and max_archives must be positive")
	}
	if c.Bench.Runs <= 0 {
		return fmt.Errorf("bench: runs must be positive")
	}
	return nil
}
