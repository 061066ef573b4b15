package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the inputs of a verification run. Command line flags are
// applied on top by the caller.
type Config struct {
	Jar     string `yaml:"jar"`
	Map     string `yaml:"map"`
	Format  string `yaml:"format"` // tsrg, srg or auto
	Log     string `yaml:"log"`
	Verbose bool   `yaml:"verbose"`
	Output  struct {
		Mode string `yaml:"mode"` // cli, json or tui
	} `yaml:"output"`
	Checks   []string `yaml:"checks"`
	Parallel bool     `yaml:"parallel"`
}

const (
	EnvJar      = "MAPVERIFY_JAR"
	EnvMap      = "MAPVERIFY_MAP"
	EnvLog      = "MAPVERIFY_LOG"
	EnvVerbose  = "MAPVERIFY_VERBOSE"
	EnvParallel = "MAPVERIFY_PARALLEL"
)

// DefaultFile is read when no config path is given; it may be absent.
const DefaultFile = "mapverify.yaml"

func Default() *Config {
	cfg := &Config{Format: "auto"}
	cfg.Output.Mode = "cli"
	return cfg
}

// LoadConfig reads .env (if present), then the YAML file at path, then the
// MAPVERIFY_* environment overrides. An empty path falls back to DefaultFile,
// which is optional; an explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// 3. Override with Environment Variables if present
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if jar := os.Getenv(EnvJar); jar != "" {
		c.Jar = jar
	}
	if m := os.Getenv(EnvMap); m != "" {
		c.Map = m
	}
	if log := os.Getenv(EnvLog); log != "" {
		c.Log = log
	}

	for name, dst := range map[string]*bool{EnvVerbose: &c.Verbose, EnvParallel: &c.Parallel} {
		raw := os.Getenv(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", name, raw, err)
		}
		*dst = v
	}
	return nil
}

// Validate reports the first missing or unsupported setting.
func (c *Config) Validate() error {
	if c.Jar == "" {
		return errors.New("no input archive: set --jar, " + EnvJar + " or jar in the config file")
	}
	if c.Map == "" {
		return errors.New("no mapping file: set --map, " + EnvMap + " or map in the config file")
	}

	switch strings.ToLower(c.Output.Mode) {
	case "cli", "json", "tui":
	default:
		return fmt.Errorf("unsupported output mode: %s (use cli, json or tui)", c.Output.Mode)
	}
	return nil
}
