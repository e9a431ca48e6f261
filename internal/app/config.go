package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no --config
// flag is given.
const DefaultConfigFile = "ruinadex.yaml"

// Config is the build configuration, read from ruinadex.yaml.
type Config struct {
	Debug      bool           `yaml:"debug"`
	Ruina      RuinaConfig    `yaml:"ruina"`
	LoboCorp   LoboCorpConfig `yaml:"lobocorp"`
	LocalesDir string         `yaml:"locales_dir"` // empty = embedded templates
	Output     OutputConfig   `yaml:"output"`
	Serve      ServeConfig    `yaml:"serve"`
}

// RuinaConfig locates the Library of Ruina sources.
type RuinaConfig struct {
	GameData string `yaml:"game_data"` // holds StaticInfo/ and Localize/
	Curated  string `yaml:"curated"`   // holds the curated TOML files
}

// LoboCorpConfig locates the optional Lobotomy Corporation sources.
type LoboCorpConfig struct {
	GameData string `yaml:"game_data"` // holds Creature/ and Localize/; empty skips LoboCorp
}

// OutputConfig says where a build is written.
type OutputConfig struct {
	Artifact  string `yaml:"artifact"`
	Bolt      string `yaml:"bolt"`       // empty = no bbolt export
	BuildName string `yaml:"build_name"` // bucket name inside the bolt file
}

// ServeConfig holds the debug HTTP server settings.
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns the configuration used when no file exists: sources
// and output relative to the working directory.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Ruina.GameData == "" {
		cfg.Ruina.GameData = "./gamedata/ruina"
	}
	if cfg.Ruina.Curated == "" {
		cfg.Ruina.Curated = "./curated"
	}
	if cfg.Output.Artifact == "" {
		cfg.Output.Artifact = "./dex/data/artifact.bin"
	}
	if cfg.Output.BuildName == "" {
		cfg.Output.BuildName = "latest"
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = "127.0.0.1:8080"
	}
}

// LoadConfig reads and parses the config file at path, applies defaults and
// resolves relative paths against the directory of the file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	ApplyDefaults(&cfg)
	cfg.Resolve(filepath.Dir(path))
	return &cfg, nil
}

// Resolve makes every path in cfg absolute, relative to dir.
func (cfg *Config) Resolve(dir string) {
	for _, p := range []*string{
		&cfg.Ruina.GameData,
		&cfg.Ruina.Curated,
		&cfg.LoboCorp.GameData,
		&cfg.LocalesDir,
		&cfg.Output.Artifact,
		&cfg.Output.Bolt,
	} {
		*p = expandPath(*p, dir)
	}
}

// expandPath converts a path to absolute. "~/" is the home directory; other
// relative paths are relative to baseDir. Empty paths stay empty.
func expandPath(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	abs, err := filepath.Abs(filepath.Join(baseDir, path))
	if err != nil {
		return filepath.Join(baseDir, path)
	}
	return abs
}
