package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"stache/internal/token"
)

// ManifestName is the file looked up when discovering a project root.
const ManifestName = "stache.toml"

// Manifest is a located, parsed project configuration.
type Manifest struct {
	Path   string // absolute path of the stache.toml
	Root   string // directory containing it
	Config Config
}

// Config mirrors the stache.toml layout.
type Config struct {
	Package    PackageConfig    `toml:"package"`
	Templates  TemplatesConfig  `toml:"templates"`
	Delimiters DelimitersConfig `toml:"delimiters"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type TemplatesConfig struct {
	Dir string `toml:"dir"`
	Ext string `toml:"ext"`
}

type DelimitersConfig struct {
	Open  string `toml:"open"`
	Close string `toml:"close"`
}

// Find walks up from startDir looking for a stache.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load discovers and parses the manifest nearest to startDir.
// The second result is false when no manifest exists.
func Load(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := parse(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func parse(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	// Half-set delimiters are a config mistake, not a scanner concern.
	open, closing := cfg.Delimiters.Open, cfg.Delimiters.Close
	if (open == "") != (closing == "") {
		return fmt.Errorf("delimiters require both open and close, got open=%q close=%q", open, closing)
	}
	if cfg.Templates.Ext != "" && cfg.Templates.Ext[0] != '.' {
		return fmt.Errorf("templates.ext must start with a dot, got %q", cfg.Templates.Ext)
	}
	return nil
}

// TemplatesDir resolves the configured template directory against the root.
func (m *Manifest) TemplatesDir() string {
	dir := m.Config.Templates.Dir
	if dir == "" {
		return m.Root
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.Root, dir)
}

// Ext returns the configured template extension or the default.
func (m *Manifest) Ext() string {
	if m.Config.Templates.Ext == "" {
		return ".mustache"
	}
	return m.Config.Templates.Ext
}

// Delims returns the configured initial pair, or the default when unset.
func (m *Manifest) Delims() token.Delims {
	d := token.Delims{Open: m.Config.Delimiters.Open, Close: m.Config.Delimiters.Close}
	if !d.Valid() {
		return token.Default()
	}
	return d
}
