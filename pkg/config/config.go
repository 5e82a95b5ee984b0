// Package config loads dataset.yaml, the per-dataset build configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the dataset directory.
const FileName = "dataset.yaml"

// DefaultGlottologURL points at the Glottolog geo dump used by `download`.
const DefaultGlottologURL = "https://cdstar.eva.mpg.de/bitstreams/EAEA0-CFBC-1A89-0C8C-0/languages_and_dialects_geo.csv"

// Dirs names the dataset subdirectories, relative to the dataset root.
type Dirs struct {
	Raw  string `yaml:"raw" validate:"required"`
	Etc  string `yaml:"etc" validate:"required"`
	CLDF string `yaml:"cldf" validate:"required"`
}

// Files names the input files, relative to their directory.
type Files struct {
	Table      string `yaml:"table" validate:"required"`
	Examples   string `yaml:"examples" validate:"required"`
	Sources    string `yaml:"sources" validate:"required"`
	Parameters string `yaml:"parameters" validate:"required"`
	Codes      string `yaml:"codes" validate:"required"`
	Intro      string `yaml:"intro"`
}

// Glottolog configures the gazetteer.
type Glottolog struct {
	// Path is relative to the dataset root unless absolute.
	Path string `yaml:"path" validate:"required"`
	URL  string `yaml:"url" validate:"required,url"`
}

// Config holds all configuration for one dataset build.
type Config struct {
	ID        string    `yaml:"id" validate:"required"`
	Title     string    `yaml:"title" validate:"required"`
	License   string    `yaml:"license"`
	URL       string    `yaml:"url" validate:"omitempty,url"`
	Citation  string    `yaml:"citation"`
	Dirs      Dirs      `yaml:"dirs"`
	Files     Files     `yaml:"files"`
	Glottolog Glottolog `yaml:"glottolog"`

	// Root is the dataset directory; set by Load, never read from YAML.
	Root string `yaml:"-"`
}

// Default returns the configuration used when dataset.yaml is absent.
func Default() Config {
	return Config{
		ID:    "bonmannsymmetrical",
		Title: "Symmetrical and asymmetrical differential object marking",
		Dirs: Dirs{
			Raw:  "raw",
			Etc:  "etc",
			CLDF: "cldf",
		},
		Files: Files{
			Table:      "bonmannsymmetrical.csv",
			Examples:   "examples.csv",
			Sources:    "sources.bib",
			Parameters: "parameters.csv",
			Codes:      "codes.csv",
			Intro:      "intro.md",
		},
		Glottolog: Glottolog{
			Path: filepath.Join("etc", "glottolog.csv"),
			URL:  DefaultGlottologURL,
		},
	}
}

var validate = validator.New()

// Load reads the configuration at path (or <root>/dataset.yaml when path is
// empty), fills unset fields from Default and validates the result. A missing
// file is not an error.
func Load(root, path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = filepath.Join(root, FileName)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fc Config
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
		merge(&cfg, fc)
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.Root = root
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func merge(dst *Config, src Config) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.ID, src.ID)
	set(&dst.Title, src.Title)
	set(&dst.License, src.License)
	set(&dst.URL, src.URL)
	set(&dst.Citation, src.Citation)
	set(&dst.Dirs.Raw, src.Dirs.Raw)
	set(&dst.Dirs.Etc, src.Dirs.Etc)
	set(&dst.Dirs.CLDF, src.Dirs.CLDF)
	set(&dst.Files.Table, src.Files.Table)
	set(&dst.Files.Examples, src.Files.Examples)
	set(&dst.Files.Sources, src.Files.Sources)
	set(&dst.Files.Parameters, src.Files.Parameters)
	set(&dst.Files.Codes, src.Files.Codes)
	set(&dst.Files.Intro, src.Files.Intro)
	set(&dst.Glottolog.Path, src.Glottolog.Path)
	set(&dst.Glottolog.URL, src.Glottolog.URL)
}

func (c Config) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// RawDir returns the absolute raw directory.
func (c Config) RawDir() string { return c.abs(c.Dirs.Raw) }

// EtcDir returns the absolute etc directory.
func (c Config) EtcDir() string { return c.abs(c.Dirs.Etc) }

// CLDFDir returns the absolute output directory.
func (c Config) CLDFDir() string { return c.abs(c.Dirs.CLDF) }

// GlottologPath returns the absolute gazetteer file path.
func (c Config) GlottologPath() string { return c.abs(c.Glottolog.Path) }

// RawFile joins name onto RawDir.
func (c Config) RawFile(name string) string { return filepath.Join(c.RawDir(), name) }

// EtcFile joins name onto EtcDir.
func (c Config) EtcFile(name string) string { return filepath.Join(c.EtcDir(), name) }
