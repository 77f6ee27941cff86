// Package config loads texpack settings from an optional JSON file and
// merges them with command-line overrides and defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/ironsheep/texpack/internal/atlas"
	"github.com/ironsheep/texpack/internal/imaging"
	"github.com/ironsheep/texpack/internal/manifest"
	"github.com/ironsheep/texpack/internal/packer"
)

// DefaultIndent is the manifest indentation used when none is configured.
const DefaultIndent = "    "

// Config holds all configurable paths and packing settings.
type Config struct {
	// Paths
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`
	Name      string `json:"name"`

	// Packing
	Capacity        int    `json:"capacity"`
	Heuristic       string `json:"heuristic"`
	DisableRotation bool   `json:"disable_rotation"`

	// Decoding
	PremultiplyAlpha bool `json:"premultiply_alpha"`
	Workers          int  `json:"workers"`

	// Output
	ImageFormat    string  `json:"image_format"`
	ManifestFormat string  `json:"manifest_format"`
	Indent         *string `json:"indent"`
	DebugOverlay   bool    `json:"debug_overlay"`
	OverlayColor   string  `json:"overlay_color"`
}

// Flags holds CLI flag values that override config file settings.
// Zero values leave the file setting alone.
type Flags struct {
	InputDir        string
	OutputDir       string
	Name            string
	Capacity        int
	Heuristic       string
	ImageFormat     string
	ManifestFormat  string
	Workers         int
	DisableRotation bool
	DebugOverlay    bool
	Premultiply     bool
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Environment variables read by EnvFlags.
const (
	EnvCapacity         = "TEXPACK_CAPACITY"
	EnvHeuristic        = "TEXPACK_HEURISTIC"
	EnvDisableRotation  = "TEXPACK_DISABLE_ROTATION"
	EnvPremultiplyAlpha = "TEXPACK_PREMULTIPLY_ALPHA"
)

// EnvFlags reads packing overrides from the environment through getenv,
// normally os.Getenv. Unset variables leave the matching field zero.
func EnvFlags(getenv func(string) string) (Flags, error) {
	var flags Flags

	if v := getenv(EnvCapacity); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Flags{}, fmt.Errorf("config: %s must be a positive integer, got %q", EnvCapacity, v)
		}
		flags.Capacity = n
	}
	if v := getenv(EnvHeuristic); v != "" {
		if _, err := packer.ParseHeuristic(v); err != nil {
			return Flags{}, fmt.Errorf("config: %s: %w", EnvHeuristic, err)
		}
		flags.Heuristic = v
	}

	var err error
	if flags.DisableRotation, err = envBool(getenv, EnvDisableRotation); err != nil {
		return Flags{}, err
	}
	if flags.Premultiply, err = envBool(getenv, EnvPremultiplyAlpha); err != nil {
		return Flags{}, err
	}
	return flags, nil
}

func envBool(getenv func(string) string, name string) (bool, error) {
	v := getenv(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s must be a boolean, got %q", name, v)
	}
	return b, nil
}

// Resolve applies flag overrides and fills any empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Name != "" {
		c.Name = flags.Name
	}
	if flags.Capacity > 0 {
		c.Capacity = flags.Capacity
	}
	if flags.Heuristic != "" {
		c.Heuristic = flags.Heuristic
	}
	if flags.ImageFormat != "" {
		c.ImageFormat = flags.ImageFormat
	}
	if flags.ManifestFormat != "" {
		c.ManifestFormat = flags.ManifestFormat
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	c.DisableRotation = c.DisableRotation || flags.DisableRotation
	c.DebugOverlay = c.DebugOverlay || flags.DebugOverlay
	c.PremultiplyAlpha = c.PremultiplyAlpha || flags.Premultiply

	// Output lands beside the input directory unless told otherwise
	if c.InputDir != "" {
		c.InputDir = filepath.Clean(c.InputDir)
		if c.OutputDir == "" {
			c.OutputDir = filepath.Join(filepath.Dir(c.InputDir), "output")
		}
		if c.Name == "" {
			c.Name = filepath.Base(c.InputDir)
		}
	}
	if c.Name == "" || c.Name == "." || c.Name == string(filepath.Separator) {
		c.Name = "atlas"
	}

	if c.Capacity <= 0 {
		c.Capacity = atlas.DefaultCapacity
	}
	if c.Heuristic == "" {
		c.Heuristic = packer.BestAreaFit.String()
	}
	if c.ImageFormat == "" {
		c.ImageFormat = string(imaging.FormatPNG)
	}
	if c.ManifestFormat == "" {
		c.ManifestFormat = string(manifest.EncodingPlist)
	}
	if c.Indent == nil {
		indent := DefaultIndent
		c.Indent = &indent
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Validate checks that every enumerated setting names something texpack
// supports. Call it after Resolve.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("config: input_dir is required")
	}
	if _, err := packer.ParseHeuristic(c.Heuristic); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := imaging.ParseFormat(c.ImageFormat); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := manifest.ParseEncoding(c.ManifestFormat); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.OverlayColor != "" {
		if _, err := imaging.ParseHexColor(c.OverlayColor); err != nil {
			return fmt.Errorf("config: overlay_color: %w", err)
		}
	}
	return nil
}

// AtlasOptions builds the engine options described by the config.
func (c *Config) AtlasOptions() (atlas.Options, error) {
	h, err := packer.ParseHeuristic(c.Heuristic)
	if err != nil {
		return atlas.Options{}, fmt.Errorf("config: %w", err)
	}
	return atlas.Options{
		Capacity: c.Capacity,
		Packer:   &packer.MaxRects{Heuristic: h, DisableRotation: c.DisableRotation},
		Decode:   imaging.DecodeOptions{PremultiplyAlpha: c.PremultiplyAlpha},
	}, nil
}
