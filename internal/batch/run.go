package batch

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"time"

	"github.com/ironsheep/texpack/internal/atlas"
	"github.com/ironsheep/texpack/internal/config"
	"github.com/ironsheep/texpack/internal/geom"
	"github.com/ironsheep/texpack/internal/imaging"
	"github.com/ironsheep/texpack/internal/manifest"
)

// ErrNoImages is returned when the input directory holds no image files.
var ErrNoImages = errors.New("no images found")

// Report summarizes a finished run.
type Report struct {
	Frames       int
	Size         geom.Size
	CanvasPath   string
	ManifestPath string
	OverlayPath  string
	Results      []Result
	Elapsed      time.Duration
}

// Run packs cfg.InputDir and writes the outputs described by cfg. The config
// must already be resolved and validated.
func Run(cfg config.Config) (Report, error) {
	start := time.Now()
	report := Report{}

	format, err := imaging.ParseFormat(cfg.ImageFormat)
	if err != nil {
		return report, err
	}
	enc, err := manifest.ParseEncoding(cfg.ManifestFormat)
	if err != nil {
		return report, err
	}
	opts, err := cfg.AtlasOptions()
	if err != nil {
		return report, err
	}

	paths, err := Discover(cfg.InputDir)
	if err != nil {
		return report, err
	}
	if len(paths) == 0 {
		return report, fmt.Errorf("%w in %s", ErrNoImages, cfg.InputDir)
	}
	log.Printf("Found %d images in %s", len(paths), cfg.InputDir)

	sources, results, err := Decode(paths, opts.Decode, cfg.Workers)
	report.Results = results
	if err != nil {
		return report, fmt.Errorf("failed to decode frames: %w", err)
	}

	a := atlas.New(opts)
	if err := a.AddImages(sources, cfg.Workers); err != nil {
		return report, fmt.Errorf("failed to register frames: %w", err)
	}
	if err := a.Pack(); err != nil {
		return report, fmt.Errorf("failed to pack frames: %w", err)
	}

	canvas, err := a.Canvas()
	if err != nil {
		return report, err
	}
	textureName := cfg.Name + format.Ext()
	doc, err := a.Manifest(textureName)
	if err != nil {
		return report, err
	}

	report.Frames = a.Len()
	report.Size = doc.Metadata.Size
	report.CanvasPath = filepath.Join(cfg.OutputDir, textureName)
	report.ManifestPath = filepath.Join(cfg.OutputDir, cfg.Name+enc.Ext())

	if err := WriteCanvas(report.CanvasPath, canvas, format); err != nil {
		return report, err
	}
	indent := config.DefaultIndent
	if cfg.Indent != nil {
		indent = *cfg.Indent
	}
	if err := WriteManifest(report.ManifestPath, doc, enc, indent); err != nil {
		return report, err
	}

	if cfg.DebugOverlay {
		var outline *color.NRGBA
		if cfg.OverlayColor != "" {
			c, err := imaging.ParseHexColor(cfg.OverlayColor)
			if err != nil {
				return report, err
			}
			outline = &c
		}
		report.OverlayPath = filepath.Join(cfg.OutputDir, cfg.Name+".debug"+format.Ext())
		if err := WriteCanvas(report.OverlayPath, Overlay(canvas, a.Frames(), outline), format); err != nil {
			return report, err
		}
	}

	report.Elapsed = time.Since(start)
	return report, nil
}
