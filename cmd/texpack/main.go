package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/texpack/internal/atlas"
	"github.com/ironsheep/texpack/internal/batch"
	"github.com/ironsheep/texpack/internal/config"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "texpack - pack a directory of sprites into a texture atlas")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage: texpack [options] <input_dir>")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Writes <output>/<name>.<format> and <output>/<name>.<manifest>.")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	flag.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Environment variables:")
	fmt.Fprintln(out, "  TEXPACK_LOG_LEVEL=debug    Enable debug logging")
}

func main() {
	// Handle --version before flag parsing
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("texpack %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	outputDir := flag.String("output", "", "Output directory (default: <input>/../output)")
	name := flag.String("name", "", "Base name of the output files (default: input directory name)")
	capacity := flag.Int("capacity", 0, "Maximum canvas width and height (default: 10000)")
	heuristic := flag.String("heuristic", "", "Placement heuristic: area, short-side or bottom-left (default: area)")
	format := flag.String("format", "", "Canvas format: png, webp, bmp or tga (default: png)")
	manifestFormat := flag.String("manifest", "", "Manifest format: plist or json (default: plist)")
	workers := flag.Int("workers", 0, "Number of decode workers (default: NumCPU)")
	noRotate := flag.Bool("no-rotate", false, "Never rotate frames")
	debugOverlay := flag.Bool("debug-overlay", false, "Also write a canvas with every frame outlined")
	premultiply := flag.Bool("premultiply", false, "Premultiply color by alpha when decoding")

	flag.Usage = usage
	flag.Parse()

	log.SetOutput(os.Stderr)
	if os.Getenv("TEXPACK_LOG_LEVEL") == "debug" {
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
		log.Printf("texpack v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		InputDir:        flag.Arg(0),
		OutputDir:       *outputDir,
		Name:            *name,
		Capacity:        *capacity,
		Heuristic:       *heuristic,
		ImageFormat:     *format,
		ManifestFormat:  *manifestFormat,
		Workers:         *workers,
		DisableRotation: *noRotate,
		DebugOverlay:    *debugOverlay,
		Premultiply:     *premultiply,
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	fmt.Printf("Input: %s\n", cfg.InputDir)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Printf("Capacity: %d, Heuristic: %s, Workers: %d\n", cfg.Capacity, cfg.Heuristic, cfg.Workers)
	fmt.Println("------------------------------------------------------------")

	report, err := batch.Run(cfg)
	for _, r := range report.Results {
		if !r.Success {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", r.Name, r.Error)
		}
	}
	if err != nil {
		var overflow *atlas.OverflowError
		if errors.As(err, &overflow) {
			fmt.Fprintf(os.Stderr, "Error: %v\nTry a larger -capacity.\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Packed %d frames into %dx%d in %.2fs\n",
		report.Frames, report.Size.Width, report.Size.Height, report.Elapsed.Seconds())
	fmt.Printf("Canvas:   %s\n", report.CanvasPath)
	fmt.Printf("Manifest: %s\n", report.ManifestPath)
	if report.OverlayPath != "" {
		fmt.Printf("Overlay:  %s\n", report.OverlayPath)
	}
}
