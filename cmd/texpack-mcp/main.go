package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/texpack/internal/atlas"
	"github.com/ironsheep/texpack/internal/config"
	"github.com/ironsheep/texpack/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("texpack-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("texpack-mcp - MCP server for texture atlas packing")
			fmt.Println()
			fmt.Println("Usage: texpack-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  TEXPACK_LOG_LEVEL=debug          Enable debug logging")
			fmt.Println("  TEXPACK_CAPACITY=N               Maximum canvas side (default 10000)")
			fmt.Println("  TEXPACK_HEURISTIC=NAME           area, short-side or bottom-left")
			fmt.Println("  TEXPACK_DISABLE_ROTATION=true    Never rotate frames")
			fmt.Println("  TEXPACK_PREMULTIPLY_ALPHA=true   Premultiply decoded frames")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client.")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	logLevel := os.Getenv("TEXPACK_LOG_LEVEL")
	if logLevel == "debug" {
		log.Printf("Texpack MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	opts, err := atlasOptions()
	if err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}

	srv := server.NewWithOptions(opts)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// atlasOptions builds the engine settings from TEXPACK_* variables.
func atlasOptions() (atlas.Options, error) {
	flags, err := config.EnvFlags(os.Getenv)
	if err != nil {
		return atlas.Options{}, err
	}
	var cfg config.Config
	cfg.Resolve(flags)
	if os.Getenv("TEXPACK_LOG_LEVEL") == "debug" {
		log.Printf("Atlas capacity %d, heuristic %s, rotation disabled %v",
			cfg.Capacity, cfg.Heuristic, cfg.DisableRotation)
	}
	return cfg.AtlasOptions()
}
