package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/ironsheep/mandel-mcp/internal/server"
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
			fmt.Printf("mandel-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("mandel-mcp - MCP server for exploring the Mandelbrot set")
			fmt.Println()
			fmt.Println("Usage: mandel-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  MANDEL_LOG_LEVEL=debug       Enable debug logging")
			fmt.Println("  MANDEL_OUTPUT_DIR=<dir>      Directory for snapshots (default: current)")
			fmt.Println("  MANDEL_SEED=<n>              Palette seed (default: random)")
			fmt.Println("  MANDEL_CACHE_SIZE=<n>        Cached render grids (default: 8)")
			fmt.Println("  MANDEL_SUPERSAMPLE=<k>       Render k x k samples per pixel")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	logLevel := os.Getenv("MANDEL_LOG_LEVEL")
	if logLevel == "debug" {
		log.Printf("Mandel MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	opts := server.Options{
		OutputDir: os.Getenv("MANDEL_OUTPUT_DIR"),
	}
	var err error
	if opts.Seed, err = envInt64("MANDEL_SEED"); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if opts.CacheSize, err = envInt("MANDEL_CACHE_SIZE"); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if opts.Supersample, err = envInt("MANDEL_SUPERSAMPLE"); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	srv := server.New(opts)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// envInt64 parses an optional integer environment variable; unset is 0.
func envInt64(name string) (int64, error) {
	s := os.Getenv(name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

func envInt(name string) (int, error) {
	n, err := envInt64(name)
	return int(n), err
}
