// Program generator searches the Mandelbrot set for interesting views and
// saves them as PNG files.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/gops/agent"

	"github.com/ironsheep/mandel-mcp/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var diag bool
	var depth uint
	flag.IntVar(&cfg.Width, "width", cfg.Width, "snapshot width")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "snapshot height")
	flag.Float64Var(&cfg.Threshold, "threshold", cfg.Threshold, "entropy a view must exceed to be saved")
	flag.UintVar(&depth, "depth", uint(cfg.Depth), "iteration cap")
	flag.IntVar(&cfg.MaxCycles, "cycles", 0, "stop after this many cycles, 0 to run until interrupted")
	flag.DurationVar(&cfg.Pause, "pause", 0, "pause between cycles")
	flag.Int64Var(&cfg.Seed, "seed", 0, "random seed, 0 for random")
	flag.StringVar(&cfg.OutputDir, "out", "", "snapshot directory")
	flag.BoolVar(&diag, "gops", false, "start the gops diagnostics agent")
	flag.Parse()

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if diag {
		if err := agent.Listen(agent.Options{}); err != nil {
			log.Fatalf("gops agent: %v", err)
		}
		defer agent.Close()
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		log.Fatalf("invalid snapshot size %dx%d", cfg.Width, cfg.Height)
	}
	if depth == 0 || depth > 1<<32-1 {
		log.Fatalf("invalid depth %d", depth)
	}
	cfg.Depth = uint32(depth)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("searching at %dx%d, threshold %.2f, depth %d", cfg.Width, cfg.Height, cfg.Threshold, cfg.Depth)
	err := generator.New(cfg, nil).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Generator error: %v", err)
	}
}
