// Program explorer serves an interactive Mandelbrot viewer to the browser.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/gops/agent"

	"github.com/ironsheep/mandel-mcp/internal/explorer"
)

func main() {
	cfg := explorer.DefaultConfig()
	var addr string
	var diag bool
	flag.StringVar(&addr, "addr", "localhost:8080", "listen address")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "initial window width")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "initial window height")
	flag.IntVar(&cfg.SnapshotWidth, "snapshot-width", cfg.SnapshotWidth, "F1 snapshot width")
	flag.IntVar(&cfg.SnapshotHeight, "snapshot-height", cfg.SnapshotHeight, "F1 snapshot height")
	flag.IntVar(&cfg.SequenceCount, "sequence-count", cfg.SequenceCount, "F2 sequence frame count")
	flag.IntVar(&cfg.SequenceWidth, "sequence-width", cfg.SequenceWidth, "F2 frame width")
	flag.IntVar(&cfg.SequenceHeight, "sequence-height", cfg.SequenceHeight, "F2 frame height")
	flag.Float64Var(&cfg.SequenceZoom, "sequence-zoom", cfg.SequenceZoom, "F2 zoom factor per frame")
	flag.StringVar(&cfg.SequencePrefix, "sequence-prefix", cfg.SequencePrefix, "F2 file name prefix")
	flag.IntVar(&cfg.PaletteSize, "palette-size", cfg.PaletteSize, "color count for the C and A palettes")
	flag.Int64Var(&cfg.Seed, "seed", 0, "palette seed, 0 for random")
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
		log.Fatalf("invalid window size %dx%d", cfg.Width, cfg.Height)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := explorer.ListenAndServe(ctx, addr, explorer.NewHandler(cfg)); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
