// Command vdomparty replays keyed list scenarios through the renderer and
// benchmarks the diff strategies against the in-memory host.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	strategyKey = "strategy"
	watchKey    = "watch"
	verboseKey  = "verbose"
	sizeKey     = "size"
	itersKey    = "iters"
	seedKey     = "seed"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := &cli.Command{
		Name:  "vdomparty",
		Usage: "Inspect and benchmark keyed children reconciliation",
		Commands: []*cli.Command{
			diffCommand(),
			benchCommand(),
		},
	}
	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func verboseFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    verboseKey,
		Aliases: []string{"v"},
		Usage:   "Log renderer internals at debug level",
	}
}

func strategyFlag(value string) cli.Flag {
	return &cli.StringFlag{
		Name:    strategyKey,
		Aliases: []string{"s"},
		Usage:   "Diff strategy: fast, double, simple or all",
		Value:   value,
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
