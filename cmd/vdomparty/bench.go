package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"slices"
	"time"

	"github.com/delaneyj/vdomparty/hostdom"
	"github.com/delaneyj/vdomparty/renderer"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func benchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Time list reorders under each diff strategy",
		Flags: []cli.Flag{
			strategyFlag("all"),
			&cli.IntFlag{
				Name:  sizeKey,
				Usage: "Number of keyed rows",
				Value: 1_000,
			},
			&cli.IntFlag{
				Name:  itersKey,
				Usage: "Timed renders per benchmark",
				Value: 50,
			},
			&cli.IntFlag{
				Name:  seedKey,
				Usage: "Seed for the shuffle benchmark",
				Value: 1,
			},
			verboseFlag(),
		},
		Action: runBench,
	}
}

// reorder derives the next list from the initial one.
type reorder struct {
	name string
	next func(keys []string, rng *rand.Rand) []string
}

var reorders = []reorder{
	{"reverse", func(keys []string, _ *rand.Rand) []string {
		out := slices.Clone(keys)
		slices.Reverse(out)
		return out
	}},
	{"swap rows", func(keys []string, _ *rand.Rand) []string {
		out := slices.Clone(keys)
		if len(out) > 998 {
			out[1], out[998] = out[998], out[1]
		} else if len(out) > 1 {
			out[0], out[len(out)-1] = out[len(out)-1], out[0]
		}
		return out
	}},
	{"shuffle", func(keys []string, rng *rand.Rand) []string {
		out := slices.Clone(keys)
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}},
	{"append", func(keys []string, _ *rand.Rand) []string {
		return append(slices.Clone(keys), rowKeys(len(keys), len(keys)/10+1)...)
	}},
	{"prepend", func(keys []string, _ *rand.Rand) []string {
		return append(rowKeys(len(keys), len(keys)/10+1), keys...)
	}},
	{"remove every tenth", func(keys []string, _ *rand.Rand) []string {
		out := make([]string, 0, len(keys))
		for i, k := range keys {
			if i%10 != 0 {
				out = append(out, k)
			}
		}
		return out
	}},
}

func rowKeys(from, n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("row-%d", from+i)
	}
	return keys
}

func runBench(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd.Bool(verboseKey))
	if err != nil {
		return err
	}
	defer log.Sync()

	strategies, err := parseStrategies(cmd.String(strategyKey))
	if err != nil {
		return err
	}
	cfg := benchConfig{
		size:  int(cmd.Int(sizeKey)),
		iters: int(cmd.Int(itersKey)),
		seed:  uint64(cmd.Int(seedKey)),
	}
	return bench(ctx, os.Stdout, cfg, strategies, log)
}

type benchConfig struct {
	size, iters int
	seed        uint64
}

func bench(ctx context.Context, w io.Writer, cfg benchConfig, strategies []renderer.DiffStrategy, log *zap.Logger) error {
	if cfg.size < 1 || cfg.iters < 1 {
		return fmt.Errorf("%w: size and iters must be positive", errScenario)
	}

	tbl := table.NewWriter()
	tbl.SetTitle(fmt.Sprintf("Keyed reorders, %s rows", humanize.Comma(int64(cfg.size))))
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"benchmark", "strategy", "moves", "mutations", "avg", "min", "p75", "p99", "max"})

	initial := rowKeys(0, cfg.size)
	for _, ro := range reorders {
		next := ro.next(initial, rand.New(rand.NewPCG(cfg.seed, cfg.seed)))
		s := &scenario{Name: ro.name, Steps: [][]string{initial, next}}
		for _, st := range strategies {
			if err := ctx.Err(); err != nil {
				return err
			}
			log.Info("running benchmark", zap.String("benchmark", ro.name), zap.Stringer("strategy", st))

			tach := tachymeter.New(&tachymeter.Config{Size: cfg.iters})
			var stats hostdom.Stats
			for i := 0; i < cfg.iters; i++ {
				results, err := replay(s, st, zap.NewNop())
				if err != nil {
					return err
				}
				tach.AddTime(results[0].Elapsed)
				stats = results[0].Stats
			}

			calc := tach.Calc()
			tbl.AppendRow(table.Row{
				ro.name,
				st.String(),
				humanize.Comma(int64(stats[hostdom.OpMove])),
				humanize.Comma(int64(stats.Mutations())),
				calc.Time.Avg.Round(time.Microsecond),
				calc.Time.Min.Round(time.Microsecond),
				calc.Time.P75.Round(time.Microsecond),
				calc.Time.P99.Round(time.Microsecond),
				calc.Time.Max.Round(time.Microsecond),
			})
		}
		tbl.AppendSeparator()
	}
	tbl.Render()
	return nil
}
