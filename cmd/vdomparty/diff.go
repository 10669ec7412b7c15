package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/delaneyj/vdomparty/hostdom"
	"github.com/delaneyj/vdomparty/renderer"
	"github.com/dustin/go-humanize"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func diffCommand() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "Replay a yaml scenario and report host operations per step",
		ArgsUsage: "<scenario.yaml>",
		Flags: []cli.Flag{
			strategyFlag(""),
			&cli.BoolFlag{
				Name:    watchKey,
				Aliases: []string{"w"},
				Usage:   "Replay again whenever the scenario file changes",
			},
			verboseFlag(),
		},
		Action: runDiff,
	}
}

func runDiff(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return errors.New("missing scenario path")
	}
	log, err := newLogger(cmd.Bool(verboseKey))
	if err != nil {
		return err
	}
	defer log.Sync()

	run := func() error {
		return diffOnce(os.Stdout, path, cmd.String(strategyKey), cmd.Bool(verboseKey), log)
	}
	if err := run(); err != nil {
		if !cmd.Bool(watchKey) {
			return err
		}
		log.Error("replay failed", zap.Error(err))
	}
	if !cmd.Bool(watchKey) {
		return nil
	}
	return watch(ctx, path, log, run)
}

func diffOnce(w io.Writer, path, strategy string, verbose bool, log *zap.Logger) error {
	s, err := loadScenario(path)
	if err != nil {
		return err
	}
	strategies, err := s.strategies(strategy)
	if err != nil {
		return err
	}

	runID := uuid.New()
	log = log.With(zap.Stringer("run", runID), zap.String("scenario", s.Name))
	log.Info("replaying scenario", zap.Int("steps", len(s.Steps)))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{
		"strategy", "step", "create", "insert", "move", "remove", "text", "mutations", "time", "digest",
	})

	digests := map[renderer.DiffStrategy][]uint64{}
	var last []stepResult
	for _, st := range strategies {
		results, err := replay(s, st, log)
		if err != nil {
			return err
		}
		for i, res := range results {
			digests[st] = append(digests[st], res.Digest)
			table.Append([]string{
				st.String(),
				strconv.Itoa(i + 1),
				humanize.Comma(int64(res.Stats[hostdom.OpCreate])),
				humanize.Comma(int64(res.Stats[hostdom.OpInsert])),
				humanize.Comma(int64(res.Stats[hostdom.OpMove])),
				humanize.Comma(int64(res.Stats[hostdom.OpRemove])),
				humanize.Comma(int64(res.Stats[hostdom.OpSetText])),
				humanize.Comma(int64(res.Stats.Mutations())),
				res.Elapsed.String(),
				fmt.Sprintf("%016x", res.Digest),
			})
		}
		last = results
	}
	table.Render()

	if verbose {
		for i, res := range last {
			fmt.Fprintf(w, "step %d keys (-from +to):\n%s", i+1, cmp.Diff(res.From, res.To))
		}
	}
	if len(last) > 0 {
		fmt.Fprintln(w, last[len(last)-1].Markup)
	}

	base := digests[strategies[0]]
	for _, st := range strategies[1:] {
		if diff := cmp.Diff(base, digests[st]); diff != "" {
			return fmt.Errorf("%s and %s produced different trees:\n%s", strategies[0], st, diff)
		}
	}
	if len(strategies) > 1 {
		names := make([]string, len(strategies))
		for i, st := range strategies {
			names[i] = st.String()
		}
		log.Info("strategies agree", zap.String("strategies", strings.Join(names, ",")))
	}
	return nil
}
