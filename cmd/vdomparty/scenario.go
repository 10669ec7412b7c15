package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/vdomparty/hostdom"
	"github.com/delaneyj/vdomparty/renderer"
	"github.com/delaneyj/vdomparty/vnode"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var errScenario = errors.New("invalid scenario")

// scenario is a sequence of keyed lists rendered one after another.
//
//	name: swap
//	strategy: fast
//	steps:
//	  - [A, B, C, D, E]
//	  - [A, C, B, D, E]
type scenario struct {
	Name     string     `yaml:"name"`
	Strategy string     `yaml:"strategy"`
	Steps    [][]string `yaml:"steps"`
}

func loadScenario(path string) (*scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseScenario(raw)
}

func parseScenario(raw []byte) (*scenario, error) {
	s := &scenario{}
	if err := yaml.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("%w: %w", errScenario, err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *scenario) validate() error {
	if len(s.Steps) < 2 {
		return fmt.Errorf("%w: need at least two steps, got %d", errScenario, len(s.Steps))
	}
	for i, step := range s.Steps {
		seen := mapset.NewThreadUnsafeSet[string]()
		for _, key := range step {
			if !seen.Add(key) {
				return fmt.Errorf("%w: step %d repeats key %q", errScenario, i, key)
			}
		}
	}
	return nil
}

// strategies resolves the strategy names to run. An empty override falls back
// to the scenario's own setting, then to FastDiff.
func (s *scenario) strategies(override string) ([]renderer.DiffStrategy, error) {
	name := override
	if name == "" {
		name = s.Strategy
	}
	return parseStrategies(name)
}

func parseStrategies(name string) ([]renderer.DiffStrategy, error) {
	switch name {
	case "", renderer.FastDiff.String():
		return []renderer.DiffStrategy{renderer.FastDiff}, nil
	case "all":
		return []renderer.DiffStrategy{renderer.FastDiff, renderer.DoubleEnded, renderer.Simple}, nil
	}
	st, ok := renderer.ParseDiffStrategy(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown strategy %q", errScenario, name)
	}
	return []renderer.DiffStrategy{st}, nil
}

type stepResult struct {
	From, To []string
	Stats    hostdom.Stats
	Digest   uint64
	Markup   string
	Elapsed  time.Duration
}

func list(keys []string) *vnode.Node {
	items := make([]*vnode.Node, 0, len(keys))
	for _, k := range keys {
		items = append(items, vnode.HText("li", vnode.Props{"key": k}, k))
	}
	return vnode.H("ul", nil, items...)
}

// replay renders every step into a fresh document and records the host
// operations each transition needed.
func replay(s *scenario, strategy renderer.DiffStrategy, log *zap.Logger) ([]stepResult, error) {
	doc := hostdom.NewDocument(hostdom.WithLogger(log))
	root := doc.Element("div")
	var errs []error
	r := renderer.New(doc,
		renderer.WithLogger(log),
		renderer.WithDiffStrategy(strategy),
		renderer.WithErrorHandler(func(_ any, err error) {
			errs = append(errs, err)
		}),
	)

	render := func(keys []string) time.Duration {
		start := time.Now()
		r.Render(list(keys), root)
		r.Scheduler().Flush()
		return time.Since(start)
	}

	render(s.Steps[0])
	results := make([]stepResult, 0, len(s.Steps)-1)
	for i := 1; i < len(s.Steps); i++ {
		doc.ResetOps()
		elapsed := render(s.Steps[i])
		results = append(results, stepResult{
			From:    s.Steps[i-1],
			To:      s.Steps[i],
			Stats:   doc.Stats(),
			Digest:  doc.Digest(root),
			Markup:  hostdom.Markup(root),
			Elapsed: elapsed,
		})
		log.Debug("replayed step",
			zap.Int("step", i),
			zap.Stringer("strategy", strategy),
			zap.Int("mutations", results[len(results)-1].Stats.Mutations()),
		)
	}
	return results, errors.Join(errs...)
}
