package renderer_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/delaneyj/vdomparty/renderer"
	"github.com/delaneyj/vdomparty/vnode"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/capitan"
)

// should count moves and component renders
func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := newHarness(t, renderer.WithMetrics(reg))

	h.render(keyedList("A", "B", "C", "D", "E"))
	h.render(keyedList("A", "C", "B", "D", "E"))
	h.render(vnode.Comp(staticComp("Leaf", "leaf"), nil, nil))

	expected := `
# HELP vdomparty_moves_total Existing nodes reinserted by list diffs
# TYPE vdomparty_moves_total counter
vdomparty_moves_total 1
# HELP vdomparty_component_renders_total Component render function invocations
# TYPE vdomparty_component_renders_total counter
vdomparty_component_renders_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"vdomparty_moves_total", "vdomparty_component_renders_total"))

	n, err := testutil.GatherAndCount(reg, "vdomparty_host_ops_total")
	require.NoError(t, err)
	assert.Positive(t, n)
}

// should emit lifecycle signals when enabled
func TestLifecycleSignals(t *testing.T) {
	defer verifyNoLeaks(t)

	phases := make(chan string, 16)
	listener := capitan.Hook(renderer.ComponentLifecycle, func(_ context.Context, e *capitan.Event) {
		name, _ := renderer.KeyComponent.From(e)
		if name != "Probe" {
			return
		}
		phase, _ := renderer.KeyPhase.From(e)
		phases <- phase
	})
	defer listener.Close()

	h := newHarness(t, renderer.WithLifecycleEvents())
	h.render(vnode.Comp(staticComp("Probe", "p"), nil, nil))
	h.render(nil)

	var got []string
	timeout := time.After(2 * time.Second)
	for len(got) < 3 {
		select {
		case p := <-phases:
			got = append(got, p)
		case <-timeout:
			t.Fatalf("got phases %v", got)
		}
	}
	assert.Equal(t, []string{"setup", "mounted", "unmounted"}, got)
}
