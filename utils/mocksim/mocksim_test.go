package mocksim_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/signal-monitor/protocol"
	"github.com/tsinghua-fib-lab/signal-monitor/state"
	"github.com/tsinghua-fib-lab/signal-monitor/utils/mocksim"
)

func TestTravelTime(t *testing.T) {
	assert.Equal(t, 30, mocksim.TravelTime(60))
	assert.Equal(t, 36, mocksim.TravelTime(50))
}

func TestEveryLineIsRecognized(t *testing.T) {
	g := mocksim.New(mocksim.Options{Seed: 42, PhaseSteps: 5})
	kinds := map[protocol.Kind]int{}
	for range 200 {
		for _, line := range g.Step() {
			ev, ok := protocol.Parse(line)
			require.True(t, ok, line)
			kinds[ev.Kind()]++
		}
	}
	for _, k := range []protocol.Kind{protocol.KindPhase, protocol.KindCount, protocol.KindApproach, protocol.KindCross} {
		assert.Positive(t, kinds[k], k.String())
	}
}

func TestCountsNeverNegative(t *testing.T) {
	g := mocksim.New(mocksim.Options{Seed: 3, Vehicles: 20, PhaseSteps: 4})
	store := state.NewStore(nil)
	for range 300 {
		for _, line := range g.Step() {
			ev, ok := protocol.Parse(line)
			require.True(t, ok, line)
			store.Apply(ev)
		}
		for _, in := range store.Snapshot("", 0, time.Time{}).Intersections() {
			assert.GreaterOrEqual(t, in.Count, 0)
		}
	}
	assert.LessOrEqual(t, store.Stats().Vehicles, 20)
}

func TestFirstStepEmitsPhases(t *testing.T) {
	g := mocksim.New(mocksim.Options{Seed: 1, Intersections: 2})
	lines := g.Step()
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "Cruzamento A: Fase NS-Straight e EW-Left", lines[0])
	assert.Equal(t, "Cruzamento B: Fase NS-Straight e EW-Left", lines[1])
}

func TestDeterministic(t *testing.T) {
	a := mocksim.New(mocksim.Options{Seed: 9})
	b := mocksim.New(mocksim.Options{Seed: 9})
	for range 50 {
		assert.Equal(t, a.Step(), b.Step())
	}
}
