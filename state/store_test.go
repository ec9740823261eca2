package state_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/signal-monitor/entity"
	"github.com/tsinghua-fib-lab/signal-monitor/protocol"
	"github.com/tsinghua-fib-lab/signal-monitor/state"
)

var at = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func applyLine(t *testing.T, s *state.Store, line string) bool {
	t.Helper()
	ev, ok := protocol.Parse(line)
	require.True(t, ok, line)
	return s.Apply(ev)
}

// seeded 返回一个已有路口相位、车辆数与车辆的存储
func seeded(t *testing.T) *state.Store {
	s := state.NewStore([]string{"A", "B", "C", "D"})
	applyLine(t, s, "Cruzamento A: Fase verde")
	applyLine(t, s, "Cruzamento B: 5 carros")
	applyLine(t, s, "Veículo 1 se aproximando do cruzamento A para mover F com velocidade 60.00 km/h. Tempo de percurso: 30 segundos")
	applyLine(t, s, "Veículo 2 se aproximando do cruzamento D para mover L com velocidade 47.00 km/h. Tempo de percurso: 38 segundos")
	return s
}

func TestCountReport(t *testing.T) {
	s := seeded(t)
	applyLine(t, s, "Cruzamento A: 3 carros")

	snap := s.Snapshot("s", 1, at)
	a, ok := snap.Intersection("A")
	require.True(t, ok)
	assert.Equal(t, 3, a.Count)
	assert.True(t, a.HasPhase)
	assert.Equal(t, "verde", a.Phase)
}

func TestPhaseReportTouchesOnlyItsIntersection(t *testing.T) {
	s := seeded(t)
	before := s.Snapshot("s", 1, at)
	applyLine(t, s, "Cruzamento C: Fase vermelho")
	after := s.Snapshot("s", 1, at)

	for _, b := range before.Intersections() {
		a, ok := after.Intersection(b.ID)
		require.True(t, ok)
		if b.ID == "C" {
			assert.Equal(t, entity.IntersectionState{ID: "C", Phase: "vermelho", HasPhase: true, Count: b.Count}, a)
			continue
		}
		assert.Equal(t, b, a)
	}
	assert.Equal(t, before.Vehicles(), after.Vehicles())
}

func TestCrossUnknownVehicleIsNoop(t *testing.T) {
	s := seeded(t)
	before := s.Snapshot("s", 1, at)
	assert.False(t, applyLine(t, s, "Veículo 99 atravessou o cruzamento C em esquerda"))
	assert.Equal(t, before, s.Snapshot("s", 1, at))
	assert.Equal(t, 1, s.Stats().Ignored)
}

func TestApproachThenCross(t *testing.T) {
	s := state.NewStore(nil)
	applyLine(t, s, "Veículo 7 se aproximando do cruzamento B para mover esquerda com velocidade 40.0 km/h. Tempo de percurso: 12 segundos")
	applyLine(t, s, "Veículo 7 atravessou o cruzamento C em esquerda")

	v, ok := s.Snapshot("s", 1, at).Vehicle(7)
	require.True(t, ok)
	assert.Equal(t, entity.VehicleState{ID: 7, Intersection: "C", Movement: "esquerda", Speed: 40.0, TravelTime: 12}, v)
}

func TestCountIdempotent(t *testing.T) {
	once, twice := seeded(t), seeded(t)
	ev := protocol.CountEvent{ID: "D", N: 8}
	once.Apply(ev)
	twice.Apply(ev)
	twice.Apply(ev)
	assert.Equal(t, once.Snapshot("s", 1, at), twice.Snapshot("s", 1, at))
}

func TestUnrecognizedLineLeavesStoreUnchanged(t *testing.T) {
	s := seeded(t)
	before := s.Snapshot("s", 1, at)
	beforeJSON, err := json.Marshal(before)
	require.NoError(t, err)

	_, ok := protocol.Parse("DEBUG: simulator heartbeat")
	assert.False(t, ok)

	afterJSON, err := json.Marshal(s.Snapshot("s", 1, at))
	require.NoError(t, err)
	assert.Equal(t, beforeJSON, afterJSON)
}

func TestUnknownIntersectionIsCreated(t *testing.T) {
	s := state.NewStore([]string{"A"})
	applyLine(t, s, "Cruzamento Q: 2 carros")
	snap := s.Snapshot("s", 1, at)
	q, ok := snap.Intersection("Q")
	require.True(t, ok)
	assert.Equal(t, 2, q.Count)
	assert.False(t, q.HasPhase)
	assert.Len(t, snap.Intersections(), 2)
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := seeded(t)
	snap := s.Snapshot("s", 1, at)
	applyLine(t, s, "Cruzamento A: 9 carros")
	applyLine(t, s, "Veículo 1 atravessou o cruzamento B em frente")

	a, _ := snap.Intersection("A")
	assert.Equal(t, 0, a.Count)
	v, _ := snap.Vehicle(1)
	assert.Equal(t, "A", v.Intersection)

	// 修改访问方法返回的切片不影响帧
	list := snap.Vehicles()
	list[0].Speed = 0
	v, _ = snap.Vehicle(1)
	assert.InDelta(t, 60.0, v.Speed, 1e-9)
}

func TestFingerprint(t *testing.T) {
	s := seeded(t)
	f1, err := s.Snapshot("s", 1, at).Fingerprint()
	require.NoError(t, err)
	f2, err := s.Snapshot("other", 2, at.Add(time.Second)).Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, f1, f2)

	applyLine(t, s, "Cruzamento A: 1 carros")
	f3, err := s.Snapshot("s", 3, at).Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, f1, f3)
}

func TestStats(t *testing.T) {
	s := seeded(t)
	st := s.Stats()
	assert.Equal(t, 4, st.Intersections)
	assert.Equal(t, 2, st.Vehicles)
	assert.Equal(t, 1, st.Applied[protocol.KindPhase])
	assert.Equal(t, 1, st.Applied[protocol.KindCount])
	assert.Equal(t, 2, st.Applied[protocol.KindApproach])
}
