package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/signal-monitor/protocol"
)

func TestParseCount(t *testing.T) {
	ev, ok := protocol.Parse("Cruzamento A: 3 carros")
	require.True(t, ok)
	assert.Equal(t, protocol.CountEvent{ID: "A", N: 3}, ev)
	assert.Equal(t, protocol.KindCount, ev.Kind())
}

func TestParsePhase(t *testing.T) {
	ev, ok := protocol.Parse("Cruzamento B: Fase verde")
	require.True(t, ok)
	assert.Equal(t, protocol.PhaseEvent{ID: "B", Label: "verde"}, ev)

	// 模拟器实际输出的多词相位
	ev, ok = protocol.Parse("Cruzamento C: Fase NS-Straight e EW-Left\n")
	require.True(t, ok)
	assert.Equal(t, protocol.PhaseEvent{ID: "C", Label: "NS-Straight e EW-Left"}, ev)

	ev, ok = protocol.Parse("Cruzamento D: Permissão para conversão à direita")
	require.True(t, ok)
	assert.Equal(t, protocol.PhaseEvent{ID: "D", Label: "Permissão para conversão à direita"}, ev)
}

func TestParseApproach(t *testing.T) {
	ev, ok := protocol.Parse("Veículo 7 se aproximando do cruzamento B para mover esquerda com velocidade 40.0 km/h. Tempo de percurso: 12 segundos")
	require.True(t, ok)
	assert.Equal(t, protocol.ApproachEvent{
		VehicleID:    7,
		Intersection: "B",
		Movement:     "esquerda",
		Speed:        40.0,
		TravelTime:   12,
	}, ev)

	ev, ok = protocol.Parse("Veículo 12 se aproximando do cruzamento A para mover F com velocidade 58.00 km/h. Tempo de percurso: 31 segundos\r\n")
	require.True(t, ok)
	assert.Equal(t, "F", ev.(protocol.ApproachEvent).Movement)
	assert.InDelta(t, 58.0, ev.(protocol.ApproachEvent).Speed, 1e-9)
}

func TestParseCross(t *testing.T) {
	ev, ok := protocol.Parse("Veículo 7 atravessou o cruzamento C em esquerda")
	require.True(t, ok)
	assert.Equal(t, protocol.CrossEvent{VehicleID: 7, Intersection: "C", Movement: "esquerda"}, ev)

	ev, ok = protocol.Parse("Veículo 3 virou à direita no cruzamento A")
	require.True(t, ok)
	assert.Equal(t, protocol.CrossEvent{VehicleID: 3, Intersection: "A", Movement: "direita"}, ev)
}

func TestParseUnrecognized(t *testing.T) {
	for _, line := range []string{
		"",
		"DEBUG: simulator heartbeat",
		"FreeRTOS scheduler started",
		// 必须从行首匹配
		"  Cruzamento A: 3 carros",
		// 区分大小写与重音
		"cruzamento A: 3 carros",
		"Veiculo 7 atravessou o cruzamento C em esquerda",
		"Cruzamento A: tres carros",
		"Veículo 7 se aproximando do cruzamento B para mover esquerda com velocidade 4.0.0 km/h. Tempo de percurso: 12 segundos",
		"Veículo 99999999999999999999999 atravessou o cruzamento C em esquerda",
		"Cruzamento A: 99999999999999999999999 carros",
		// 车辆ID必须为正整数
		"Veículo 0 atravessou o cruzamento C em esquerda",
		"Veículo 0 virou à direita no cruzamento A",
		"Veículo 0 se aproximando do cruzamento B para mover F com velocidade 55.00 km/h. Tempo de percurso: 32 segundos",
	} {
		ev, ok := protocol.Parse(line)
		assert.False(t, ok, line)
		assert.Nil(t, ev, line)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "phase", protocol.KindPhase.String())
	assert.Equal(t, "cross", protocol.KindCross.String())
	assert.Equal(t, "kind(9)", protocol.Kind(9).String())
}
