package randengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/signal-monitor/utils/randengine"
)

func TestDeterministic(t *testing.T) {
	a, b := randengine.New(7), randengine.New(7)
	for range 100 {
		assert.Equal(t, a.Between(0, 1000), b.Between(0, 1000))
	}
}

func TestRanges(t *testing.T) {
	e := randengine.New(1)
	for range 1000 {
		v := e.Between(2, 5)
		assert.GreaterOrEqual(t, v, 2)
		assert.LessOrEqual(t, v, 5)

		j := e.Jitter(60, 5)
		assert.GreaterOrEqual(t, j, 55)
		assert.LessOrEqual(t, j, 65)

		i := e.DiscreteDistribution([]float64{0, 1, 0})
		assert.Equal(t, 1, i)
	}
	assert.Equal(t, 3, e.Between(3, 3))
}
