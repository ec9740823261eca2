package container_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/signal-monitor/utils/container"
)

func TestRingInit(t *testing.T) {
	r := container.NewRing[string](3)
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Items())

	r = container.NewRing[string](0)
	r.Push("a")
	r.Push("b")
	assert.Equal(t, []string{"b"}, r.Items())
}

func TestRingOverwrite(t *testing.T) {
	r := container.NewRing[int](3)
	for i := 1; i <= 5; i++ {
		r.Push(i)
	}
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 2, r.Dropped())
	assert.Equal(t, []int{3, 4, 5}, r.Items())

	// 返回值与内部数据无共享
	items := r.Items()
	items[0] = 100
	assert.Equal(t, []int{3, 4, 5}, r.Items())
}

func TestRingConcurrentPush(t *testing.T) {
	r := container.NewRing[int](64)
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				r.Push(i)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 64, r.Len())
	assert.Equal(t, 400-64, r.Dropped())
}
