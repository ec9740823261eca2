// 随机数引擎，包装了golang.org/x/exp/rand，供模拟输出生成器使用
package randengine

import (
	"flag"
	"log"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// Engine 随机数引擎（非线程安全）
type Engine struct {
	*rand.Rand // 底层随机数生成器
}

// New 创建随机数引擎
// 参数：seed-随机数种子
// 说明：实际种子为seed加上种子偏移量，可在不修改配置的情况下得到不同的序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// DiscreteDistribution 按给定权重生成随机下标
// 参数：weight-权重数组，每个元素表示对应下标的权重
// 返回：[0, len(weight))范围内的下标
func (e *Engine) DiscreteDistribution(weight []float64) int {
	random := .0
	for _, w := range weight {
		random += w
	}
	random *= e.Float64()
	sum := 0.
	for i, w := range weight {
		sum += w
		if sum > random {
			return i
		}
	}
	log.Panicf("randengine: DiscreteDistribution: sum: %f random: %f", sum, random)
	return -1
}

// Between 返回[lo, hi]范围内的随机整数
func (e *Engine) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + e.Intn(hi-lo+1)
}

// Jitter 返回base加上[-spread, spread]范围内的随机整数
func (e *Engine) Jitter(base, spread int) int {
	return base + e.Between(-spread, spread)
}
