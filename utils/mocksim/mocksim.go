// 模拟输出生成器，按交通信号模拟器的输出格式生成文本行，用于在没有模拟器构建时运行监控
package mocksim

import (
	"fmt"

	"github.com/tsinghua-fib-lab/signal-monitor/utils/randengine"
)

const (
	// 路口间距离（米）
	Distance = 500
	// 每个相位持续的步数
	DefaultPhaseSteps = 30
)

// 相位循环，与模拟器一致
var phases = []string{
	"Fase NS-Straight e EW-Left",
	"Fase EW-Straight e NS-Left",
	"Permissão para conversão à direita",
}

// 车辆动作
const (
	MoveForward = 'F'
	MoveLeft    = 'L'
	MoveRight   = 'R'
)

type vehicle struct {
	id           int
	intersection byte
	movement     byte
	waiting      bool // 已接近路口，等待通过
	idle         int  // 距下一次接近的剩余步数
}

// Options 生成器参数
type Options struct {
	Seed          uint64
	Intersections int // 路口数量，ID从A开始
	Vehicles      int // 车辆数量，ID从1开始
	PhaseSteps    int // 每个相位持续的步数
}

// Generator 模拟输出生成器
// 功能：每步推进一秒模拟时间，返回该步产生的输出行
type Generator struct {
	rng      *randengine.Engine
	opts     Options
	step     int
	phase    int
	vehicles []*vehicle
	counts   map[byte]int
}

// New 创建生成器
// 算法说明：
// 1. 每辆车随机分配路口与动作（左转、右转、直行等概率）
// 2. 每辆车在2-5步后第一次接近路口
func New(opts Options) *Generator {
	if opts.Intersections <= 0 {
		opts.Intersections = 4
	}
	if opts.Vehicles <= 0 {
		opts.Vehicles = 10
	}
	if opts.PhaseSteps <= 0 {
		opts.PhaseSteps = DefaultPhaseSteps
	}
	g := &Generator{
		rng:    randengine.New(opts.Seed),
		opts:   opts,
		counts: make(map[byte]int),
	}
	movements := []byte{MoveLeft, MoveRight, MoveForward}
	for i := range opts.Vehicles {
		g.vehicles = append(g.vehicles, &vehicle{
			id:           i + 1,
			intersection: byte('A' + g.rng.Intn(opts.Intersections)),
			movement:     movements[g.rng.DiscreteDistribution([]float64{1, 1, 1})],
			idle:         g.rng.Between(2, 5),
		})
	}
	return g
}

// speed 车辆速度：A、B为南北向道路60±5 km/h，其余为东西向道路50±5 km/h
func (g *Generator) speed(intersection byte) float64 {
	if intersection == 'A' || intersection == 'B' {
		return float64(g.rng.Jitter(60, 5))
	}
	return float64(g.rng.Jitter(50, 5))
}

// TravelTime 以给定速度（km/h）通过路口间距离所需的秒数
func TravelTime(speed float64) int {
	return int(Distance * 3600 / (speed * 1000))
}

// allowed 当前相位是否允许该动作通过
func (g *Generator) allowed(movement byte) bool {
	switch movement {
	case MoveRight:
		return g.phase == 2
	default:
		return g.phase != 2
	}
}

// Step 推进一步
// 返回：该步产生的输出行
// 算法说明：
// 1. 第一步与每个相位结束时，所有路口输出新相位
// 2. 空闲结束的车辆接近路口
// 3. 等待中的车辆在相位允许时通过路口，之后空闲2-5步
// 4. 车辆数变化的路口输出车辆数
func (g *Generator) Step() []string {
	var lines []string
	if g.step%g.opts.PhaseSteps == 0 {
		if g.step > 0 {
			g.phase = (g.phase + 1) % len(phases)
		}
		for i := range g.opts.Intersections {
			lines = append(lines, fmt.Sprintf("Cruzamento %c: %s", 'A'+i, phases[g.phase]))
		}
	}
	before := make(map[byte]int, len(g.counts))
	for k, v := range g.counts {
		before[k] = v
	}

	for _, v := range g.vehicles {
		switch {
		case v.waiting && g.allowed(v.movement):
			v.waiting = false
			v.idle = g.rng.Between(2, 5)
			g.counts[v.intersection]--
			lines = append(lines, crossLine(v))
		case !v.waiting:
			v.idle--
			if v.idle > 0 {
				continue
			}
			v.waiting = true
			g.counts[v.intersection]++
			speed := g.speed(v.intersection)
			lines = append(lines, fmt.Sprintf(
				"Veículo %d se aproximando do cruzamento %c para mover %c com velocidade %.2f km/h. Tempo de percurso: %d segundos",
				v.id, v.intersection, v.movement, speed, TravelTime(speed),
			))
		}
	}

	for i := range g.opts.Intersections {
		id := byte('A' + i)
		if g.counts[id] != before[id] {
			lines = append(lines, fmt.Sprintf("Cruzamento %c: %d carros", id, g.counts[id]))
		}
	}
	g.step++
	return lines
}

func crossLine(v *vehicle) string {
	switch v.movement {
	case MoveLeft:
		return fmt.Sprintf("Veículo %d virou à esquerda no cruzamento %c", v.id, v.intersection)
	case MoveRight:
		return fmt.Sprintf("Veículo %d virou à direita no cruzamento %c", v.id, v.intersection)
	default:
		return fmt.Sprintf("Veículo %d atravessou o cruzamento %c em frente", v.id, v.intersection)
	}
}
