package protocol

import "fmt"

// Event 模拟器输出行解析得到的结构化事件
// 功能：封闭的事件类型集合，只有本包内的四种事件实现该接口
// 说明：状态存储通过类型分支处理全部事件
type Event interface {
	Kind() Kind
	isEvent()
}

// Kind 事件类型
type Kind int

const (
	KindPhase    Kind = iota // 路口相位报告
	KindCount                // 路口车辆数报告
	KindApproach             // 车辆接近路口报告
	KindCross                // 车辆通过路口报告
)

func (k Kind) String() string {
	switch k {
	case KindPhase:
		return "phase"
	case KindCount:
		return "count"
	case KindApproach:
		return "approach"
	case KindCross:
		return "cross"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// PhaseEvent 路口相位报告，例如 "Cruzamento A: Fase NS-Straight e EW-Left"
type PhaseEvent struct {
	ID    string // 路口ID
	Label string // 相位标签
}

// CountEvent 路口车辆数报告，例如 "Cruzamento A: 3 carros"
type CountEvent struct {
	ID string // 路口ID
	N  int    // 车辆数（全量覆盖）
}

// ApproachEvent 车辆接近路口报告
type ApproachEvent struct {
	VehicleID    int     // 车辆ID
	Intersection string  // 所在路口
	Movement     string  // 意图动作（frente/esquerda/direita或单字母F/L/R）
	Speed        float64 // 速度（km/h）
	TravelTime   int     // 通行时间（秒）
}

// CrossEvent 车辆通过路口报告
type CrossEvent struct {
	VehicleID    int    // 车辆ID
	Intersection string // 通过的路口
	Movement     string // 实际动作
}

func (PhaseEvent) Kind() Kind    { return KindPhase }
func (CountEvent) Kind() Kind    { return KindCount }
func (ApproachEvent) Kind() Kind { return KindApproach }
func (CrossEvent) Kind() Kind    { return KindCross }

func (PhaseEvent) isEvent()    {}
func (CountEvent) isEvent()    {}
func (ApproachEvent) isEvent() {}
func (CrossEvent) isEvent()    {}
