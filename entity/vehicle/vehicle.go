package vehicle

import "github.com/tsinghua-fib-lab/signal-monitor/entity"

// Vehicle 车辆
// 功能：记录车辆最近一次被观测到的路口、动作、速度与通行时间
// 说明：由接近报告创建，通过报告只更新路口与动作，速度与通行时间只在接近报告中写入
type Vehicle struct {
	id           int
	intersection string
	movement     string
	speed        float64
	travelTime   int
}

func (v *Vehicle) ID() int {
	if v == nil {
		return -1
	}
	return v.id
}

func (v *Vehicle) Intersection() string {
	return v.intersection
}

func (v *Vehicle) Movement() string {
	return v.movement
}

func (v *Vehicle) Speed() float64 {
	return v.speed
}

func (v *Vehicle) TravelTime() int {
	return v.travelTime
}

// State 产生只读状态
func (v *Vehicle) State() entity.VehicleState {
	return entity.VehicleState{
		ID:           v.id,
		Intersection: v.intersection,
		Movement:     v.movement,
		Speed:        v.speed,
		TravelTime:   v.travelTime,
	}
}
