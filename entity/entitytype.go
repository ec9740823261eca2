package entity

import "fmt"

// IntersectionState 路口在某一时刻的只读状态
// 功能：作为帧（snapshot）中路口数据的值类型，拷贝后与存储解耦
type IntersectionState struct {
	ID       string `json:"id"`              // 路口ID
	Phase    string `json:"phase,omitempty"` // 当前相位标签
	HasPhase bool   `json:"has_phase"`       // 是否已收到过相位报告
	Count    int    `json:"count"`           // 当前车辆数
}

func (s IntersectionState) String() string {
	phase := "-"
	if s.HasPhase {
		phase = s.Phase
	}
	return fmt.Sprintf("Intersection{ID=%v, Phase=%v, Count=%v}", s.ID, phase, s.Count)
}

// VehicleState 车辆在某一时刻的只读状态
type VehicleState struct {
	ID           int     `json:"id"`           // 车辆ID
	Intersection string  `json:"intersection"` // 当前路口
	Movement     string  `json:"movement"`     // 动作
	Speed        float64 `json:"speed"`        // 速度（km/h）
	TravelTime   int     `json:"travel_time"`  // 通行时间（秒）
}

func (s VehicleState) String() string {
	return fmt.Sprintf(
		"Vehicle{ID=%v, Intersection=%v, Movement=%v, Speed=%.2f, TravelTime=%v}",
		s.ID, s.Intersection, s.Movement, s.Speed, s.TravelTime,
	)
}

// entity/junction/junction.go的依赖倒置
type IIntersection interface {
	ID() string               // 获取路口ID
	Phase() (string, bool)    // 获取当前相位，未知时返回false
	Count() int               // 获取当前车辆数
	State() IntersectionState // 产生只读状态
}

// entity/vehicle/vehicle.go的依赖倒置
type IVehicle interface {
	ID() int              // 获取车辆ID
	Intersection() string // 获取当前路口
	Movement() string     // 获取动作
	Speed() float64       // 获取速度
	TravelTime() int      // 获取通行时间
	State() VehicleState  // 产生只读状态
}
