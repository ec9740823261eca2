package vehicle

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/signal-monitor/entity"
	"golang.org/x/exp/slices"
)

var ErrNotFound = errors.New("vehicle not found")

// 车辆管理器
// 功能：维护整次运行中观测到的全部车辆，车辆只增不删
type VehicleManager struct {
	data map[int]*Vehicle
	ids  []int // 按ID排序
}

// NewManager 创建车辆管理器实例
func NewManager() *VehicleManager {
	return &VehicleManager{
		data: make(map[int]*Vehicle),
		ids:  make([]int, 0),
	}
}

// Get 根据ID获取车辆，如果不存在则panic
func (m *VehicleManager) Get(id int) entity.IVehicle {
	if v, ok := m.data[id]; !ok {
		log.Panicf("no id %d in vehicle data", id)
		return nil
	} else {
		return v
	}
}

// GetOrError 根据ID获取车辆，如果不存在则返回错误
func (m *VehicleManager) GetOrError(id int) (entity.IVehicle, error) {
	if v, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	} else {
		return v, nil
	}
}

// Approach 车辆接近路口
// 功能：创建车辆，或用报告中的全部字段覆盖已有车辆
// 参数：id-车辆ID，intersection-路口ID，movement-动作，speed-速度（km/h），travelTime-通行时间（秒）
func (m *VehicleManager) Approach(id int, intersection, movement string, speed float64, travelTime int) {
	v, ok := m.data[id]
	if !ok {
		v = &Vehicle{id: id}
		m.data[id] = v
		i, _ := slices.BinarySearch(m.ids, id)
		m.ids = slices.Insert(m.ids, i, id)
		log.Debugf("new vehicle %d", id)
	}
	v.intersection = intersection
	v.movement = movement
	v.speed = speed
	v.travelTime = travelTime
}

// Cross 车辆通过路口
// 功能：只覆盖已知车辆的路口与动作，速度与通行时间保持不变
// 返回：车辆是否存在；未经接近报告的车辆无法记录通过，不做任何修改
func (m *VehicleManager) Cross(id int, intersection, movement string) bool {
	v, ok := m.data[id]
	if !ok {
		return false
	}
	v.intersection = intersection
	v.movement = movement
	return true
}

// Len 车辆数量
func (m *VehicleManager) Len() int {
	return len(m.ids)
}

// States 产生按ID排序的全部车辆状态
func (m *VehicleManager) States() []entity.VehicleState {
	return lo.Map(m.ids, func(id int, _ int) entity.VehicleState {
		return m.data[id].State()
	})
}
