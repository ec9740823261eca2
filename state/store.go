package state

import (
	"fmt"
	"time"

	"github.com/tsinghua-fib-lab/signal-monitor/entity"
	"github.com/tsinghua-fib-lab/signal-monitor/entity/junction"
	"github.com/tsinghua-fib-lab/signal-monitor/entity/vehicle"
	"github.com/tsinghua-fib-lab/signal-monitor/protocol"
)

// Store 路口与车辆状态存储
// 功能：把解析得到的事件折叠进路口与车辆的当前状态，并产生只读帧
// 说明：只有一个写者（帧调度器），每个事件要么完整生效要么不生效
type Store struct {
	junctionManager entity.IJunctionManager
	vehicleManager  entity.IVehicleManager

	applied map[protocol.Kind]int // 各类事件的生效次数
	ignored int                   // 未知车辆的通过报告次数
}

// NewStore 创建状态存储
// 参数：intersections-预置的路口ID
func NewStore(intersections []string) *Store {
	return &Store{
		junctionManager: junction.NewManager(intersections),
		vehicleManager:  vehicle.NewManager(),
		applied:         make(map[protocol.Kind]int),
	}
}

// Apply 应用一个事件
// 功能：按合并规则修改存储
// 参数：ev-解析得到的事件
// 返回：存储是否被修改
// 算法说明：
// 1. 相位报告：设置路口相位，路口不存在时创建
// 2. 车辆数报告：全量覆盖路口车辆数
// 3. 接近报告：创建或全量覆盖车辆
// 4. 通过报告：只覆盖已知车辆的路口与动作，未知车辆不做修改
func (s *Store) Apply(ev protocol.Event) bool {
	switch e := ev.(type) {
	case protocol.PhaseEvent:
		s.junctionManager.SetPhase(e.ID, e.Label)
	case protocol.CountEvent:
		s.junctionManager.SetCount(e.ID, e.N)
	case protocol.ApproachEvent:
		s.vehicleManager.Approach(e.VehicleID, e.Intersection, e.Movement, e.Speed, e.TravelTime)
	case protocol.CrossEvent:
		if !s.vehicleManager.Cross(e.VehicleID, e.Intersection, e.Movement) {
			s.ignored++
			log.Debugf("crossing of unknown vehicle %d ignored", e.VehicleID)
			return false
		}
	default:
		panic(fmt.Sprintf("state: unexpected event type %T", ev))
	}
	s.applied[ev.Kind()]++
	return true
}

// Stats 存储统计
type Stats struct {
	Intersections int                   // 路口数量
	Vehicles      int                   // 车辆数量
	Applied       map[protocol.Kind]int // 各类事件生效次数
	Ignored       int                   // 被忽略的通过报告
}

// Stats 产生统计信息（拷贝）
func (s *Store) Stats() Stats {
	applied := make(map[protocol.Kind]int, len(s.applied))
	for k, v := range s.applied {
		applied[k] = v
	}
	return Stats{
		Intersections: s.junctionManager.Len(),
		Vehicles:      s.vehicleManager.Len(),
		Applied:       applied,
		Ignored:       s.ignored,
	}
}

// Snapshot 产生当前状态的只读帧
// 功能：深拷贝全部路口与车辆状态，返回值可以交给渲染器独立持有
// 参数：session-会话ID，tick-帧序号，at-产生时间
func (s *Store) Snapshot(session string, tick int64, at time.Time) *Snapshot {
	return newSnapshot(session, tick, at, s.junctionManager.States(), s.vehicleManager.States())
}
