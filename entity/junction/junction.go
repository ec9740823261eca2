package junction

import (
	"github.com/tsinghua-fib-lab/signal-monitor/entity"
)

// Intersection 路口
// 功能：记录模拟器报告的路口相位与车辆数
// 说明：首次被任意事件引用时隐式创建，在整个运行期间不会删除
type Intersection struct {
	id       string
	phase    string // 相位标签
	hasPhase bool   // 是否收到过相位报告
	count    int    // 车辆数，默认为0
}

// newIntersection 创建相位未知、车辆数为0的路口
func newIntersection(id string) *Intersection {
	return &Intersection{id: id}
}

// ID 获取路口的唯一标识符
// 返回：路口ID，如果路口为nil则返回空字符串
func (j *Intersection) ID() string {
	if j == nil {
		return ""
	}
	return j.id
}

// Phase 获取当前相位
// 返回：相位标签，以及是否已收到过相位报告
func (j *Intersection) Phase() (string, bool) {
	return j.phase, j.hasPhase
}

// Count 获取当前车辆数
func (j *Intersection) Count() int {
	return j.count
}

// setPhase 设置相位，只修改相位字段
func (j *Intersection) setPhase(label string) {
	j.phase = label
	j.hasPhase = true
}

// setCount 设置车辆数，全量覆盖而非增量
func (j *Intersection) setCount(n int) {
	j.count = n
}

// State 产生只读状态
func (j *Intersection) State() entity.IntersectionState {
	return entity.IntersectionState{
		ID:       j.id,
		Phase:    j.phase,
		HasPhase: j.hasPhase,
		Count:    j.count,
	}
}
