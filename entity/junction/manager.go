package junction

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/signal-monitor/entity"
	"golang.org/x/exp/slices"
)

var ErrNotFound = errors.New("intersection not found")

// 路口管理器
type JunctionManager struct {
	data map[string]*Intersection
	ids  []string // 按ID排序
}

// NewManager 创建路口管理器实例
// 功能：初始化内部数据结构，并预置给定的路口（相位未知、车辆数为0）
// 参数：ids-预置的路口ID列表
// 返回：新创建的路口管理器实例
func NewManager(ids []string) *JunctionManager {
	m := &JunctionManager{
		data: make(map[string]*Intersection),
		ids:  make([]string, 0, len(ids)),
	}
	for _, id := range lo.Uniq(ids) {
		m.getOrCreate(id)
	}
	return m
}

// getOrCreate 查找路口，不存在时创建并保持ID有序
func (m *JunctionManager) getOrCreate(id string) *Intersection {
	if j, ok := m.data[id]; ok {
		return j
	}
	j := newIntersection(id)
	m.data[id] = j
	i, _ := slices.BinarySearch(m.ids, id)
	m.ids = slices.Insert(m.ids, i, id)
	log.Debugf("new intersection %s", id)
	return j
}

// Get 根据ID获取路口
// 功能：通过路口ID查找对应的路口对象，如果不存在则panic
func (m *JunctionManager) Get(id string) entity.IIntersection {
	if j, ok := m.data[id]; !ok {
		log.Panicf("no id %s in intersection data", id)
		return nil
	} else {
		return j
	}
}

// GetOrError 根据ID获取路口（带错误处理）
// 功能：通过路口ID查找对应的路口对象，如果不存在则返回错误
func (m *JunctionManager) GetOrError(id string) (entity.IIntersection, error) {
	if j, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	} else {
		return j, nil
	}
}

// SetPhase 设置路口相位，路口不存在时创建
func (m *JunctionManager) SetPhase(id, label string) {
	m.getOrCreate(id).setPhase(label)
}

// SetCount 设置路口车辆数，路口不存在时创建
func (m *JunctionManager) SetCount(id string, n int) {
	m.getOrCreate(id).setCount(n)
}

// Len 路口数量
func (m *JunctionManager) Len() int {
	return len(m.ids)
}

// States 产生按ID排序的全部路口状态
// 功能：拷贝每个路口的当前状态，返回值与管理器内部数据无共享
func (m *JunctionManager) States() []entity.IntersectionState {
	return lo.Map(m.ids, func(id string, _ int) entity.IntersectionState {
		return m.data[id].State()
	})
}
