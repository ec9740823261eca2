package container

import "sync"

// Ring 固定容量的环形缓冲区
// 功能：保留最近写入的capacity个元素，写满后覆盖最旧的元素
// 说明：线程安全，用于保存子进程stderr等只需要最近若干条的诊断信息
type Ring[T any] struct {
	data    []T
	head    int // 最旧元素的位置
	count   int
	dropped int // 被覆盖的元素数
	mtx     sync.Mutex
}

// NewRing 创建环形缓冲区
// 参数：capacity-容量，不大于0时按1处理
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring[T]{data: make([]T, capacity)}
}

// Push 写入元素，缓冲区已满时覆盖最旧的元素
func (r *Ring[T]) Push(v T) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	tail := (r.head + r.count) % len(r.data)
	r.data[tail] = v
	if r.count == len(r.data) {
		r.head = (r.head + 1) % len(r.data)
		r.dropped++
	} else {
		r.count++
	}
}

// Len 当前元素数
func (r *Ring[T]) Len() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.count
}

// Dropped 被覆盖的元素数
func (r *Ring[T]) Dropped() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.dropped
}

// Items 按写入顺序返回当前全部元素的拷贝
func (r *Ring[T]) Items() []T {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	out := make([]T, r.count)
	for i := range r.count {
		out[i] = r.data[(r.head+i)%len(r.data)]
	}
	return out
}
