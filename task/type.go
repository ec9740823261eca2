package task

import (
	"errors"
	"time"

	"github.com/tsinghua-fib-lab/signal-monitor/source"
	"github.com/tsinghua-fib-lab/signal-monitor/state"
)

// 依赖倒置，表达帧调度器对输入与渲染的接口需求

var (
	ErrRenderFailure = errors.New("render failure")
)

// 输出行来源接口，由source.Source实现
type ILineSource interface {
	Next(budget time.Duration) (string, source.Status) // 在预算内拉取下一行
	Stop()                                              // 停止并终止子进程
	Stats() source.Stats                                // 运行统计
	Diagnostics() []string                              // 最近的stderr行
}

// 帧接收者（渲染器）接口
type IFrameSink interface {
	Render(frame *state.Snapshot) error // 接收一帧，返回错误表示渲染面已不可用
	Close() error                       // 通知渲染器不再有新帧，保留最后一帧
}
