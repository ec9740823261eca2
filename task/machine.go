package task

import (
	"github.com/anggasct/fluo"
)

// 帧调度器状态
const (
	StateRunning = "running"
	StateDone    = "done"
)

// 帧调度器事件
const (
	EventEndOfStream  = "end_of_stream" // 输出结束
	EventRenderFailed = "render_failed" // 渲染面不可用
	EventStop         = "stop"          // 外部停止
)

// buildMachine 构建帧调度器状态机 RUNNING -> DONE
// 功能：三种事件都使调度器进入DONE，进入DONE时执行onDone
// 参数：onDone-进入DONE的动作（停止子进程、关闭渲染器）
// 返回：状态机定义
func buildMachine(onDone fluo.ActionFunc) fluo.MachineDefinition {
	b := fluo.NewMachine()

	b.State(StateRunning).Initial().
		To(StateDone).On(EventEndOfStream).
		To(StateDone).On(EventRenderFailed).
		To(StateDone).On(EventStop)

	b.State(StateDone).Final().
		OnEntry(onDone)

	return b.Build()
}

// transitionObserver 记录状态转换
type transitionObserver struct {
	fluo.BaseObserver
}

func (o *transitionObserver) OnTransition(from, to string, event fluo.Event, ctx fluo.Context) {
	name := ""
	if event != nil {
		name = event.GetName()
	}
	log.Infof("scheduler %s --[%s]--> %s", from, name, to)
}

func (o *transitionObserver) OnStateEnter(state string, ctx fluo.Context) {
	log.Debugf("scheduler entered %s", state)
}
