package task

import (
	"context"
	"fmt"
	"time"

	"github.com/anggasct/fluo"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/signal-monitor/clock"
	"github.com/tsinghua-fib-lab/signal-monitor/protocol"
	"github.com/tsinghua-fib-lab/signal-monitor/source"
	"github.com/tsinghua-fib-lab/signal-monitor/state"
	"github.com/tsinghua-fib-lab/signal-monitor/utils/config"
)

// Context 监控任务上下文
// 功能：包含一次监控会话的全部状态，替代全局变量
// 说明：读取、解析、状态修改与帧产生都在Run所在的协程中完成，状态存储只有一个写者
type Context struct {
	// 会话ID
	id  uuid.UUID
	log *logrus.Entry

	// 帧时钟
	clock *clock.Clock
	// 运行时配置
	runtimeConfig *config.RuntimeConfig

	// 状态存储
	store *state.Store
	// 输出行来源
	source ILineSource
	// 渲染器
	sink IFrameSink
	// 调度器状态机
	machine fluo.Machine
	// 行解析函数
	parse func(line string) (protocol.Event, bool)

	// 最后一帧
	last *state.Snapshot
	// 无法识别的行数
	unrecognized int
	// 处理时出错的行数
	lineErrors int
	// 渲染失败原因
	renderErr error
}

// NewContext 创建新的监控任务上下文
// 功能：初始化会话ID、帧时钟、状态存储与调度器状态机
// 参数：
//   - rc: 运行时配置
//   - src: 输出行来源（已启动）
//   - sink: 渲染器
//
// 返回：初始化完成的Context实例
func NewContext(rc *config.RuntimeConfig, src ILineSource, sink IFrameSink) *Context {
	id := uuid.New()
	ctx := &Context{
		id:            id,
		log:           log.WithField("session", id.String()),
		clock:         clock.New(rc.C.TickInterval),
		runtimeConfig: rc,
		store:         state.NewStore(rc.C.Intersections),
		source:        src,
		sink:          sink,
		parse:         protocol.Parse,
	}
	ctx.machine = buildMachine(func(fluo.Context) error {
		ctx.shutdown()
		return nil
	}).CreateInstance()
	ctx.machine.AddObserver(&transitionObserver{})
	return ctx
}

func (ctx *Context) ID() uuid.UUID {
	return ctx.id
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) Store() *state.Store {
	return ctx.store
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

// Last 最后一帧，会话结束后即最终显示的状态
func (ctx *Context) Last() *state.Snapshot {
	return ctx.last
}

// Unrecognized 无法识别的行数
func (ctx *Context) Unrecognized() int {
	return ctx.unrecognized
}

// LineErrors 处理时出错（panic）的行数
func (ctx *Context) LineErrors() int {
	return ctx.lineErrors
}

// RenderErr 导致会话结束的渲染错误，没有则为nil
func (ctx *Context) RenderErr() error {
	return ctx.renderErr
}

// Running 调度器是否处于RUNNING
func (ctx *Context) Running() bool {
	return ctx.machine.CurrentState() == StateRunning
}

// Run 运行
// 功能：按固定帧间隔执行帧，直到调度器进入DONE
// 参数：runCtx-取消时停止会话
// 返回：只有外部取消（runCtx.Err()）或状态机无法启动时返回错误；输出结束、超时、行数上限与渲染失败都是正常结束
func (ctx *Context) Run(runCtx context.Context) error {
	if err := ctx.machine.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	ctx.clock.Init(time.Now())
	ticker := time.NewTicker(ctx.runtimeConfig.C.TickInterval)
	defer ticker.Stop()

	ctx.log.Infof("monitor started, tick %v, read budget %v, batch %d",
		ctx.runtimeConfig.C.TickInterval, ctx.runtimeConfig.C.ReadBudget, ctx.runtimeConfig.C.BatchSize)
	for ctx.Running() {
		select {
		case <-runCtx.Done():
			ctx.send(EventStop)
			return runCtx.Err()
		case <-ticker.C:
			ctx.tick()
		}
	}
	return nil
}

// send 向状态机发送事件
func (ctx *Context) send(event string) {
	if res := ctx.machine.SendEvent(event, nil); !res.Success() {
		ctx.log.Warnf("scheduler rejected %s: %s %v", event, res.RejectionReason, res.Error)
	}
}

// shutdown 进入DONE时执行：停止子进程、通知渲染器，并输出会话总结
func (ctx *Context) shutdown() {
	ctx.source.Stop()
	if err := ctx.closeSink(); err != nil {
		ctx.log.Warnf("close renderer err: %v", err)
	}
	ctx.summary()
}

func (ctx *Context) closeSink() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrRenderFailure, r)
		}
	}()
	return ctx.sink.Close()
}

// summary 会话总结
func (ctx *Context) summary() {
	srcStats := ctx.source.Stats()
	storeStats := ctx.store.Stats()
	ctx.log.Infof(
		"monitor done after %d ticks (%v): reason=%s lines=%d unrecognized=%d oversized=%d errors=%d stderr=%d intersections=%d vehicles=%d",
		ctx.clock.Tick, srcStats.Elapsed.Round(time.Millisecond), reason(srcStats, ctx.renderErr),
		srcStats.Lines, ctx.unrecognized, srcStats.Oversized, ctx.lineErrors, srcStats.StderrLines,
		storeStats.Intersections, storeStats.Vehicles,
	)
	if storeStats.Vehicles == 0 {
		ctx.log.Warn("no vehicle data observed")
	}
	if storeStats.Applied[protocol.KindPhase] == 0 && storeStats.Applied[protocol.KindCount] == 0 {
		ctx.log.Warn("no intersection data observed")
	}
	if diag := ctx.source.Diagnostics(); len(diag) > 0 {
		ctx.log.Warnf("simulator stderr (last %d lines, %d earlier lines not kept):", len(diag), srcStats.StderrLost)
		for _, line := range diag {
			ctx.log.Warnf("  %s", line)
		}
	}
}

func reason(stats source.Stats, renderErr error) string {
	if renderErr != nil {
		return "render failure"
	}
	return stats.Reason.String()
}
