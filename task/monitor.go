package task

import (
	"flag"
	"fmt"
	"time"

	"github.com/tsinghua-fib-lab/signal-monitor/source"
	"github.com/tsinghua-fib-lab/signal-monitor/state"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 10, "心跳日志间隔帧数")
)

// tick 执行一帧
// 功能：拉取一批输出行，解析并写入状态存储，产生一帧并交给渲染器
// 算法说明：
// 1. 推进帧时钟
// 2. 拉取：第一行最多等待读取预算，之后只取已缓冲的行，最多BatchSize行
// 3. 逐行解析并应用，单行的错误不会中断本帧
// 4. 产生帧并交给渲染器；渲染失败则进入DONE
// 5. 心跳日志
// 6. 输出结束则进入DONE，最后一帧保留为最终显示状态
func (ctx *Context) tick() {
	tick := ctx.clock.Advance(time.Now())
	eos := ctx.pull()

	frame := ctx.store.Snapshot(ctx.id.String(), tick, ctx.clock.Now())
	ctx.last = frame
	if err := ctx.handoff(frame); err != nil {
		ctx.renderErr = err
		ctx.log.Warnf("tick %d: %v", tick, err)
		ctx.send(EventRenderFailed)
		return
	}

	if *heartBeatInterval > 0 && tick%int64(*heartBeatInterval) == 0 {
		stats := ctx.source.Stats()
		ctx.log.Infof(
			"TICK: %d(%s) drift=%v lines=%d intersections=%d vehicles=%d",
			tick, ctx.clock, ctx.clock.Drift().Round(time.Millisecond), stats.Lines,
			len(frame.Intersections()), len(frame.Vehicles()),
		)
	}

	if eos {
		ctx.send(EventEndOfStream)
	}
}

// pull 拉取并处理一批输出行
// 返回：是否遇到输出结束
func (ctx *Context) pull() bool {
	budget := ctx.runtimeConfig.C.ReadBudget
	for range ctx.runtimeConfig.C.BatchSize {
		line, status := ctx.source.Next(budget)
		switch status {
		case source.StatusEOF:
			return true
		case source.StatusPending:
			return false
		}
		budget = 0
		ctx.process(line)
	}
	return false
}

// process 解析并应用一行，错误只记录诊断日志
func (ctx *Context) process(line string) {
	defer func() {
		if r := recover(); r != nil {
			ctx.lineErrors++
			ctx.log.Errorf("process line %q: %v", line, r)
		}
	}()
	ctx.log.Debugf("stdout: %s", line)
	ev, ok := ctx.parse(line)
	if !ok {
		ctx.unrecognized++
		return
	}
	ctx.store.Apply(ev)
}

// handoff 把帧交给渲染器，渲染器返回错误或panic都视为渲染失败
func (ctx *Context) handoff(frame *state.Snapshot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrRenderFailure, r)
		}
	}()
	if err := ctx.sink.Render(frame); err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}
	return nil
}
