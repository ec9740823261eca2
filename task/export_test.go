package task

import "github.com/tsinghua-fib-lab/signal-monitor/protocol"

// SetParser 替换行解析函数
func SetParser(ctx *Context, parse func(line string) (protocol.Event, bool)) {
	ctx.parse = parse
}
