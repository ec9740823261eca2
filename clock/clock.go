package clock

import (
	"fmt"
	"time"
)

// Clock 帧时钟
// 功能：记录帧调度器的帧序号与运行时长
// 说明：帧序号从0开始，每次Advance加1；T为最近一帧相对启动时刻的时长
type Clock struct {
	Interval time.Duration // 帧间隔
	Start    time.Time     // 启动时刻

	Tick int64         // 当前帧序号
	T    time.Duration // 当前帧时刻（相对启动）
}

// New 根据帧间隔创建时钟
// 功能：初始化时钟，启动时刻为当前时间
// 参数：interval-帧间隔
// 返回：初始化完成的时钟实例
func New(interval time.Duration) *Clock {
	c := &Clock{Interval: interval}
	c.Init(time.Now())
	return c
}

// Init 初始化时钟状态
// 功能：重置帧序号与时长，并设置启动时刻
// 参数：now-启动时刻
func (c *Clock) Init(now time.Time) {
	c.Start = now
	c.Tick = 0
	c.T = 0
}

// Advance 推进一帧
// 功能：帧序号加1，并以实际时间更新当前帧时刻
// 参数：now-当前时间
// 返回：新的帧序号
// 说明：帧时刻取实际流逝的时间，帧调度器被阻塞时不会假设每帧恰好间隔Interval
func (c *Clock) Advance(now time.Time) int64 {
	c.Tick++
	c.T = now.Sub(c.Start)
	return c.Tick
}

// Now 当前帧的绝对时刻
func (c *Clock) Now() time.Time {
	return c.Start.Add(c.T)
}

// Drift 实际帧时刻与理想帧时刻（Tick*Interval）之差
func (c *Clock) Drift() time.Duration {
	return c.T - time.Duration(c.Tick)*c.Interval
}

// String 获取时钟的字符串表示
// 功能：将当前帧时刻格式化为可读的字符串
// 返回：格式化的时间字符串（HH:MM:SS）
func (c *Clock) String() string {
	h, m, s := c.GetHourMinuteSecond()
	return fmt.Sprintf("%02d:%02d:%02d", h, m, int(s))
}

// GetHourMinuteSecond 获取当前帧时刻的小时、分钟、秒
// 返回：小时、分钟、秒（秒为浮点数，支持亚秒级精度）
func (c *Clock) GetHourMinuteSecond() (int, int, float64) {
	t := c.T.Seconds()
	hour := int(t) / 3600
	minute := int(t) % 3600 / 60
	second := t - float64(hour*3600+minute*60)
	return hour, minute, second
}
