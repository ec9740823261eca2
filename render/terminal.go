package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tsinghua-fib-lab/signal-monitor/entity"
	"github.com/tsinghua-fib-lab/signal-monitor/state"
)

const (
	clearScreen = "\033[H\033[2J"
	maxBarWidth = 40
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CDD6F4")).Background(lipgloss.Color("#7C3AED")).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89B4FA"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	doneStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8"))

	// 路口车辆数柱的颜色，按路口顺序循环使用
	barColors = []lipgloss.Color{"#FF00FF", "#00FFFF", "#FFFF00", "#00FF00"}
)

// Terminal 终端渲染器
// 功能：每帧重绘路口车辆数柱状图、路口相位与车辆表
// 说明：与上一帧内容相同（指纹相同）时不重绘
type Terminal struct {
	w         io.Writer
	clear     bool
	last      string // 上一次重绘的帧指纹
	lastFrame *state.Snapshot
	painted   int
	skipped   int
	closed    bool
}

// NewTerminal 创建终端渲染器
// 参数：
//   - w: 输出目标
//   - clear: 重绘前是否清屏
func NewTerminal(w io.Writer, clear bool) *Terminal {
	return &Terminal{w: w, clear: clear}
}

// Render 渲染一帧，写入失败时返回错误
func (t *Terminal) Render(frame *state.Snapshot) error {
	if t.closed {
		return fmt.Errorf("terminal renderer closed")
	}
	t.lastFrame = frame
	fp, err := frame.Fingerprint()
	if err != nil {
		return fmt.Errorf("fingerprint frame %d: %w", frame.Tick(), err)
	}
	if fp == t.last {
		t.skipped++
		return nil
	}
	if err := t.paint(View(frame)); err != nil {
		return err
	}
	t.last = fp
	t.painted++
	return nil
}

// Close 在最后一帧下方输出结束标记，最后一帧保持显示
func (t *Terminal) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	log.Debugf("terminal painted %d frames, skipped %d unchanged", t.painted, t.skipped)
	tick := int64(0)
	if t.lastFrame != nil {
		tick = t.lastFrame.Tick()
	}
	_, err := fmt.Fprintln(t.w, doneStyle.Render(fmt.Sprintf("session ended at tick %d", tick)))
	return err
}

// Painted 实际重绘的帧数
func (t *Terminal) Painted() int {
	return t.painted
}

func (t *Terminal) paint(view string) error {
	var b strings.Builder
	if t.clear {
		b.WriteString(clearScreen)
	}
	b.WriteString(view)
	b.WriteByte('\n')
	if _, err := io.WriteString(t.w, b.String()); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// View 把一帧格式化为终端文本
func View(frame *state.Snapshot) string {
	intersections := frame.Intersections()
	vehicles := frame.Vehicles()

	title := titleStyle.Render("Carros nos Cruzamentos em Tempo Real")
	status := dimStyle.Render(fmt.Sprintf("tick %d  %s  session %s",
		frame.Tick(), frame.At().Format("15:04:05"), frame.Session()))

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		status,
		"",
		headerStyle.Render("Cruzamentos"),
		intersectionRows(intersections),
		"",
		headerStyle.Render(fmt.Sprintf("Veículos (%d)", len(vehicles))),
		vehicleRows(vehicles),
	)
}

func intersectionRows(intersections []entity.IntersectionState) string {
	if len(intersections) == 0 {
		return dimStyle.Render("  (none)")
	}
	peak := 1
	for _, in := range intersections {
		peak = max(peak, in.Count)
	}
	rows := make([]string, 0, len(intersections))
	for i, in := range intersections {
		phase := "-"
		if in.HasPhase {
			phase = in.Phase
		}
		width := in.Count * maxBarWidth / peak
		bar := lipgloss.NewStyle().
			Foreground(barColors[i%len(barColors)]).
			Render(strings.Repeat("█", width))
		rows = append(rows, fmt.Sprintf("  %-3s %4d %s  %s", in.ID, in.Count, bar, dimStyle.Render(phase)))
	}
	return strings.Join(rows, "\n")
}

func vehicleRows(vehicles []entity.VehicleState) string {
	if len(vehicles) == 0 {
		return dimStyle.Render("  (none)")
	}
	rows := make([]string, 0, len(vehicles)+1)
	rows = append(rows, dimStyle.Render(fmt.Sprintf("  %6s %-4s %-10s %10s %8s", "id", "at", "move", "km/h", "travel")))
	for _, v := range vehicles {
		rows = append(rows, fmt.Sprintf("  %6d %-4s %-10s %10.2f %7ds",
			v.ID, v.Intersection, v.Movement, v.Speed, v.TravelTime))
	}
	return strings.Join(rows, "\n")
}
