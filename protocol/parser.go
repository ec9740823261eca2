package protocol

import (
	"regexp"
	"strconv"
	"strings"
)

// 模拟器输出格式（葡萄牙语，位置敏感，区分大小写与重音）
var (
	phasePattern    = regexp.MustCompile(`^Cruzamento (\w): Fase (\S.*)`)
	countPattern    = regexp.MustCompile(`^Cruzamento (\w): (\d+) carros`)
	approachPattern = regexp.MustCompile(`^Veículo (\d+) se aproximando do cruzamento (\w) para mover (\w+) com velocidade ([\d.]+) km/h\. Tempo de percurso: (\d+) segundos`)
	crossPattern    = regexp.MustCompile(`^Veículo (\d+) atravessou o cruzamento (\w) em (\w+)`)
	// 模拟器还会输出右转放行与转弯报告
	rightTurnPattern = regexp.MustCompile(`^Cruzamento (\w): (Permissão para conversão à direita)`)
	turnPattern      = regexp.MustCompile(`^Veículo (\d+) virou à (esquerda|direita) no cruzamento (\w)`)
)

type matcher struct {
	pattern *regexp.Regexp
	build   func(m []string) (Event, bool)
}

// matchers 按顺序匹配，首个匹配成功的格式生效
var matchers = []matcher{
	{phasePattern, func(m []string) (Event, bool) {
		return PhaseEvent{ID: m[1], Label: strings.TrimSpace(m[2])}, true
	}},
	{countPattern, func(m []string) (Event, bool) {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, false
		}
		return CountEvent{ID: m[1], N: n}, true
	}},
	{approachPattern, func(m []string) (Event, bool) {
		id, ok := vehicleID(m[1])
		if !ok {
			return nil, false
		}
		speed, err := strconv.ParseFloat(m[4], 64)
		if err != nil {
			return nil, false
		}
		travel, err := strconv.Atoi(m[5])
		if err != nil {
			return nil, false
		}
		return ApproachEvent{
			VehicleID:    id,
			Intersection: m[2],
			Movement:     m[3],
			Speed:        speed,
			TravelTime:   travel,
		}, true
	}},
	{crossPattern, func(m []string) (Event, bool) {
		id, ok := vehicleID(m[1])
		if !ok {
			return nil, false
		}
		return CrossEvent{VehicleID: id, Intersection: m[2], Movement: m[3]}, true
	}},
	{rightTurnPattern, func(m []string) (Event, bool) {
		return PhaseEvent{ID: m[1], Label: m[2]}, true
	}},
	{turnPattern, func(m []string) (Event, bool) {
		id, ok := vehicleID(m[1])
		if !ok {
			return nil, false
		}
		return CrossEvent{VehicleID: id, Intersection: m[3], Movement: m[2]}, true
	}},
}

// vehicleID 车辆ID为正整数
func vehicleID(s string) (int, bool) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Parse 解析模拟器输出的一行文本
// 功能：按固定顺序尝试匹配已知格式，返回结构化事件
// 参数：line-原始输出行（可带换行符）
// 返回：事件与是否识别成功
// 说明：无法识别的行（横幅、调试信息等）以及数字字段转换失败的行均返回false，不报错
func Parse(line string) (Event, bool) {
	line = strings.TrimRight(line, " \t\r\n")
	for _, mt := range matchers {
		m := mt.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		// 首个匹配的格式决定结果，转换失败不再尝试后续格式
		return mt.build(m)
	}
	return nil, false
}
