package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	DefaultTickInterval = time.Second
	DefaultMaxBudget    = 200 * time.Millisecond
	DefaultBatchSize    = 16
	DefaultKillGrace    = 2 * time.Second
	DefaultStderrBuffer = 256
)

// DefaultIntersections 模拟器固定的四个路口
var DefaultIntersections = []string{"A", "B", "C", "D"}

var ErrInvalidConfig = errors.New("invalid config")

// RuntimeConfig 运行时配置
// 功能：存储补全默认值并校验后的配置
// 说明：监控程序的各个模块只读取RuntimeConfig，不直接读取原始YAML
type RuntimeConfig struct {
	All Config    // 全部配置
	S   Simulator // 模拟器配置
	C   Control   // 执行边界
	R   Render    // 输出配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：校验配置并补全默认值
// 参数：config-原始配置对象
// 返回：运行时配置指针，配置非法时返回错误
// 算法说明：
// 1. 校验模拟器路径非空、各边界非负
// 2. 帧间隔默认1秒，每帧读取预算默认为min(帧间隔/2, 200ms)
// 3. 批量行数、终止宽限期、stderr缓冲默认值
// 4. 未指定预置路口时使用A-D
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	s := config.Simulator
	c := config.Control
	if s.Path == "" {
		return nil, fmt.Errorf("%w: simulator.path must be specified", ErrInvalidConfig)
	}
	if c.MaxLines < 0 || c.Timeout < 0 || c.TickInterval < 0 || c.ReadBudget < 0 || c.BatchSize < 0 {
		return nil, fmt.Errorf("%w: control bounds must be non-negative: %+v", ErrInvalidConfig, c)
	}
	if s.KillGrace < 0 || s.StderrBuffer < 0 {
		return nil, fmt.Errorf("%w: simulator bounds must be non-negative: %+v", ErrInvalidConfig, s)
	}
	if c.TickInterval == 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.ReadBudget == 0 {
		c.ReadBudget = min(c.TickInterval/2, DefaultMaxBudget)
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Intersections == nil {
		c.Intersections = DefaultIntersections
	}
	if s.KillGrace == 0 {
		s.KillGrace = DefaultKillGrace
	}
	if s.StderrBuffer == 0 {
		s.StderrBuffer = DefaultStderrBuffer
	}

	return &RuntimeConfig{
		All: config,
		S:   s,
		C:   c,
		R:   config.Render,
	}, nil
}

// Parse 解析YAML配置
// 功能：严格模式解析，未知字段报错
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return c, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return c, nil
}

// Load 从文件路径或Base64编码数据加载配置
// 功能：path优先；两者都为空时返回只包含默认值的配置
// 参数：path-配置文件路径，encoded-Base64编码的配置内容
// 返回：解析后的配置
func Load(path, encoded string) (Config, error) {
	var file []byte
	var err error
	switch {
	case path != "":
		file, err = os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config file load err: %w", err)
		}
	case encoded != "":
		file, err = base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return Config{}, fmt.Errorf("config data load err: %w", err)
		}
	default:
		return Config{Render: Render{Terminal: true}}, nil
	}
	return Parse(file)
}
