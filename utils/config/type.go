package config

import "time"

// Simulator 被监控的外部信控模拟器进程配置
// 功能：描述如何启动外部模拟器子进程以及如何终止它
// 说明：模拟器被视为黑盒文本生成器，只关心可执行文件路径、参数与环境变量
type Simulator struct {
	Path         string        `yaml:"path"`                    // 可执行文件路径
	Args         []string      `yaml:"args,omitempty"`          // 启动参数，默认为空
	Env          []string      `yaml:"env,omitempty"`           // 追加的环境变量（KEY=VALUE）
	KillGrace    time.Duration `yaml:"kill_grace,omitempty"`    // 发送SIGTERM后等待退出的最长时间，超时则强制kill
	StderrBuffer int           `yaml:"stderr_buffer,omitempty"` // 保留的stderr诊断行数
}

// Control 监控过程控制配置
// 功能：定义读取上限、运行时长、帧间隔等执行边界
// 说明：MaxLines与Timeout为0表示不限制
type Control struct {
	MaxLines      int           `yaml:"max_lines"`                // 最多读取的stdout行数
	Timeout       time.Duration `yaml:"timeout"`                  // 最长运行时间
	TickInterval  time.Duration `yaml:"tick_interval"`            // 帧间隔
	ReadBudget    time.Duration `yaml:"read_budget,omitempty"`    // 每帧等待新输出的最长时间
	BatchSize     int           `yaml:"batch_size,omitempty"`     // 每帧最多处理的行数
	Intersections []string      `yaml:"intersections,omitempty"` // 预置的路口ID
}

// Render 帧输出配置
type Render struct {
	Terminal bool   `yaml:"terminal"`         // 是否在终端绘制
	Listen   string `yaml:"listen,omitempty"` // 帧服务监听地址，为空则不启动
}

// Config YAML配置文件的根结构
// 功能：定义整个监控程序的配置结构
// 说明：包含模拟器、控制、输出三部分
type Config struct {
	Simulator Simulator `yaml:"simulator"` // 模拟器
	Control   Control   `yaml:"control"`   // 执行边界
	Render    Render    `yaml:"render"`    // 输出
}
