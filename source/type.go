package source

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrStartupFailure = errors.New("simulator startup failure")
)

// Status Next的返回状态
type Status int

const (
	StatusLine    Status = iota // 读到一行
	StatusPending               // 预算内没有新输出
	StatusEOF                   // 输出结束，此后总是返回StatusEOF
)

func (s Status) String() string {
	switch s {
	case StatusLine:
		return "line"
	case StatusPending:
		return "pending"
	case StatusEOF:
		return "eof"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Reason 输出结束的原因
type Reason int32

const (
	ReasonNone      Reason = iota // 尚未结束
	ReasonExited                  // 子进程正常退出（stdout关闭）
	ReasonLineLimit               // 达到最大行数
	ReasonTimeout                 // 达到最长运行时间
	ReasonStopped                 // 外部停止（Stop或ctx取消）
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonExited:
		return "exited"
	case ReasonLineLimit:
		return "line limit"
	case ReasonTimeout:
		return "timeout"
	case ReasonStopped:
		return "stopped"
	default:
		return fmt.Sprintf("reason(%d)", int32(r))
	}
}

// Options 子进程与执行边界配置
type Options struct {
	Path string   // 可执行文件路径
	Args []string // 启动参数
	Env  []string // 追加的环境变量

	MaxLines int           // 最多返回的stdout行数，0为不限制
	Timeout  time.Duration // 最长运行时间，0为不限制

	KillGrace    time.Duration // SIGTERM后等待退出的时间
	StderrBuffer int           // 保留的stderr行数
}

// Stats 运行统计
type Stats struct {
	Lines       int           // 已返回的stdout行数
	StderrLines int64         // 已读到的stderr行数
	StderrLost  int           // 超出诊断缓冲区、已不在Diagnostics中的stderr行数
	Oversized   int64         // 因超长被丢弃的行数（stdout与stderr）
	Elapsed     time.Duration // 启动以来的时间
	Alive       bool          // 子进程是否仍在运行
	Reason      Reason        // 结束原因
}
