package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/tsinghua-fib-lab/signal-monitor/utils/config"
	"github.com/tsinghua-fib-lab/signal-monitor/utils/container"
)

const (
	lineBufferSize = 1024      // stdout行缓冲
	readBufferSize = 64 * 1024 // 管道读缓冲
	maxLineSize    = 1 << 20   // 单行最大长度，超过的行被丢弃
)

// Source 外部模拟器的输出行来源
// 功能：启动子进程，按需拉取stdout行，并行收集stderr诊断信息，执行行数与时长上限
// 说明：Next只允许一个调用者（帧调度器）；Stop、Stats以外的状态只由调用者修改
type Source struct {
	opts  Options
	cmd   *exec.Cmd
	start time.Time

	lines       chan string
	diagnostics *container.Ring[string]
	stderrLines atomic.Int64
	oversized   atomic.Int64 // 因超长被丢弃的行数

	count    int // 已返回的stdout行数
	finished atomic.Bool
	reason   atomic.Int32

	stopCh   chan struct{} // 结束后关闭，解除读协程阻塞
	stopOnce sync.Once
	exited   chan struct{} // 子进程被回收后关闭
	exitErr  error
}

// OptionsFromConfig 从运行时配置生成Options
func OptionsFromConfig(rc *config.RuntimeConfig) Options {
	return Options{
		Path:         rc.S.Path,
		Args:         rc.S.Args,
		Env:          rc.S.Env,
		MaxLines:     rc.C.MaxLines,
		Timeout:      rc.C.Timeout,
		KillGrace:    rc.S.KillGrace,
		StderrBuffer: rc.S.StderrBuffer,
	}
}

// Start 启动外部模拟器
// 功能：创建子进程并启动stdout/stderr读协程与回收协程
// 参数：ctx-取消时等价于调用Stop，opts-子进程与执行边界配置
// 返回：Source实例；无法启动时返回包装了ErrStartupFailure的错误，不重试
// 算法说明：
// 1. 建立stdout与stderr管道并启动子进程
// 2. stdout读协程把每行写入有缓冲的channel，结束时关闭channel
// 3. stderr读协程把每行写入诊断环形缓冲区并记录日志
// 4. 两个读协程都结束后回收子进程
func Start(ctx context.Context, opts Options) (*Source, error) {
	cmd := exec.Command(opts.Path, opts.Args...)
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStartupFailure, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStartupFailure, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStartupFailure, opts.Path, err)
	}

	s := &Source{
		opts:        opts,
		cmd:         cmd,
		start:       time.Now(),
		lines:       make(chan string, lineBufferSize),
		diagnostics: container.NewRing[string](opts.StderrBuffer),
		stopCh:      make(chan struct{}),
		exited:      make(chan struct{}),
	}
	log.Infof("simulator %s started, pid %d", opts.Path, cmd.Process.Pid)

	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		s.readStdout(stdout)
	}()
	go func() {
		defer readers.Done()
		s.readStderr(stderr)
	}()
	go func() {
		readers.Wait()
		s.exitErr = cmd.Wait()
		log.Infof("simulator exited: %v", s.cmd.ProcessState)
		close(s.exited)
	}()
	go func() {
		select {
		case <-ctx.Done():
			s.finish(ReasonStopped)
		case <-s.stopCh:
		case <-s.exited:
		}
	}()
	return s, nil
}

// readStdout stdout读协程
func (s *Source) readStdout(r io.Reader) {
	defer close(s.lines)
	err := s.readLines(r, func(line string) bool {
		select {
		case s.lines <- strings.ToValidUTF8(line, "�"):
			return true
		case <-s.stopCh:
			return false
		}
	})
	if err != nil && !s.finished.Load() {
		log.Warnf("read stdout err: %v", err)
	}
}

// readStderr stderr读协程，stderr只作为诊断信息，不参与状态重建
// 说明：一直读到EOF，避免子进程因stderr管道写满而阻塞
func (s *Source) readStderr(r io.Reader) {
	err := s.readLines(r, func(line string) bool {
		s.stderrLines.Add(1)
		s.diagnostics.Push(line)
		log.WithField("stream", "stderr").Warn(line)
		return true
	})
	if err != nil && !s.finished.Load() {
		log.Warnf("read stderr err: %v", err)
	}
}

// readLines 逐行读取直到EOF
// 功能：超过maxLineSize的行被丢弃并计数，之后的行照常读取
// 参数：r-管道，emit-处理一行，返回false时停止读取
// 返回：EOF以外的读取错误
func (s *Source) readLines(r io.Reader, emit func(line string) bool) error {
	br := bufio.NewReaderSize(r, readBufferSize)
	var buf []byte
	skipping := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !skipping {
			if len(buf)+len(chunk) > maxLineSize {
				skipping = true
				buf = buf[:0]
			} else {
				buf = append(buf, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if skipping {
			n := s.oversized.Add(1)
			log.Warnf("dropped line longer than %d bytes (%d so far)", maxLineSize, n)
			skipping = false
		} else if len(buf) > 0 {
			line := strings.TrimSuffix(strings.TrimSuffix(string(buf), "\n"), "\r")
			if !emit(line) {
				return nil
			}
		}
		buf = buf[:0]
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// Next 拉取下一行stdout
// 功能：在预算时间内等待下一行输出，不会无限阻塞
// 参数：budget-本次最多等待的时间，0表示只取已缓冲的行
// 返回：行内容与状态
// 算法说明：
// 1. 已结束则返回StatusEOF
// 2. 已超过最长运行时间则终止子进程并返回StatusEOF，不再读取已缓冲的输出
// 3. 等待时间不超过剩余运行时间
// 4. 读到一行后计数，达到最大行数时终止子进程，该行仍然返回，此后返回StatusEOF
// 5. stdout关闭（子进程退出）则返回StatusEOF
func (s *Source) Next(budget time.Duration) (string, Status) {
	if s.finished.Load() {
		return "", StatusEOF
	}
	if s.opts.Timeout > 0 {
		remaining := s.opts.Timeout - time.Since(s.start)
		if remaining <= 0 {
			log.Infof("timeout %v reached after %d lines", s.opts.Timeout, s.count)
			s.finish(ReasonTimeout)
			return "", StatusEOF
		}
		budget = min(budget, remaining)
	}

	select {
	case line, ok := <-s.lines:
		return s.accept(line, ok)
	default:
	}
	if budget <= 0 {
		return "", StatusPending
	}

	timer := time.NewTimer(budget)
	defer timer.Stop()
	select {
	case line, ok := <-s.lines:
		return s.accept(line, ok)
	case <-s.stopCh:
		return "", StatusEOF
	case <-timer.C:
		if s.opts.Timeout > 0 && time.Since(s.start) >= s.opts.Timeout {
			log.Infof("timeout %v reached after %d lines", s.opts.Timeout, s.count)
			s.finish(ReasonTimeout)
			return "", StatusEOF
		}
		return "", StatusPending
	}
}

func (s *Source) accept(line string, ok bool) (string, Status) {
	if !ok {
		s.finish(ReasonExited)
		return "", StatusEOF
	}
	s.count++
	if s.opts.MaxLines > 0 && s.count >= s.opts.MaxLines {
		log.Infof("line limit %d reached", s.opts.MaxLines)
		s.finish(ReasonLineLimit)
	}
	return line, StatusLine
}

// Stop 停止读取并终止子进程（尽力而为，不等待退出）
func (s *Source) Stop() {
	s.finish(ReasonStopped)
}

// finish 标记结束并异步终止子进程，只有第一次调用的原因会被记录
func (s *Source) finish(reason Reason) {
	s.reason.CompareAndSwap(int32(ReasonNone), int32(reason))
	s.finished.Store(true)
	s.stopOnce.Do(func() {
		close(s.stopCh)
		go s.terminate()
	})
}

// terminate 发送SIGTERM，宽限期内未退出则kill
func (s *Source) terminate() {
	select {
	case <-s.exited:
		return
	default:
	}
	if err := s.cmd.Process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		log.Warnf("signal simulator err: %v", err)
	}
	timer := time.NewTimer(s.opts.KillGrace)
	defer timer.Stop()
	select {
	case <-s.exited:
	case <-timer.C:
		log.Warnf("simulator did not exit within %v, killing", s.opts.KillGrace)
		if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			log.Warnf("kill simulator err: %v", err)
		}
	}
}

// Reason 结束原因
func (s *Source) Reason() Reason {
	return Reason(s.reason.Load())
}

// Done 子进程被回收后关闭
func (s *Source) Done() <-chan struct{} {
	return s.exited
}

// Alive 子进程是否仍在运行
func (s *Source) Alive() bool {
	select {
	case <-s.exited:
		return false
	default:
		return true
	}
}

// ExitErr 子进程的退出错误，仅在Done关闭后有效
func (s *Source) ExitErr() error {
	select {
	case <-s.exited:
		return s.exitErr
	default:
		return nil
	}
}

// Diagnostics 最近的stderr行
func (s *Source) Diagnostics() []string {
	return s.diagnostics.Items()
}

// Stats 运行统计
func (s *Source) Stats() Stats {
	return Stats{
		Lines:       s.count,
		StderrLines: s.stderrLines.Load(),
		StderrLost:  s.diagnostics.Dropped(),
		Oversized:   s.oversized.Load(),
		Elapsed:     time.Since(s.start),
		Alive:       s.Alive(),
		Reason:      s.Reason(),
	}
}
