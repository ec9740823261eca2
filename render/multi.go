package render

import (
	"errors"

	"github.com/tsinghua-fib-lab/signal-monitor/state"
)

// Sink 渲染器
type Sink interface {
	Render(frame *state.Snapshot) error
	Close() error
}

// Multi 把每一帧依次交给多个渲染器，任一失败即视为渲染失败
type Multi []Sink

func (m Multi) Render(frame *state.Snapshot) error {
	for _, s := range m {
		if err := s.Render(frame); err != nil {
			return err
		}
	}
	return nil
}

// Close 关闭全部渲染器，返回合并的错误
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
