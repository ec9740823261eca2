package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"connectrpc.com/connect"
	"github.com/tsinghua-fib-lab/signal-monitor/state"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// FrameProcedure 获取最新帧的RPC路径
	FrameProcedure = "/signalmonitor.v1.FrameService/GetLatestFrame"
)

var (
	ErrNoFrame = errors.New("no frame rendered yet")
)

// FrameServer 远程渲染器
// 功能：保存最新一帧，通过connect RPC提供给远程查看者
// 说明：只保留最新帧，不排队；会话结束后仍可获取最后一帧
type FrameServer struct {
	latest atomic.Pointer[structpb.Struct]
	closed atomic.Bool
}

func NewFrameServer() *FrameServer {
	return &FrameServer{}
}

// Render 把帧转换为protobuf Struct并替换最新帧
func (s *FrameServer) Render(frame *state.Snapshot) error {
	raw, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal frame %d: %w", frame.Tick(), err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("unmarshal frame %d: %w", frame.Tick(), err)
	}
	pb, err := structpb.NewStruct(doc)
	if err != nil {
		return fmt.Errorf("convert frame %d: %w", frame.Tick(), err)
	}
	s.latest.Store(pb)
	return nil
}

// Close 标记会话结束，最后一帧继续可获取
func (s *FrameServer) Close() error {
	s.closed.Store(true)
	return nil
}

// Handler 返回RPC路径与处理器，供挂载到http.ServeMux
func (s *FrameServer) Handler() (string, http.Handler) {
	return FrameProcedure, connect.NewUnaryHandler(FrameProcedure, s.GetLatestFrame)
}

// GetLatestFrame 获取最新帧
// 返回：最新帧；会话结束后响应头Signal-Monitor-Done为true；尚无帧时返回Unavailable
func (s *FrameServer) GetLatestFrame(
	ctx context.Context, req *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	frame := s.latest.Load()
	if frame == nil {
		return nil, connect.NewError(connect.CodeUnavailable, ErrNoFrame)
	}
	res := connect.NewResponse(frame)
	res.Header().Set("Signal-Monitor-Done", fmt.Sprint(s.closed.Load()))
	return res, nil
}

// RunServer 启动远程渲染服务，ctx取消时关闭
func RunServer(ctx context.Context, address string, fs *FrameServer) error {
	mux := http.NewServeMux()
	mux.Handle(fs.Handler())
	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warnf("shutdown frame server err: %v", err)
		}
	}()

	log.Infof("Frame server listening at %v", address)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
