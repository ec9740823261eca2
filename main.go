package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/signal-monitor/render"
	"github.com/tsinghua-fib-lab/signal-monitor/source"
	"github.com/tsinghua-fib-lab/signal-monitor/task"
	"github.com/tsinghua-fib-lab/signal-monitor/utils/config"
)

var (
	// 配置文件路径
	configPath = flag.String("config", "", "config file path")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// 模拟器可执行文件路径，覆盖配置中的simulator.path；命令行剩余参数覆盖simulator.args
	simulatorPath = flag.String("simulator", "", "simulator executable path (overrides simulator.path)")
	// 远程渲染监听地址，覆盖配置中的render.listen
	listenAddr = flag.String("listen", "", "frame server listening address (overrides render.listen), e.g. :51102")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "monitor")
)

func main() {
	os.Exit(run())
}

// run 运行一次监控会话，返回进程退出码；所有defer在退出前执行
func run() int {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// log: 运行时才修改
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}
	// 获取配置
	c, err := config.Load(*configPath, *configData)
	if err != nil {
		log.Panicf("config load err: %v", err)
	}
	if *simulatorPath != "" {
		c.Simulator.Path = *simulatorPath
	}
	if flag.NArg() > 0 {
		c.Simulator.Args = flag.Args()
	}
	if *listenAddr != "" {
		c.Render.Listen = *listenAddr
	}
	rc, err := config.NewRuntimeConfig(c)
	if err != nil {
		log.Panicf("config err: %v", err)
	}
	log.Infof("%+v", rc.All)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 渲染器
	var sinks render.Multi
	var frameServer *render.FrameServer
	if rc.R.Listen != "" {
		frameServer = render.NewFrameServer()
		sinks = append(sinks, frameServer)
		go func() {
			if err := render.RunServer(ctx, rc.R.Listen, frameServer); err != nil {
				log.Errorf("frame server err: %v", err)
			}
		}()
	}
	if rc.R.Terminal || len(sinks) == 0 {
		sinks = append(sinks, render.NewTerminal(os.Stdout, true))
	}

	src, err := source.Start(ctx, source.OptionsFromConfig(rc))
	if err != nil {
		log.Panicf("%v", err)
	}

	t := task.NewContext(rc, src, sinks)
	if err := t.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("monitor err: %v", err)
	}
	if t.RenderErr() != nil {
		return 1
	}
	// 会话结束后继续提供最后一帧，直到收到中断信号
	if frameServer != nil && ctx.Err() == nil {
		log.Info("session ended, serving the last frame until interrupted")
		<-ctx.Done()
	}
	return 0
}
