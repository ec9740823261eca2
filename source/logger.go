package source

import "github.com/sirupsen/logrus"

// log 子进程输入模块的日志记录器
var log = logrus.WithField("module", "source")
