package render

import "github.com/sirupsen/logrus"

// log 渲染模块的日志记录器
var log = logrus.WithField("module", "render")
