package state

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "state")
