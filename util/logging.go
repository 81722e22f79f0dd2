package util

import "github.com/sirupsen/logrus"

// Logger is shared by every package of the module.
var Logger = logrus.New()

func SetVerbose() {
	Logger.SetLevel(logrus.DebugLevel)
}
