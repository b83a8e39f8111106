package projectlog

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/CUknot/rag-model/config"
)

func Init(cfg *config.Config) {
	logrus.SetFormatter(&JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.GetStringOrDefault(config.AppLogLevel, logrus.InfoLevel.String()))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	logrus.SetReportCaller(cfg.GetBool(config.AppLogReportcaller))
	logrus.SetOutput(os.Stdout)
}
