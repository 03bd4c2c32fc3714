package log

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pola/git-parameter-plugin/common"
)

const (
	JsonFormat = "json"
	TextFormat = "text"
)

// NewWithCurrentConfig create logrus logger by using current configuration
func NewWithCurrentConfig() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(CreateFormatter(os.Getenv(common.EnvLogFormat)))
	l.SetLevel(createLogLevel())
	return l
}

// CreateFormatter create logrus formatter by string
func CreateFormatter(logFormat string) logrus.Formatter {
	var formatType logrus.Formatter
	switch strings.ToLower(logFormat) {
	case JsonFormat:
		formatType = &logrus.JSONFormatter{}
	case TextFormat:
		formatType = &logrus.TextFormatter{
			ForceColors:   checkForceLogColors(),
			FullTimestamp: checkEnableFullTimestamp(),
		}
	default:
		formatType = &logrus.TextFormatter{
			FullTimestamp: checkEnableFullTimestamp(),
		}
	}

	return formatType
}

// SetupGlobal configures the standard logger from the given format and level. Empty values fall
// back to the environment.
func SetupGlobal(logFormat, logLevel string) error {
	if logFormat == "" {
		logFormat = os.Getenv(common.EnvLogFormat)
	}
	logrus.SetFormatter(CreateFormatter(logFormat))
	if logLevel == "" {
		logrus.SetLevel(createLogLevel())
		return nil
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	return nil
}

func createLogLevel() logrus.Level {
	level, err := logrus.ParseLevel(os.Getenv(common.EnvLogLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	return level
}

func checkForceLogColors() bool {
	return strings.ToLower(os.Getenv("FORCE_LOG_COLORS")) == "1"
}

func checkEnableFullTimestamp() bool {
	return strings.ToLower(os.Getenv(common.EnvLogFormatEnableFullTimestamp)) == "1"
}
