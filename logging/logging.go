package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

// InitLogger sets the level of the process logger.
func InitLogger(level logrus.Level) {
	GetLogger().SetLevel(level)
}

// GetLogger returns the process logger. Packages grab it at init time, so the same
// instance is reconfigured in place rather than replaced.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.SetOutput(os.Stderr)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
		logger.SetLevel(logrus.InfoLevel)
	})
	return logger
}

// ParseLevel maps a config string to a logrus level. debug forces the debug level.
func ParseLevel(s string, debug bool) (logrus.Level, error) {
	if debug {
		return logrus.DebugLevel, nil
	}
	if s == "" {
		return logrus.InfoLevel, nil
	}
	return logrus.ParseLevel(s)
}

// SetOutputFile tees log output into a size-rotated file. The returned closer releases the file.
func SetOutputFile(path string, maxSizeMB, maxBackups, maxAgeDays int) io.Closer {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	GetLogger().SetOutput(io.MultiWriter(os.Stderr, rotator))
	return rotator
}
