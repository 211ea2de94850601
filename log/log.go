// Package log proxies logrus behind the logs.write switch and persists to a
// daily file under the logs directory.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/preshow-cli/preshow/filesystem"
	"github.com/preshow-cli/preshow/key"
	"github.com/preshow-cli/preshow/where"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// KeepFiles is how many daily log files survive Setup.
const KeepFiles = 14

const dayLayout = "2006-01-02"

var enabled bool

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// Setup opens today's log file and applies format and level from the config.
// With logging disabled every call of this package is a no-op.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	dir := where.Logs()
	f, err := filesystem.API().OpenFile(
		filepath.Join(dir, time.Now().Format(dayLayout)+".log"),
		os.O_WRONLY|os.O_CREATE|os.O_APPEND,
		0o644,
	)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if err := prune(dir); err != nil {
		logrus.Warnf("pruning old logs: %v", err)
	}
	return nil
}

// prune removes all but the newest KeepFiles daily logs. Files come back
// sorted by name, which is by date.
func prune(dir string) error {
	files, err := filesystem.Files(dir, ".log")
	if err != nil {
		return err
	}
	if len(files) <= KeepFiles {
		return nil
	}

	for _, f := range files[:len(files)-KeepFiles] {
		if err := filesystem.API().Remove(f); err != nil {
			return err
		}
	}
	return nil
}

// WithRun tags entries with the ID of a show run. The entry discards output
// while logging is disabled.
func WithRun(id string) *logrus.Entry {
	if !enabled {
		return logrus.NewEntry(discard)
	}
	return logrus.WithField("run", id)
}

func Error(args ...any) {
	if enabled {
		logrus.Error(args...)
	}
}

func Errorf(format string, args ...any) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}

func Warn(args ...any) {
	if enabled {
		logrus.Warn(args...)
	}
}

func Warnf(format string, args ...any) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}

func Info(args ...any) {
	if enabled {
		logrus.Info(args...)
	}
}

func Infof(format string, args ...any) {
	if enabled {
		logrus.Infof(format, args...)
	}
}

func Debugf(format string, args ...any) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}
