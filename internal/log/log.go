// Package log is the shared logrus front end for the library and the CLI.
// Result lines go to stdout and are printed even when the run is silenced,
// so scripts can still collect the paths of saved screenshots.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Levels re-exported so callers do not import logrus directly.
const (
	DebugLevel = logrus.DebugLevel
	InfoLevel  = logrus.InfoLevel
	WarnLevel  = logrus.WarnLevel
	ErrorLevel = logrus.ErrorLevel
	FatalLevel = logrus.FatalLevel
)

var (
	std     = logrus.New()
	results = logrus.New()
)

// Init names the logger. Safe to call more than once.
func Init(name string) {
	std.SetOutput(os.Stderr)
	std.SetFormatter(&prefixFormatter{name: name})
	results.SetOutput(os.Stdout)
	results.SetFormatter(&prefixFormatter{name: name, bare: true})
}

// SetLevel adjusts the verbosity of the standard logger. Result lines are
// unaffected.
func SetLevel(level logrus.Level) {
	std.SetLevel(level)
}

// SetOutput redirects both loggers to w. Used by tests.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
	results.SetOutput(w)
}

func Debugf(format string, args ...interface{}) { std.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { std.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { std.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { std.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { std.Fatalf(format, args...) }

func Debug(args ...interface{}) { std.Debug(args...) }
func Info(args ...interface{})  { std.Info(args...) }
func Warn(args ...interface{})  { std.Warn(args...) }
func Error(args ...interface{}) { std.Error(args...) }

// Resultf prints an outcome line regardless of the configured level.
func Resultf(format string, args ...interface{}) { results.Infof(format, args...) }

type prefixFormatter struct {
	name string
	bare bool
}

func (f *prefixFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if f.bare {
		return []byte(fmt.Sprintf("[%s] %s\n", f.name, entry.Message)), nil
	}
	return []byte(fmt.Sprintf("[%s] (%s) %s\n", f.name, levelTag(entry.Level), entry.Message)), nil
}

func levelTag(level logrus.Level) string {
	switch level {
	case logrus.DebugLevel:
		return "DBG"
	case logrus.InfoLevel:
		return "INF"
	case logrus.WarnLevel:
		return "WRN"
	case logrus.ErrorLevel:
		return "ERR"
	case logrus.FatalLevel:
		return "FTL"
	default:
		return "LOG"
	}
}
