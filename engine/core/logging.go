package core

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var once sync.Once

type logger struct {
	*log.Logger
	runID string
}

var singleton *logger

func getLogger() *logger {
	if singleton == nil {
		once.Do(
			func() {
				singleton = newLogger(os.Stderr)
			})
	}
	return singleton
}

func newLogger(w io.Writer) *logger {
	runID := uuid.New().String()
	l := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "Bindless 🏎️ ",
		CallerOffset:    1,
	})
	l.SetLevel(log.InfoLevel)
	return &logger{Logger: l.With("run", runID[:8]), runID: runID}
}

// SetLogLevel accepts debug, info, warn, error and fatal. Unknown
// levels leave the current level in place and return false.
func SetLogLevel(level string) bool {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return false
	}
	getLogger().SetLevel(lvl)
	return true
}

func ParseLogLevel(level string) (log.Level, error) {
	return log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
}

// SetLogOutput redirects the engine logger. Used by tests.
func SetLogOutput(w io.Writer) {
	getLogger().SetOutput(w)
}

// RunID identifies this process in the log stream.
func RunID() string {
	return getLogger().runID
}

func LogDebug(msg string, args ...interface{}) {
	getLogger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...interface{}) {
	getLogger().Infof(msg, args...)
}

func LogWarn(msg string, args ...interface{}) {
	getLogger().Warnf(msg, args...)
}

func LogError(msg string, args ...interface{}) {
	getLogger().Errorf(msg, args...)
}

func LogFatal(msg string, args ...interface{}) {
	getLogger().Fatalf(msg, args...)
}
