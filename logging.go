package yum

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// LogLevel mirrors the original engine's four-level diagnostic scale:
// DEBUG, MESSAGE (informational), WARNING and CRITICAL, collapsed to the
// same integers the original's Python bindings used when bridging glib log
// levels across the C/Python boundary.
type LogLevel int

const (
	LogLevelError   LogLevel = -1
	LogLevelWarning LogLevel = 0
	LogLevelInfo    LogLevel = 1
	LogLevelDebug   LogLevel = 2
)

// LogSink receives every diagnostic the engine produces for one update call.
// It is the only way a host observes anything below a returned error; it
// plays the role the original's optional Python logging callback played.
type LogSink func(level LogLevel, message string)

// logger wraps logrus the way r3e-network-service_layer's pkg/logger does,
// and additionally forwards every entry to the caller-supplied LogSink, if
// any, at the corresponding LogLevel.
type logger struct {
	*logrus.Logger
	sink LogSink
}

func newLogger(sink LogSink) *logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.DebugLevel)
	lg := &logger{Logger: l, sink: sink}
	if sink != nil {
		l.AddHook(&sinkHook{sink: sink})
	}
	return lg
}

// log is the single internal entry point parser.go and updater.go use; it
// satisfies the logFunc signature expected by parseConfig.
func (l *logger) log(level LogLevel, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	switch level {
	case LogLevelDebug:
		l.Debug(msg)
	case LogLevelInfo:
		l.Info(msg)
	case LogLevelWarning:
		l.Warn(msg)
	default:
		l.Error(msg)
	}
}

// sinkHook forwards every logrus entry to the embedder's LogSink at the
// LogLevel matching its logrus level.
type sinkHook struct {
	sink LogSink
}

func (h *sinkHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *sinkHook) Fire(entry *logrus.Entry) error {
	var level LogLevel
	switch entry.Level {
	case logrus.DebugLevel, logrus.TraceLevel:
		level = LogLevelDebug
	case logrus.InfoLevel:
		level = LogLevelInfo
	case logrus.WarnLevel:
		level = LogLevelWarning
	default:
		level = LogLevelError
	}
	h.sink(level, entry.Message)
	return nil
}
