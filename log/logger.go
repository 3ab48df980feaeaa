package log

import (
	"io"
	"os"
	"sync"

	"github.com/op/go-logging"
)

type Level logging.Level

// The levels that can be passed to the SetLevel function.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

// consoleFormat is colored, as it is meant for a terminal.
var consoleFormat = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

// fileFormat is used for log files.
var fileFormat = logging.MustStringFormatter(
	`[%{time:2006-01-02 15:04:05.000}] [%{module}] [%{level}] %{message}`,
)

var (
	mu             sync.Mutex
	console        io.Writer
	files          []io.Writer
	level          = Notice
	leveledBackend logging.LeveledBackend
)

// Logger is the logger interface used across renderq.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New creates a new named logger.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink overrides the console output sink.
func SetSink(sink io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	console = sink
	rebuild()
}

// AddFile makes every log record also be written to w, without colors.
func AddFile(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	files = append(files, w)
	rebuild()
}

// SetLevel sets logger verbosity.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
	leveledBackend.SetLevel(toLogging(level), "")
}

// rebuild recreates the backends. mu should be held.
func rebuild() {
	backends := make([]logging.Backend, 0, 1+len(files))
	if console != nil {
		b := logging.NewLogBackend(console, "", 0)
		backends = append(backends, logging.NewBackendFormatter(b, consoleFormat))
	}
	for _, f := range files {
		b := logging.NewLogBackend(f, "", 0)
		backends = append(backends, logging.NewBackendFormatter(b, fileFormat))
	}
	leveledBackend = logging.SetBackend(logging.MultiLogger(backends...))
	leveledBackend.SetLevel(toLogging(level), "")
}

func toLogging(l Level) logging.Level {
	switch l {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	}
	return logging.NOTICE
}

func init() {
	SetSink(os.Stderr)
}
