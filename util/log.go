package util

import (
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"

	jww "github.com/spf13/jwalterweatherman"
)

var (
	loggers = map[string]*Logger{}
	levels  = map[string]jww.Threshold{}

	// OutThreshold is the default console log level
	OutThreshold = jww.LevelError
)

// Logger wraps a jww notepad to avoid leaking implementation detail
type Logger struct {
	*jww.Notepad
	name string
}

// NewLogger creates a logger with the given log area and adds it to the registry
func NewLogger(area string) *Logger {
	if logger, ok := loggers[area]; ok {
		return logger
	}

	level := LogLevelForArea(area)
	notepad := jww.NewNotepad(level, level, os.Stdout, io.Discard, area, log.Ldate|log.Ltime)

	logger := &Logger{
		Notepad: notepad,
		name:    area,
	}
	loggers[area] = logger

	return logger
}

// Loggers invokes callback for each created logger
func Loggers(cb func(string, *Logger)) {
	for name, logger := range loggers {
		cb(name, logger)
	}
}

// LogLevelForArea gets the log level for given log area
func LogLevelForArea(area string) jww.Threshold {
	level, ok := levels[strings.ToLower(area)]
	if !ok {
		level = OutThreshold
	}
	return level
}

// LogLevel sets the default log level and any area-specific overrides
func LogLevel(defaultLevel string, areaLevels map[string]string) {
	OutThreshold = LogLevelToThreshold(defaultLevel)

	for area, level := range areaLevels {
		levels[strings.ToLower(area)] = LogLevelToThreshold(level)
	}

	Loggers(func(name string, logger *Logger) {
		logger.SetStdoutThreshold(LogLevelForArea(name))
	})
}

// LogLevelToThreshold converts a log level string to a jww threshold
func LogLevelToThreshold(level string) jww.Threshold {
	switch strings.ToUpper(level) {
	case "FATAL":
		return jww.LevelFatal
	case "ERROR", "":
		return jww.LevelError
	case "WARN":
		return jww.LevelWarn
	case "INFO":
		return jww.LevelInfo
	case "DEBUG":
		return jww.LevelDebug
	case "TRACE":
		return jww.LevelTrace
	default:
		panic("invalid log level " + level)
	}
}

var uiChan chan<- Param

type uiWriter struct {
	re    *regexp.Regexp
	level string
}

func (w *uiWriter) Write(p []byte) (n int, err error) {
	if uiChan != nil {
		// trim level and timestamp
		s := strings.TrimSpace(w.re.ReplaceAllString(strings.TrimSpace(string(p)), ""))
		if s != "" {
			uiChan <- Param{Key: w.level, Val: s}
		}
	}

	return len(p), nil
}

// CaptureLogs routes warnings and above of all registered loggers to the
// given channel in addition to their normal output
func CaptureLogs(c chan<- Param) {
	uiChan = c

	for _, logger := range loggers {
		captureLogger(logger)
	}
}

func captureLogger(l *Logger) {
	for _, ll := range []struct {
		log   *log.Logger
		level string
	}{
		{l.WARN, "warn"},
		{l.ERROR, "error"},
		{l.FATAL, "fatal"},
	} {
		w := &uiWriter{
			level: ll.level,
			re:    regexp.MustCompile(fmt.Sprintf(`^\[%s\]\s+%s\s+`, l.name, strings.ToUpper(ll.level))),
		}

		ll.log.SetOutput(io.MultiWriter(ll.log.Writer(), w))
	}
}
