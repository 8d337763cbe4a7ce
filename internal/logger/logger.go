package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Leveled console logger. Metadata is printed white, the message in a
// per-level colour. Complex arguments are pretty-printed as JSON on
// their own lines so structs stay readable in the terminal.

type LogLevel int

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorOrange  = "\033[38;5;208m"
)

const (
	DEBUG LogLevel = iota
	INFO
	INFORM
	HIGHLIGHT
	WARN
	ERROR
	FATAL
)

type Logger struct {
	out   *log.Logger
	err   *log.Logger
	level LogLevel
}

var defaultLogger *Logger

func init() {
	defaultLogger = New(INFO)
}

func New(level LogLevel) *Logger {
	return &Logger{
		out:   log.New(os.Stdout, "", 0),
		err:   log.New(os.Stderr, "", 0),
		level: level,
	}
}

// SetLevel adjusts the default logger's threshold.
func SetLevel(level LogLevel) {
	defaultLogger.level = level
}

// SetOutput redirects both streams, used by tests to keep output quiet.
func SetOutput(w io.Writer) {
	defaultLogger.out = log.New(w, "", 0)
	defaultLogger.err = log.New(w, "", 0)
}

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case INFORM:
		return "INFORM"
	case HIGHLIGHT:
		return "HIGHLIGHT"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) color() string {
	switch l {
	case DEBUG:
		return colorBlue
	case INFO:
		return colorGreen
	case INFORM:
		return colorMagenta
	case HIGHLIGHT:
		return colorCyan
	case WARN:
		return colorYellow
	case ERROR:
		return colorOrange
	case FATAL:
		return colorRed
	default:
		return colorReset
	}
}

func (l *Logger) log(level LogLevel, format string, v ...any) {
	if level < l.level {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
		line = 0
	}
	file = filepath.Base(file)

	msg := format
	var jsonObjects []string
	if len(v) > 0 {
		var parts []string
		parts, jsonObjects = renderArgs(v...)
		if len(parts) > 0 {
			msg = fmt.Sprintf("%s %s", format, strings.Join(parts, " "))
		}
	}

	target := l.out
	if level >= ERROR {
		target = l.err
	}
	color := level.color()
	target.Printf("[%s] %s:%d: %s%s%s", level, file, line, color, msg, colorReset)
	for _, obj := range jsonObjects {
		target.Printf("[%s] %s:%d: %s%s%s", level, file, line, color, obj, colorReset)
	}
}

// renderArgs stringifies primitives inline and marshals everything else
// to indented JSON returned separately.
func renderArgs(args ...any) ([]string, []string) {
	var parts []string
	var jsonObjects []string
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			parts = append(parts, "nil")
		case string:
			parts = append(parts, v)
		case error:
			parts = append(parts, v.Error())
		case float32:
			parts = append(parts, fmt.Sprintf("%.2f", v))
		case float64:
			parts = append(parts, fmt.Sprintf("%.2f", v))
		case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			parts = append(parts, fmt.Sprintf("%v", v))
		default:
			b, err := json.MarshalIndent(arg, "", "  ")
			if err != nil {
				parts = append(parts, fmt.Sprintf("%v", arg))
				continue
			}
			jsonObjects = append(jsonObjects, string(b))
		}
	}
	return parts, jsonObjects
}

func Debug(format string, v ...any) {
	defaultLogger.log(DEBUG, format, v...)
}

func Info(format string, v ...any) {
	defaultLogger.log(INFO, format, v...)
}

func Inform(format string, v ...any) {
	defaultLogger.log(INFORM, format, v...)
}

func Highlight(format string, v ...any) {
	defaultLogger.log(HIGHLIGHT, format, v...)
}

func Warn(format string, v ...any) {
	defaultLogger.log(WARN, format, v...)
}

func Error(format string, v ...any) {
	defaultLogger.log(ERROR, format, v...)
}

func Fatal(format string, v ...any) {
	defaultLogger.log(FATAL, format, v...)
	os.Exit(1)
}
