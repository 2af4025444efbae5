package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
	ColorRed    = "\033[31m"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel maps a config string onto a LogLevel. Unknown values fall back to info.
func ParseLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, true
	case "info", "":
		return LogLevelInfo, true
	case "warn", "warning":
		return LogLevelWarn, true
	case "error":
		return LogLevelError, true
	default:
		return LogLevelInfo, false
	}
}

var (
	mu          sync.RWMutex
	globalLevel = LogLevelInfo
	output      io.Writer = os.Stdout
)

// SetGlobalLevel changes the level picked up by every subsequent New().
func SetGlobalLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	globalLevel = level
}

// SetOutput redirects all loggers. Returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := output
	output = w
	return prev
}

type Log struct {
	level  LogLevel
	err    error
	fields map[string]string
}

func New() *Log {
	mu.RLock()
	defer mu.RUnlock()
	return &Log{
		level: globalLevel,
	}
}

func (l *Log) SetLevel(level LogLevel) {
	l.level = level
}

func (l *Log) clone() *Log {
	c := &Log{level: l.level, err: l.err}
	if len(l.fields) > 0 {
		c.fields = make(map[string]string, len(l.fields))
		for k, v := range l.fields {
			c.fields[k] = v
		}
	}
	return c
}

func (l *Log) WithError(err error) *Log {
	c := l.clone()
	c.err = err
	return c
}

func (l *Log) WithField(key string, value any) *Log {
	c := l.clone()
	if c.fields == nil {
		c.fields = make(map[string]string, 1)
	}
	c.fields[key] = fmt.Sprint(value)
	return c
}

func (l *Log) timestamp() string {
	return time.Now().Format("15:04:05")
}

func (l *Log) suffix() string {
	if len(l.fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, l.fields[k])
	}
	return b.String()
}

func (l *Log) write(level LogLevel, color, icon, msg string) {
	if level < l.level {
		return
	}

	mu.RLock()
	w := output
	mu.RUnlock()

	if l.err != nil {
		fmt.Fprintf(w, "%s[%s]%s %s %s: %v%s%s\n", color, l.timestamp(), ColorReset, icon, msg, l.err, l.suffix(), ColorReset)
		return
	}
	fmt.Fprintf(w, "%s[%s]%s %s %s%s%s\n", color, l.timestamp(), ColorReset, icon, msg, l.suffix(), ColorReset)
}

func (l *Log) Debug(msg string) {
	l.write(LogLevelDebug, ColorCyan, "🔍", msg)
}

func (l *Log) Info(msg string) {
	l.write(LogLevelInfo, ColorBlue, "ℹ️ ", msg)
}

func (l *Log) Warn(msg string) {
	l.write(LogLevelWarn, ColorYellow, "⚠️ ", msg)
}

func (l *Log) Error(msg string) {
	l.write(LogLevelError, ColorRed, "❌", msg)
}
