package logger

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

func parseLevel(s string) level {
	switch s {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (l level) String() string {
	switch l {
	case levelDebug:
		return "debug"
	case levelWarn:
		return "warn"
	case levelError:
		return "error"
	default:
		return "info"
	}
}

// Hook receives every emitted entry after level filtering. Used to feed
// log-driven alerting without a second write path.
type Hook func(entry map[string]any)

type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	min   level
	hooks []Hook
}

func New(minLevel string) *Logger {
	return &Logger{
		out: os.Stdout,
		min: parseLevel(minLevel),
	}
}

// SetOutput redirects log output, primarily for tests.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

func (l *Logger) AddHook(h Hook) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks = append(l.hooks, h)
}

func (l *Logger) Debug(msg string, fields map[string]any) { l.log(levelDebug, msg, fields) }
func (l *Logger) Info(msg string, fields map[string]any)  { l.log(levelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields map[string]any)  { l.log(levelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields map[string]any) { l.log(levelError, msg, fields) }

func (l *Logger) log(lv level, msg string, fields map[string]any) {
	if lv < l.min {
		return
	}

	entry := map[string]any{
		"ts":    time.Now().Format(time.RFC3339),
		"level": lv.String(),
		"msg":   msg,
	}
	for k, v := range fields {
		entry[k] = v
	}

	b, err := json.Marshal(entry)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(append(b, '\n'))
	for _, h := range l.hooks {
		h(entry)
	}
}
