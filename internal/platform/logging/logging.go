package logging

import (
	"encoding/json"
	"io"
	"time"
)

// Logger writes JSON-lines events. Every skip, correction, recovery and
// delivery failure in the watcher goes through here so state changes can be
// audited after the fact.
type Logger struct {
	out io.Writer
}

type event struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

func New(out io.Writer) *Logger {
	return &Logger{out: out}
}

// Discard returns a logger that drops everything, for tests.
func Discard() *Logger {
	return &Logger{out: io.Discard}
}

func (l *Logger) Debug(message string, fields map[string]any) { l.write("debug", message, fields) }
func (l *Logger) Info(message string, fields map[string]any)  { l.write("info", message, fields) }
func (l *Logger) Warn(message string, fields map[string]any)  { l.write("warn", message, fields) }
func (l *Logger) Error(message string, fields map[string]any) { l.write("error", message, fields) }

func (l *Logger) write(level, message string, fields map[string]any) {
	evt := event{
		Timestamp: time.Now().Format(time.RFC3339),
		Level:     level,
		Message:   message,
		Fields:    fields,
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return
	}
	payload = append(payload, '\n')
	_, _ = l.out.Write(payload)
}
