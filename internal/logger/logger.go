package logger

import (
	"encoding/json"
	"io"
	"log"
	"maps"
	"os"
	"strings"
	"time"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

// Logger writes level-filtered JSON lines.
type Logger struct {
	level  Level
	logger *log.Logger
}

type logEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// New creates a logger. A nil output means stderr, which keeps stdout free
// for the menu and list output.
func New(level string, output io.Writer) *Logger {
	if output == nil {
		output = os.Stderr
	}

	return &Logger{
		level:  parseLevel(level),
		logger: log.New(output, "", 0),
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New("FATAL", io.Discard)
}

func parseLevel(level string) Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

func (l *Logger) writeLogEntry(level Level, message string, fields map[string]any) {
	if l.level > level {
		return
	}

	entry := logEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     getLevelName(level),
		Message:   message,
		Fields:    fields,
	}

	if data, err := json.Marshal(entry); err == nil {
		l.logger.Println(string(data))
	} else {
		l.logger.Printf("[%s] %s", entry.Level, message)
	}
}

func getLevelName(level Level) string {
	switch level {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
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

func first(fields []map[string]any) map[string]any {
	if len(fields) > 0 {
		return fields[0]
	}
	return nil
}

func (l *Logger) Debug(message string, fields ...map[string]any) {
	l.writeLogEntry(DEBUG, message, first(fields))
}

func (l *Logger) Info(message string, fields ...map[string]any) {
	l.writeLogEntry(INFO, message, first(fields))
}

func (l *Logger) Warn(message string, fields ...map[string]any) {
	l.writeLogEntry(WARN, message, first(fields))
}

func (l *Logger) Error(message string, fields ...map[string]any) {
	l.writeLogEntry(ERROR, message, first(fields))
}

// Task logs a DEBUG entry tagged with the task id and the store operation.
func (l *Logger) Task(taskID, op string, fields ...map[string]any) {
	allFields := map[string]any{
		"task_id": taskID,
		"op":      op,
		"type":    "task",
	}

	if f := first(fields); f != nil {
		maps.Copy(allFields, f)
	}

	l.writeLogEntry(DEBUG, "task "+op, allFields)
}
