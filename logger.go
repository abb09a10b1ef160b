package ldsc

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/carbocation/pfx"
)

// Logger mirrors every message to a run log file in addition to the
// standard logger. Every write is flushed to disk immediately so that
// the log survives the process being killed by a cluster scheduler
// partway through a run.
type Logger struct {
	mu   sync.Mutex
	file *os.File

	// Path is the location of the log file.
	Path string
}

// NewLogger creates (or truncates) the log file at path.
func NewLogger(path string) (*Logger, error) {
	expanded, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(expanded)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return &Logger{file: f, Path: expanded}, nil
}

// Println logs its arguments to the log file and to the standard
// logger.
func (l *Logger) Println(v ...interface{}) {
	l.emit(fmt.Sprintln(v...))
}

// Printf logs a formatted message to the log file and to the standard
// logger.
func (l *Logger) Printf(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	if len(msg) == 0 || msg[len(msg)-1] != '\n' {
		msg += "\n"
	}
	l.emit(msg)
}

func (l *Logger) emit(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	log.Print(msg)

	if l.file == nil {
		return
	}
	if _, err := l.file.WriteString(msg); err != nil {
		log.Println("logger:", err)
		return
	}
	if err := l.file.Sync(); err != nil {
		log.Println("logger:", err)
	}
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// SecondsToText renders an elapsed duration in the d:h:m:s style used
// in run logs.
func SecondsToText(d time.Duration) string {
	seconds := int64(d.Seconds())

	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	seconds = seconds % 60

	out := ""
	if days > 0 {
		out += fmt.Sprintf("%dd:", days)
	}
	if hours > 0 || out != "" {
		out += fmt.Sprintf("%dh:", hours)
	}
	if minutes > 0 || out != "" {
		out += fmt.Sprintf("%dm:", minutes)
	}
	out += fmt.Sprintf("%ds", seconds)

	return out
}
