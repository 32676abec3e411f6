package log

import (
	"io"
	"log"
	"os"
)

type Level int

const (
	LevelInfo Level = iota
	LevelDebug
)

type Logger struct {
	level Level
	info  *log.Logger
	warn  *log.Logger
	debug *log.Logger
}

func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{
		level: level,
		info:  log.New(out, "INFO: ", log.LstdFlags),
		warn:  log.New(out, "WARN: ", log.LstdFlags),
		debug: log.New(out, "DEBUG: ", log.LstdFlags),
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(LevelInfo, io.Discard)
}

func (l *Logger) Infof(format string, args ...any) {
	l.info.Printf(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.warn.Printf(format, args...)
}

func (l *Logger) Debugf(format string, args ...any) {
	if l.level >= LevelDebug {
		l.debug.Printf(format, args...)
	}
}
