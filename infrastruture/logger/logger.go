// Package logger writes colour-tagged, levelled log lines for one component.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/beka-birhanu/maze-runner/config"
	"github.com/beka-birhanu/maze-runner/service/i"
)

var _ i.Logger = &Logger{}

// Logger prefixes every line with the component tag in its colour.
type Logger struct {
	tag string
	out *log.Logger
}

// New creates a Logger writing to w. prefix names the component, color is
// one of the config colour constants.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if w == nil {
		return nil, errors.New("logger writer is nil")
	}
	if prefix == "" {
		return nil, errors.New("logger prefix is empty")
	}

	return &Logger{
		tag: fmt.Sprintf("%s[%s]%s", color, prefix, config.ColorReset),
		out: log.New(w, "", log.LstdFlags),
	}, nil
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.write(config.LogInfoColor, "INFO", msg)
}

// Warning logs a recoverable problem.
func (l *Logger) Warning(msg string) {
	l.write(config.LogWarningColor, "WARNING", msg)
}

// Error logs a failure.
func (l *Logger) Error(msg string) {
	l.write(config.LogErrorColor, "ERROR", msg)
}

func (l *Logger) write(color, level, msg string) {
	l.out.Printf("%s %s[%s]%s %s", l.tag, color, level, config.LogColorReset, msg)
}
