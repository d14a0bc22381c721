package internal

import (
	"fmt"
	"io"
	"time"

	"github.com/maddenp/iotaa-go"
)

// cliLogger writes iotaa diagnostics to the process's standard error
// stream, optionally colorizing the ✔/✖ markers when the stream is a
// terminal (spec.md ADDED "Terminal detection" — plain text when output is
// redirected to a file or pipe).
type cliLogger struct {
	w        io.Writer
	minLevel iotaa.Level
	color    bool
}

func newCLILogger(w io.Writer, minLevel iotaa.Level, color bool) *cliLogger {
	return &cliLogger{w: w, minLevel: minLevel, color: color}
}

const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

func (l *cliLogger) Log(level iotaa.Level, taskName, message string) {
	if level < l.minLevel {
		return
	}
	if l.color {
		message = colorizeMarkers(message)
	}
	fmt.Fprintf(l.w, "[%s] %s  %s: %s\n", time.Now().Format(time.RFC3339), level, taskName, message)
}

func colorizeMarkers(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '✔':
			out = append(out, []rune(ansiGreen+"✔"+ansiReset)...)
		case '✖':
			out = append(out, []rune(ansiRed+"✖"+ansiReset)...)
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
