// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

// LevelEnv names the environment variable that selects the log level.
const LevelEnv = "RSHEET_LOG"

// tracePrefix marks debug entries written by Tracef.
const tracePrefix = "TRACE: "

// levels maps RSHEET_LOG values to apex levels. trace is debug plus the
// messages written by Tracef.
var levels = map[string]log.Level{
	"trace": log.DebugLevel,
	"debug": log.DebugLevel,
	"info":  log.InfoLevel,
	"warn":  log.WarnLevel,
	"error": log.ErrorLevel,
	"fatal": log.FatalLevel,
}

var letters = map[log.Level]string{
	log.DebugLevel: "D",
	log.InfoLevel:  "I",
	log.WarnLevel:  "W",
	log.ErrorLevel: "E",
	log.FatalLevel: "F",
}

var traceEnabled bool

// InitLogger installs Handler on stderr at the level named by RSHEET_LOG,
// error when unset or unknown. stdout is left to command output.
func InitLogger() {
	name := strings.ToLower(os.Getenv(LevelEnv))
	level, ok := levels[name]
	if !ok {
		name, level = "error", log.ErrorLevel
	}
	traceEnabled = name == "trace"

	log.SetHandler(&Handler{W: os.Stderr})
	log.SetLevel(level)
}

// Handler writes one "<time> <level letter> <message> <fields>" line per
// entry. Fields are sorted by name.
type Handler struct {
	W io.Writer

	mu sync.Mutex
}

// HandleLog implements log.Handler.
func (h *Handler) HandleLog(e *log.Entry) error {
	letter, msg := letters[e.Level], e.Message
	if rest, ok := strings.CutPrefix(msg, tracePrefix); ok {
		letter, msg = "T", rest
	}
	if letter == "" {
		letter = "?"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", time.Now().Format(time.DateTime), letter, msg)
	for _, name := range e.Fields.Names() {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields.Get(name))
	}
	b.WriteByte('\n')

	w := h.W
	if w == nil {
		w = os.Stderr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(w, b.String())
	return err
}

// Tracef logs below debug. It is silent unless RSHEET_LOG=trace.
func Tracef(format string, args ...interface{}) {
	if traceEnabled {
		log.Debug(tracePrefix + fmt.Sprintf(format, args...))
	}
}

// Debugf logs at debug level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// WithError returns an entry carrying err.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}
