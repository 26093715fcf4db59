// Package buildlog implements the hierarchical logging facility the
// core's resolver and scheduler report progress through. A scope is
// pushed before doing work and popped on every exit path, backed by
// structured, leveled logging via logrus, with level tags colored using
// fatih/color the way a terminal-facing CLI tool is expected to.
package buildlog

import (
	"fmt"
	"sync"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Level is one of the four log levels the CLI exposes via
// -l/--log-level.
type Level string

const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

func (l Level) logrusLevel() logrus.Level {
	switch l {
	case LevelError:
		return logrus.ErrorLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelDebug:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// frame is one entry of the context stack: the (project, target) scope
// every log line emitted while it's on top gets tagged with.
type frame struct {
	project string
	target  string
}

// Logger implements arbor.Logger on top of logrus. The context stack is
// a plain slice guarded by a mutex: pushes/pops happen on the resolver's
// single call stack, but progress lines may be updated from concurrent
// scheduler waves, so the mutex also protects the progress registry.
type Logger struct {
	entry *logrus.Entry
	color bool

	mu       sync.Mutex
	stack    []frame
	progress map[string]string // id -> label, for CompleteProgress's final line
}

// Config controls how New builds the underlying logrus.Logger.
type Config struct {
	Level   Level
	NoColor bool
}

// New constructs a Logger. A text formatter is used (not JSON) since
// arbor's primary consumer is a human at a terminal; `arbor list --json`
// is a separate, structured-output path that doesn't go through the
// logger at all.
func New(cfg Config) *Logger {
	l := logrus.New()
	l.SetLevel(cfg.Level.logrusLevel())
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:    cfg.NoColor,
		FullTimestamp:    true,
		DisableTimestamp: false,
	})

	if cfg.NoColor {
		color.NoColor = true
	}

	return &Logger{
		entry:    logrus.NewEntry(l),
		color:    !cfg.NoColor,
		progress: make(map[string]string),
	}
}

func (lg *Logger) PushContext(project, target string) {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	lg.stack = append(lg.stack, frame{project: project, target: target})
}

func (lg *Logger) PopContext() {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	if len(lg.stack) == 0 {
		return
	}
	lg.stack = lg.stack[:len(lg.stack)-1]
}

func (lg *Logger) scopedEntry() *logrus.Entry {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	if len(lg.stack) == 0 {
		return lg.entry
	}
	top := lg.stack[len(lg.stack)-1]
	return lg.entry.WithFields(logrus.Fields{
		"project": top.project,
		"target":  top.target,
	})
}

func (lg *Logger) levelTag(label string, c *color.Color) string {
	if !lg.color {
		return label
	}
	return c.Sprint(label)
}

func (lg *Logger) Error(msg string, err error) {
	tag := lg.levelTag("ERROR", color.New(color.FgRed, color.Bold))
	if err != nil {
		lg.scopedEntry().WithError(err).Error(tag + " " + msg)
		return
	}
	lg.scopedEntry().Error(tag + " " + msg)
}

func (lg *Logger) Warn(msg string, err error) {
	tag := lg.levelTag("WARN", color.New(color.FgYellow))
	if err != nil {
		lg.scopedEntry().WithError(err).Warn(tag + " " + msg)
		return
	}
	lg.scopedEntry().Warn(tag + " " + msg)
}

func (lg *Logger) Info(msg string) {
	tag := lg.levelTag("INFO", color.New(color.FgCyan))
	lg.scopedEntry().Info(tag + " " + msg)
}

func (lg *Logger) Debug(msg string) {
	tag := lg.levelTag("DEBUG", color.New(color.FgHiBlack))
	lg.scopedEntry().Debug(tag + " " + msg)
}

// StartProgress begins tracking a named, in-flight line of work and
// returns a stable id (a uuid, as cuelang.org/go uses for similar
// bookkeeping) callers pass back to UpdateProgress/CompleteProgress.
// Concurrent scheduler waves may call this from multiple goroutines at
// once.
func (lg *Logger) StartProgress(label string) string {
	id := uuid.NewString()
	lg.mu.Lock()
	lg.progress[id] = label
	lg.mu.Unlock()
	lg.scopedEntry().Debug(fmt.Sprintf("start %s", label))
	return id
}

func (lg *Logger) UpdateProgress(id, message string) {
	lg.mu.Lock()
	label := lg.progress[id]
	lg.mu.Unlock()
	lg.scopedEntry().Debug(fmt.Sprintf("%s: %s", label, message))
}

func (lg *Logger) CompleteProgress(id, message string) {
	lg.mu.Lock()
	label, ok := lg.progress[id]
	delete(lg.progress, id)
	lg.mu.Unlock()
	if !ok {
		label = id
	}
	lg.scopedEntry().Info(fmt.Sprintf("%s %s", label, message))
}
