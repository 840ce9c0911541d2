// Package trace is a minimal, dependency-free stand-in for a
// schuko/tracing-style selectable tracer: named topics, a Debug/Info/Error
// level each, silent until a caller raises the level. cmd/shapecli is
// the only thing in this module that ever does.
package trace

import (
	"fmt"
	"os"
	"sync"
)

// Level orders trace verbosity; LevelOff is the zero value so every
// Tracer starts silent.
type Level int

const (
	LevelOff Level = iota
	LevelError
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "Error"
	case LevelInfo:
		return "Info"
	case LevelDebug:
		return "Debug"
	default:
		return "Off"
	}
}

// Tracer writes leveled messages for one named topic to stderr.
type Tracer struct {
	name  string
	level Level
}

var (
	mu      sync.Mutex
	tracers = map[string]*Tracer{}
)

// Select returns the Tracer for name, creating it (at LevelOff) on
// first use — mirrors tracing.Select("<topic>")'s registry-by-name
// pattern without its adapter/config machinery.
func Select(name string) *Tracer {
	mu.Lock()
	defer mu.Unlock()
	t, ok := tracers[name]
	if !ok {
		t = &Tracer{name: name}
		tracers[name] = t
	}
	return t
}

// SetTraceLevel changes how much this topic logs.
func (t *Tracer) SetTraceLevel(l Level) { t.level = l }

func (t *Tracer) Debugf(format string, args ...interface{}) { t.logf(LevelDebug, format, args...) }
func (t *Tracer) Infof(format string, args ...interface{})  { t.logf(LevelInfo, format, args...) }
func (t *Tracer) Errorf(format string, args ...interface{}) { t.logf(LevelError, format, args...) }

func (t *Tracer) logf(l Level, format string, args ...interface{}) {
	if l > t.level {
		return
	}
	fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", l, t.name, fmt.Sprintf(format, args...))
}
