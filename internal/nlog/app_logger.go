package nlog

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
)

type Logger interface {
	Logf(format string, v ...any)
}

type subsystemLogger struct {
	name string
	app  *AppLogger
}

func (s *subsystemLogger) Logf(format string, v ...any) {
	s.app.Logf(s.name, format, v...)
}

type logEntry struct {
	name      string
	formatted string
}

// AppLogger fans log lines from every subsystem into a single writer.
// Writes go through an inbox channel drained by Run, so logging from the
// request path never blocks on I/O.
type AppLogger struct {
	lock       sync.RWMutex
	out        io.Writer
	logMapper  map[string]*log.Logger
	currentLog func(*log.Logger, string, ...any)

	inbox chan logEntry
}

func NewAppLogger(out io.Writer, logging bool) *AppLogger {
	a := &AppLogger{
		out:        out,
		logMapper:  make(map[string]*log.Logger),
		currentLog: nilLogf,
		inbox:      make(chan logEntry, 600),
	}
	if logging {
		a.currentLog = defaultLogf
	}
	return a
}

// Subsystem returns a logger whose lines carry the subsystem's prefix.
func (a *AppLogger) Subsystem(name string) Logger {
	a.lock.Lock()
	defer a.lock.Unlock()

	if _, ok := a.logMapper[name]; !ok {
		a.logMapper[name] = log.New(a.out, fmt.Sprintf("[linq/%s]: ", name), log.Ldate|log.Ltime)
	}
	return &subsystemLogger{name, a}
}

func (a *AppLogger) EnableLogging() {
	a.lock.Lock()
	a.currentLog = defaultLogf
	a.lock.Unlock()
}

func (a *AppLogger) DisableLogging() {
	a.lock.Lock()
	a.currentLog = nilLogf
	a.lock.Unlock()
}

// Logf queues a line for the drain loop. When nothing drains the inbox
// anymore (shutdown) the line is dropped instead of blocking the caller.
func (a *AppLogger) Logf(name, format string, v ...any) {
	select {
	case a.inbox <- logEntry{name, fmt.Sprintf(format, v...)}:
	default:
	}
}

func (a *AppLogger) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-a.inbox:
			a.actualWrite(msg.name, msg.formatted)
		}
	}
}

func (a *AppLogger) actualWrite(name, formatted string) {
	a.lock.RLock()
	logFunc := a.currentLog
	logger, ok := a.logMapper[name]
	a.lock.RUnlock()

	if ok && logFunc != nil {
		logFunc(logger, formatted)
	}
}

func defaultLogf(l *log.Logger, format string, a ...any) {
	l.Printf(format, a...)
}

func nilLogf(*log.Logger, string, ...any) {}
