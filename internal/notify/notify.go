// Package notify is the user-facing notification seam. Controllers report
// outcomes here instead of printing, so tests can assert on what the user
// would have seen.
package notify

import (
	"log"
	"sync"
)

type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

type Notifier interface {
	Notify(level Level, message string)
}

// Log writes notifications to the standard logger.
type Log struct{}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Notify(level Level, message string) {
	log.Printf("[%s] %s", level, message)
}

// Entry is one recorded notification.
type Entry struct {
	Level   Level
	Message string
}

// Recorder captures notifications for tests. Safe for concurrent use; the
// realtime bridge notifies from its read goroutine.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: message})
}

func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Message
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}
