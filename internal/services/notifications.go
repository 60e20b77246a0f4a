package services

import (
	"log"
	"sync"
)

// Notifier hears about best-effort work that failed without the caller
// being told, such as the profile created right after registration.
type Notifier interface {
	BestEffortFailed(op string, err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(op string, err error)

func (f NotifierFunc) BestEffortFailed(op string, err error) { f(op, err) }

// LogNotifier writes failures to a logger.
type LogNotifier struct {
	Logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &LogNotifier{Logger: logger}
}

func (n *LogNotifier) BestEffortFailed(op string, err error) {
	n.Logger.Printf("%s failed (ignored): %v", op, err)
}

// Failure is one recorded best-effort failure.
type Failure struct {
	Op  string
	Err error
}

// RecordingNotifier keeps failures in memory so callers can inspect them later.
type RecordingNotifier struct {
	mu       sync.Mutex
	failures []Failure
}

func (r *RecordingNotifier) BestEffortFailed(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, Failure{Op: op, Err: err})
}

// Failures returns a copy of what was recorded so far.
func (r *RecordingNotifier) Failures() []Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Failure(nil), r.failures...)
}
