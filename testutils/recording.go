package testutils

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/ducka/go-kayak-animals/schedulers"
)

// LogLine is one line captured by a RecordingLogger.
type LogLine struct {
	Level    string
	Activity string
	Message  string
	// Context is the execution context the line was written from, as reported by the logger's probe.
	Context string
}

// RecordingLogger captures log lines in memory so tests can assert on them.
type RecordingLogger struct {
	mu    sync.Mutex
	lines []LogLine
	probe func() string
}

// NewRecordingLogger records lines. When a probe is supplied, its result is stored against each line.
func NewRecordingLogger(probe ...func() string) *RecordingLogger {
	l := &RecordingLogger{probe: func() string { return "" }}
	if len(probe) > 0 && probe[0] != nil {
		l.probe = probe[0]
	}
	return l
}

func (l *RecordingLogger) Debug(activity string, message string) { l.record("debug", activity, message) }
func (l *RecordingLogger) Info(activity string, message string)  { l.record("info", activity, message) }
func (l *RecordingLogger) Warn(activity string, message string)  { l.record("warn", activity, message) }
func (l *RecordingLogger) Error(activity string, message string) { l.record("error", activity, message) }

func (l *RecordingLogger) record(level, activity, message string) {
	context := l.probe()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, LogLine{Level: level, Activity: activity, Message: message, Context: context})
}

func (l *RecordingLogger) Lines() []LogLine {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogLine(nil), l.lines...)
}

func (l *RecordingLogger) Messages() []string {
	lines := l.Lines()
	messages := make([]string, 0, len(lines))
	for _, line := range lines {
		messages = append(messages, line.Message)
	}
	return messages
}

// TrackingScheduler wraps a scheduler and records which goroutines are executing its tasks.
type TrackingScheduler struct {
	schedulers.Scheduler
	scheduled atomic.Int32

	mu sync.Mutex
	// active counts the tasks each goroutine is currently executing
	active map[uint64]int
}

func NewTrackingScheduler(scheduler schedulers.Scheduler) *TrackingScheduler {
	return &TrackingScheduler{Scheduler: scheduler, active: make(map[uint64]int)}
}

func (s *TrackingScheduler) Schedule(task func()) error {
	s.scheduled.Add(1)
	return s.Scheduler.Schedule(func() {
		id := goroutineID()
		s.enter(id)
		defer s.leave(id)
		task()
	})
}

// Running reports whether the calling goroutine is executing a task scheduled through this
// scheduler. Tasks running on other goroutines at the same time don't count.
func (s *TrackingScheduler) Running() bool {
	id := goroutineID()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[id] > 0
}

func (s *TrackingScheduler) ScheduledCount() int {
	return int(s.scheduled.Load())
}

func (s *TrackingScheduler) enter(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[id]++
}

func (s *TrackingScheduler) leave(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[id]--
	if s.active[id] == 0 {
		delete(s.active, id)
	}
}

// goroutineID parses the calling goroutine's id out of the "goroutine N [running]:" stack header.
func goroutineID() uint64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	if i := bytes.IndexByte(buf, ' '); i >= 0 {
		buf = buf[:i]
	}

	id, err := strconv.ParseUint(string(buf), 10, 64)
	if err != nil {
		panic(fmt.Sprintf("cannot parse goroutine id from %q", buf))
	}
	return id
}
