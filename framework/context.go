package framework

import (
	"errors"
	"fmt"
	"time"
)

// T is the context handed to hooks and cases. It accumulates failures and
// supports early abort in the style of testing.T; assertion libraries that
// accept an interface with Errorf and FailNow (such as testify's require)
// work against it directly.
//
// A T is owned by the single suite worker running the case and must not be
// shared across goroutines.
type T struct {
	id          TestID
	scratchDir  string
	debugLogger CapturingLogger

	failed   bool
	timedOut bool
	timeout  time.Duration
	errs     []error
}

// timeoutCarrier matches errors that carry an elapsed deadline, such as the
// engine package's TimeoutError, without this package importing it.
type timeoutCarrier interface {
	Timeout() time.Duration
}

// Name returns the suite/case path of the running case.
func (t *T) Name() string { return t.id.String() }

// ScratchDir returns the suite's scratch directory. Files created in it are
// removed when the suite's worker finishes.
func (t *T) ScratchDir() string { return t.scratchDir }

// Errorf records a failure and keeps the case running.
func (t *T) Errorf(format string, args ...interface{}) {
	t.failed = true
	t.errs = append(t.errs, fmt.Errorf(format, args...))
}

// FailNow aborts the case immediately. The runner recovers the panic at the
// case boundary and records the result.
func (t *T) FailNow() {
	t.failed = true
	panic(t)
}

// Fatalf records a failure and aborts the case.
func (t *T) Fatalf(format string, args ...interface{}) {
	t.Errorf(format, args...)
	t.FailNow()
}

// Fatal records err and aborts the case. If err carries a timeout deadline
// the case is recorded as timed out rather than failed.
func (t *T) Fatal(err error) {
	var tc timeoutCarrier
	if errors.As(err, &tc) {
		t.timedOut = true
		t.timeout = tc.Timeout()
	}
	t.failed = true
	t.errs = append(t.errs, err)
	panic(t)
}

// Failed reports whether the case has recorded any failure so far.
func (t *T) Failed() bool { return t.failed }

// Debug records a message that is shown only when debug output is enabled
// for this case's outcome.
func (t *T) Debug(format string, args ...interface{}) {
	t.debugLogger.Printf(format, args...)
}

// DebugLogger exposes the capturing logger so lower layers (for example the
// engine) can write into the same per-case debug stream.
func (t *T) DebugLogger() Logger { return &t.debugLogger }

func (t *T) detail() []string {
	var lines []string
	for _, err := range t.errs {
		for _, l := range splitErrLines(err) {
			lines = append(lines, l)
		}
	}
	return lines
}
