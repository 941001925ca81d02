package framework

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a single test case. Transitions only
// move forward: Pending -> Running -> one of the terminal states.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusPassed
	StatusFailed
	StatusTimedOut
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusTimedOut:
		return "timedOut"
	default:
		return "unknown"
	}
}

// TestID identifies a case as a suite/case path.
type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// CaseResult is the recorded outcome of one case.
type CaseResult struct {
	Name     string
	Status   Status
	Duration time.Duration

	// Timeout holds the deadline that elapsed when Status is StatusTimedOut.
	Timeout time.Duration

	// Detail holds failure messages and call-site traces, one line each.
	Detail []string
}

// SetupError indicates that a lifecycle hook failed, aborting the suite's
// remaining cases.
type SetupError struct {
	Hook string
	Err  error
}

func (e *SetupError) Error() string {
	return e.Hook + " failed: " + e.Err.Error()
}

func (e *SetupError) Unwrap() error { return e.Err }

// SuiteResult aggregates one suite's case outcomes plus the formatted
// display lines in the order they were produced.
type SuiteResult struct {
	Name     string
	Cases    []CaseResult
	SetupErr *SetupError
	Lines    []string
}

// Failed reports whether the suite is failed: any case failed or timed out,
// or a lifecycle hook failed.
func (s *SuiteResult) Failed() bool {
	if s.SetupErr != nil {
		return true
	}
	for _, c := range s.Cases {
		if c.Status == StatusFailed || c.Status == StatusTimedOut {
			return true
		}
	}
	return false
}

// Report is the shared state of a run. It is mutated only by the Runner
// under its lock; Renderers read consistent snapshots of it.
type Report struct {
	SuitesPassed int
	SuitesFailed int
	TestsPassed  int
	TestsFailed  int
	TestsTotal   int
	Elapsed      time.Duration

	// Suites appear in the order their workers started.
	Suites []*SuiteResult
}

// HasFailed reports whether any suite failed; this decides the process
// exit status.
func (r *Report) HasFailed() bool { return r.SuitesFailed > 0 }

func (r *Report) SuitesTotal() int { return r.SuitesPassed + r.SuitesFailed }

// lines flattens the per-suite display lines in suite start order.
func (r *Report) lines() []string {
	var out []string
	for _, s := range r.Suites {
		out = append(out, s.Lines...)
	}
	return out
}
