package engine

import (
	"errors"
	"fmt"
	"time"
)

// TimeoutError is returned by an assertion whose deadline elapsed before a
// matching line was seen. Exhaustion of the output stream before a match is
// reported the same way, once the deadline is reached.
type TimeoutError struct {
	Assertion string
	Limit     time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %.0f seconds", e.Assertion, e.Limit.Seconds())
}

// Timeout returns the deadline that elapsed. The test framework uses this,
// via errors.As on an interface, to classify a failure as a timeout without
// depending on this package.
func (e *TimeoutError) Timeout() time.Duration { return e.Limit }

// WaitFor consumes output lines strictly forward from the stream's current
// position until match returns true or the deadline elapses. Lines that do
// not match are discarded; no line is ever revisited. On timeout the
// pending read is abandoned, not the process: the engine stays usable and a
// later call resumes from the next unread line.
func (e *Engine) WaitFor(description string, match func(line string) bool) error {
	e.mu.Lock()
	state := e.state
	e.mu.Unlock()
	if state == stateUnstarted {
		return ErrNotStarted
	}

	limit := e.opts.timeout()
	deadline := time.NewTimer(limit)
	defer deadline.Stop()

	for {
		select {
		case line, ok := <-e.lines:
			if !ok {
				// Output stream closed with no match. Per the framework's
				// contract this still surfaces as a timeout, once the
				// deadline is actually reached.
				<-deadline.C
				return &TimeoutError{Assertion: description, Limit: limit}
			}
			if match(line) {
				return nil
			}
		case <-deadline.C:
			return &TimeoutError{Assertion: description, Limit: limit}
		}
	}
}

// Equals waits for a line exactly equal to want.
func (e *Engine) Equals(want string) error {
	return e.WaitFor(fmt.Sprintf("equals %q", want), func(line string) bool {
		return line == want
	})
}

// Expect waits for a line matching a glob pattern, where '*' matches any
// run of characters and '?' matches a single character. The pattern is
// matched against the whole line.
func (e *Engine) Expect(pattern string) error {
	match, err := globMatcher(pattern)
	if err != nil {
		return err
	}
	return e.WaitFor(fmt.Sprintf("expect %q", pattern), match)
}

// Contains waits for a line containing want as a substring.
func (e *Engine) Contains(want string) error {
	return e.WaitFor(fmt.Sprintf("contains %q", want), containsMatcher(want))
}

// StartsWith waits for a line beginning with prefix.
func (e *Engine) StartsWith(prefix string) error {
	return e.WaitFor(fmt.Sprintf("starts with %q", prefix), prefixMatcher(prefix))
}

// CheckOutput feeds successive lines to check until it returns true. The
// callback may keep state across calls, which lets it validate a multi-line
// progression before deciding that a terminal line has been reached.
func (e *Engine) CheckOutput(check func(line string) bool) error {
	if check == nil {
		return errors.New("CheckOutput requires a callback")
	}
	return e.WaitFor("output check", check)
}
