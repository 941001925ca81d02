package framework

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"time"
)

// Runner executes registered suites concurrently, one worker per suite,
// with cases running sequentially inside each worker. The report and the
// console are the only cross-worker shared state; both are guarded by one
// lock that is held per update and never across a blocking read.
type Runner struct {
	// Filter, when set, selects which cases run; excluded cases are
	// reported as skipped and never executed.
	Filter Filter

	// Renderer receives live updates and prints the final summary.
	// Defaults to a ConsoleRenderer on stdout.
	Renderer Renderer

	// DebugOnFailure and DebugOnSuccess control when a case's captured
	// debug output is shown beneath its result line.
	DebugOnFailure bool
	DebugOnSuccess bool

	mu     sync.Mutex
	report Report
}

// Run executes every suite and blocks until all workers finish, then prints
// the summary and returns the completed report.
func (r *Runner) Run(suites []*Suite) *Report {
	start := time.Now()
	if r.Renderer == nil {
		r.Renderer = NewConsoleRenderer(os.Stdout)
	}
	r.report.TestsTotal = r.countRunnable(suites)

	var wg sync.WaitGroup
	for _, s := range suites {
		wg.Add(1)
		go func(s *Suite) {
			defer wg.Done()
			r.runSuite(s)
		}(s)
	}
	wg.Wait()

	r.report.Elapsed = time.Since(start)
	r.Renderer.Summary(&r.report)
	return &r.report
}

func (r *Runner) countRunnable(suites []*Suite) int {
	n := 0
	for _, s := range suites {
		for _, c := range s.cases {
			if r.Filter == nil || r.Filter(TestID{Path: []string{s.Name, c.Name}}) {
				n++
			}
		}
	}
	return n
}

// runSuite is one suite worker. Every suite gets a scratch directory that
// lives for the duration of the suite and is removed afterward, whatever
// the outcome.
func (r *Runner) runSuite(s *Suite) {
	scratch, err := os.MkdirTemp("", "uci-contract-tests-")
	if err == nil {
		defer os.RemoveAll(scratch)
	}

	sr := &SuiteResult{Name: s.Name}
	r.update(func() []string {
		r.report.Suites = append(r.report.Suites, sr)
		return r.appendLines(sr, formatSuiteHeader(s.Name))
	})

	setupOK := r.runHook(s, sr, "beforeAll", s.BeforeAll, scratch)
	if setupOK {
		for _, c := range s.cases {
			id := TestID{Path: []string{s.Name, c.Name}}
			if r.Filter != nil && !r.Filter(id) {
				r.update(func() []string {
					sr.Cases = append(sr.Cases, CaseResult{Name: c.Name, Status: StatusPending})
					return r.appendLines(sr, formatSkipped(c.Name))
				})
				continue
			}
			r.runCase(s, sr, c, scratch)
		}
	}
	// afterAll runs even when beforeAll failed, so suites can release
	// engines and fixtures acquired before the failure.
	r.runHook(s, sr, "afterAll", s.AfterAll, scratch)

	r.update(func() []string {
		if sr.Failed() {
			r.report.SuitesFailed++
		} else {
			r.report.SuitesPassed++
		}
		return nil
	})
}

// runHook executes a lifecycle hook in its own protected scope. A hook
// failure is recorded as the suite's setup error; it reports whether the
// suite may continue.
func (r *Runner) runHook(s *Suite, sr *SuiteResult, name string, hook func(*T), scratch string) bool {
	if hook == nil {
		return true
	}
	t := &T{
		id:         TestID{Path: []string{s.Name, name}},
		scratchDir: scratch,
	}
	protect(t, hook)
	if !t.failed {
		return true
	}

	setupErr := &SetupError{Hook: name, Err: joinErrLines(t.detail())}
	r.update(func() []string {
		if sr.SetupErr == nil {
			sr.SetupErr = setupErr
		}
		lines := append([]string{formatHookFailure(name)}, formatDetail(t.detail())...)
		return r.appendLines(sr, lines...)
	})
	return false
}

// runCase executes one case, including its beforeEach/afterEach hooks, and
// records the outcome. Nothing a case does can abort the run: assertion
// failures, timeouts, and stray panics all end up as a recorded result.
func (r *Runner) runCase(s *Suite, sr *SuiteResult, c Case, scratch string) {
	t := &T{
		id:         TestID{Path: []string{s.Name, c.Name}},
		scratchDir: scratch,
	}

	start := time.Now()
	protect(t, func(t *T) {
		if s.BeforeEach != nil {
			s.BeforeEach(t)
		}
		c.Run(t)
		if s.AfterEach != nil {
			s.AfterEach(t)
		}
	})
	elapsed := time.Since(start)

	res := CaseResult{Name: c.Name, Duration: elapsed, Detail: t.detail()}
	switch {
	case t.timedOut:
		res.Status = StatusTimedOut
		res.Timeout = t.timeout
	case t.failed:
		res.Status = StatusFailed
	default:
		res.Status = StatusPassed
	}

	r.update(func() []string {
		sr.Cases = append(sr.Cases, res)

		var lines []string
		switch res.Status {
		case StatusPassed:
			r.report.TestsPassed++
			lines = append(lines, formatSuccess(res.Name, res.Duration))
		case StatusTimedOut:
			r.report.TestsFailed++
			lines = append(lines, formatTimeout(res.Name, res.Timeout))
			lines = append(lines, formatDetail(res.Detail)...)
		default:
			r.report.TestsFailed++
			lines = append(lines, formatFailure(res.Name, res.Duration))
			lines = append(lines, formatDetail(res.Detail)...)
		}

		failed := res.Status != StatusPassed
		if (failed && r.DebugOnFailure) || (!failed && r.DebugOnSuccess) {
			lines = append(lines, t.debugLogger.Output().Lines("        DEBUG ")...)
		}
		return r.appendLines(sr, lines...)
	})
}

// protect runs fn, converting a FailNow abort or a stray panic into
// recorded state on t.
func protect(t *T, fn func(*T)) {
	defer func() {
		if rec := recover(); rec != nil {
			if _, ok := rec.(*T); ok {
				if len(t.errs) == 0 {
					t.errs = append(t.errs, fmt.Errorf("test failed with no failure message"))
				}
				return
			}
			t.failed = true
			t.errs = append(t.errs, fmt.Errorf("unexpected panic: %+v\n%s", rec, string(debug.Stack())))
		}
	}()
	fn(t)
}

// update applies a mutation to the shared report under the lock and pushes
// the resulting lines to the renderer before releasing it, so the console
// cursor state can never interleave between workers.
func (r *Runner) update(mutate func() []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	added := mutate()
	if len(added) > 0 {
		r.Renderer.Update(added, r.report.lines(), &r.report)
	}
}

// appendLines must be called under the report lock.
func (r *Runner) appendLines(sr *SuiteResult, lines ...string) []string {
	sr.Lines = append(sr.Lines, lines...)
	return lines
}

func joinErrLines(lines []string) error {
	if len(lines) == 0 {
		return fmt.Errorf("hook failed with no failure message")
	}
	return fmt.Errorf("%s", lines[0])
}
