package ucitests

import (
	"strconv"
	"time"

	"github.com/uci-tools/uci-contract-tests/engine"
	"github.com/uci-tools/uci-contract-tests/framework"
)

// Config describes the engine under test for a whole run.
type Config struct {
	// EnginePath is the engine executable.
	EnginePath string

	// Prefix is the instrumentation wrapper, if any (valgrind and friends).
	Prefix []string

	// Env holds extra KEY=VALUE entries for the engine's environment.
	Env []string

	// Timeout bounds each stream assertion; engine.DefaultTimeout if zero.
	Timeout time.Duration

	// Threads is the value for the engine's Threads option. Thread-checked
	// instrumentation needs at least 2 to exercise anything.
	Threads int

	// SanitizerCheck scans captured output for UBSan/TSan diagnostics that
	// would otherwise go unnoticed behind a zero exit code.
	SanitizerCheck bool

	// TSANSuppressions, when non-empty, is written to a scratch
	// suppressions file and activated through TSAN_OPTIONS for every
	// engine started by the suites.
	TSANSuppressions []string
}

func (c Config) threads() int {
	if c.Threads > 1 {
		return c.Threads
	}
	return 1
}

func (c Config) threadsArg() string {
	return strconv.Itoa(c.threads())
}

// options assembles engine options for one invocation. The engine's working
// directory is the suite's scratch directory, so relative fixture paths
// resolve and anything the engine drops on disk vanishes with the suite.
func (c Config) options(t *framework.T, args ...string) engine.Options {
	opts := engine.Options{
		Prefix:  c.Prefix,
		Path:    c.EnginePath,
		Args:    args,
		Dir:     t.ScratchDir(),
		Env:     append([]string(nil), c.Env...),
		Timeout: c.Timeout,
		Logger:  t.DebugLogger(),
	}
	if c.SanitizerCheck {
		opts.OutputCheck = engine.CheckSanitizerOutput
	}
	if len(c.TSANSuppressions) > 0 {
		entry, err := engine.WriteTSANSuppressions(t.ScratchDir(), c.TSANSuppressions)
		if err != nil {
			t.Fatal(err)
		}
		opts.Env = append(opts.Env, entry)
	}
	return opts
}

// AllSuites returns every conformance suite for the configured engine.
func AllSuites(cfg Config) []*framework.Suite {
	return []*framework.Suite{
		InteractiveSuite(cfg),
		SearchSuite(cfg),
		BatchSuite(cfg),
	}
}

// T is the domain test API: a framework context plus the engine the case is
// driving. Its stream assertions fail the case on error, so suite code
// reads as a straight-line script of commands and expectations.
type T struct {
	*framework.T
	engine *engine.Engine
}

// Engine exposes the underlying process for cases that need more than the
// built-in assertions.
func (t *T) Engine() *engine.Engine { return t.engine }

// Send issues one command and fails the case if the engine is gone.
func (t *T) Send(command string) {
	if err := t.engine.SendCommand(command); err != nil {
		t.Fatal(err)
	}
}

// SetOption sends a UCI setoption command.
func (t *T) SetOption(name, value string) {
	if err := t.engine.SetOption(name, value); err != nil {
		t.Fatal(err)
	}
}

// Equals waits for a line exactly equal to want.
func (t *T) Equals(want string) {
	if err := t.engine.Equals(want); err != nil {
		t.Fatal(err)
	}
}

// Expect waits for a line matching the glob pattern.
func (t *T) Expect(pattern string) {
	if err := t.engine.Expect(pattern); err != nil {
		t.Fatal(err)
	}
}

// Contains waits for a line containing want.
func (t *T) Contains(want string) {
	if err := t.engine.Contains(want); err != nil {
		t.Fatal(err)
	}
}

// StartsWith waits for a line beginning with prefix.
func (t *T) StartsWith(prefix string) {
	if err := t.engine.StartsWith(prefix); err != nil {
		t.Fatal(err)
	}
}

// CheckOutput feeds lines to check until it reports the progression done.
func (t *T) CheckOutput(check func(line string) bool) {
	if err := t.engine.CheckOutput(check); err != nil {
		t.Fatal(err)
	}
}

// bind adapts an engine-aware case body to the framework's case signature,
// resolving the suite's shared engine at run time.
func bind(eng **engine.Engine, body func(*T)) func(*framework.T) {
	return func(ft *framework.T) {
		if *eng == nil {
			ft.Fatalf("engine is not running")
		}
		body(&T{T: ft, engine: *eng})
	}
}
