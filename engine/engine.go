package engine

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout is the deadline applied to assertion calls when Options
// does not override it.
const DefaultTimeout = time.Minute * 5

// closeGracePeriod is how long Close waits for a voluntary exit after
// closing stdin before killing the process.
const closeGracePeriod = time.Second * 10

var (
	ErrNotStarted = errors.New("engine process was never started")
	ErrNotRunning = errors.New("engine process is not running")
)

// ProcessError indicates that the engine process could not be started, or
// that one of its pipes failed unexpectedly.
type ProcessError struct {
	Op  string
	Err error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("engine process %s: %s", e.Op, e.Err)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// Logger is the minimal logging interface the engine uses for debug output.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (nullLogger) Printf(string, ...interface{}) {}

// Options configures an engine invocation. The full argv is
// Prefix ++ [Path] ++ Args, so an instrumentation wrapper such as valgrind
// can be prepended without the engine code knowing about it.
type Options struct {
	// Prefix is an optional instrumentation wrapper prepended to the argv.
	Prefix []string

	// Path is the engine executable.
	Path string

	// Args are passed after Path. In batch mode these are the commands the
	// engine executes before exiting.
	Args []string

	// Dir is the working directory; empty means inherit.
	Dir string

	// Env holds extra KEY=VALUE entries appended to the inherited environment.
	Env []string

	// Timeout bounds each assertion call; DefaultTimeout if zero.
	Timeout time.Duration

	// OutputCheck, if set, is run over the captured output when a batch run
	// finishes or an interactive engine is closed. A non-nil return marks
	// the invocation as failed even if the exit code was zero.
	OutputCheck func(output []string) error

	// Logger receives debug output; nil disables it.
	Logger Logger
}

func (o *Options) argv() []string {
	argv := make([]string, 0, len(o.Prefix)+1+len(o.Args))
	argv = append(argv, o.Prefix...)
	argv = append(argv, o.Path)
	argv = append(argv, o.Args...)
	return argv
}

func (o *Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}

func (o *Options) logger() Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return nullLogger{}
}

type processState int

const (
	stateUnstarted processState = iota
	stateRunning
	stateExited
	stateCrashed
)

// Engine is one interactively driven engine process. It is exclusively
// owned by the suite or case that started it and is not safe for use from
// multiple goroutines at once, except that Transcript may be called at any
// time.
type Engine struct {
	opts  Options
	cmd   *exec.Cmd
	stdin io.WriteCloser

	// lines carries trimmed output lines from the pump goroutine to the
	// reader. It is unbuffered so that output is consumed strictly forward
	// and at most one line is in flight.
	lines chan string
	done  chan struct{}

	mu         sync.Mutex
	state      processState
	exitCode   int
	transcript []string

	closeOnce sync.Once
	closeErr  error
}

// Start launches the engine in interactive mode: stdin stays open for
// SendCommand and stdout/stderr are merged into a single line stream.
func Start(opts Options) (*Engine, error) {
	argv := opts.argv()
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), opts.Env...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &ProcessError{Op: "stdin pipe", Err: err}
	}

	// stderr is merged into stdout, so diagnostic output from the engine or
	// from an instrumentation wrapper shows up in the same line stream.
	outR, outW, err := os.Pipe()
	if err != nil {
		return nil, &ProcessError{Op: "output pipe", Err: err}
	}
	cmd.Stdout = outW
	cmd.Stderr = outW

	if err := cmd.Start(); err != nil {
		outR.Close()
		outW.Close()
		return nil, &ProcessError{Op: "start", Err: err}
	}
	outW.Close() // the child keeps its own copy

	opts.logger().Printf("started engine: %s", quoteCommand(argv))

	e := &Engine{
		opts:  opts,
		cmd:   cmd,
		stdin: stdin,
		lines: make(chan string),
		done:  make(chan struct{}),
		state: stateRunning,
	}
	go e.pump(outR)
	return e, nil
}

// pump reads output lines until the stream closes or the engine is closed.
// The raw line goes into the transcript before the trimmed line is handed
// over, so the transcript always includes lines no reader ever consumed.
func (e *Engine) pump(r io.ReadCloser) {
	defer close(e.lines)
	defer r.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		e.mu.Lock()
		e.transcript = append(e.transcript, line)
		e.mu.Unlock()

		select {
		case e.lines <- strings.TrimSpace(line):
		case <-e.done:
			return
		}
	}
}

// SendCommand writes one newline-terminated command directly to the
// engine's stdin.
func (e *Engine) SendCommand(command string) error {
	e.mu.Lock()
	state := e.state
	e.mu.Unlock()
	switch state {
	case stateUnstarted:
		return ErrNotStarted
	case stateExited, stateCrashed:
		return ErrNotRunning
	}

	e.opts.logger().Printf("> %s", command)
	if _, err := io.WriteString(e.stdin, command+"\n"); err != nil {
		return fmt.Errorf("%w: %s", ErrNotRunning, err)
	}
	return nil
}

// SetOption sends a UCI setoption command.
func (e *Engine) SetOption(name, value string) error {
	return e.SendCommand(fmt.Sprintf("setoption name %s value %s", name, value))
}

// Quit politely asks the engine to exit. Callers still need Close to
// collect the exit code.
func (e *Engine) Quit() error {
	return e.SendCommand("quit")
}

// ReadLine returns the next output line, trimmed of surrounding whitespace.
// It blocks until a line arrives and returns io.EOF once the output stream
// has closed.
func (e *Engine) ReadLine() (string, error) {
	e.mu.Lock()
	state := e.state
	e.mu.Unlock()
	if state == stateUnstarted {
		return "", ErrNotStarted
	}

	line, ok := <-e.lines
	if !ok {
		return "", io.EOF
	}
	return line, nil
}

// Transcript returns a copy of every line read from the engine so far.
func (e *Engine) Transcript() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.transcript...)
}

// Close shuts the engine down and returns its exit code. It closes stdin,
// waits up to a grace period for a voluntary exit, and kills the process if
// it does not comply. Close is idempotent: repeat calls return the code
// recorded by the first. If an OutputCheck is configured it runs over the
// transcript, and its failure is returned alongside the exit code.
func (e *Engine) Close() (int, error) {
	e.mu.Lock()
	if e.state == stateUnstarted {
		e.mu.Unlock()
		return 0, ErrNotStarted
	}
	e.mu.Unlock()

	e.closeOnce.Do(func() {
		close(e.done)
		e.stdin.Close()

		waitDone := make(chan error, 1)
		go func() { waitDone <- e.cmd.Wait() }()

		grace := time.NewTimer(closeGracePeriod)
		defer grace.Stop()

		var waitErr error
		select {
		case waitErr = <-waitDone:
		case <-grace.C:
			e.opts.logger().Printf("engine ignored shutdown, killing pid %d", e.cmd.Process.Pid)
			_ = e.cmd.Process.Kill()
			waitErr = <-waitDone
		}

		code, crashed := exitStatus(waitErr)
		e.mu.Lock()
		e.exitCode = code
		if crashed {
			e.state = stateCrashed
		} else {
			e.state = stateExited
		}
		e.mu.Unlock()

		if e.opts.OutputCheck != nil {
			e.closeErr = e.opts.OutputCheck(e.Transcript())
		}
	})

	e.mu.Lock()
	code := e.exitCode
	e.mu.Unlock()
	return code, e.closeErr
}

// exitStatus maps the result of cmd.Wait to an exit code, reporting whether
// the process ended abnormally (killed by a signal rather than exiting).
func exitStatus(err error) (code int, crashed bool) {
	if err == nil {
		return 0, false
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
		return code, code < 0
	}
	return -1, true
}

// RunResult is the outcome of a batch invocation.
type RunResult struct {
	Output   []string
	ExitCode int
}

// Succeeded reports whether the process exited with code 0.
func (r *RunResult) Succeeded() bool { return r.ExitCode == 0 }

// Run executes the engine in batch mode: the process runs to completion
// with the commands given as arguments, and all combined output is
// captured. A non-zero exit code is not an error here; it is surfaced in
// the result for the caller to assert on. If an OutputCheck is configured,
// its failure is returned as the error with the result still populated.
func Run(opts Options) (*RunResult, error) {
	argv := opts.argv()
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), opts.Env...)

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	opts.logger().Printf("running engine: %s", quoteCommand(argv))

	err := cmd.Run()
	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, &ProcessError{Op: "run", Err: err}
		}
		code = exitErr.ExitCode()
	}

	result := &RunResult{Output: splitLines(buf.String()), ExitCode: code}
	if opts.OutputCheck != nil {
		if checkErr := opts.OutputCheck(result.Output); checkErr != nil {
			return result, checkErr
		}
	}
	return result, nil
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
