package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alessio/shellescape"
)

// ValgrindExitCode is the distinguished exit code the valgrind wrappers are
// configured with, so that instrumentation failures are distinguishable from
// the engine's own exit codes in diagnostics. Any non-zero code still fails
// the case uniformly.
const ValgrindExitCode = 42

// ValgrindCommand returns the instrumentation prefix for leak-checked runs.
func ValgrindCommand() []string {
	return []string{
		"valgrind",
		fmt.Sprintf("--error-exitcode=%d", ValgrindExitCode),
		"--errors-for-leak-kinds=all",
		"--leak-check=full",
	}
}

// ValgrindThreadCommand returns the instrumentation prefix for
// thread-checked (helgrind-friendly scheduling) runs.
func ValgrindThreadCommand() []string {
	return []string{
		"valgrind",
		fmt.Sprintf("--error-exitcode=%d", ValgrindExitCode),
		"--fair-sched=try",
	}
}

// WriteTSANSuppressions writes a ThreadSanitizer suppressions file into dir
// (normally a per-suite scratch directory, so it disappears with the run)
// and returns the TSAN_OPTIONS environment entry that activates it.
func WriteTSANSuppressions(dir string, rules []string) (string, error) {
	path := filepath.Join(dir, "tsan.supp")
	content := strings.Join(rules, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing tsan suppressions: %w", err)
	}
	return "TSAN_OPTIONS=suppressions=" + path, nil
}

// CheckSanitizerOutput scans captured output for sanitizer diagnostics that
// do not change the exit code on their own: UBSan runtime errors and TSan
// race warnings. It returns an error naming the first offending line.
func CheckSanitizerOutput(output []string) error {
	for _, line := range output {
		if strings.Contains(line, "runtime error:") {
			return fmt.Errorf("undefined behavior reported: %s", line)
		}
		if strings.Contains(line, "WARNING: ThreadSanitizer:") {
			return fmt.Errorf("data race reported: %s", line)
		}
	}
	return nil
}

// quoteCommand renders an argv as a copy-pasteable shell command for logs.
func quoteCommand(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = shellescape.Quote(a)
	}
	return strings.Join(quoted, " ")
}
