package framework

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// Renderer is the injectable output strategy for a run. Update is called
// under the report lock every time new result lines are recorded: added
// holds just the new lines, all holds the full redraw state. Summary is
// called once, after every worker has finished.
type Renderer interface {
	Update(added []string, all []string, rep *Report)
	Summary(rep *Report)
}

const (
	ansiLineUp    = "\033[1A"
	ansiLineClear = "\x1b[2K"
)

// ConsoleRenderer simulates a live dashboard by rewriting its previously
// printed block in place on every update. The cursor state is scoped to the
// renderer instance, not the terminal.
type ConsoleRenderer struct {
	out     io.Writer
	printed int
}

func NewConsoleRenderer(out io.Writer) *ConsoleRenderer {
	return &ConsoleRenderer{out: out}
}

func (r *ConsoleRenderer) Update(added []string, all []string, rep *Report) {
	for i := 0; i < r.printed; i++ {
		fmt.Fprint(r.out, ansiLineUp, ansiLineClear)
	}
	for _, line := range all {
		fmt.Fprintln(r.out, line)
	}
	r.printed = len(all)
}

func (r *ConsoleRenderer) Summary(rep *Report) {
	PrintSummary(r.out, rep)
}

// AppendRenderer emits each new result line once, with no cursor control.
// Suites run concurrently, so lines from different suites interleave; each
// line names its case, so the output stays readable in CI logs.
type AppendRenderer struct {
	out io.Writer
}

func NewAppendRenderer(out io.Writer) *AppendRenderer {
	return &AppendRenderer{out: out}
}

func (r *AppendRenderer) Update(added []string, all []string, rep *Report) {
	for _, line := range added {
		fmt.Fprintln(r.out, line)
	}
}

func (r *AppendRenderer) Summary(rep *Report) {
	PrintSummary(r.out, rep)
}

// ProgressRenderer shows one progress bar with live pass/fail counts
// instead of per-case lines. Failed suites are replayed in full before the
// summary, since their result lines were never shown.
type ProgressRenderer struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func NewProgressRenderer(out io.Writer) *ProgressRenderer {
	return &ProgressRenderer{out: out}
}

func (r *ProgressRenderer) Update(added []string, all []string, rep *Report) {
	if r.bar == nil {
		r.bar = progressbar.NewOptions(rep.TestsTotal,
			progressbar.OptionSetWriter(r.out),
			progressbar.OptionSetWidth(50),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        color.CyanString("█"),
				SaucerHead:    color.CyanString("█"),
				SaucerPadding: "░",
				BarStart:      "│",
				BarEnd:        "│",
			}),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetRenderBlankState(true),
		)
	}
	_ = r.bar.Set(rep.TestsPassed + rep.TestsFailed)
	r.bar.Describe(
		color.CyanString("Running tests: ") +
			color.GreenString("[passed: %d", rep.TestsPassed) +
			" | " +
			color.RedString("failed: %d]", rep.TestsFailed),
	)
}

func (r *ProgressRenderer) Summary(rep *Report) {
	fmt.Fprintln(r.out)
	for _, s := range rep.Suites {
		if !s.Failed() {
			continue
		}
		for _, line := range s.Lines {
			fmt.Fprintln(r.out, line)
		}
	}
	PrintSummary(r.out, rep)
}

var (
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
	detailColor  = color.New(color.FgCyan)
	skippedColor = color.New(color.Faint)
	summaryBold  = color.New(color.Bold)
)

func formatSuiteHeader(name string) string {
	return fmt.Sprintf("Test Suite: %s", name)
}

func formatSuccess(name string, d time.Duration) string {
	return successColor.Sprintf("    ✓ %s (%.2fms)", name, millis(d))
}

func formatFailure(name string, d time.Duration) string {
	return failureColor.Sprintf("    ✗ %s (%.2fms)", name, millis(d))
}

func formatTimeout(name string, limit time.Duration) string {
	return failureColor.Sprintf("    ✗ %s (timed out after %.0fs)", name, limit.Seconds())
}

func formatHookFailure(hook string) string {
	return failureColor.Sprintf("    ✗ %s", hook)
}

func formatSkipped(name string) string {
	return skippedColor.Sprintf("    - %s (skipped)", name)
}

func formatDetail(detail []string) []string {
	lines := make([]string, 0, len(detail))
	for _, d := range detail {
		lines = append(lines, detailColor.Sprintf("      %s", d))
	}
	return lines
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

// PrintSummary writes the immutable end-of-run summary.
func PrintSummary(w io.Writer, rep *Report) {
	fmt.Fprintf(w, "\n%s\n\n", summaryBold.Sprint("Test Summary"))
	fmt.Fprintf(w, "    Test Suites: %s, %s, %d total\n",
		successColor.Sprintf("%d passed", rep.SuitesPassed),
		failureColor.Sprintf("%d failed", rep.SuitesFailed),
		rep.SuitesTotal())
	fmt.Fprintf(w, "    Tests:       %s, %s, %d total\n",
		successColor.Sprintf("%d passed", rep.TestsPassed),
		failureColor.Sprintf("%d failed", rep.TestsFailed),
		rep.TestsPassed+rep.TestsFailed)
	fmt.Fprintf(w, "    Time:        %.2fs\n\n", rep.Elapsed.Seconds())
}
