package framework

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withoutColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestAppendRendererPrintsOnlyNewLines(t *testing.T) {
	var buf bytes.Buffer
	r := NewAppendRenderer(&buf)

	r.Update([]string{"one"}, []string{"one"}, &Report{})
	r.Update([]string{"two", "three"}, []string{"one", "two", "three"}, &Report{})

	assert.Equal(t, "one\ntwo\nthree\n", buf.String())
}

func TestConsoleRendererRewritesItsBlock(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleRenderer(&buf)

	r.Update([]string{"one"}, []string{"one"}, &Report{})
	first := buf.String()
	assert.NotContains(t, first, ansiLineUp, "nothing printed yet, nothing to erase")
	assert.Contains(t, first, "one\n")

	buf.Reset()
	r.Update([]string{"two"}, []string{"one", "two"}, &Report{})
	second := buf.String()
	assert.Equal(t, 1, strings.Count(second, ansiLineUp), "erases exactly the previously printed block")
	assert.Contains(t, second, "one\n")
	assert.Contains(t, second, "two\n")

	buf.Reset()
	r.Update([]string{"three"}, []string{"one", "two", "three"}, &Report{})
	assert.Equal(t, 2, strings.Count(buf.String(), ansiLineUp))
}

func TestPrintSummary(t *testing.T) {
	withoutColor(t)

	rep := &Report{
		SuitesPassed: 2,
		SuitesFailed: 1,
		TestsPassed:  7,
		TestsFailed:  3,
		Elapsed:      1500 * time.Millisecond,
	}

	var buf bytes.Buffer
	PrintSummary(&buf, rep)
	out := buf.String()

	assert.Contains(t, out, "Test Summary")
	assert.Contains(t, out, "Test Suites: 2 passed, 1 failed, 3 total")
	assert.Contains(t, out, "Tests:       7 passed, 3 failed, 10 total")
	assert.Contains(t, out, "Time:        1.50s")
}

func TestFormatLines(t *testing.T) {
	withoutColor(t)

	assert.Equal(t, "Test Suite: search", formatSuiteHeader("search"))
	assert.Equal(t, "    ✓ mate in one (12.34ms)", formatSuccess("mate in one", 12340*time.Microsecond))
	assert.Equal(t, "    ✗ mate in one (12.34ms)", formatFailure("mate in one", 12340*time.Microsecond))
	assert.Equal(t, "    ✗ deep search (timed out after 300s)", formatTimeout("deep search", 5*time.Minute))
	assert.Equal(t, "    - mate in one (skipped)", formatSkipped("mate in one"))
	assert.Equal(t, []string{"      a", "      b"}, formatDetail([]string{"a", "b"}))
}

func TestProgressRendererSummaryReplaysFailedSuites(t *testing.T) {
	withoutColor(t)

	rep := &Report{
		SuitesPassed: 1,
		SuitesFailed: 1,
		Suites: []*SuiteResult{
			{
				Name:  "healthy",
				Cases: []CaseResult{{Name: "ok", Status: StatusPassed}},
				Lines: []string{"Test Suite: healthy", "    ✓ ok (1.00ms)"},
			},
			{
				Name:  "broken",
				Cases: []CaseResult{{Name: "bad", Status: StatusFailed}},
				Lines: []string{"Test Suite: broken", "    ✗ bad (1.00ms)"},
			},
		},
	}

	var buf bytes.Buffer
	r := NewProgressRenderer(&buf)
	r.Summary(rep)
	out := buf.String()

	assert.NotContains(t, out, "Test Suite: healthy")
	assert.Contains(t, out, "Test Suite: broken")
	assert.Contains(t, out, "✗ bad")
	assert.Contains(t, out, "Test Summary")
}

func TestProgressRendererUpdates(t *testing.T) {
	var buf bytes.Buffer
	r := NewProgressRenderer(&buf)

	rep := &Report{TestsTotal: 4, TestsPassed: 1}
	r.Update([]string{"x"}, []string{"x"}, rep)
	require.NotNil(t, r.bar)

	rep.TestsPassed = 2
	r.Update([]string{"y"}, []string{"x", "y"}, rep)
	assert.NotEmpty(t, buf.String())
}
