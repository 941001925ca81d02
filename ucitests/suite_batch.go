package ucitests

import (
	"strings"

	"github.com/stretchr/testify/require"

	"github.com/uci-tools/uci-contract-tests/engine"
	"github.com/uci-tools/uci-contract-tests/framework"
)

// BatchSuite runs the engine to completion with commands given on the
// command line, asserting on exit codes rather than streamed output. Each
// case owns its own short-lived process.
func BatchSuite(cfg Config) *framework.Suite {
	s := framework.NewSuite("batch")

	var epdFile string
	s.BeforeAll = func(t *framework.T) {
		name, err := writeBenchEPD(t.ScratchDir())
		if err != nil {
			t.Fatal(err)
		}
		epdFile = name
	}

	run := func(t *framework.T, args ...string) *engine.RunResult {
		res, err := engine.Run(cfg.options(t, args...))
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	expectClean := func(t *framework.T, args ...string) {
		res := run(t, args...)
		require.Equalf(t, 0, res.ExitCode,
			"engine exited with code %d, output:\n%s", res.ExitCode, strings.Join(res.Output, "\n"))
	}

	s.AddCase("bench default positions", func(t *framework.T) {
		expectClean(t, "bench", "128", cfg.threadsArg(), "4", "default", "depth")
	})

	s.AddCase("bench scratch epd", func(t *framework.T) {
		expectClean(t, "bench", "128", cfg.threadsArg(), "3", epdFile, "depth")
	})

	s.AddCase("go nodes from command line", func(t *framework.T) {
		expectClean(t, "go", "nodes", "1000")
	})

	s.AddCase("go depth from command line", func(t *framework.T) {
		expectClean(t, "go", "depth", "8")
	})

	s.AddCase("go movetime from command line", func(t *framework.T) {
		expectClean(t, "go", "movetime", "200")
	})

	s.AddCase("static eval", func(t *framework.T) {
		expectClean(t, "eval")
	})

	s.AddCase("display board", func(t *framework.T) {
		expectClean(t, "d")
	})

	s.AddCase("uci to completion", func(t *framework.T) {
		res := run(t, "uci")
		require.Equal(t, 0, res.ExitCode)
		found := false
		for _, line := range res.Output {
			if strings.HasPrefix(line, "id name ") {
				found = true
				break
			}
		}
		require.True(t, found, "batch uci output carries no id name line")
	})

	return s
}
