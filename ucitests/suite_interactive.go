package ucitests

import (
	"regexp"
	"strings"

	"github.com/stretchr/testify/require"

	"github.com/uci-tools/uci-contract-tests/engine"
	"github.com/uci-tools/uci-contract-tests/framework"
)

// infoLine is the minimal shape every search info line must have. Field
// order after the depth is engine-specific, so only depth and a score are
// demanded.
var infoLine = regexp.MustCompile(`^info depth \d+ .*\bscore (cp|mate) -?\d+\b`)

// InteractiveSuite drives one long-lived engine process through the UCI
// handshake and a sequence of searches. Cases intentionally build on each
// other: the handshake comes first, options set early stay in effect, and
// every assertion consumes the stream strictly forward.
func InteractiveSuite(cfg Config) *framework.Suite {
	var eng *engine.Engine

	s := framework.NewSuite("interactive")

	s.BeforeAll = func(t *framework.T) {
		e, err := engine.Start(cfg.options(t))
		if err != nil {
			t.Fatal(err)
		}
		eng = e
	}

	s.AfterAll = func(t *framework.T) {
		if eng == nil {
			return
		}
		_ = eng.Quit()
		code, err := eng.Close()
		if err != nil {
			t.Errorf("engine output check: %s", err)
		}
		if code != 0 {
			t.Errorf("engine exited with code %d", code)
		}
	}

	add := func(name string, body func(*T)) {
		s.AddCase(name, bind(&eng, body))
	}

	add("uci handshake", func(t *T) {
		t.Send("uci")
		t.Expect("id name *")
		t.Equals("uciok")
	})

	add("isready", func(t *T) {
		t.Send("isready")
		t.Equals("readyok")
	})

	add("set thread count", func(t *T) {
		t.SetOption("Threads", cfg.threadsArg())
		t.Send("isready")
		t.Equals("readyok")
	})

	add("search startpos fixed nodes", func(t *T) {
		t.Send("ucinewgame")
		t.Send("position startpos")
		t.Send("go nodes 1000")
		t.StartsWith("bestmove")
	})

	add("search after moves", func(t *T) {
		t.Send("ucinewgame")
		t.Send("position startpos moves e2e4 e7e6")
		t.Send("go nodes 1000")
		t.StartsWith("bestmove")
	})

	add("search fen position", func(t *T) {
		t.Send("ucinewgame")
		t.Send("position fen 5rk1/1K4p1/8/8/3B4/8/8/8 b - - 0 1")
		t.Send("go nodes 1000")
		t.StartsWith("bestmove")
	})

	add("info line progression", func(t *T) {
		t.Send("ucinewgame")
		t.Send("position startpos")
		t.Send("go depth 5")

		sawInfo := false
		t.CheckOutput(func(line string) bool {
			if strings.HasPrefix(line, "info depth") {
				sawInfo = true
				if !infoLine.MatchString(line) {
					t.Errorf("malformed info line: %s", line)
				}
			}
			return strings.HasPrefix(line, "bestmove")
		})
		require.True(t, sawInfo, "no info lines seen before bestmove")
	})

	add("clear hash between games", func(t *T) {
		t.Send("setoption name Clear Hash")
		t.Send("isready")
		t.Equals("readyok")
	})

	return s
}
