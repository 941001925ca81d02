package ucitests

import (
	"fmt"
	"strings"

	"github.com/stretchr/testify/require"

	"github.com/uci-tools/uci-contract-tests/engine"
	"github.com/uci-tools/uci-contract-tests/framework"
)

// SearchSuite checks search output semantics against fixed positions with
// forced outcomes: mate scores, searchmoves restriction, multipv, and the
// depth-by-depth info progression. It owns its engine, independent of the
// interactive suite, so the two suites can run concurrently.
func SearchSuite(cfg Config) *framework.Suite {
	var eng *engine.Engine

	s := framework.NewSuite("search")

	s.BeforeAll = func(t *framework.T) {
		e, err := engine.Start(cfg.options(t))
		if err != nil {
			t.Fatal(err)
		}
		eng = e
		if err := eng.SendCommand("uci"); err != nil {
			t.Fatal(err)
		}
		if err := eng.Equals("uciok"); err != nil {
			t.Fatal(err)
		}
		if err := eng.SetOption("Threads", cfg.threadsArg()); err != nil {
			t.Fatal(err)
		}
	}

	s.AfterAll = func(t *framework.T) {
		if eng == nil {
			return
		}
		_ = eng.Quit()
		if code, err := eng.Close(); err != nil {
			t.Errorf("engine output check: %s", err)
		} else if code != 0 {
			t.Errorf("engine exited with code %d", code)
		}
	}

	s.BeforeEach = func(t *framework.T) {
		if eng == nil {
			return
		}
		if err := eng.SendCommand("ucinewgame"); err != nil {
			t.Fatal(err)
		}
	}

	add := func(name string, body func(*T)) {
		s.AddCase(name, bind(&eng, body))
	}

	add("mate in one", func(t *T) {
		t.Send("position fen 5K2/8/2qk4/2nPp3/3r4/6B1/B7/3R4 w - e6")
		t.Send("go depth 18")
		t.Expect("* score mate 1 * pv d5e6")
		t.Equals("bestmove d5e6")
	})

	add("mated in one", func(t *T) {
		t.Send("position fen 2brrb2/8/p7/Q7/1p1kpPp1/1P1pN1K1/3P4/8 b - -")
		t.Send("go depth 18")
		t.Expect("* score mate -1 *")
		t.StartsWith("bestmove")
	})

	add("mate via searchmoves", func(t *T) {
		t.Send("position fen 8/5R2/2K1P3/4k3/8/b1PPpp1B/5p2/8 w - -")
		t.Send("go depth 18 searchmoves c6d7")
		t.Expect("* score mate 2 * pv c6d7 *")
		t.StartsWith("bestmove c6d7")
	})

	add("mate after forced promotion", func(t *T) {
		t.Send("position fen 8/5R2/2K1P3/4k3/8/b1PPpp1B/5p2/8 w - - moves c6d7 f2f1q")
		t.Send("go depth 18")
		t.Expect("* score mate 1 * pv f7f5")
		t.StartsWith("bestmove f7f5")
	})

	add("multipv lines", func(t *T) {
		t.SetOption("MultiPV", "4")
		t.Send("position startpos")
		t.Send("go depth 5")
		t.Expect("info depth * multipv 4 *")
		t.StartsWith("bestmove")
		t.SetOption("MultiPV", "1")
	})

	add("depth progression", func(t *T) {
		t.SetOption("UCI_ShowWDL", "true")
		t.Send("position startpos")
		t.Send("go depth 9")

		depth := 1
		t.CheckOutput(func(line string) bool {
			if strings.HasPrefix(line, "info depth") {
				want := fmt.Sprintf("info depth %d *", depth)
				if err := matchGlob(want, line); err != nil {
					t.Errorf("%s", err)
				}
				depth++
			}
			return strings.HasPrefix(line, "bestmove")
		})
		require.Equal(t, 10, depth, "expected info lines for depths 1 through 9")
	})

	return s
}

func matchGlob(pattern, line string) error {
	ok, err := engine.GlobMatch(pattern, line)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("line %q does not match %q", line, pattern)
	}
	return nil
}
