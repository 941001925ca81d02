package ucitests

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uci-tools/uci-contract-tests/framework"
)

// fakeEngineScript is a shell stand-in for a UCI engine. It answers the
// handshake, fakes searches with plausible info lines, and replies to the
// fixed mate positions the search suite probes, so the full suite set can
// run against it.
const fakeEngineScript = `#!/bin/sh

emit_id() {
	echo "id name FakeFish 1.0"
	echo "id author nobody"
	echo "option name Threads type spin default 1 min 1 max 1024"
	echo "uciok"
}

search() {
	d=1
	while [ "$d" -le "$1" ]; do
		m=1
		while [ "$m" -le "$2" ]; do
			if [ "$2" -gt 1 ]; then
				echo "info depth $d seldepth $d multipv $m score cp 20 nodes 1000 pv e2e4"
			else
				echo "info depth $d seldepth $d score cp 20 nodes 1000 pv e2e4"
			fi
			m=$((m + 1))
		done
		d=$((d + 1))
	done
	echo "bestmove e2e4"
}

if [ "$#" -gt 0 ]; then
	case "$1" in
	uci) emit_id; exit 0 ;;
	bench) echo "Nodes searched  : 1000"; exit 0 ;;
	go) search 3 1; exit 0 ;;
	eval) echo "Final evaluation: +0.20"; exit 0 ;;
	d) echo "Checkers:"; exit 0 ;;
	*) echo "Unknown command: $1"; exit 1 ;;
	esac
fi

pos=""
mpv=1
while read -r cmd; do
	case "$cmd" in
	uci) emit_id ;;
	isready) echo "readyok" ;;
	"setoption name MultiPV value "*) mpv="${cmd##* }" ;;
	setoption*) : ;;
	ucinewgame) : ;;
	position*) pos="$cmd" ;;
	quit) exit 0 ;;
	"go depth 18 searchmoves c6d7")
		echo "info depth 18 seldepth 4 score mate 2 nodes 1000 pv c6d7 f2f1q f7f5"
		echo "bestmove c6d7"
		;;
	"go depth "*)
		case "$pos" in
		*5K2/8/2qk4*)
			echo "info depth 18 seldepth 2 score mate 1 nodes 1000 pv d5e6"
			echo "bestmove d5e6"
			;;
		*2brrb2*)
			echo "info depth 18 seldepth 2 score mate -1 nodes 1000 pv c8d7"
			echo "bestmove c8d7"
			;;
		*"moves c6d7 f2f1q"*)
			echo "info depth 18 seldepth 2 score mate 1 nodes 1000 pv f7f5"
			echo "bestmove f7f5"
			;;
		*)
			depth="${cmd#go depth }"
			depth="${depth%% *}"
			search "$depth" "$mpv"
			;;
		esac
		;;
	go*) echo "bestmove e2e4" ;;
	esac
done
exit 0
`

func writeFakeEngine(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fakefish")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func quietRunner() *framework.Runner {
	return &framework.Runner{Renderer: framework.NewAppendRenderer(io.Discard)}
}

func dumpOnFailure(t *testing.T, rep *framework.Report) {
	t.Helper()
	if !rep.HasFailed() {
		return
	}
	for _, s := range rep.Suites {
		t.Logf("suite output:\n%s", strings.Join(s.Lines, "\n"))
	}
}

func TestAllSuitesAgainstFakeEngine(t *testing.T) {
	cfg := Config{
		EnginePath: writeFakeEngine(t, fakeEngineScript),
		Timeout:    10 * time.Second,
	}

	rep := quietRunner().Run(AllSuites(cfg))
	dumpOnFailure(t, rep)

	require.Equal(t, 0, rep.SuitesFailed)
	assert.Equal(t, 3, rep.SuitesPassed)
	assert.Equal(t, 0, rep.TestsFailed)
	assert.Equal(t, rep.TestsTotal, rep.TestsPassed)
}

func TestInteractiveSuiteReportsTimeouts(t *testing.T) {
	// Swallows every command and never answers.
	mute := writeFakeEngine(t, "#!/bin/sh\nexec cat >/dev/null\n")

	cfg := Config{
		EnginePath: mute,
		Timeout:    150 * time.Millisecond,
	}

	rep := quietRunner().Run([]*framework.Suite{InteractiveSuite(cfg)})

	require.True(t, rep.HasFailed())
	require.Len(t, rep.Suites, 1)

	sawTimeout := false
	for _, c := range rep.Suites[0].Cases {
		if c.Status == framework.StatusTimedOut {
			sawTimeout = true
			assert.Equal(t, cfg.Timeout, c.Timeout)
		}
	}
	assert.True(t, sawTimeout, "unanswered assertions should be reported as timeouts")
}

func TestBatchSuiteFlagsFailingEngine(t *testing.T) {
	// Exits nonzero for anything but the handshake.
	flaky := writeFakeEngine(t, `#!/bin/sh
if [ "$1" = uci ]; then echo "id name FakeFish 1.0"; echo "uciok"; exit 0; fi
echo "error: out of memory" >&2
exit 1
`)

	cfg := Config{
		EnginePath: flaky,
		Timeout:    10 * time.Second,
	}

	rep := quietRunner().Run([]*framework.Suite{BatchSuite(cfg)})

	require.True(t, rep.HasFailed())
	require.Len(t, rep.Suites, 1)

	failed, passed := 0, 0
	for _, c := range rep.Suites[0].Cases {
		switch c.Status {
		case framework.StatusFailed:
			failed++
		case framework.StatusPassed:
			passed++
		}
	}
	assert.NotZero(t, failed)
	assert.Equal(t, 1, passed, "only the handshake case should survive")
}

func TestConfigThreads(t *testing.T) {
	assert.Equal(t, "1", Config{}.threadsArg())
	assert.Equal(t, "1", Config{Threads: 1}.threadsArg())
	assert.Equal(t, "4", Config{Threads: 4}.threadsArg())
}
