package ucitests

import (
	"os"
	"path/filepath"
	"strings"
)

// benchPositions is a small mixed bag of middlegame positions for bench
// runs against a caller-visible EPD file, as opposed to the engine's
// built-in default set.
var benchPositions = []string{
	"Rn6/1rbq1bk1/2p2n1p/2Bp1p2/3Pp1pP/1N2P1P1/2Q1NPB1/6K1 w - - 2 26",
	"rnbqkb1r/ppp1pp2/5n1p/3p2p1/P2PP3/5P2/1PP3PP/RNBQKBNR w KQkq - 0 3",
	"3qnrk1/4bp1p/1p2p1pP/p2bN3/1P1P1B2/P2BQ3/5PP1/4R1K1 w - - 9 28",
	"r4rk1/1b2ppbp/pq4pn/2pp1PB1/1p2P3/1P1P1NN1/1PP3PP/R2Q1RK1 w - - 0 13",
}

// writeBenchEPD creates the scratch EPD fixture and returns its file name,
// which is relative to dir so engines running with dir as their working
// directory can open it directly.
func writeBenchEPD(dir string) (string, error) {
	const name = "bench_tmp.epd"
	content := strings.Join(benchPositions, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		return "", err
	}
	return name, nil
}
