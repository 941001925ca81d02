package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/uci-tools/uci-contract-tests/engine"
	"github.com/uci-tools/uci-contract-tests/framework"
	"github.com/uci-tools/uci-contract-tests/ucitests"
)

type commandParams struct {
	Valgrind           bool
	ValgrindThread     bool
	SanitizerUndefined bool
	SanitizerThread    bool
	Timeout            time.Duration
	Plain              bool
	Progress           bool
	Debug              bool
	DebugAll           bool
	Filters            framework.RegexFilters
}

var flags commandParams

// defaultTSANSuppressions mirrors the suppressions shipped with the
// reference engine: its lock-less transposition table reads race by design.
var defaultTSANSuppressions = []string{
	"race:Stockfish::TTEntry::read",
	"race:Stockfish::TTEntry::save",
	"race:Stockfish::TranspositionTable::probe",
	"race:Stockfish::TranspositionTable::hashfull",
}

func (p *commandParams) prefix() []string {
	if p.Valgrind {
		return engine.ValgrindCommand()
	}
	if p.ValgrindThread {
		return engine.ValgrindThreadCommand()
	}
	return nil
}

// threads returns the engine thread count: thread-checking instrumentation
// needs at least two threads to have anything to race.
func (p *commandParams) threads() int {
	if p.ValgrindThread || p.SanitizerThread {
		return 2
	}
	return 1
}

func (p *commandParams) engineConfig(path string) (ucitests.Config, error) {
	// Engines run inside per-suite scratch directories, so the executable
	// path has to survive the chdir.
	abs, err := filepath.Abs(path)
	if err != nil {
		return ucitests.Config{}, err
	}
	if _, err := os.Stat(abs); err != nil {
		return ucitests.Config{}, fmt.Errorf("engine executable: %w", err)
	}

	cfg := ucitests.Config{
		EnginePath:     abs,
		Prefix:         p.prefix(),
		Timeout:        p.Timeout,
		Threads:        p.threads(),
		SanitizerCheck: p.SanitizerUndefined || p.SanitizerThread,
	}
	if p.SanitizerThread {
		cfg.TSANSuppressions = defaultTSANSuppressions
	}
	return cfg, nil
}

func (p *commandParams) renderer() framework.Renderer {
	switch {
	case p.Progress:
		return framework.NewProgressRenderer(os.Stdout)
	case p.Plain:
		return framework.NewAppendRenderer(os.Stdout)
	default:
		return framework.NewConsoleRenderer(os.Stdout)
	}
}
