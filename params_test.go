package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uci-tools/uci-contract-tests/framework"
)

func TestPrefixSelection(t *testing.T) {
	assert.Nil(t, (&commandParams{}).prefix())
	assert.Contains(t, (&commandParams{Valgrind: true}).prefix(), "valgrind")
	assert.Contains(t, (&commandParams{ValgrindThread: true}).prefix(), "--fair-sched=try")
}

func TestThreadsForThreadChecking(t *testing.T) {
	assert.Equal(t, 1, (&commandParams{}).threads())
	assert.Equal(t, 1, (&commandParams{SanitizerUndefined: true}).threads())
	assert.Equal(t, 2, (&commandParams{ValgrindThread: true}).threads())
	assert.Equal(t, 2, (&commandParams{SanitizerThread: true}).threads())
}

func TestEngineConfig(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "engine")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755))

	p := &commandParams{Timeout: 30 * time.Second, SanitizerThread: true}
	cfg, err := p.engineConfig(bin)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.EnginePath))
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.Threads)
	assert.True(t, cfg.SanitizerCheck)
	assert.NotEmpty(t, cfg.TSANSuppressions)
}

func TestEngineConfigRejectsMissingBinary(t *testing.T) {
	p := &commandParams{}
	_, err := p.engineConfig(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestRendererSelection(t *testing.T) {
	assert.IsType(t, &framework.ConsoleRenderer{}, (&commandParams{}).renderer())
	assert.IsType(t, &framework.AppendRenderer{}, (&commandParams{Plain: true}).renderer())
	assert.IsType(t, &framework.ProgressRenderer{}, (&commandParams{Progress: true}).renderer())
}
