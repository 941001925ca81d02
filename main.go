package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/uci-tools/uci-contract-tests/engine"
	"github.com/uci-tools/uci-contract-tests/framework"
	"github.com/uci-tools/uci-contract-tests/ucitests"
)

var (
	version = "dev"

	rootCmd = &cobra.Command{
		Use:   "uci-contract-tests [flags] <engine-path>",
		Short: "Black-box conformance tests for UCI engines",
		Long: `Drives a UCI engine as a black box: starts the executable, sends protocol
commands over stdin, and asserts on the streamed output under a deadline.
Suites run concurrently with live progress reporting; the engine can be
wrapped in valgrind or checked for sanitizer diagnostics.

A .env file in the working directory, if present, is loaded into the
environment the engine inherits.`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		RunE:          runSuites,
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List suites and cases in execution order",
		Run:   listSuites,
	}
)

func init() {
	rootCmd.AddCommand(listCmd)

	fs := rootCmd.Flags()
	fs.BoolVar(&flags.Valgrind, "valgrind", false, "wrap the engine in valgrind with full leak checking")
	fs.BoolVar(&flags.ValgrindThread, "valgrind-thread", false, "wrap the engine in valgrind with fair thread scheduling")
	fs.BoolVar(&flags.SanitizerUndefined, "sanitizer-undefined", false, "fail cases whose output carries UBSan runtime errors")
	fs.BoolVar(&flags.SanitizerThread, "sanitizer-thread", false, "fail cases whose output carries TSan warnings; enables suppressions")
	fs.DurationVar(&flags.Timeout, "timeout", engine.DefaultTimeout, "deadline for each stream assertion")
	fs.BoolVar(&flags.Plain, "plain", false, "append result lines instead of redrawing (for CI logs)")
	fs.BoolVar(&flags.Progress, "progress", false, "show a progress bar instead of per-case lines")
	fs.Var(&flags.Filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&flags.Filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&flags.Debug, "debug", false, "show captured debug output for failed tests")
	fs.BoolVar(&flags.DebugAll, "debug-all", false, "show captured debug output for all tests")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSuites(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := flags.engineConfig(args[0])
	if err != nil {
		return err
	}

	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, flags.Filters)
	fmt.Println("Running test suite")

	runner := &framework.Runner{
		Filter:         flags.Filters.AsFilter,
		Renderer:       flags.renderer(),
		DebugOnFailure: flags.Debug || flags.DebugAll,
		DebugOnSuccess: flags.DebugAll,
	}
	report := runner.Run(ucitests.AllSuites(cfg))

	if report.HasFailed() {
		os.Exit(1)
	}
	return nil
}

func listSuites(cmd *cobra.Command, args []string) {
	for _, s := range ucitests.AllSuites(ucitests.Config{}) {
		fmt.Println(s.Name)
		for _, c := range s.Cases() {
			fmt.Printf("    %s\n", c.Name)
		}
	}
}
