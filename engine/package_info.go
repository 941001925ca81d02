// Package engine manages a UCI engine as a black-box child process.
//
// An engine can be driven in two ways:
//
// 1. Interactively: Start launches the process with its stdin held open and
// exposes the combined stdout/stderr as a forward-only sequence of lines.
// Commands are written with SendCommand and output is consumed either line
// by line (ReadLine) or through the deadline-bounded assertion methods
// (Equals, Expect, Contains, StartsWith, CheckOutput).
//
// 2. Batch: Run passes the commands on the command line, lets the process
// run to completion, and captures all output together with the exit code.
//
// Every line ever read from an interactive engine is kept in an append-only
// transcript, which instrumentation checks can scan after the fact.
package engine
