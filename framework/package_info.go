// Package framework contains the generic test-orchestration machinery,
// independent of what is being tested.
//
// The general model is:
//
// 1. A Suite is a named, ordered list of cases plus optional lifecycle
// hooks. Case order is exactly declaration order, because later cases may
// rely on protocol state established by earlier ones.
//
// 2. A Runner executes every suite on its own goroutine, with cases running
// sequentially inside each suite. All results funnel into a shared Report
// under a single lock.
//
// 3. A Renderer turns the report into console output while the run is in
// progress and prints one final summary afterwards. The rendering strategy
// (live rewrite, append-only, progress bar) is an explicit configuration
// choice.
//
// 4. There is a test context T similar to Go's *testing.T, so test logic
// can accumulate failures, abort early, and use assertion libraries that
// only need Errorf and FailNow.
//
// The domain-specific code that knows what is being tested provides the
// suites and a domain API on top of T.
package framework
