// Package ucitests contains the UCI conformance suites and the
// engine-aware test API they are written against.
//
// Suites are declared with framework.Suite so their cases run in
// declaration order; the interactive suites deliberately rely on that,
// letting later cases assume options and positions set up by earlier ones
// on the same engine process.
package ucitests
