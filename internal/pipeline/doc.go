// Package pipeline drives one mirror run over an upstream addon tree.
//
// A run is a fixed sequence of stages executed on a single goroutine:
//
//	reset_output -> addons -> locales -> indexes -> metadata
//
// The only concurrent work is the translator fetch, started before the first
// stage and awaited before Run returns. Its failure is logged and reported in
// the Result but never fails the run.
package pipeline
