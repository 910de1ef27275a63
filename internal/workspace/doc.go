// Package workspace manages the generated subtrees of the output directory.
//
// The output directory also holds hand-written modules (event-target.js,
// environment.js) that generated code imports, so it is never removed as a
// whole. Only the subdirectories listed in Managed are cleared on Reset.
package workspace
