// Package rewrite holds the targeted text rewriters applied to mirrored addon
// scripts: shared-library import resolution, polyfill injection and asset path
// rewriting.
//
// Every rewriter is a pattern matcher scoped to the call-site shapes that
// actually occur in upstream addon sources. None of them parse JavaScript; a
// construct outside the documented shapes is left untouched.
package rewrite
