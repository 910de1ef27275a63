// Package git mirrors the upstream addon repository into a local checkout
// and reports the short hash of the checked-out commit.
//
// Clones are always fresh: the checkout directory is removed first, then a
// single-branch clone of the configured depth is made with go-git.
// Transient failures (timeouts, rate limits) are retried; authentication and
// not-found failures are permanent.
package git
