// Package qobuzdl mediates access to the qobuz-dl CLI used to fetch tracks.
//
// It normalizes command invocation, merges the tool's stdout and stderr into
// one stream so progress lines are observed in true emission order, decodes
// carriage-return progress updates through the progress parser, and exposes a
// testable Executor seam.
//
// Prefer this package over ad-hoc exec.Command usage when interacting with
// the downloader so progress reporting and timeout handling stay consistent.
package qobuzdl
