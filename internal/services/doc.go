// Package services defines shared utilities consumed by the cascade pipeline
// and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp request IDs, tier labels, and pipeline step
//     names for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     so the cascade controller can tell a soft per-tier failure from a
//     run-aborting one.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across components.
package services
