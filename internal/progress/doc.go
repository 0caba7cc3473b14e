// Package progress decodes the text output of external download tools into
// discrete percentage events.
//
// The parser accumulates raw bytes, terminates records on both newline and
// carriage return (tools that redraw a terminal line emit CR-only updates),
// and scans each record for a percentage pattern. Emission is debounced: a
// value must advance by a configured threshold since the last emitted event,
// except near completion, so downstream sinks that edit chat messages or
// terminal lines are not flooded.
//
// Malformed input never produces an error; records without a recognizable
// percentage simply yield no event.
package progress
