// Package assembly turns a raw downloaded artifact into a deliverable track.
//
// It extracts metadata from embedded tags first and falls back to a
// folder/filename heuristic ("Artist - Album (Year)" directories, "NN. Title"
// files) when tags are absent. Missing fields default to sentinels; metadata
// gaps never fail the pipeline. The assembler also remuxes an optional cover
// image into the artifact and derives the canonical display filename, which
// is deterministic for identical inputs.
package assembly
