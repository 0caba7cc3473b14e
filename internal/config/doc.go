// Package config loads, normalizes, and validates fermata configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// AUDD_API_TOKEN. The Config type centralizes every knob the CLI and pipeline
// need: download/output directories, quality tiers, the deliverable size
// budget, and external binary names.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, ordered tier lists, and clear validation errors.
package config
