// Package preflight provides readiness checks for the external binaries and
// filesystem paths the pipeline depends on.
//
// These checks run in two contexts:
//   - The fetch command calls RunAll before a cascade run. If a required
//     check fails, the run aborts instead of failing a tier at a time.
//   - The CLI "fermata status" command uses individual check functions to
//     display environment health.
//
// Each check is gated by its config toggle; disabled features are skipped.
package preflight
