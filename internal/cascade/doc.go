// Package cascade drives the descending quality ladder for one download
// request.
//
// The controller tries each configured tier in order, best fidelity first.
// A tier whose download fails or produces nothing advances the cascade; a
// tier whose artifact exceeds the size budget is discarded and retried one
// tier lower, except at the last tier, where the artifact is transcoded down
// exactly once. The first compliant artifact is finalized and released to
// the caller; every other file created along the way is deleted before the
// controller returns, whatever the outcome.
package cascade
