// Package artifact tracks files produced during a cascade run and guarantees
// their removal on every exit path.
//
// Every file an attempt creates is registered with a Lifecycle at the moment
// of creation. Exactly one artifact may be released to survive cleanup: the
// deliverable handed back to the caller. CleanupAll deletes the rest and is
// safe to call from a defer regardless of how the run ended; deletion
// failures are logged, never escalated.
//
// The package also owns artifact discovery: the first audio file in sorted
// directory-walk order, with a same-directory cover image as its companion.
// Sorting keeps discovery reproducible when a download produces more than one
// candidate.
package artifact
