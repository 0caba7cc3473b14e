package cascade

// Gate decides whether an artifact fits the deliverable size budget. The
// margin shrinks the effective ceiling so borderline artifacts are demoted a
// tier early rather than rejected downstream.
type Gate struct {
	BudgetBytes int64
	MarginBytes int64
}

// Fits reports whether size is within the effective ceiling.
func (g Gate) Fits(size int64) bool {
	return size <= g.Limit()
}

// Limit returns the effective ceiling in bytes.
func (g Gate) Limit() int64 {
	limit := g.BudgetBytes - g.MarginBytes
	if limit < 0 {
		return 0
	}
	return limit
}
