package models

// DatesDiffResult holds the outcome of comparing the freshly scraped test
// dates against the previously persisted list.
type DatesDiffResult struct {
	Added     []string
	Removed   []string
	Unchanged []string
	// TextDiff is a human-readable rendering of the change, for logs and
	// notification bodies.
	TextDiff string
}

// HasChanges reports whether the date list differs from the stored one.
func (d DatesDiffResult) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}
