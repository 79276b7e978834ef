package cqrs

// SeedDatasetCommand loads the remote dataset into the store. Force seeds
// even when the store already holds transactions.
type SeedDatasetCommand struct {
	SourceURL string
	Force     bool
}
