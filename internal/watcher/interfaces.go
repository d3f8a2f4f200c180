package watcher

import "context"

// SourceWatcher monitors source directories for changes with debouncing and
// pause/resume support.
type SourceWatcher interface {
	// Start begins watching, calling callback with debounced batches of
	// changed files.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the watcher and cleans up resources.
	Stop() error

	// Pause stops firing callbacks but continues accumulating events.
	Pause()

	// Resume resumes firing callbacks. If events accumulated during pause, fires immediately.
	Resume()
}

// BranchWatcher monitors .git/HEAD and reports branch switches.
type BranchWatcher interface {
	// Start begins monitoring, calling callback with the old and new branch
	// on every switch.
	Start(ctx context.Context, callback func(oldBranch, newBranch string)) error

	// Stop stops the watcher and cleans up resources.
	Stop() error
}
