package watcher

import (
	"context"
	"log"
	"sync"
)

// BuildFunc runs a verification build. files lists the changed sources that
// triggered it; nil means a full rebuild, as after a branch switch.
type BuildFunc func(ctx context.Context, files []string)

// Coordinator routes source and branch events to a build function.
type Coordinator struct {
	sources  SourceWatcher
	branches BranchWatcher // nil outside a git repository
	build    BuildFunc
	buildMu  sync.Mutex      // Maven builds cannot overlap on one working tree
	ctx      context.Context // set by Start; builds inherit it for cancellation
}

// NewCoordinator creates a coordinator. branches may be nil when the project
// is not under git; branch switches are then simply not tracked.
func NewCoordinator(sources SourceWatcher, branches BranchWatcher, build BuildFunc) *Coordinator {
	return &Coordinator{
		sources:  sources,
		branches: branches,
		build:    build,
	}
}

// Start begins coordinating watchers and routing events to the build.
// Blocks until the context is cancelled or a watcher fails to start.
func (c *Coordinator) Start(ctx context.Context) error {
	c.ctx = ctx

	srcErr := make(chan error, 1)
	branchErr := make(chan error, 1)

	go func() {
		if err := c.sources.Start(ctx, c.handleSourceChange); err != nil {
			srcErr <- err
		}
	}()

	if c.branches != nil {
		go func() {
			if err := c.branches.Start(ctx, c.handleBranchSwitch); err != nil {
				branchErr <- err
			}
		}()
	}

	select {
	case err := <-srcErr:
		c.cleanup()
		return err
	case err := <-branchErr:
		c.cleanup()
		return err
	case <-ctx.Done():
		c.cleanup()
		return ctx.Err()
	}
}

// cleanup stops both watchers.
func (c *Coordinator) cleanup() {
	if err := c.sources.Stop(); err != nil {
		log.Printf("Warning: source watcher stop failed: %v", err)
	}

	if c.branches != nil {
		if err := c.branches.Stop(); err != nil {
			log.Printf("Warning: branch watcher stop failed: %v", err)
		}
	}
}

// handleSourceChange runs a build for a debounced batch of changed files.
func (c *Coordinator) handleSourceChange(files []string) {
	if len(files) == 0 {
		return
	}

	log.Printf("Rebuilding after %d source change(s)...", len(files))

	c.buildMu.Lock()
	defer c.buildMu.Unlock()
	c.build(c.ctx, files)
}

// handleBranchSwitch pauses source watching, runs a full rebuild on the new
// branch, then resumes. Edits made during the rebuild accumulate and fire
// once watching resumes.
func (c *Coordinator) handleBranchSwitch(oldBranch, newBranch string) {
	log.Printf("Branch switch detected: %s → %s", oldBranch, newBranch)

	c.sources.Pause()
	defer c.sources.Resume()

	c.buildMu.Lock()
	defer c.buildMu.Unlock()
	c.build(c.ctx, nil)
}
