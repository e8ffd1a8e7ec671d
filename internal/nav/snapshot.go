package nav

import (
	"context"
	"sync"
)

// Snapshot holds the menu currently shown to visitors.
//
// Reads may overlap. Each read is stamped when its content-store call
// returns and the latest stamp wins, regardless of when the read started.
// A read whose context is cancelled before it completes is discarded. A
// failed read applies the static-only menu with Degraded set; menus built
// from earlier reads are not kept.
type Snapshot struct {
	loader *Loader

	mu         sync.Mutex
	completed  uint64
	appliedSeq uint64
	current    Tree
}

// NewSnapshot starts with the static-only menu as placeholder.
func NewSnapshot(loader *Loader) *Snapshot {
	return &Snapshot{loader: loader, current: loader.Fallback()}
}

// Current returns the applied menu without reading the content store.
func (s *Snapshot) Current() Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTree(s.current)
}

// Refresh reads the content store once and returns the menu to display,
// reporting whether this read's result was applied.
func (s *Snapshot) Refresh(ctx context.Context) (Tree, bool) {
	pages, err := s.loader.source.MenuPages(ctx)

	s.mu.Lock()
	s.completed++
	stamp := s.completed
	s.mu.Unlock()

	if ctx.Err() != nil {
		return s.Current(), false
	}

	tree := s.loader.compose(ctx, pages, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if stamp < s.appliedSeq {
		return copyTree(s.current), false
	}
	s.appliedSeq = stamp
	s.current = tree
	return copyTree(tree), true
}

func copyTree(t Tree) Tree {
	t.Items = Clone(t.Items)
	return t
}
