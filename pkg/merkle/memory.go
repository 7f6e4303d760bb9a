package merkle

import (
	"context"
	"sort"
	"sync"
)

// MemoryStorer keeps nodes in a map. It is the default when no database path
// is configured.
type MemoryStorer struct {
	mu    sync.RWMutex
	nodes map[string]*Node
}

// NewMemoryStorer returns an empty in-memory store.
func NewMemoryStorer() *MemoryStorer {
	return &MemoryStorer{nodes: make(map[string]*Node)}
}

func (s *MemoryStorer) Put(_ context.Context, node *Node) error {
	if node == nil {
		return errNilNode
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[node.Hash]; !ok {
		s.nodes[node.Hash] = node
	}
	return nil
}

func (s *MemoryStorer) Get(_ context.Context, hash string) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	node, ok := s.nodes[hash]
	if !ok {
		return nil, ErrNotFound{Hash: hash}
	}
	return node, nil
}

func (s *MemoryStorer) Has(_ context.Context, hash string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[hash]
	return ok, nil
}

func (s *MemoryStorer) GetByParent(_ context.Context, parentHash *string) ([]*Node, error) {
	return s.filter(func(n *Node) bool {
		if parentHash == nil {
			return n.ParentHash == nil
		}
		return n.ParentHash != nil && *n.ParentHash == *parentHash
	}), nil
}

func (s *MemoryStorer) List(_ context.Context) ([]*Node, error) {
	return s.filter(func(*Node) bool { return true }), nil
}

func (s *MemoryStorer) Roots(ctx context.Context) ([]*Node, error) {
	return s.GetByParent(ctx, nil)
}

func (s *MemoryStorer) Leaves(_ context.Context) ([]*Node, error) {
	s.mu.RLock()
	parents := make(map[string]bool, len(s.nodes))
	for _, n := range s.nodes {
		if n.ParentHash != nil {
			parents[*n.ParentHash] = true
		}
	}
	s.mu.RUnlock()

	return s.filter(func(n *Node) bool { return !parents[n.Hash] }), nil
}

func (s *MemoryStorer) Ancestry(ctx context.Context, hash string) ([]*Node, error) {
	return ancestry(ctx, s.Get, hash)
}

func (s *MemoryStorer) Depth(ctx context.Context, hash string) (int, error) {
	path, err := s.Ancestry(ctx, hash)
	if err != nil {
		return 0, err
	}
	return len(path) - 1, nil
}

func (s *MemoryStorer) Close() error {
	return nil
}

// filter returns matching nodes sorted by hash, so results are stable.
func (s *MemoryStorer) filter(keep func(*Node) bool) []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*Node{}
	for _, n := range s.nodes {
		if keep(n) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hash < out[j].Hash })
	return out
}
