package blockstore

import (
	"context"
	"sync"

	"github.com/mivelabs/multiverse/block"
	"github.com/mivelabs/multiverse/blockid"
)

// Memory is a map-backed Store used by tests and the §8 scenario harness.
// It is safe for concurrent use, unlike the multiverse itself, since
// several orchestrator goroutines may be fetching blocks concurrently even
// when only one owns the multiverse.
type Memory struct {
	mu     sync.RWMutex
	blocks map[blockid.ID]block.Block
}

// NewMemory returns an empty in-memory block store.
func NewMemory() *Memory {
	return &Memory{blocks: make(map[blockid.ID]block.Block)}
}

func (m *Memory) GetBlockInfo(ctx context.Context, id blockid.ID) (Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blocks[id]
	if !ok {
		return Info{}, ErrNotFound
	}
	return Info{ParentID: b.Header.ParentID, ChainLength: b.Header.ChainLength}, nil
}

func (m *Memory) GetBlock(ctx context.Context, id blockid.ID) (block.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blocks[id]
	if !ok {
		return block.Block{}, ErrNotFound
	}
	return b, nil
}

func (m *Memory) PutBlock(ctx context.Context, b block.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocks[b.ID()] = b
	return nil
}

// Len reports how many blocks are stored, for test assertions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blocks)
}
