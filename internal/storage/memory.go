package storage

import (
	"context"
	"encoding/json"
	"sync"

	"daybreak/backend/internal/game"
)

// MemorySnapshots keeps snapshots in process memory. It serves deployments
// without a database; nothing survives a restart.
type MemorySnapshots struct {
	mu       sync.RWMutex
	live     map[string][]byte
	archived map[string][]byte
}

var _ game.Persistence = (*MemorySnapshots)(nil)

func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{
		live:     make(map[string][]byte),
		archived: make(map[string][]byte),
	}
}

func (m *MemorySnapshots) Save(_ context.Context, g *game.Game) error {
	b, err := json.Marshal(g)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.live[g.ID] = b
	m.mu.Unlock()
	return nil
}

func (m *MemorySnapshots) Load(_ context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	b, ok := m.live[id]
	m.mu.RUnlock()
	if !ok {
		return nil, game.NotFound("game")
	}
	return decode(b)
}

func (m *MemorySnapshots) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.live, id)
	m.mu.Unlock()
	return nil
}

func (m *MemorySnapshots) Archive(_ context.Context, g *game.Game) error {
	b, err := json.Marshal(g)
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.live, g.ID)
	m.archived[g.ID] = b
	m.mu.Unlock()
	return nil
}

func (m *MemorySnapshots) Archived(_ context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	b, ok := m.archived[id]
	m.mu.RUnlock()
	if !ok {
		return nil, game.NotFound("game")
	}
	return decode(b)
}

func decode(b []byte) (*game.Game, error) {
	var g game.Game
	if err := json.Unmarshal(b, &g); err != nil {
		return nil, err
	}
	return &g, nil
}
