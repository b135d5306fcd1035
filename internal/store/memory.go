package store

import (
	"context"
	"sync"

	"github.com/gridiron-tools/compare-api/internal/models"
)

// MemoryStore serves the projection table loaded from CSV. The reload worker
// swaps its contents atomically.
type MemoryStore struct {
	mu          sync.RWMutex
	players     []models.Player
	playerByID  map[string]int
	projections []models.Projection
	projByID    map[string]int
	version     string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		playerByID: make(map[string]int),
		projByID:   make(map[string]int),
	}
}

// Replace installs a new snapshot.
func (m *MemoryStore) Replace(players []models.Player, projections []models.Projection, version string) {
	playerByID := make(map[string]int, len(players))
	for i, p := range players {
		playerByID[p.ID] = i
	}
	projByID := make(map[string]int, len(projections))
	for i, p := range projections {
		projByID[p.ID] = i
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.players = players
	m.playerByID = playerByID
	m.projections = projections
	m.projByID = projByID
	m.version = version
}

// Len returns the number of players loaded.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.players)
}

func (m *MemoryStore) ListPlayers(ctx context.Context) ([]models.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Player(nil), m.players...), nil
}

func (m *MemoryStore) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.playerByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	p := m.players[i]
	return &p, nil
}

func (m *MemoryStore) ListProjections(ctx context.Context) ([]models.Projection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Projection(nil), m.projections...), nil
}

func (m *MemoryStore) GetProjection(ctx context.Context, id string) (*models.Projection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.projByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	p := m.projections[i]
	return &p, nil
}

func (m *MemoryStore) Version() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}
