package requests

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/desabantuin/internal/client/models"
)

// MemoryRepository keeps requests in process memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	items  []models.Request
	nextID int64
}

// NewMemoryRepository returns a repository holding copies of seed.
func NewMemoryRepository(seed ...models.Request) *MemoryRepository {
	m := &MemoryRepository{nextID: 1}
	for _, r := range seed {
		m.items = append(m.items, cloneRequest(r))
		if r.ID >= m.nextID {
			m.nextID = r.ID + 1
		}
	}
	return m
}

func cloneRequest(r models.Request) models.Request {
	r.Attachments = slices.Clone(r.Attachments)
	if r.UpdatedAt != nil {
		u := *r.UpdatedAt
		r.UpdatedAt = &u
	}
	return r
}

func (m *MemoryRepository) List(_ context.Context) ([]models.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Request, 0, len(m.items))
	for _, r := range m.items {
		out = append(out, cloneRequest(r))
	}
	slices.SortStableFunc(out, func(a, b models.Request) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	return out, nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id int64) (*models.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.items {
		if r.ID == id {
			c := cloneRequest(r)
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) Create(_ context.Context, req *models.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	req.ID = m.nextID
	m.nextID++
	m.items = append(m.items, cloneRequest(*req))
	return nil
}
