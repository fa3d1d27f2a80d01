package workspace

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryStore struct {
	mu   sync.RWMutex
	docs map[string]Workspace
}

// NewMemoryStore returns an in-memory Store used by tests and local
// development.
func NewMemoryStore() Store {
	return &memoryStore{docs: make(map[string]Workspace)}
}

func (s *memoryStore) Get(ctx context.Context, id string) (*Workspace, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ws, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneWorkspace(ws)
	return &cp, nil
}

func (s *memoryStore) ListByUser(ctx context.Context, userID string) ([]Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Workspace
	for _, ws := range s.docs {
		if _, ok := ws.FindCollaborator(userID); ok {
			out = append(out, cloneWorkspace(ws))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memoryStore) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, ws := range s.docs {
		if ws.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (s *memoryStore) Save(ctx context.Context, ws *Workspace) error {
	if ws == nil || ws.ID == "" {
		return ErrMissingID
	}

	ws.UpdatedAt = time.Now().UTC()
	if ws.CreatedAt.IsZero() {
		ws.CreatedAt = ws.UpdatedAt
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[ws.ID] = cloneWorkspace(*ws)
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

func cloneWorkspace(ws Workspace) Workspace {
	cp := ws
	if ws.Collaborators != nil {
		cp.Collaborators = make([]Collaborator, len(ws.Collaborators))
		copy(cp.Collaborators, ws.Collaborators)
	}
	if ws.WebsiteIDs != nil {
		cp.WebsiteIDs = make([]string, len(ws.WebsiteIDs))
		copy(cp.WebsiteIDs, ws.WebsiteIDs)
	}
	return cp
}
