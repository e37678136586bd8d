package store

import (
	"context"
	"sort"
	"sync"

	"github.com/SindhuAbhirami/civic-watch/models"
)

// Memory keeps every collection in process memory. Records are copied on
// the way in and out so callers cannot alias stored state.
type Memory struct {
	mu     sync.RWMutex
	actors map[models.Role]map[int64]models.Actor
	issues map[int64]models.Issue
}

func NewMemory() *Memory {
	return &Memory{
		actors: map[models.Role]map[int64]models.Actor{
			models.RoleCitizen:  {},
			models.RoleOfficial: {},
		},
		issues: map[int64]models.Issue{},
	}
}

func (m *Memory) FindActor(_ context.Context, role models.Role, id int64) (*models.Actor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.actors[role][id]
	if !ok {
		return nil, ErrNotFound
	}
	a = a.Clone()
	return &a, nil
}

func (m *Memory) FindActorByUsername(_ context.Context, role models.Role, username string) (*models.Actor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.actors[role] {
		if a.Username == username {
			a = a.Clone()
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListActors(_ context.Context, role models.Role) ([]models.Actor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Actor, 0, len(m.actors[role]))
	for _, a := range m.actors[role] {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) SaveActor(_ context.Context, actor *models.Actor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	coll, ok := m.actors[actor.Role]
	if !ok {
		coll = map[int64]models.Actor{}
		m.actors[actor.Role] = coll
	}
	coll[actor.ID] = actor.Clone()
	return nil
}

func (m *Memory) FindIssue(_ context.Context, id int64) (*models.Issue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.issues[id]
	if !ok {
		return nil, ErrNotFound
	}
	i = i.Clone()
	return &i, nil
}

func (m *Memory) ListIssues(_ context.Context) ([]models.Issue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Issue, 0, len(m.issues))
	for _, i := range m.issues {
		out = append(out, i.Clone())
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (m *Memory) SaveIssue(_ context.Context, issue *models.Issue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issues[issue.ID] = issue.Clone()
	return nil
}
