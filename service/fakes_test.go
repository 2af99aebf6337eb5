package service

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"collegedir/cache"
	"collegedir/forms"
	"collegedir/models"
	"collegedir/repository"
)

type findCall struct {
	filter bson.M
	limit  int64
}

// fakeInstitutions answers Find calls in order from results.
type fakeInstitutions struct {
	results [][]models.Institution
	err     error
	byID    map[primitive.ObjectID]models.Institution

	calls   []findCall
	idCalls [][]primitive.ObjectID
}

func (f *fakeInstitutions) Find(_ context.Context, filter bson.M, limit int64) ([]models.Institution, error) {
	f.calls = append(f.calls, findCall{filter: filter, limit: limit})
	if f.err != nil {
		return nil, f.err
	}
	i := len(f.calls) - 1
	if i >= len(f.results) {
		return []models.Institution{}, nil
	}
	return f.results[i], nil
}

func (f *fakeInstitutions) FindByID(_ context.Context, id primitive.ObjectID) (*models.Institution, error) {
	if f.err != nil {
		return nil, f.err
	}
	inst, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &inst, nil
}

func (f *fakeInstitutions) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Institution, error) {
	f.idCalls = append(f.idCalls, ids)
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Institution
	for _, id := range ids {
		if inst, ok := f.byID[id]; ok {
			out = append(out, inst)
		}
	}
	return out, nil
}

type fakeLeads struct {
	mu       sync.Mutex
	err      error
	inserted []*models.Lead
}

func (f *fakeLeads) Insert(_ context.Context, _ *forms.Form, lead *models.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	lead.ID = primitive.NewObjectID()
	f.inserted = append(f.inserted, lead)
	return nil
}

type fakePublisher struct {
	err       error
	published []*models.Lead
}

func (p *fakePublisher) LeadCaptured(_ context.Context, lead *models.Lead) error {
	p.published = append(p.published, lead)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

// memoryCache is a map-backed cache.Cache.
type memoryCache struct {
	items map[string][]models.Institution
	sets  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]models.Institution{}}
}

func (m *memoryCache) GetJSON(_ context.Context, key string, dest any) error {
	v, ok := m.items[key]
	if !ok {
		return cache.ErrMiss
	}
	*(dest.(*[]models.Institution)) = v
	return nil
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	m.sets++
	m.items[key] = value.([]models.Institution)
	return nil
}

func (m *memoryCache) Close() error { return nil }

func institution(name string, score float64) models.Institution {
	return models.Institution{ID: primitive.NewObjectID(), Name: name, Score: score}
}
