package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"collegedir/apperr"
	"collegedir/cache"
	"collegedir/metrics"
	"collegedir/models"
	"collegedir/query"
	"collegedir/repository"
)

type InstitutionStore interface {
	Find(ctx context.Context, filter bson.M, limit int64) ([]models.Institution, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Institution, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Institution, error)
}

const errFetchColleges = "Error fetching colleges."

type DirectoryService struct {
	store    InstitutionStore
	cache    cache.Cache
	cacheTTL time.Duration
	showcase []primitive.ObjectID
}

func NewDirectoryService(store InstitutionStore, c cache.Cache, cacheTTL time.Duration, showcase []primitive.ObjectID) *DirectoryService {
	if c == nil {
		c = cache.Noop{}
	}
	return &DirectoryService{store: store, cache: c, cacheTTL: cacheTTL, showcase: showcase}
}

// ListColleges runs the free-text search first. When it finds nothing, or
// no search term was given, it filters by category and branch instead.
func (s *DirectoryService) ListColleges(ctx context.Context, p query.ListParams) ([]models.Institution, error) {
	if filter := query.Search(p.Search); filter != nil {
		found, err := s.store.Find(ctx, filter, 0)
		if err != nil {
			return nil, apperr.WrapStore(err, errFetchColleges)
		}
		if len(found) > 0 {
			return found, nil
		}
		log.Debug().Str("search", p.Search).Msg("search matched nothing, falling back to category/branch")
	}

	found, err := s.store.Find(ctx, query.CategoryBranch(p.Category, p.Branch), 0)
	if err != nil {
		return nil, apperr.WrapStore(err, errFetchColleges)
	}
	return found, nil
}

func (s *DirectoryService) GetCollege(ctx context.Context, rawID string) (*models.Institution, error) {
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return nil, apperr.Validation("College ID is required.")
	}
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, apperr.WrapValidation(err, "Invalid college ID.")
	}

	inst, err := s.store.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("College not found.")
	}
	if err != nil {
		return nil, apperr.WrapStore(err, "Error fetching college info.")
	}
	return inst, nil
}

// TopList returns at most query.TopListLimit institutions.
func (s *DirectoryService) TopList(ctx context.Context, q, course string) ([]models.Institution, error) {
	key := cache.Key("toplist", q, course)
	if strings.TrimSpace(q) != "" {
		// course is ignored when q is set
		key = cache.Key("toplist", q)
	}
	return s.cached(ctx, "toplist", key, func() ([]models.Institution, error) {
		found, err := s.store.Find(ctx, query.TopList(q, course), query.TopListLimit)
		if err != nil {
			return nil, err
		}
		if len(found) > query.TopListLimit {
			found = found[:query.TopListLimit]
		}
		return found, nil
	})
}

// Showcase returns the configured featured institutions by score.
func (s *DirectoryService) Showcase(ctx context.Context) ([]models.Institution, error) {
	return s.cached(ctx, "showcase", cache.Key("showcase"), func() ([]models.Institution, error) {
		found, err := s.store.FindByIDs(ctx, s.showcase)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(found, func(i, j int) bool { return found[i].Score > found[j].Score })
		return found, nil
	})
}

func (s *DirectoryService) cached(ctx context.Context, listing, key string, load func() ([]models.Institution, error)) ([]models.Institution, error) {
	var hit []models.Institution
	err := s.cache.GetJSON(ctx, key, &hit)
	switch {
	case err == nil:
		metrics.CacheLookups.WithLabelValues(listing, "hit").Inc()
		return hit, nil
	case errors.Is(err, cache.ErrMiss):
		metrics.CacheLookups.WithLabelValues(listing, "miss").Inc()
	default:
		metrics.CacheLookups.WithLabelValues(listing, "error").Inc()
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	found, err := load()
	if err != nil {
		return nil, apperr.WrapStore(err, errFetchColleges)
	}
	if err := s.cache.SetJSON(ctx, key, found, s.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return found, nil
}
