package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"collegedir/metrics"
	"collegedir/models"
	"collegedir/query"
)

// ErrNotFound is returned when no document matches an identifier.
var ErrNotFound = errors.New("document not found")

type InstitutionRepository struct {
	Col     *mongo.Collection
	timeout time.Duration
}

func NewInstitutionRepository(col *mongo.Collection, timeout time.Duration) *InstitutionRepository {
	return &InstitutionRepository{Col: col, timeout: timeout}
}

// Find returns institutions matching filter ordered by score. limit <= 0
// means no limit. Documents that cannot be decoded are logged and skipped.
func (r *InstitutionRepository) Find(ctx context.Context, filter bson.M, limit int64) ([]models.Institution, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(query.ByScore())
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	institutions := make([]models.Institution, 0)
	for cur.Next(ctx) {
		var inst models.Institution
		if err := cur.Decode(&inst); err != nil {
			metrics.InstitutionDecodeFailures.Inc()
			log.Ctx(ctx).Warn().Err(err).
				Str("id", cur.Current.Lookup("_id").String()).
				Msg("skipping undecodable institution")
			continue
		}
		institutions = append(institutions, inst)
	}
	return institutions, cur.Err()
}

func (r *InstitutionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Institution, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var inst models.Institution
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&inst)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *InstitutionRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Institution, error) {
	if len(ids) == 0 {
		return []models.Institution{}, nil
	}
	return r.Find(ctx, query.IDs(ids), 0)
}

// ExistingNames reports which of names are already stored. Names are compared
// ignoring case; the result is keyed by query.NameKey.
func (r *InstitutionRepository) ExistingNames(ctx context.Context, names []string) (map[string]bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	found := make(map[string]bool)
	if len(names) == 0 {
		return found, nil
	}
	values, err := r.Col.Distinct(ctx, query.FieldName, query.Names(names))
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		if s, ok := v.(string); ok {
			found[query.NameKey(s)] = true
		}
	}
	return found, nil
}

func (r *InstitutionRepository) Insert(ctx context.Context, inst *models.Institution) (primitive.ObjectID, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if inst.ID.IsZero() {
		inst.ID = primitive.NewObjectID()
	}
	if _, err := r.Col.InsertOne(ctx, inst); err != nil {
		return primitive.NilObjectID, err
	}
	return inst.ID, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
