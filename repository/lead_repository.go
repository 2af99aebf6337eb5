package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"collegedir/forms"
	"collegedir/models"
)

// LeadRepository writes form submissions, one collection per form type.
type LeadRepository struct {
	db      *mongo.Database
	timeout time.Duration
}

func NewLeadRepository(db *mongo.Database, timeout time.Duration) *LeadRepository {
	return &LeadRepository{db: db, timeout: timeout}
}

// Insert stores the lead as a flat document in the form's declared field
// order, followed by created_at.
func (r *LeadRepository) Insert(ctx context.Context, form *forms.Form, lead *models.Lead) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if lead.ID.IsZero() {
		lead.ID = primitive.NewObjectID()
	}
	_, err := r.db.Collection(form.Collection).InsertOne(ctx, LeadDocument(form, lead))
	return err
}

// LeadDocument renders a lead the way it is persisted.
func LeadDocument(form *forms.Form, lead *models.Lead) bson.D {
	doc := bson.D{{Key: "_id", Value: lead.ID}}
	for _, col := range form.StoredColumns() {
		doc = append(doc, bson.E{Key: col, Value: lead.Fields[col]})
	}
	return append(doc, bson.E{Key: "created_at", Value: lead.CreatedAt})
}
