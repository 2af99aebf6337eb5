package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead is a single form submission. Fields holds the stored column names
// mapped to their submitted values.
type Lead struct {
	ID        primitive.ObjectID `json:"id"`
	Form      string             `json:"form"`
	Submitter string             `json:"submitter"`
	Fields    map[string]string  `json:"fields"`
	CreatedAt time.Time          `json:"created_at"`
}
