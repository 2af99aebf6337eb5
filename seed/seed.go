// Package seed loads institution records from a JSON export into the store.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"collegedir/models"
	"collegedir/query"
	"collegedir/validation"
)

type Store interface {
	ExistingNames(ctx context.Context, names []string) (map[string]bool, error)
	Insert(ctx context.Context, inst *models.Institution) (primitive.ObjectID, error)
}

type Options struct {
	Workers      int
	DryRun       bool
	SkipExisting bool
}

// Report counts what happened to every record read.
type Report struct {
	Read       int
	Duplicates int
	Existing   int
	Invalid    int
	Inserted   int
	Failed     int
	Problems   []string
}

func (r Report) String() string {
	return fmt.Sprintf("read=%d inserted=%d duplicates=%d existing=%d invalid=%d failed=%d",
		r.Read, r.Inserted, r.Duplicates, r.Existing, r.Invalid, r.Failed)
}

// Load decodes a JSON array of institutions. Legacy eligibility maps are
// converted while decoding.
func Load(r io.Reader) ([]models.Institution, error) {
	var records []models.Institution
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode institutions: %w", err)
	}
	return records, nil
}

type Importer struct {
	store     Store
	validator *validation.Validator
	now       func() time.Time
}

func NewImporter(store Store, v *validation.Validator) *Importer {
	return &Importer{store: store, validator: v, now: func() time.Time { return time.Now().UTC() }}
}

// Run validates and inserts records. Only the first record with a given name
// is kept; names compare by query.NameKey, within the file and against the
// store. Per-record failures are counted, not returned; the error is for
// failures that stop the whole run.
func (im *Importer) Run(ctx context.Context, records []models.Institution, opts Options) (Report, error) {
	rep := Report{Read: len(records)}

	seen := make(map[string]bool, len(records))
	batch := make([]*models.Institution, 0, len(records))
	for i := range records {
		inst := &records[i]
		inst.Name = strings.TrimSpace(inst.Name)
		key := query.NameKey(inst.Name)
		if inst.Name != "" && seen[key] {
			rep.Duplicates++
			continue
		}
		seen[key] = true

		if inst.Score == 0 {
			inst.Score = inst.ComputeScore()
		}
		if err := im.validator.Struct(inst); err != nil {
			rep.Invalid++
			for _, p := range validation.Describe(err) {
				rep.Problems = append(rep.Problems, fmt.Sprintf("%s: %s", label(inst, i), p))
			}
			continue
		}
		batch = append(batch, inst)
	}

	if opts.SkipExisting && len(batch) > 0 {
		names := make([]string, len(batch))
		for i, inst := range batch {
			names[i] = inst.Name
		}
		existing, err := im.store.ExistingNames(ctx, names)
		if err != nil {
			return rep, fmt.Errorf("look up existing names: %w", err)
		}
		kept := batch[:0]
		for _, inst := range batch {
			if existing[query.NameKey(inst.Name)] {
				rep.Existing++
				continue
			}
			kept = append(kept, inst)
		}
		batch = kept
	}

	if opts.DryRun {
		log.Info().Int("would_insert", len(batch)).Msg("dry run, nothing written")
		return rep, nil
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, inst := range batch {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			now := im.now()
			inst.CreatedAt, inst.UpdatedAt = now, now
			id, err := im.store.Insert(gctx, inst)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				rep.Failed++
				rep.Problems = append(rep.Problems, fmt.Sprintf("%s: insert failed: %v", inst.Name, err))
				log.Error().Err(err).Str("name", inst.Name).Msg("insert failed")
				return nil
			}
			rep.Inserted++
			log.Debug().Str("name", inst.Name).Str("id", id.Hex()).Msg("inserted")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rep, err
	}
	return rep, nil
}

func label(inst *models.Institution, index int) string {
	if inst.Name != "" {
		return inst.Name
	}
	return fmt.Sprintf("record %d", index)
}
