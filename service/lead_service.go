package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"collegedir/apperr"
	"collegedir/events"
	"collegedir/forms"
	"collegedir/metrics"
	"collegedir/models"
	"collegedir/validation"
)

type LeadStore interface {
	Insert(ctx context.Context, form *forms.Form, lead *models.Lead) error
}

const publishTimeout = 5 * time.Second

type LeadService struct {
	store     LeadStore
	forms     *forms.Registry
	validator *validation.Validator
	publisher events.Publisher
	now       func() time.Time
}

func NewLeadService(store LeadStore, registry *forms.Registry, v *validation.Validator, publisher events.Publisher) *LeadService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &LeadService{
		store:     store,
		forms:     registry,
		validator: v,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates body against the form's required fields and stores it.
// Nothing is written when validation fails.
func (s *LeadService) Submit(ctx context.Context, formType string, body map[string]any) (*models.Lead, error) {
	form, ok := s.forms.Lookup(formType)
	if !ok {
		return nil, apperr.NotFound("Unknown form.")
	}

	values, err := form.Extract(body)
	if err != nil {
		metrics.LeadSubmissions.WithLabelValues(form.Type, "invalid").Inc()
		return nil, err
	}
	if missing, ok := s.validator.Required(form.Required(), values); !ok {
		metrics.LeadSubmissions.WithLabelValues(form.Type, "invalid").Inc()
		log.Info().Str("form", form.Type).Str("missing", missing).Msg("lead rejected: missing required field")
		return nil, apperr.Validation("All fields are required.")
	}

	lead := &models.Lead{
		Form:      form.Type,
		Submitter: values[form.Submitter],
		Fields:    form.Columns(values),
		CreatedAt: s.now(),
	}
	if err := s.store.Insert(ctx, form, lead); err != nil {
		metrics.LeadSubmissions.WithLabelValues(form.Type, "failed").Inc()
		return nil, apperr.WrapStore(err, form.FailureMessage)
	}
	metrics.LeadSubmissions.WithLabelValues(form.Type, "stored").Inc()
	log.Info().Str("form", form.Type).Str("lead_id", lead.ID.Hex()).Str("submitter", lead.Submitter).Msg("lead stored")

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.publisher.LeadCaptured(pubCtx, lead); err != nil {
		metrics.LeadEventFailures.WithLabelValues(form.Type).Inc()
		log.Error().Err(err).Str("form", form.Type).Str("lead_id", lead.ID.Hex()).Msg("lead event not published")
	}
	return lead, nil
}
