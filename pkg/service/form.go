// Package service orchestrates definitions and documents over a store. It is
// the layer transports call into: builders validate, stores persist, the
// engine moves documents, and every failure comes back as a typed error the
// caller can map to its own surface.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/goliatone/go-docflow/pkg/schema"
	"github.com/goliatone/go-docflow/pkg/store"
	"github.com/goliatone/go-docflow/pkg/validation"
)

// FormService persists form definitions after builder validation.
type FormService struct {
	store  store.FormStore
	logger *zap.Logger
}

// NewFormService creates a FormService. A nil logger disables logging.
func NewFormService(st store.FormStore, logger *zap.Logger) *FormService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormService{store: st, logger: logger}
}

// Create validates the builder and saves the resulting definition. Save
// upserts, so re-submitting a definition with the same id replaces it.
func (s *FormService) Create(ctx context.Context, builder *schema.FormBuilder) (schema.FormDefinition, error) {
	form, err := builder.Build()
	if err != nil {
		var findings validation.Findings
		if !errors.As(err, &findings) {
			return schema.FormDefinition{}, err
		}
		return schema.FormDefinition{}, DefinitionInvalidError{Kind: "form", Findings: findings}
	}
	if err := s.store.SaveForm(ctx, form); err != nil {
		return schema.FormDefinition{}, err
	}
	s.logger.Info("form saved",
		zap.String("form_id", form.ID()),
		zap.Uint32("version", form.Version()),
		zap.Int("fields", len(form.Fields())))
	return form, nil
}

// Get fetches a form definition by id.
func (s *FormService) Get(ctx context.Context, id string) (schema.FormDefinition, error) {
	form, err := s.store.FormByID(ctx, id)
	if errors.Is(err, store.ErrFormNotFound) {
		return schema.FormDefinition{}, NotFoundError{Kind: "form", ID: id}
	}
	if err != nil {
		return schema.FormDefinition{}, err
	}
	return form, nil
}
