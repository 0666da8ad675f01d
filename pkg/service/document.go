package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-docflow/pkg/document"
	"github.com/goliatone/go-docflow/pkg/store"
	"github.com/goliatone/go-docflow/pkg/workflow"
)

// DocumentService creates documents against stored definitions and moves
// them through their workflow. Updates go through the store's optimistic
// revision check; a concurrent writer surfaces as store.ErrVersionConflict
// and the caller decides whether to reload and retry.
type DocumentService struct {
	store  store.Store
	logger *zap.Logger
}

// NewDocumentService creates a DocumentService. A nil logger disables logging.
func NewDocumentService(st store.Store, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{store: st, logger: logger}
}

// Create builds a new document from the given data, places it in the
// workflow's start phase, validates it against the form, and persists it.
// The document id is a fresh UUID.
func (s *DocumentService) Create(ctx context.Context, formID, workflowID string, data map[string]any) (*document.Document, error) {
	form, err := s.store.FormByID(ctx, formID)
	if errors.Is(err, store.ErrFormNotFound) {
		return nil, NotFoundError{Kind: "form", ID: formID}
	}
	if err != nil {
		return nil, err
	}

	wf, err := s.store.WorkflowByID(ctx, workflowID)
	if errors.Is(err, store.ErrWorkflowNotFound) {
		return nil, NotFoundError{Kind: "workflow", ID: workflowID}
	}
	if err != nil {
		return nil, err
	}

	doc := document.New(uuid.NewString(), formID, workflowID)
	for key, value := range data {
		doc.Data[key] = value
	}

	start, ok := wf.StartPhase()
	if !ok {
		return nil, WorkflowViolationError{Err: workflow.UnknownPhaseError{PhaseID: "No start phase defined"}}
	}
	if err := wf.Transition(doc, start.ID); err != nil {
		return nil, WorkflowViolationError{Err: err}
	}

	if violations := document.Validate(doc, &form); len(violations) > 0 {
		return nil, DocumentInvalidError{Violations: violations}
	}

	if err := s.store.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}
	s.logger.Info("document created",
		zap.String("document_id", doc.ID),
		zap.String("form_id", formID),
		zap.String("workflow_id", workflowID),
		zap.String("phase", doc.CurrentPhase))
	return doc, nil
}

// Get fetches a document by id.
func (s *DocumentService) Get(ctx context.Context, id string) (*document.Document, error) {
	doc, _, err := s.store.DocumentByID(ctx, id)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return nil, NotFoundError{Kind: "document", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Transition moves a document to the target phase and persists the result.
func (s *DocumentService) Transition(ctx context.Context, docID, targetPhaseID string) (*document.Document, error) {
	doc, revision, err := s.store.DocumentByID(ctx, docID)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return nil, NotFoundError{Kind: "document", ID: docID}
	}
	if err != nil {
		return nil, err
	}

	wf, err := s.store.WorkflowByID(ctx, doc.WorkflowID)
	if errors.Is(err, store.ErrWorkflowNotFound) {
		return nil, NotFoundError{Kind: "workflow", ID: doc.WorkflowID}
	}
	if err != nil {
		return nil, err
	}

	from := doc.CurrentPhase
	if err := wf.Transition(doc, targetPhaseID); err != nil {
		return nil, WorkflowViolationError{Err: err}
	}
	doc.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateDocument(ctx, doc, revision); err != nil {
		return nil, err
	}
	s.logger.Info("document transitioned",
		zap.String("document_id", docID),
		zap.String("from", from),
		zap.String("to", doc.CurrentPhase))
	return doc, nil
}

// SetValue updates a single field value, revalidates the document against
// its form, and persists it. Invalid data is rejected before any write.
func (s *DocumentService) SetValue(ctx context.Context, docID, fieldID string, value any) (*document.Document, error) {
	doc, revision, err := s.store.DocumentByID(ctx, docID)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return nil, NotFoundError{Kind: "document", ID: docID}
	}
	if err != nil {
		return nil, err
	}

	form, err := s.store.FormByID(ctx, doc.FormID)
	if errors.Is(err, store.ErrFormNotFound) {
		return nil, NotFoundError{Kind: "form", ID: doc.FormID}
	}
	if err != nil {
		return nil, err
	}

	doc.SetValue(fieldID, value)
	if violations := document.Validate(doc, &form); len(violations) > 0 {
		return nil, DocumentInvalidError{Violations: violations}
	}

	if err := s.store.UpdateDocument(ctx, doc, revision); err != nil {
		return nil, err
	}
	s.logger.Info("document value set",
		zap.String("document_id", docID),
		zap.String("field_id", fieldID))
	return doc, nil
}

// AvailableTransitions lists the edges a document can take from its current
// phase.
func (s *DocumentService) AvailableTransitions(ctx context.Context, docID string) ([]workflow.Transition, error) {
	doc, _, err := s.store.DocumentByID(ctx, docID)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return nil, NotFoundError{Kind: "document", ID: docID}
	}
	if err != nil {
		return nil, err
	}

	wf, err := s.store.WorkflowByID(ctx, doc.WorkflowID)
	if errors.Is(err, store.ErrWorkflowNotFound) {
		return nil, NotFoundError{Kind: "workflow", ID: doc.WorkflowID}
	}
	if err != nil {
		return nil, err
	}

	transitions, err := wf.AvailableTransitions(doc)
	if err != nil {
		return nil, WorkflowViolationError{Err: err}
	}
	return transitions, nil
}
