package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/goliatone/go-docflow/pkg/store"
	"github.com/goliatone/go-docflow/pkg/validation"
	"github.com/goliatone/go-docflow/pkg/workflow"
)

// WorkflowService persists workflow definitions after builder validation.
type WorkflowService struct {
	store  store.WorkflowStore
	logger *zap.Logger
}

// NewWorkflowService creates a WorkflowService. A nil logger disables logging.
func NewWorkflowService(st store.WorkflowStore, logger *zap.Logger) *WorkflowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowService{store: st, logger: logger}
}

// Create validates the builder and saves the resulting definition.
func (s *WorkflowService) Create(ctx context.Context, builder *workflow.WorkflowBuilder) (workflow.WorkflowDefinition, error) {
	wf, err := builder.Build()
	if err != nil {
		var findings validation.Findings
		if !errors.As(err, &findings) {
			return workflow.WorkflowDefinition{}, err
		}
		return workflow.WorkflowDefinition{}, DefinitionInvalidError{Kind: "workflow", Findings: findings}
	}
	if err := s.store.SaveWorkflow(ctx, wf); err != nil {
		return workflow.WorkflowDefinition{}, err
	}
	s.logger.Info("workflow saved",
		zap.String("workflow_id", wf.ID()),
		zap.Int("phases", len(wf.Phases())),
		zap.Int("transitions", len(wf.Transitions())))
	return wf, nil
}

// Get fetches a workflow definition by id.
func (s *WorkflowService) Get(ctx context.Context, id string) (workflow.WorkflowDefinition, error) {
	wf, err := s.store.WorkflowByID(ctx, id)
	if errors.Is(err, store.ErrWorkflowNotFound) {
		return workflow.WorkflowDefinition{}, NotFoundError{Kind: "workflow", ID: id}
	}
	if err != nil {
		return workflow.WorkflowDefinition{}, err
	}
	return wf, nil
}
