// Package store defines the persistence boundary for definitions and
// documents. Each entity gets its own small interface; the composite Store
// composes them all, so a single backend (memory, postgres) implements the
// whole boundary while callers depend only on the slice they need.
package store

import (
	"context"
	"errors"

	"github.com/goliatone/go-docflow/pkg/document"
	"github.com/goliatone/go-docflow/pkg/schema"
	"github.com/goliatone/go-docflow/pkg/workflow"
)

var (
	// Not found errors.
	ErrFormNotFound     = errors.New("store: form not found")
	ErrWorkflowNotFound = errors.New("store: workflow not found")
	ErrDocumentNotFound = errors.New("store: document not found")

	// Conflict errors.
	ErrDocumentExists  = errors.New("store: document already exists")
	ErrVersionConflict = errors.New("store: document version conflict")
)

// FormStore persists form definitions. SaveForm upserts: a definition with
// the same id replaces the stored one.
type FormStore interface {
	SaveForm(ctx context.Context, form schema.FormDefinition) error
	FormByID(ctx context.Context, id string) (schema.FormDefinition, error)
}

// WorkflowStore persists workflow definitions with upsert semantics.
type WorkflowStore interface {
	SaveWorkflow(ctx context.Context, wf workflow.WorkflowDefinition) error
	WorkflowByID(ctx context.Context, id string) (workflow.WorkflowDefinition, error)
}

// DocumentStore persists documents under optimistic concurrency. Every stored
// document carries a revision counter starting at 1 on create; updates must
// present the revision they read, and a stale revision fails with
// ErrVersionConflict instead of clobbering a concurrent write.
type DocumentStore interface {
	CreateDocument(ctx context.Context, doc *document.Document) error
	DocumentByID(ctx context.Context, id string) (*document.Document, int64, error)
	UpdateDocument(ctx context.Context, doc *document.Document, revision int64) error
}

// Store is the aggregate persistence interface.
type Store interface {
	FormStore
	WorkflowStore
	DocumentStore

	// Migrate prepares backend schema. No-op for backends without one.
	Migrate(ctx context.Context) error

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}
