// Package memory provides a fully in-memory store.Store. Safe for concurrent
// access; intended for unit testing and development.
package memory

import (
	"context"
	"sync"

	"github.com/goliatone/go-docflow/pkg/document"
	"github.com/goliatone/go-docflow/pkg/schema"
	"github.com/goliatone/go-docflow/pkg/store"
	"github.com/goliatone/go-docflow/pkg/workflow"
)

var _ store.Store = (*Store)(nil)

// Store keeps everything in mutex-guarded maps. Definitions are immutable
// values so they are stored as-is; documents are copied on the way in and out
// so callers never share a map with the store.
type Store struct {
	mu sync.RWMutex

	forms     map[string]schema.FormDefinition
	workflows map[string]workflow.WorkflowDefinition
	documents map[string]storedDocument
}

type storedDocument struct {
	doc      document.Document
	revision int64
}

// New returns a new empty Store.
func New() *Store {
	return &Store{
		forms:     make(map[string]schema.FormDefinition),
		workflows: make(map[string]workflow.WorkflowDefinition),
		documents: make(map[string]storedDocument),
	}
}

// Migrate is a no-op for the memory store.
func (m *Store) Migrate(_ context.Context) error { return nil }

// Ping always succeeds for the memory store.
func (m *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (m *Store) Close() error { return nil }

func (m *Store) SaveForm(_ context.Context, form schema.FormDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forms[form.ID()] = form
	return nil
}

func (m *Store) FormByID(_ context.Context, id string) (schema.FormDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	form, ok := m.forms[id]
	if !ok {
		return schema.FormDefinition{}, store.ErrFormNotFound
	}
	return form, nil
}

func (m *Store) SaveWorkflow(_ context.Context, wf workflow.WorkflowDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workflows[wf.ID()] = wf
	return nil
}

func (m *Store) WorkflowByID(_ context.Context, id string) (workflow.WorkflowDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wf, ok := m.workflows[id]
	if !ok {
		return workflow.WorkflowDefinition{}, store.ErrWorkflowNotFound
	}
	return wf, nil
}

func (m *Store) CreateDocument(_ context.Context, doc *document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.documents[doc.ID]; exists {
		return store.ErrDocumentExists
	}
	m.documents[doc.ID] = storedDocument{doc: copyDocument(doc), revision: 1}
	return nil
}

func (m *Store) DocumentByID(_ context.Context, id string) (*document.Document, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.documents[id]
	if !ok {
		return nil, 0, store.ErrDocumentNotFound
	}
	cp := copyDocument(&stored.doc)
	return &cp, stored.revision, nil
}

func (m *Store) UpdateDocument(_ context.Context, doc *document.Document, revision int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.documents[doc.ID]
	if !ok {
		return store.ErrDocumentNotFound
	}
	if stored.revision != revision {
		return store.ErrVersionConflict
	}
	m.documents[doc.ID] = storedDocument{doc: copyDocument(doc), revision: revision + 1}
	return nil
}

// copyDocument clones the document and its data map. Nested values stay
// shared; the decoded-JSON value domain treats them as read-only.
func copyDocument(doc *document.Document) document.Document {
	cp := *doc
	cp.Data = make(map[string]any, len(doc.Data))
	for k, v := range doc.Data {
		cp.Data[k] = v
	}
	return cp
}
