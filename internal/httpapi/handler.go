// Package httpapi exposes the document and definition services over a thin
// JSON API on net/http.
package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-docflow/pkg/export"
	"github.com/goliatone/go-docflow/pkg/schema"
	"github.com/goliatone/go-docflow/pkg/service"
	"github.com/goliatone/go-docflow/pkg/store"
	"github.com/goliatone/go-docflow/pkg/workflow"
)

// API holds the handlers for all routes.
type API struct {
	forms     *service.FormService
	workflows *service.WorkflowService
	documents *service.DocumentService
	store     store.Store
	logger    *zap.Logger
}

// New builds an API over a store. A nil logger disables logging.
func New(st store.Store, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		forms:     service.NewFormService(st, logger),
		workflows: service.NewWorkflowService(st, logger),
		documents: service.NewDocumentService(st, logger),
		store:     st,
		logger:    logger,
	}
}

type createDocumentRequest struct {
	FormID     string         `json:"form_id"`
	WorkflowID string         `json:"workflow_id"`
	Data       map[string]any `json:"data"`
}

type transitionRequest struct {
	TargetPhase string `json:"target_phase"`
}

type setValueRequest struct {
	FieldID string `json:"field_id"`
	Value   any    `json:"value"`
}

type transitionsResponse struct {
	Data []workflow.Transition `json:"data"`
}

func (a *API) createForm(w http.ResponseWriter, r *http.Request) {
	var builder schema.FormBuilder
	if err := json.NewDecoder(r.Body).Decode(&builder); err != nil {
		a.writeError(w, r, StatusError{Code: http.StatusBadRequest, Err: err})
		return
	}
	form, err := a.forms.Create(r.Context(), &builder)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, form)
}

func (a *API) getForm(w http.ResponseWriter, r *http.Request) {
	form, err := a.forms.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, form)
}

// getFormSchema serves the form as an OpenAPI object schema so external
// tooling can describe document payloads.
func (a *API) getFormSchema(w http.ResponseWriter, r *http.Request) {
	form, err := a.forms.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, export.FormSchema(form))
}

func (a *API) getFormSpec(w http.ResponseWriter, r *http.Request) {
	form, err := a.forms.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, export.FormSpec(form))
}

func (a *API) createWorkflow(w http.ResponseWriter, r *http.Request) {
	var builder workflow.WorkflowBuilder
	if err := json.NewDecoder(r.Body).Decode(&builder); err != nil {
		a.writeError(w, r, StatusError{Code: http.StatusBadRequest, Err: err})
		return
	}
	wf, err := a.workflows.Create(r.Context(), &builder)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, wf)
}

func (a *API) getWorkflow(w http.ResponseWriter, r *http.Request) {
	wf, err := a.workflows.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, wf)
}

func (a *API) createDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, r, StatusError{Code: http.StatusBadRequest, Err: err})
		return
	}
	doc, err := a.documents.Create(r.Context(), req.FormID, req.WorkflowID, req.Data)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, doc)
}

func (a *API) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := a.documents.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, doc)
}

func (a *API) transitionDocument(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, r, StatusError{Code: http.StatusBadRequest, Err: err})
		return
	}
	doc, err := a.documents.Transition(r.Context(), r.PathValue("id"), req.TargetPhase)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, doc)
}

func (a *API) setDocumentValue(w http.ResponseWriter, r *http.Request) {
	var req setValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, r, StatusError{Code: http.StatusBadRequest, Err: err})
		return
	}
	doc, err := a.documents.SetValue(r.Context(), r.PathValue("id"), req.FieldID, req.Value)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, doc)
}

func (a *API) listTransitions(w http.ResponseWriter, r *http.Request) {
	transitions, err := a.documents.AvailableTransitions(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if transitions == nil {
		transitions = []workflow.Transition{}
	}
	a.writeJSON(w, http.StatusOK, transitionsResponse{Data: transitions})
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Ping(r.Context()); err != nil {
		a.writeError(w, r, StatusError{Code: http.StatusServiceUnavailable, Err: err})
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(payload); err != nil {
		// Headers are already out, so the client sees a truncated body;
		// surface the failure in the logs at least.
		a.logger.Error("response encode failed", zap.Error(err))
	}
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := toResponse(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	a.writeJSON(w, status, body)
}
