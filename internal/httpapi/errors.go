package httpapi

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-docflow/pkg/service"
	"github.com/goliatone/go-docflow/pkg/store"
)

// HTTPError is implemented by errors that carry their own status code.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError pairs an error with the HTTP status it should produce.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// errorResponse is the JSON error envelope. Details carries the structured
// violation list when validation fails.
type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// toResponse maps service errors to a status code and envelope. Unknown
// errors collapse to a bare 500 so internals never leak to clients.
func toResponse(err error) (int, errorResponse) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode(), errorResponse{Error: httpErr.Error()}
	}

	var notFound service.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, errorResponse{Error: notFound.Error()}
	}

	var definition service.DefinitionInvalidError
	if errors.As(err, &definition) {
		return http.StatusBadRequest, errorResponse{
			Error:   "definition failed validation",
			Details: definition.Findings,
		}
	}

	var invalid service.DocumentInvalidError
	if errors.As(err, &invalid) {
		return http.StatusBadRequest, errorResponse{
			Error:   "document failed validation",
			Details: invalid.Violations,
		}
	}

	var violation service.WorkflowViolationError
	if errors.As(err, &violation) {
		return http.StatusConflict, errorResponse{Error: violation.Err.Error()}
	}

	if errors.Is(err, store.ErrVersionConflict) {
		return http.StatusConflict, errorResponse{Error: "document was modified concurrently"}
	}

	return http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)}
}
