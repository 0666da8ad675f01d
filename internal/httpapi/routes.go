package httpapi

import "net/http"

// Mux is the minimal interface required to register handlers. It is
// satisfied by *http.ServeMux. Patterns use the method-prefixed syntax.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// RegisterRoutes mounts every API route on mux.
func (a *API) RegisterRoutes(mux Mux) {
	mux.Handle("POST /forms", http.HandlerFunc(a.createForm))
	mux.Handle("GET /forms/{id}", http.HandlerFunc(a.getForm))
	mux.Handle("GET /forms/{id}/schema", http.HandlerFunc(a.getFormSchema))
	mux.Handle("GET /forms/{id}/openapi", http.HandlerFunc(a.getFormSpec))

	mux.Handle("POST /workflows", http.HandlerFunc(a.createWorkflow))
	mux.Handle("GET /workflows/{id}", http.HandlerFunc(a.getWorkflow))

	mux.Handle("POST /documents", http.HandlerFunc(a.createDocument))
	mux.Handle("GET /documents/{id}", http.HandlerFunc(a.getDocument))
	mux.Handle("POST /documents/{id}/transition", http.HandlerFunc(a.transitionDocument))
	mux.Handle("POST /documents/{id}/values", http.HandlerFunc(a.setDocumentValue))
	mux.Handle("GET /documents/{id}/transitions", http.HandlerFunc(a.listTransitions))

	mux.Handle("GET /health", http.HandlerFunc(a.health))
}

// Handler returns a ready-to-serve http.Handler with all routes mounted.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	a.RegisterRoutes(mux)
	return mux
}
