package httpapi

import "net/http"

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/pipeline/runs", app.postRunHandler)
	mux.HandleFunc("/products/", app.getProductHandler)
	mux.HandleFunc("/healthz", app.healthHandler)
	if app.Metrics != nil {
		mux.Handle("/metrics", app.Metrics.Handler())
	}
	mux.HandleFunc("/openapi.yaml", app.openapiHandler)
	mux.HandleFunc("/docs", app.docsHandler)
	return WithRequestID(WithLogging(WithRecovery(mux)))
}
