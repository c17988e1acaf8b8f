package httpapi

import (
	"expvar"
	"net/http"

	"github.com/printloom/designer-gateway/internal/obs"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/generate-nonce", app.generateNonceHandler)
	mux.HandleFunc("/get-products", app.getProductsHandler)
	mux.HandleFunc("/design-events", app.postDesignEventsHandler)
	mux.HandleFunc("/designs/", app.getDesignHandler)
	mux.HandleFunc("/healthz", app.healthHandler)
	mux.HandleFunc("/debug/status", app.statusHandler)
	mux.Handle("/debug/vars", expvar.Handler())
	mux.Handle("/metrics", obs.MetricsHandler())
	mux.HandleFunc("/openapi.yaml", app.openapiHandler)
	mux.HandleFunc("/docs", app.docsHandler)
	return WithRequestID(WithLogging(mux))
}
