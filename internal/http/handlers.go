package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/printloom/designer-gateway/internal/config"
	httpopenapi "github.com/printloom/designer-gateway/internal/http/openapi"
	"github.com/printloom/designer-gateway/internal/model"
	"github.com/printloom/designer-gateway/internal/nonce"
	"github.com/printloom/designer-gateway/internal/obs"
	"github.com/printloom/designer-gateway/internal/queue"
	"github.com/printloom/designer-gateway/internal/store"
)

// CatalogSource fetches the provider's live catalog for display.
type CatalogSource interface {
	ListProducts(ctx context.Context) (json.RawMessage, error)
}

// App wires the HTTP handlers to the nonce service, the provider client, and
// the design event pipeline.
type App struct {
	Cfg     config.Config
	Nonces  *nonce.Service
	Catalog CatalogSource
	Store   *store.Store
	Manager *queue.Manager
	closing bool
	started time.Time
}

// NewApp constructs the handler set.
func NewApp(cfg config.Config, svc *nonce.Service, cat CatalogSource, st *store.Store, m *queue.Manager) *App {
	return &App{Cfg: cfg, Nonces: svc, Catalog: cat, Store: st, Manager: m, started: time.Now()}
}

// StartShutdown flips the app into draining mode; design event intake closes
// and new events are rejected with 503.
func (a *App) StartShutdown() {
	a.closing = true
	a.Manager.CloseIntake()
}

// flexInt accepts a JSON number or a quoted decimal string. Clients in the
// wild send product ids both ways.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

type nonceRequest struct {
	UserID    string  `json:"userId"`
	UserAgent string  `json:"userAgent"`
	IPAddress string  `json:"ipAddress,omitempty"`
	ProductID flexInt `json:"productId"`
	VariantID flexInt `json:"variantId,omitempty"`
}

type nonceResponse struct {
	Nonce string `json:"nonce"`
}

func (a *App) generateNonceHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return
	}
	var req nonceRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	ref := model.ProductReference{ProductID: int(req.ProductID), VariantID: int(req.VariantID)}
	caller := model.CallerContext{UserID: req.UserID, UserAgent: req.UserAgent, IPAddress: req.IPAddress}

	n, err := a.Nonces.Issue(r.Context(), ref, caller)
	if err != nil {
		var f *nonce.Failure
		if errors.As(err, &f) {
			WriteNonceFailure(w, f)
			return
		}
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(nonceResponse{Nonce: n})
	obs.Logger.Info("nonce_issued",
		"request_id", RequestIDFromContext(r.Context()),
		"product_id", ref.ProductID,
	)
}

func (a *App) getProductsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	result, err := a.Catalog.ListProducts(r.Context())
	if err != nil {
		obs.Logger.Error("product_fetch_failed", "error", err)
		WriteJSONError(w, http.StatusBadGateway, "Failed to fetch products", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(result)
}

type designAck struct {
	Status      string `json:"status"`
	RequestID   string `json:"request_id"`
	Sequence    uint64 `json:"sequence"`
	DesignID    string `json:"design_id"`
	ReceivedAt  string `json:"received_at"`
	QueueDepth  int    `json:"queue_depth"`
	BacklogSize int    `json:"backlog_size"`
}

func (a *App) postDesignEventsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	if a.closing || a.Manager.IsShuttingDown() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return
	}
	var ev model.DesignEvent
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ev); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if ev.DesignID == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "design_id is required")
		return
	}
	ev.Sequence = a.Manager.NextSequence()
	if ok := a.Manager.Enqueue(ev); !ok {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	obs.DesignEvents.Inc()
	ac := designAck{
		Status:      "accepted",
		RequestID:   RequestIDFromContext(r.Context()),
		Sequence:    ev.Sequence,
		DesignID:    ev.DesignID,
		ReceivedAt:  time.Now().UTC().Format(time.RFC3339),
		QueueDepth:  a.Manager.QueueDepth(),
		BacklogSize: a.Manager.BacklogSize(),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(ac)
	obs.Logger.Info("design_event_accepted",
		"request_id", ac.RequestID,
		"sequence", ac.Sequence,
		"design_id", ac.DesignID,
		"queue_depth", ac.QueueDepth,
	)
}

func (a *App) getDesignHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	prefix := "/designs/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if id == "" {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	d, ok := a.Store.Get(id)
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(d)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (a *App) statusHandler(w http.ResponseWriter, r *http.Request) {
	enq, proc, backlog, depth := a.Manager.QueueMetrics()
	m := map[string]any{
		"events_enqueued":  enq,
		"events_processed": proc,
		"backlog_size":     backlog,
		"queue_depth":      depth,
		"uptime_sec":       time.Since(a.started).Seconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
