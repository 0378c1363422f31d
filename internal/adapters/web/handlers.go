package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quinceleaf/conference-catering-browser/internal/app"
	"github.com/quinceleaf/conference-catering-browser/internal/metrics"
)

// Options configures the HTTP handler.
type Options struct {
	AllowedOrigins []string // empty disables CORS
	JWTSecret      string
	Log            *zap.Logger
	Metrics        *metrics.Metrics // nil disables /metrics and request counting
}

// Handler serves the API routes over an ApplicationService.
type Handler struct {
	svc       app.ApplicationService
	jwtSecret string
	log       *zap.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	h := &Handler{
		svc:       svc,
		jwtSecret: opts.JWTSecret,
		log:       log,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(CORS(opts.AllowedOrigins))
	if opts.Metrics != nil {
		r.Use(CountRequests(opts.Metrics))
	}

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}

	// ── Protected API routes (401 JSON if unauthenticated) ───────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		// Orders
		r.Get("/api/orders", h.apiListOrders)
		r.Get("/api/orders/{ref}/cost", h.apiOrderCost)
		r.Get("/api/orders/{ref}/packages", h.apiOrderPackages)

		// Billing reports
		r.Get("/api/reports/billing", h.apiBillingReport)
		r.Get("/api/reports/billing/export.{format}", h.apiBillingExport)
	})

	return r
}

// health handles GET /api/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, struct {
		Status string `json:"status"`
	}{Status: "ok"})
}
