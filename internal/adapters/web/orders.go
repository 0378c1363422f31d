package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quinceleaf/conference-catering-browser/internal/core"
)

// ── Orders API ────────────────────────────────────────────────────────────────

// apiListOrders handles GET /api/orders?status=CONFIRMED.
func (h *Handler) apiListOrders(w http.ResponseWriter, r *http.Request) {
	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		status = &s
	}

	result, err := h.svc.ListOrders(r.Context(), status)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Orders)
}

// apiOrderCost handles GET /api/orders/{ref}/cost?status=is_active.
func (h *Handler) apiOrderCost(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetOrderCost(r.Context(), chi.URLParam(r, "ref"), r.URL.Query().Get("status"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Cost)
}

// apiOrderPackages handles GET /api/orders/{ref}/packages?status=is_active.
func (h *Handler) apiOrderPackages(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetOrderPackages(r.Context(), chi.URLParam(r, "ref"), r.URL.Query().Get("status"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	logistics := result.Logistics
	if logistics == nil {
		logistics = []core.LogisticsBreakdown{}
	}
	addOns := result.AddOns
	if addOns == nil {
		addOns = []core.AddOnLine{}
	}
	writeJSON(w, struct {
		OrderID   int                       `json:"order_id"`
		Status    core.LineStatus           `json:"status"`
		Logistics []core.LogisticsBreakdown `json:"logistics"`
		AddOns    []core.AddOnLine          `json:"order_addons"`
	}{
		OrderID:   result.OrderID,
		Status:    result.Status,
		Logistics: logistics,
		AddOns:    addOns,
	})
}
