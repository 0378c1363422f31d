package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quinceleaf/conference-catering-browser/internal/app"
)

// billingRequest reads the report query parameters. Non-numeric ids are a 400.
func billingRequest(r *http.Request) (app.BillingReportRequest, error) {
	q := r.URL.Query()
	req := app.BillingReportRequest{
		CostType:  q.Get("cost_type"),
		RangeDate: q.Get("range_date"),
	}

	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"tenant", &req.TenantID},
		{"tenant_group", &req.TenantGroupID},
		{"user", &req.CustomerID},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		id, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("invalid %s %q", p.name, v)
		}
		*p.dst = &id
	}
	return req, nil
}

// apiBillingReport handles GET /api/reports/billing.
func (h *Handler) apiBillingReport(w http.ResponseWriter, r *http.Request) {
	req, err := billingRequest(r)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.GetBillingReport(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Report)
}

// apiBillingExport handles GET /api/reports/billing/export.{format}.
func (h *Handler) apiBillingExport(w http.ResponseWriter, r *http.Request) {
	req, err := billingRequest(r)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.ExportBillingReport(r.Context(), req, chi.URLParam(r, "format"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if claims := authFromContext(r.Context()); claims != nil {
		h.log.Info("billing export downloaded",
			zap.Int("user_id", claims.UserID),
			zap.String("filename", result.Filename),
		)
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	_, _ = w.Write(result.Data)
}
