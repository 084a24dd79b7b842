package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/simaogato/advisory-backend/internal/domain"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (rt *Router) dashboardMetrics(w http.ResponseWriter, r *http.Request) {
	refresh, err := queryBool(r, "refresh")
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	report, err := rt.services.Dashboard.GetMetrics(r.Context(), refresh != nil && *refresh)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// exportCSV serves a CSV listing as an attachment named <name>.csv
func (rt *Router) exportCSV(name string, export func(ExportService, context.Context, io.Writer) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := export(rt.services.Exports, r.Context(), &buf); err != nil {
			fail(w, r, rt.logger, err)
			return
		}
		writeAttachment(w, "text/csv; charset=utf-8", name+".csv", buf.Bytes())
	}
}

func (rt *Router) exportWorkbook(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := rt.services.Exports.DashboardWorkbook(r.Context(), &buf); err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	writeAttachment(w, workbookContentType, "dashboard.xlsx", buf.Bytes())
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (rt *Router) listAudit(w http.ResponseWriter, r *http.Request) {
	startsAt, err := queryTime(r, "starts_at")
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	endsAt, err := queryTime(r, "ends_at")
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	q := r.URL.Query()
	filter := domain.AuditFilter{
		Action:   strings.TrimSpace(q.Get("action")),
		Entity:   strings.TrimSpace(q.Get("entity")),
		StartsAt: startsAt,
		EndsAt:   endsAt,
	}

	page, err := rt.services.Audit.List(r.Context(), filter, pageRequest(r))
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(page, toAuditResponse))
}

// health answers 200 while the database is reachable, 503 otherwise
func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	if rt.services.Health == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		return
	}

	report := rt.services.Health.Check(r.Context())
	status := http.StatusOK
	if !report.Serving() {
		status = http.StatusServiceUnavailable
		rt.logger.Warn().Interface("checks", report.Checks).Msg("health check failed")
	}
	writeJSON(w, status, report)
}
