// Package http contains the chi HTTP handlers for the analytics API.
package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "rm4health/internal/errors"
	"rm4health/internal/services"
)

// AnalyticsHandler serves the analysis endpoints.
type AnalyticsHandler struct {
	service  AnalyticsServiceInterface
	exporter ReportExporterInterface
	logger   *slog.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(service AnalyticsServiceInterface, exporter ReportExporterInterface, logger *slog.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsHandler{
		service:  service,
		exporter: exporter,
		logger:   logger.With(slog.String("component", "analytics_handler")),
	}
}

// Routes returns the analytics routes.
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/report", h.GetReport)
	r.Get("/report/export", h.ExportReport)

	r.Route("/{type}", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/", h.GetAnalysis)
	})

	return r
}

// GetAnalysis handles GET /api/analytics/{type}.
func (h *AnalyticsHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	analysisType := chi.URLParam(r, "type")

	doc, err := h.service.Analysis(r.Context(), analysisType)
	if err != nil {
		if errors.Is(err, services.ErrUnknownAnalysis) {
			apierrors.WriteError(w, apierrors.AnalysisNotFoundError(analysisType))
			return
		}
		h.logger.ErrorContext(r.Context(), "analysis failed",
			slog.String("type", analysisType),
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.ErrInternalServer)
		return
	}

	h.logger.InfoContext(r.Context(), "analysis served",
		slog.String("type", analysisType))
	render.JSON(w, r, doc)
}

// GetReport handles GET /api/analytics/report.
func (h *AnalyticsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.FullReport(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "report generation failed",
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.ErrInternalServer)
		return
	}

	render.JSON(w, r, report)
}

// ExportReport handles GET /api/analytics/report/export?format=csv|xlsx.
func (h *AnalyticsHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		apierrors.WriteError(w, apierrors.ErrValidation("format", "must be one of csv, xlsx"))
		return
	}

	report, err := h.service.FullReport(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "report generation failed",
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.ErrInternalServer)
		return
	}

	filename := fmt.Sprintf("rm4health-report-%s.%s", time.Now().UTC().Format("20060102-150405"), format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	switch format {
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = h.exporter.WriteXLSX(w, report)
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		err = h.exporter.WriteCSV(w, report)
	}
	if err != nil {
		// Headers are already sent; all that is left is to log.
		h.logger.ErrorContext(r.Context(), "report export failed",
			slog.String("format", format),
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(r.Context(), "report exported",
		slog.String("format", format),
		slog.String("filename", filename))
}
