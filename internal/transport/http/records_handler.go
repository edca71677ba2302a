package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"rm4health/internal/analytics"
	apierrors "rm4health/internal/errors"
)

// ingestRequest is the POST /api/records payload.
type ingestRequest struct {
	Mode    string             `json:"mode" validate:"omitempty,oneof=replace append"`
	Records []analytics.Record `json:"records" validate:"required,min=1"`
}

// ingestResponse reports the outcome of an ingest.
type ingestResponse struct {
	Ingested int    `json:"ingested"`
	Total    int    `json:"total"`
	Mode     string `json:"mode"`
}

// RecordsHandler serves record ingestion.
type RecordsHandler struct {
	service  AnalyticsServiceInterface
	validate *validator.Validate
	logger   *slog.Logger
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(service AnalyticsServiceInterface, logger *slog.Logger) *RecordsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordsHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With(slog.String("component", "records_handler")),
	}
}

// Routes returns the record routes.
func (h *RecordsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.IngestRecords)
	return r
}

// IngestRecords handles POST /api/records. The default mode appends;
// mode "replace" swaps the whole collection.
func (h *RecordsHandler) IngestRecords(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.WriteError(w, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		var fields []apierrors.ValidationError
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, ve := range verrs {
				fields = append(fields, apierrors.ValidationError{
					Field:   ve.Field(),
					Message: ve.Tag(),
				})
			}
		}
		apierrors.WriteError(w, apierrors.NewValidationErrors(fields))
		return
	}

	mode := req.Mode
	if mode == "" {
		mode = "append"
	}

	var total int
	if mode == "replace" {
		h.service.ReplaceRecords(r.Context(), req.Records)
		total = h.service.RecordCount()
	} else {
		total = h.service.AppendRecords(r.Context(), req.Records)
	}

	h.logger.InfoContext(r.Context(), "records ingested",
		slog.String("mode", mode),
		slog.Int("ingested", len(req.Records)),
		slog.Int("total", total))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ingestResponse{
		Ingested: len(req.Records),
		Total:    total,
		Mode:     mode,
	})
}
