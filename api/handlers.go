/*
handlers.go - HTTP API handlers for the utilisation board

PURPOSE:
  Exposes the board over REST. Handlers parse the request, talk to the
  dataset store, run the transformer on every table request and serialize
  the result. The grid widget in the browser does the rest.

ENDPOINTS:
  Table:
    GET    /api/table                    Columns + rows (?dataset=, default "default")
    GET    /api/columns                  Column descriptors

  Datasets:
    GET    /api/datasets                 List datasets
    GET    /api/datasets/{name}/records  Raw source records
    PUT    /api/datasets/{name}          Replace dataset from a JSON document
    POST   /api/datasets/{name}/sample   Replace dataset with the bundled sample
    DELETE /api/datasets/{name}          Delete dataset

  Health:
    GET    /api/health

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Dataset persistence
  - Transformer: Rows are rebuilt per request against its clock
  - Columns: Loaded once at startup
  - Logger / Metrics

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid document, invalid dataset name
  - 404: Unknown dataset
  - 413: Document larger than MaxBodyBytes
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/warp/utilisation-board/dataset"
	"github.com/warp/utilisation-board/observability"
	"github.com/warp/utilisation-board/store"
	"github.com/warp/utilisation-board/table"
	"github.com/warp/utilisation-board/workforce"
	"go.uber.org/zap"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store        store.Store
	Transformer  *workforce.Transformer
	Columns      []table.Column
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	MaxBodyBytes int64
}

// NewHandler creates a handler with default columns, the wall clock and
// a 1 MiB body limit. Callers may override the exported fields.
func NewHandler(s store.Store, logger *zap.Logger, metrics *observability.Metrics) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = observability.NewMetrics("")
	}
	return &Handler{
		Store:        s,
		Transformer:  workforce.NewTransformer(),
		Columns:      table.DefaultColumns(),
		Logger:       logger,
		Metrics:      metrics,
		MaxBodyBytes: 1 << 20,
	}
}

// =============================================================================
// TABLE HANDLERS
// =============================================================================

// GetTable returns the columns and freshly computed rows of a dataset.
func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("dataset")
	if name == "" {
		name = store.DefaultDataset
	}

	records, err := h.Store.Records(r.Context(), name)
	if err != nil {
		h.writeStoreError(w, "Failed to load dataset", err)
		return
	}

	report := h.Transformer.Build(records)
	h.Metrics.ObserveReport(report)
	for _, s := range report.Skipped {
		h.Logger.Debug("record dropped",
			zap.String("dataset", name),
			zap.Int("index", s.Index),
			zap.Stringer("kind", s.Kind),
			zap.String("reason", string(s.Reason)),
		)
	}

	writeJSON(w, http.StatusOK, table.Build(name, h.Columns, report, h.Transformer.Time()))
}

// ListColumns returns the column descriptors.
func (h *Handler) ListColumns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Columns)
}

// =============================================================================
// DATASET HANDLERS
// =============================================================================

// ListDatasets returns all stored datasets.
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	infos, err := h.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list datasets", err)
		return
	}

	dtos := make([]DatasetDTO, len(infos))
	for i, info := range infos {
		dtos[i] = toDatasetDTO(info)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRecords returns the raw source records of a dataset.
func (h *Handler) GetRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.Records(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeStoreError(w, "Failed to load dataset", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// ImportDataset replaces a dataset with the JSON document in the body.
func (h *Handler) ImportDataset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := store.ValidateName(name); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dataset name", err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)
	records, err := dataset.Decode(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Document too large", err)
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid document", err)
		return
	}

	h.replace(w, r, name, records)
}

// LoadSample replaces a dataset with the bundled sample document.
func (h *Handler) LoadSample(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := store.ValidateName(name); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dataset name", err)
		return
	}
	h.replace(w, r, name, dataset.Sample())
}

// DeleteDataset removes a dataset.
func (h *Handler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.Store.Delete(r.Context(), name); err != nil {
		h.writeStoreError(w, "Failed to delete dataset", err)
		return
	}
	h.Logger.Info("dataset deleted", zap.String("dataset", name))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) replace(w http.ResponseWriter, r *http.Request, name string, records []workforce.SourceRecord) {
	ctx := r.Context()
	if err := h.Store.Replace(ctx, name, records); err != nil {
		h.writeStoreError(w, "Failed to store dataset", err)
		return
	}
	h.Metrics.ObserveImport()

	infos, err := h.Store.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list datasets", err)
		return
	}
	resp := ImportResponse{Dataset: DatasetDTO{Name: name, Records: len(records)}}
	for _, info := range infos {
		if info.Name == name {
			resp.Dataset = toDatasetDTO(info)
		}
	}

	report := h.Transformer.Build(records)
	resp.Kept = len(report.Rows)
	resp.Dropped = len(report.Skipped)

	h.Logger.Info("dataset imported",
		zap.String("dataset", name),
		zap.Int("records", len(records)),
		zap.Int("kept", resp.Kept),
		zap.Int("dropped", resp.Dropped),
	)
	writeJSON(w, http.StatusOK, resp)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) writeStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, store.ErrDatasetNotFound):
		writeError(w, http.StatusNotFound, "Dataset not found", err)
	case errors.Is(err, store.ErrInvalidName):
		writeError(w, http.StatusBadRequest, "Invalid dataset name", err)
	default:
		h.Logger.Error(message, zap.Error(err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
