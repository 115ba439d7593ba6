package question

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studyprep/prep-platform/internal/auth/jwt"
	httperrors "github.com/studyprep/prep-platform/pkg/http/errors"
)

const defaultMaxUploadBytes = 5 << 20

// HTTPHandlers provides the question-bank REST endpoints.
type HTTPHandlers struct {
	svc       *Service
	logger    zerolog.Logger
	maxUpload int64
}

// NewHTTPHandlers creates handlers for question endpoints. maxUpload caps
// CSV upload size in bytes; zero means the default.
func NewHTTPHandlers(svc *Service, logger zerolog.Logger, maxUpload int64) *HTTPHandlers {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	return &HTTPHandlers{svc: svc, logger: logger, maxUpload: maxUpload}
}

// filtersFromQuery maps list/export query parameters onto a filter set.
// Unrecognized enum values normalize to the wildcard before reaching the
// engine.
func filtersFromQuery(r *http.Request) Filters {
	q := r.URL.Query()
	return ParseFilters(
		q.Get("category"),
		q.Get("difficulty"),
		q.Get("question_type"),
		q.Get("topic_tag"),
		q.Get("search"),
		q.Get("status"),
	)
}

// Collection handles GET (list) and POST (create) on /v1/questions.
func (h *HTTPHandlers) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
	}
}

func (h *HTTPHandlers) list(w http.ResponseWriter, r *http.Request) {
	questions, err := h.svc.List(r.Context(), filtersFromQuery(r))
	if err != nil {
		h.logger.Error().Err(err).Msg("question list failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeQuestionFetchFailed, "Failed to fetch questions")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

func (h *HTTPHandlers) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwt.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	var draft Question
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	created, err := h.svc.Create(r.Context(), draft, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrInvalidQuestion) {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("question create failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeQuestionCreateFailed, "Failed to create question")
		return
	}
	h.respondJSON(w, http.StatusCreated, created)
}

// Item handles GET, PUT and DELETE on /v1/questions/{id}.
func (h *HTTPHandlers) Item(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidQuestionID, "Invalid question id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		q, err := h.svc.Get(r.Context(), id)
		if err != nil {
			h.respondStoreError(w, err, httperrors.ErrCodeQuestionFetchFailed, "Failed to fetch question")
			return
		}
		h.respondJSON(w, http.StatusOK, q)

	case http.MethodPut:
		var draft Question
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
			return
		}
		if err := h.svc.Update(r.Context(), id, draft); err != nil {
			if errors.Is(err, ErrInvalidQuestion) {
				httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
				return
			}
			h.respondStoreError(w, err, httperrors.ErrCodeQuestionUpdateFailed, "Failed to update question")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		if err := h.svc.Delete(r.Context(), id); err != nil {
			h.respondStoreError(w, err, httperrors.ErrCodeQuestionDeleteFailed, "Failed to delete question")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
	}
}

// Toggle handles POST /v1/questions/{id}/toggle.
func (h *HTTPHandlers) Toggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidQuestionID, "Invalid question id")
		return
	}

	q, err := h.svc.ToggleActive(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err, httperrors.ErrCodeQuestionUpdateFailed, "Failed to toggle question")
		return
	}
	h.respondJSON(w, http.StatusOK, q)
}

// Types handles GET /v1/questions/types.
func (h *HTTPHandlers) Types(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	types, err := h.svc.QuestionTypes(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("question types fetch failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeQuestionFetchFailed, "Failed to fetch question types")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"question_types": types})
}

// Template handles GET /v1/questions/template: the 2-row CSV template.
func (h *HTTPHandlers) Template(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	data, err := RenderCSV(TemplateData())
	if err != nil {
		httperrors.RespondInternalError(w, "Failed to render template")
		return
	}
	writeCSVDownload(w, data, TemplateFilename)
}

// Export handles GET /v1/questions/export. Accepts the same filter query
// parameters as the list endpoint, plus active_only=true as a shorthand.
func (h *HTTPHandlers) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	f := filtersFromQuery(r)
	if r.URL.Query().Get("active_only") == "true" {
		f.Status = StatusActive
	}

	data, filename, err := h.svc.Export(r.Context(), f)
	if err != nil {
		h.logger.Error().Err(err).Msg("question export failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeExportFailed, "Failed to export questions")
		return
	}
	writeCSVDownload(w, data, filename)
}

// Validate handles POST /v1/questions/validate: runs the codec over an
// uploaded file and returns the itemized result without committing.
func (h *HTTPHandlers) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	data, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	h.respondJSON(w, http.StatusOK, h.svc.Validate(data))
}

// Import handles POST /v1/questions/import.
func (h *HTTPHandlers) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	claims, ok := jwt.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	data, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	result, summary, err := h.svc.Import(r.Context(), data, claims.UserID)
	if err != nil {
		h.logger.Error().Err(err).Msg("question import failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeImportFailed, "Failed to import questions")
		return
	}
	if !result.Valid {
		httperrors.RespondErrorWithDetails(w, http.StatusBadRequest, httperrors.ErrCodeInvalidCSV,
			"CSV validation failed", map[string]interface{}{"errors": result.Errors})
		return
	}
	h.respondJSON(w, http.StatusOK, summary)
}

func (h *HTTPHandlers) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Expected multipart form with a file field")
		return nil, false
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, "Missing file upload")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Failed to read upload")
		return nil, false
	}
	return data, true
}

func (h *HTTPHandlers) respondStoreError(w http.ResponseWriter, err error, code, message string) {
	if errors.Is(err, ErrNotFound) {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "Question not found")
		return
	}
	h.logger.Error().Err(err).Msg(message)
	httperrors.RespondError(w, http.StatusBadGateway, code, message)
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func writeCSVDownload(w http.ResponseWriter, data []byte, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(data)
}
