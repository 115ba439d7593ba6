package tag

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	httperrors "github.com/studyprep/prep-platform/pkg/http/errors"
)

// HTTPHandlers provides the topic-tag REST endpoints.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{svc: svc, logger: logger}
}

// Collection handles GET (list) and POST (create) on /v1/tags.
func (h *HTTPHandlers) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		tags, err := h.svc.List(r.Context())
		if err != nil {
			h.logger.Error().Err(err).Msg("tag list failed")
			httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeTagFetchFailed, "Failed to fetch tags")
			return
		}
		h.respondJSON(w, http.StatusOK, map[string]interface{}{"tags": tags})

	case http.MethodPost:
		var req struct {
			Name        string  `json:"name"`
			Description *string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
			return
		}

		created, err := h.svc.Create(r.Context(), req.Name, req.Description)
		if err != nil {
			switch {
			case errors.Is(err, ErrNameRequired):
				httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, err.Error())
			case errors.Is(err, ErrNameTaken):
				httperrors.RespondConflict(w, httperrors.ErrCodeAlreadyExists, err.Error())
			default:
				h.logger.Error().Err(err).Msg("tag create failed")
				httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeTagCreateFailed, "Failed to create tag")
			}
			return
		}
		h.respondJSON(w, http.StatusCreated, created)

	default:
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
	}
}

// Item handles DELETE on /v1/tags/{id}.
func (h *HTTPHandlers) Item(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidTagID, "Invalid tag id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.logger.Error().Err(err).Msg("tag delete failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeTagDeleteFailed, "Failed to delete tag")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}
