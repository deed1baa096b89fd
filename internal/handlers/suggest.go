package handlers

import (
	"context"
	"io"
	"log"
	"net/http"

	"github.com/cockroachdb/errors"

	"suggest-backend/internal/middleware"
	"suggest-backend/internal/models"
	"suggest-backend/internal/schema"
	"suggest-backend/internal/services"
)

type suggester interface {
	Suggest(ctx context.Context, req *models.SuggestRequest) *models.SuggestResponse
}

type suggestSchema interface {
	DecodeSuggestRequest(data []byte) (*models.SuggestRequest, error)
	ValidateSuggestResponse(resp *models.SuggestResponse) error
}

type SuggestHandler struct {
	service           suggester
	validator         suggestSchema
	maxBodyBytes      int64
	validateResponses bool
}

func NewSuggestHandler(service suggester, validator suggestSchema, maxBodyBytes int64, validateResponses bool) *SuggestHandler {
	return &SuggestHandler{
		service:           service,
		validator:         validator,
		maxBodyBytes:      maxBodyBytes,
		validateResponses: validateResponses,
	}
}

// SuggestPrompts handles POST /api/suggest-prompts. The body is decoded and
// schema-validated before the service sees it; a rejected body never reaches
// the service.
func (h *SuggestHandler) SuggestPrompts(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("PAYLOAD_TOO_LARGE", "Request body is too large", r))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResp("BAD_REQUEST", "Failed to read request body", r))
		return
	}

	req, err := h.validator.DecodeSuggestRequest(body)
	if err != nil {
		if valErr, ok := schema.AsValidationError(err); ok {
			writeJSON(w, http.StatusUnprocessableEntity, errorRespWithFields("VALIDATION_ERROR", "Validation failed", valErr.Fields, r))
			return
		}
		log.Printf("suggest: decode failed request_id=%s: %v", requestID, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to process request", r))
		return
	}

	hint := req.Hint()
	log.Printf("suggest: request_id=%s session=%s n=%d lang=%s style=%s turns=%d draft=%q history=%q",
		requestID, req.SessionID(), hint.N, hint.Language, hint.Style,
		len(req.ChatHistory), services.DraftPreview(req), services.HistoryPreview(req))

	resp := h.service.Suggest(r.Context(), req)
	if h.validateResponses {
		if err := h.validator.ValidateSuggestResponse(resp); err != nil {
			log.Printf("suggest: dropping invalid response request_id=%s: %v", requestID, err)
			resp = models.EmptySuggestResponse()
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
