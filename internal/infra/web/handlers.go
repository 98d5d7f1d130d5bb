package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"repolingo/internal/domain"
	"repolingo/internal/domain/model"
	"repolingo/internal/infra/logging"
)

// translationRequest is the POST body; an empty body means a plain,
// non-forced request in the default language.
type translationRequest struct {
	Force          bool   `json:"force"`
	TargetLanguage string `json:"targetLanguage"`
}

type translationResponse struct {
	ActivityID             string     `json:"activityId"`
	TranslationStatus      string     `json:"translationStatus"`
	StatusDetail           string     `json:"statusDetail,omitempty"`
	TranslationRequestedAt *time.Time `json:"translationRequestedAt,omitempty"`
	TranslationStartedAt   *time.Time `json:"translationStartedAt,omitempty"`
	TranslationCompletedAt *time.Time `json:"translationCompletedAt,omitempty"`
	TranslationMessageID   *string    `json:"translationMessageId,omitempty"`
	TranslatedBody         *string    `json:"translatedBody,omitempty"`
}

func toTranslationResponse(a *model.Activity) translationResponse {
	return translationResponse{
		ActivityID:             a.ID,
		TranslationStatus:      string(a.TranslationStatus),
		StatusDetail:           a.StatusDetail,
		TranslationRequestedAt: a.TranslationRequestedAt,
		TranslationStartedAt:   a.TranslationStartedAt,
		TranslationCompletedAt: a.TranslationCompletedAt,
		TranslationMessageID:   a.TranslationMessageID,
		TranslatedBody:         a.TranslatedBody,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// POST /api/v1/activities/{activityID}/translation
// 202 newly enqueued, 200 already completed, 404 unknown/unwatched,
// 409 already in progress and not forced.
func (s *Server) handleRequestTranslation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	activityID := chi.URLParam(r, "activityID")

	var req translationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := s.translations.Request(ctx, userFrom(ctx), activityID, req.Force, req.TargetLanguage)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		logging.With(ctx, s.log).Error().Err(err).Str("activity_id", activityID).Msg("translation request failed")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	switch {
	case res.Enqueued:
		writeJSON(w, http.StatusAccepted, toTranslationResponse(res.Activity))
	case res.Activity.TranslationStatus.InFlight():
		writeJSON(w, http.StatusConflict, toTranslationResponse(res.Activity))
	default:
		writeJSON(w, http.StatusOK, toTranslationResponse(res.Activity))
	}
}

// GET /api/v1/activities/{activityID}/translation
func (s *Server) handleTranslationStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	activityID := chi.URLParam(r, "activityID")

	a, err := s.translations.Status(ctx, userFrom(ctx), activityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		logging.With(ctx, s.log).Error().Err(err).Str("activity_id", activityID).Msg("translation status failed")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toTranslationResponse(a))
}
