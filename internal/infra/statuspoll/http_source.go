package statuspoll

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"repolingo/internal/domain"
	"repolingo/internal/domain/model"
)

var _ Source = (*HTTPSource)(nil)

// HTTPSource polls the server's status endpoint over HTTP with a bearer
// token.
type HTTPSource struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPSource(baseURL, token string) *HTTPSource {
	return &HTTPSource{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPSource) FetchStatus(ctx context.Context, activityID string) (*model.Activity, error) {
	url := fmt.Sprintf("%s/api/v1/activities/%s/translation", s.baseURL, activityID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status endpoint http %d", resp.StatusCode)
	}

	var body struct {
		ActivityID             string     `json:"activityId"`
		TranslationStatus      string     `json:"translationStatus"`
		StatusDetail           string     `json:"statusDetail"`
		TranslationRequestedAt *time.Time `json:"translationRequestedAt"`
		TranslationStartedAt   *time.Time `json:"translationStartedAt"`
		TranslationCompletedAt *time.Time `json:"translationCompletedAt"`
		TranslatedBody         *string    `json:"translatedBody"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return &model.Activity{
		ID:                     body.ActivityID,
		TranslationStatus:      model.TranslationStatus(body.TranslationStatus),
		StatusDetail:           body.StatusDetail,
		TranslationRequestedAt: body.TranslationRequestedAt,
		TranslationStartedAt:   body.TranslationStartedAt,
		TranslationCompletedAt: body.TranslationCompletedAt,
		TranslatedBody:         body.TranslatedBody,
	}, nil
}
