package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/models"
)

// TrustLevelClient is the external trust-level collaborator. A failed
// lookup must never block scoring; callers default the member to New.
type TrustLevelClient interface {
	GetUserTrustLevel(ctx context.Context, userID uuid.UUID) (models.TrustLevelType, error)
}

/*──────────── HTTP implementation ────────────*/

type httpTrustClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPTrustClient(baseURL string) TrustLevelClient {
	return &httpTrustClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 3 * time.Second},
	}
}

func (c *httpTrustClient) GetUserTrustLevel(ctx context.Context, userID uuid.UUID) (models.TrustLevelType, error) {
	if c.baseURL == "" {
		return models.TrustLevelNew, nil
	}

	url := fmt.Sprintf("%s/api/v1/users/%s/trust-level", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.TrustLevelNew, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.TrustLevelNew, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.TrustLevelNew, fmt.Errorf("trust lookup returned status %d", resp.StatusCode)
	}

	var body struct {
		Level models.TrustLevelType `json:"level"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.TrustLevelNew, err
	}
	return body.Level, nil
}
