package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"
)

var _ Source = (*PredictionSource)(nil)

// PredictionSource fetches a 27-day forecast from a JSON prediction API.
// The payload shape is opaque here: the normalizer detects it downstream,
// so this source works against any of the shapes the API has been seen to
// emit (horizon wrapper, day arrays, columnar, D<n>-keyed).
type PredictionSource struct {
	name    string
	url     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewPredictionSource(client *http.Client, url string) *PredictionSource {
	return &PredictionSource{
		name: "prediction-api",
		url:  url,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: newBreaker("prediction-api"),
	}
}

func (s *PredictionSource) Name() string {
	return s.name
}

func (s *PredictionSource) Fetch(ctx context.Context) (any, error) {
	if s.url == "" {
		return nil, fmt.Errorf("prediction api url is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, s.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, s.httpCfg, s.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode prediction payload: %w", err)
	}
	return payload, nil
}
