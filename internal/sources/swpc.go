package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/antonkh/space-weather-forecast/internal/outlook"
	"github.com/sony/gobreaker"
)

// DefaultSWPCOutlookURL is the NOAA SWPC 27-day outlook text product.
const DefaultSWPCOutlookURL = "https://services.swpc.noaa.gov/text/27-day-outlook.txt"

// maxOutlookBytes bounds the response body read; the product is a few KB.
const maxOutlookBytes = 1 << 20

var _ Source = (*SWPCSource)(nil)

// SWPCSource fetches the NOAA SWPC 27-day outlook and converts the text
// product into a normalizer-ready payload.
type SWPCSource struct {
	name    string
	url     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewSWPCSource(client *http.Client, url string) *SWPCSource {
	if url == "" {
		url = DefaultSWPCOutlookURL
	}
	return &SWPCSource{
		name: "swpc-27day",
		url:  url,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: newBreaker("swpc-27day"),
	}
}

func (s *SWPCSource) Name() string {
	return s.name
}

func (s *SWPCSource) Fetch(ctx context.Context) (any, error) {
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, s.url, nil)
	}

	resp, err := doRequestWithResilience(ctx, s.httpCfg, s.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxOutlookBytes))
	if err != nil {
		return nil, fmt.Errorf("read outlook body: %w", err)
	}

	parsed, err := outlook.Parse(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse outlook: %w", err)
	}
	return parsed.Payload(), nil
}
