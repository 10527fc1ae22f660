package sources

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

// trackedBody records whether the response body was closed.
type trackedBody struct {
	io.Reader
	closed bool
}

func (b *trackedBody) Close() error {
	b.closed = true
	return nil
}

// scriptedTransport serves a fixed sequence of status codes, one per request.
type scriptedTransport struct {
	statuses []int
	bodies   []*trackedBody
}

func (t *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	status := t.statuses[0]
	if len(t.statuses) > 1 {
		t.statuses = t.statuses[1:]
	}
	body := &trackedBody{Reader: strings.NewReader("{}")}
	t.bodies = append(t.bodies, body)
	return &http.Response{
		StatusCode: status,
		Body:       body,
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func testHTTPCfg(transport http.RoundTripper) HTTPClientConfig {
	return HTTPClientConfig{
		Client: &http.Client{Transport: transport},
		Backoff: BackoffConfig{
			MaxRetries:      3,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
		},
	}
}

func TestResilienceRetriesAndClosesFailedBodies(t *testing.T) {
	transport := &scriptedTransport{statuses: []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusOK}}

	resp, err := doRequestWithResilience(context.Background(), testHTTPCfg(transport), newBreaker("test"), func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, "http://upstream.test/forecast", nil)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(transport.bodies) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(transport.bodies))
	}
	// The two failed attempts must not leak their connections.
	if !transport.bodies[0].closed || !transport.bodies[1].closed {
		t.Fatalf("failed response bodies not closed: %v, %v", transport.bodies[0].closed, transport.bodies[1].closed)
	}
	if transport.bodies[2].closed {
		t.Fatal("successful response body closed before the caller read it")
	}
}

func TestResilienceExhaustsRetries(t *testing.T) {
	transport := &scriptedTransport{statuses: []int{http.StatusBadGateway}}

	_, err := doRequestWithResilience(context.Background(), testHTTPCfg(transport), newBreaker("test"), func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, "http://upstream.test/forecast", nil)
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	for i, body := range transport.bodies {
		if !body.closed {
			t.Fatalf("attempt %d body not closed", i)
		}
	}
}
