package storeapi

import (
	"log/slog"
	"net/http"
	"time"
)

// loggingRoundTripper logs every request made to the store.
type loggingRoundTripper struct {
	proxied http.RoundTripper
	logger  *slog.Logger
}

func (lrt *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	lrt.logger.DebugContext(req.Context(), "Store request started",
		"method", req.Method,
		"url", req.URL.Redacted(),
	)

	resp, err := lrt.proxied.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		lrt.logger.WarnContext(req.Context(), "Store request failed",
			"method", req.Method,
			"url", req.URL.Redacted(),
			"duration", duration,
			"error", err,
		)
		return nil, err
	}

	lrt.logger.DebugContext(req.Context(), "Store request completed",
		"method", req.Method,
		"url", req.URL.Redacted(),
		"status_code", resp.StatusCode,
		"duration", duration,
	)
	return resp, nil
}

func newHTTPClient(timeout time.Duration, logger *slog.Logger) *http.Client {
	return &http.Client{
		Transport: &loggingRoundTripper{proxied: http.DefaultTransport, logger: logger},
		Timeout:   timeout,
	}
}
