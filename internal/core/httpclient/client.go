package httpclient

import (
	"net/http"
	"time"

	"delivery-proof/internal/core/logger"

	"go.uber.org/zap"
)

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	logger.Get().Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		logger.Get().Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Get().Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// NewClient returns an http.Client with logging middleware.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: http.DefaultTransport,
		},
		Timeout: timeout,
	}
}

// BearerRoundTripper attaches a bearer session token to every request.
type BearerRoundTripper struct {
	// Token is the session token to attach.
	Token string
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip attaches the Authorization header and delegates.
func (brt *BearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+brt.Token)
	return brt.Proxied.RoundTrip(cloned)
}

// NewAuthenticatedClient returns an http.Client that logs requests and sends
// the given session token on each of them.
func NewAuthenticatedClient(token string, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &BearerRoundTripper{
			Token: token,
			Proxied: &LoggingRoundTripper{
				Proxied: http.DefaultTransport,
			},
		},
		Timeout: timeout,
	}
}
