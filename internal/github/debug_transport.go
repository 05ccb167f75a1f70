package github

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
)

// debugTransport wraps an HTTP transport and logs requests/responses
type debugTransport struct {
	transport http.RoundTripper
	logger    *slog.Logger
}

func (d *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqDump, err := httputil.DumpRequestOut(req, true)
	if err != nil {
		return nil, fmt.Errorf("failed to dump request: %w", err)
	}
	d.logger.Debug("graphql request", "method", req.Method, "url", req.URL.String(), "dump", string(reqDump))

	resp, err := d.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	respDump, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return nil, fmt.Errorf("failed to dump response: %w", err)
	}
	d.logger.Debug("graphql response", "status", resp.StatusCode, "dump", string(respDump))

	return resp, nil
}
