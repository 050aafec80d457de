package usecase

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/allisson/gateway/internal/errors"
)

// hopByHopHeaders are connection-scoped and must not be relayed.
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// httpForwarder implements Forwarder with a shared http.Client.
type httpForwarder struct {
	client *http.Client
}

// Forward sends the request to the upstream and returns its response. The
// upstream URL is the API's endpoint base joined with the request path and
// query. Any transport failure, including the per-request timeout, is an
// upstream error.
func (h *httpForwarder) Forward(ctx context.Context, input *ForwardInput) (*ForwardOutput, error) {
	url := strings.TrimSuffix(input.Endpoint, "/") + input.Path
	if input.RawQuery != "" {
		url += "?" + input.RawQuery
	}

	var body io.Reader
	if len(input.Body) > 0 {
		body = bytes.NewReader(input.Body)
	}

	req, err := http.NewRequestWithContext(ctx, input.Method, url, body)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build upstream request")
	}

	copyHeaders(req.Header, input.Header)
	req.Header.Del("X-Api-Key")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, err.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, err.Error())
	}

	header := make(http.Header)
	copyHeaders(header, resp.Header)

	return &ForwardOutput{
		StatusCode: resp.StatusCode,
		Header:     header,
		Body:       respBody,
	}, nil
}

func copyHeaders(dst, src http.Header) {
	for name, values := range src {
		for _, value := range values {
			dst.Add(name, value)
		}
	}
	for _, name := range hopByHopHeaders {
		dst.Del(name)
	}
}

// NewHTTPForwarder creates a Forwarder with a per-request timeout.
func NewHTTPForwarder(timeout time.Duration) Forwarder {
	return &httpForwarder{
		client: &http.Client{Timeout: timeout},
	}
}
