package client

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StatusError is returned for non-200 responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}

// httpGetter performs GET requests with fasthttp, honouring the context deadline
// when one is set and falling back to the configured timeout otherwise.
type httpGetter struct {
	client  *fasthttp.Client
	timeout time.Duration
	logger  *zap.Logger
}

func newHTTPGetter(timeout time.Duration, logger *zap.Logger) *httpGetter {
	return &httpGetter{
		client:  &fasthttp.Client{},
		timeout: timeout,
		logger:  logger,
	}
}

// get returns a copy of the response body of a 200 response.
func (g *httpGetter) get(ctx context.Context, requestURL string, headers map[string]string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline := time.Now().Add(g.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := g.client.DoDeadline(req, resp, deadline); err != nil {
		g.logger.Warn("Failed to execute request", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		g.logger.Warn("Request returned non-200 status",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", resp.Body()))
		return nil, &StatusError{URL: requestURL, StatusCode: resp.StatusCode()}
	}

	return append([]byte(nil), resp.Body()...), nil
}
