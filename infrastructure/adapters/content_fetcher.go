package adapters

import (
	"fmt"
	"io"
	"net/http"

	"content-factory/application/ports/outbound"
)

// ContentFetcher is the shared HTTP helper for provider adapters. Do exposes
// the status code so adapters can classify provider failures; FetchContent
// keeps the common success-only path.
type ContentFetcher interface {
	FetchContent(req *http.Request) ([]byte, error)
	Do(req *http.Request) (int, []byte, error)
}

type contentFetcher struct {
	client *http.Client
	logger outbound.LoggerPort
}

func NewContentFetcher(logger outbound.LoggerPort) ContentFetcher {
	return &contentFetcher{
		client: &http.Client{},
		logger: logger,
	}
}

func (c *contentFetcher) Do(req *http.Request) (int, []byte, error) {
	res, err := c.client.Do(req)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to send the HTTP request", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return 0, nil, err
	}

	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.ErrorWithFields(err, "Failed to close the response body", map[string]interface{}{
				"method": req.Method,
				"URL":    req.URL.String(),
			})
		}
	}(res.Body)

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to read the response body", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return res.StatusCode, nil, err
	}

	return res.StatusCode, payload, nil
}

func (c *contentFetcher) FetchContent(req *http.Request) ([]byte, error) {
	status, payload, err := c.Do(req)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		c.logger.ErrorWithFields(nil, "HTTP request returned non-OK status code", map[string]interface{}{
			"method":  req.Method,
			"URL":     req.URL.String(),
			"status":  status,
			"message": string(payload),
		})
		return nil, fmt.Errorf("HTTP request returned non-OK status code: %d", status)
	}

	return payload, nil
}
