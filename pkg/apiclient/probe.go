package apiclient

import (
	"context"
	"net/http"
	"strings"
)

// ProbeResult is what a connectivity check observed.
// Status is 0 when no response was received.
type ProbeResult struct {
	Status  int         `json:"status" yaml:"status"`
	OK      bool        `json:"ok" yaml:"ok"`
	Headers http.Header `json:"headers" yaml:"headers"`
	URL     string      `json:"url" yaml:"url"`
}

// Probe issues a GET to the health-check path and reports what came back.
// It never returns an error: transport failures are logged and reported as
// a result with OK false and Status 0.
func (c *Client) Probe(ctx context.Context) ProbeResult {
	if ctx == nil {
		ctx = context.Background()
	}
	target := c.baseURL + c.healthPath
	result := ProbeResult{Headers: http.Header{}, URL: target}

	headers, err := c.headersFor(ctx, "", "")
	if err != nil {
		c.diag.LogFailure(err)
		return result
	}

	resp, err := c.http.Get(ctx, target, headers)
	if err != nil {
		c.diag.LogFailure(&TransportError{
			APIError: APIError{Message: err.Error(), URL: target},
			Method:   http.MethodGet,
			Err:      err,
		})
		return result
	}

	result.Status = resp.StatusCode()
	result.OK = result.Status >= 200 && result.Status <= 299
	result.URL = responseURL(resp, target)
	if h := resp.Header(); h != nil {
		result.Headers = h.Clone()
	}

	c.log.InfoObj("api connection test", "api_probe", map[string]any{
		"status":  result.Status,
		"ok":      result.OK,
		"url":     result.URL,
		"headers": flattenHeaders(result.Headers),
	})
	return result
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, ", ")
	}
	return out
}
