package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"
)

const (
	headerContentType   = "Content-Type"
	headerAuthorization = "Authorization"
	headerCSRF          = "X-CSRFToken"
	contentTypeJSON     = "application/json"
	authScheme          = "Token "
)

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// RequestConfig describes one call. It is built per call and never retained.
type RequestConfig struct {
	// Endpoint is appended to the client's base URL as-is.
	Endpoint string
	// Method defaults to GET.
	Method string
	// Body is JSON-encoded when non-nil and the method accepts a body.
	Body  any
	Query map[string]string
	// AuthToken and CSRFToken override the client's providers when set.
	AuthToken string
	CSRFToken string
}

func (cfg RequestConfig) normalize() (RequestConfig, error) {
	cfg.Method = strings.ToUpper(strings.TrimSpace(cfg.Method))
	if cfg.Method == "" {
		cfg.Method = http.MethodGet
	}
	if !allowedMethods[cfg.Method] {
		return cfg, fmt.Errorf("unsupported method %q", cfg.Method)
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return cfg, fmt.Errorf("endpoint is required")
	}
	return cfg, nil
}

// encodeBody returns nil when there is nothing to send.
func (cfg RequestConfig) encodeBody() ([]byte, error) {
	if cfg.Method == http.MethodGet || isNil(cfg.Body) {
		return nil, nil
	}
	raw, err := json.Marshal(cfg.Body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return raw, nil
}

// buildHeaders returns a fresh header map for a single call.
func buildHeaders(authToken, csrfToken string) map[string]string {
	headers := map[string]string{
		headerContentType: contentTypeJSON,
	}
	if authToken != "" {
		headers[headerAuthorization] = authScheme + authToken
	}
	if csrfToken != "" {
		headers[headerCSRF] = csrfToken
	}
	return headers
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}
