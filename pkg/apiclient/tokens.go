package apiclient

import (
	"context"
	"net/url"

	"github.com/doxly-hq/doxly-apiclient/pkg/httpclient"
)

// TokenProvider supplies the current auth token. The client only reads it.
type TokenProvider interface {
	AuthToken(ctx context.Context) (string, error)
}

// CSRFProvider supplies the current CSRF token. The client only reads it.
type CSRFProvider interface {
	CSRFToken(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenProvider.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) AuthToken(ctx context.Context) (string, error) { return f(ctx) }

// CSRFFunc adapts a function to CSRFProvider.
type CSRFFunc func(ctx context.Context) (string, error)

func (f CSRFFunc) CSRFToken(ctx context.Context) (string, error) { return f(ctx) }

// StaticToken returns a TokenProvider that always yields tok.
func StaticToken(tok string) TokenProvider {
	return TokenFunc(func(context.Context) (string, error) { return tok, nil })
}

// cookieCSRF reads the CSRF value out of the transport's cookie jar.
type cookieCSRF struct {
	jar  httpclient.CookieSource
	base *url.URL
	name string
}

func (c cookieCSRF) CSRFToken(context.Context) (string, error) {
	if c.jar == nil || c.base == nil {
		return "", nil
	}
	for _, ck := range c.jar.Cookies(c.base) {
		if ck.Name == c.name {
			return ck.Value, nil
		}
	}
	return "", nil
}
