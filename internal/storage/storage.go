package storage

import (
	"context"
	"fmt"
	"strings"
)

// Package storage keeps the auth token between CLI runs.

// Store holds the current auth token. It satisfies apiclient.TokenProvider.
type Store interface {
	Close() error
	AuthToken(ctx context.Context) (string, error)
	SaveToken(token string) error
	ClearToken() error
}

// NewStore creates the configured storage backend.
func NewStore(typ, path string) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

// NormalizeToken trims whitespace and a leading "Token " or "Bearer " scheme.
func NormalizeToken(token string) string {
	token = strings.TrimSpace(token)
	for _, scheme := range []string{"Token ", "Bearer "} {
		if len(token) >= len(scheme) && strings.EqualFold(token[:len(scheme)], scheme) {
			token = strings.TrimSpace(token[len(scheme):])
			break
		}
	}
	return token
}

type noopStore struct{}

func (noopStore) Close() error                              { return nil }
func (noopStore) AuthToken(context.Context) (string, error) { return "", nil }
func (noopStore) SaveToken(string) error                    { return fmt.Errorf("token storage is disabled") }
func (noopStore) ClearToken() error                         { return nil }
