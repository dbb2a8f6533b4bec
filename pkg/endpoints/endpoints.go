package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Package endpoints holds named API routes loaded from YAML/JSON catalogs.

// Endpoint is one named route relative to the API base URL.
type Endpoint struct {
	ID          string `json:"id" yaml:"id"`
	Path        string `json:"path" yaml:"path"`
	Method      string `json:"method" yaml:"method"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type catalogFile struct {
	Endpoints []Endpoint `json:"endpoints" yaml:"endpoints"`
}

// Catalog indexes endpoints by id.
type Catalog struct {
	mu        sync.RWMutex
	endpoints []Endpoint
	idx       map[string]Endpoint
}

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

var validMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// DefaultCatalog returns the routes served by the Doxly backend.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]Endpoint{
		{ID: "health", Path: "/health-check/", Description: "backend health check"},
		{ID: "projects", Path: "/projects/", Description: "list projects"},
		{ID: "project-create", Path: "/projects/", Method: http.MethodPost, Description: "create a project"},
		{ID: "project", Path: "/projects/{id}/", Description: "project detail"},
		{ID: "project-update", Path: "/projects/{id}/", Method: http.MethodPut, Description: "update a project"},
		{ID: "project-delete", Path: "/projects/{id}/", Method: http.MethodDelete, Description: "delete a project"},
		{ID: "folders", Path: "/projects/folders/", Description: "project folder structure"},
		{ID: "documents", Path: "/documents/", Description: "list documents"},
		{ID: "document", Path: "/documents/{id}/", Description: "document detail"},
		{ID: "document-update", Path: "/documents/{id}/", Method: http.MethodPut, Description: "update a document"},
		{ID: "document-delete", Path: "/documents/{id}/", Method: http.MethodDelete, Description: "delete a document"},
		{ID: "document-search", Path: "/documents/search/", Description: "search documents"},
		{ID: "shared-documents", Path: "/documents/shared/", Description: "documents shared with the user"},
		{ID: "workflows", Path: "/workflows/", Description: "document workflows"},
		{ID: "workflow-stages", Path: "/workflows/stages/", Description: "workflow stages"},
		{ID: "notifications", Path: "/notifications/notifications/", Description: "list notifications"},
		{ID: "email-templates", Path: "/notifications/templates/", Description: "email templates"},
		{ID: "analysis", Path: "/analytics/analysis/", Description: "document analyses"},
	})
	if err != nil {
		panic(fmt.Sprintf("default endpoint catalog: %v", err))
	}
	return c
}

// NewCatalog validates and indexes the given endpoints.
func NewCatalog(eps []Endpoint) (*Catalog, error) {
	c := &Catalog{
		endpoints: make([]Endpoint, len(eps)),
		idx:       make(map[string]Endpoint, len(eps)),
	}
	for i := range eps {
		ep := sanitizeEndpoint(eps[i])
		if err := validateEndpoint(ep); err != nil {
			return nil, fmt.Errorf("endpoints[%d]: %w", i, err)
		}
		if _, exists := c.idx[ep.ID]; exists {
			return nil, fmt.Errorf("duplicate endpoint id %q", ep.ID)
		}
		c.endpoints[i] = ep
		c.idx[ep.ID] = ep
	}
	return c, nil
}

// LoadCatalog loads an endpoint catalog from a YAML/JSON file.
func LoadCatalog(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("endpoints file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open endpoints file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read endpoints file: %w", err)
	}

	var cf catalogFile
	if err := decode(raw, filepath.Ext(path), &cf); err != nil {
		return nil, fmt.Errorf("endpoints file: %w", err)
	}
	if len(cf.Endpoints) == 0 {
		return nil, errors.New("endpoints file contains no endpoints entries")
	}
	return NewCatalog(cf.Endpoints)
}

type unmarshalFn func([]byte, any) error

// decode tries the decoder matching ext, or every decoder when ext is unknown.
func decode(data []byte, ext string, out any) error {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "json", ext: ".json", fn: json.Unmarshal},
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
	}

	known := false
	for _, d := range decoders {
		if ext == d.ext {
			known = true
		}
	}

	var errs []error
	for _, d := range decoders {
		if known && ext != d.ext {
			continue
		}
		if err := d.fn(data, out); err != nil {
			errs = append(errs, fmt.Errorf("decode %s: %w", d.name, err))
			continue
		}
		return nil
	}
	return fmt.Errorf("format not recognized (expected YAML or JSON): %w", errors.Join(errs...))
}

func sanitizeEndpoint(ep Endpoint) Endpoint {
	ep.ID = strings.TrimSpace(ep.ID)
	ep.Path = strings.TrimSpace(ep.Path)
	ep.Method = strings.ToUpper(strings.TrimSpace(ep.Method))
	ep.Description = strings.TrimSpace(ep.Description)
	if ep.Method == "" {
		ep.Method = http.MethodGet
	}
	return ep
}

func validateEndpoint(ep Endpoint) error {
	if ep.ID == "" {
		return errors.New("id is required")
	}
	if ep.Path == "" {
		return fmt.Errorf("path is required for endpoint %q", ep.ID)
	}
	if !strings.HasPrefix(ep.Path, "/") {
		return fmt.Errorf("path for endpoint %q must start with /", ep.ID)
	}
	if !validMethods[ep.Method] {
		return fmt.Errorf("unsupported method %q for endpoint %q", ep.Method, ep.ID)
	}
	return nil
}

// ByID returns the endpoint registered under id.
func (c *Catalog) ByID(id string) (Endpoint, bool) {
	if c == nil {
		return Endpoint{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return Endpoint{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	ep, ok := c.idx[id]
	return ep, ok
}

// All returns the endpoints sorted by id.
func (c *Catalog) All() []Endpoint {
	if c == nil {
		return nil
	}

	c.mu.RLock()
	out := make([]Endpoint, len(c.endpoints))
	copy(out, c.endpoints)
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Merge adds other's endpoints, replacing entries with the same id.
func (c *Catalog) Merge(other *Catalog) {
	if c == nil || other == nil {
		return
	}
	incoming := other.All()

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ep := range incoming {
		if _, exists := c.idx[ep.ID]; exists {
			for i := range c.endpoints {
				if c.endpoints[i].ID == ep.ID {
					c.endpoints[i] = ep
				}
			}
		} else {
			c.endpoints = append(c.endpoints, ep)
		}
		c.idx[ep.ID] = ep
	}
}

// Expand substitutes {name} placeholders with path-escaped params.
func (ep Endpoint) Expand(params map[string]string) (string, error) {
	var missing []string
	out := placeholderRe.ReplaceAllStringFunc(ep.Path, func(m string) string {
		name := m[1 : len(m)-1]
		val, ok := params[name]
		if !ok || strings.TrimSpace(val) == "" {
			missing = append(missing, name)
			return m
		}
		return url.PathEscape(val)
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("endpoint %q missing params: %s", ep.ID, strings.Join(missing, ", "))
	}
	return out, nil
}

// Params lists the placeholder names in the path.
func (ep Endpoint) Params() []string {
	matches := placeholderRe.FindAllStringSubmatch(ep.Path, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}
