// Package resources exposes typed wrappers over the Doxly REST routes.
// Every call goes through apiclient, so errors follow its taxonomy and are
// logged before they are returned.
package resources

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/doxly-hq/doxly-apiclient/internal/domain"
	"github.com/doxly-hq/doxly-apiclient/pkg/apiclient"
)

// Service groups the resource clients sharing one apiclient.Client.
type Service struct {
	Projects      *Projects
	Documents     *Documents
	Workflows     *Workflows
	Notifications *Notifications
}

// New wires every resource client to c.
func New(c *apiclient.Client) *Service {
	return &Service{
		Projects:      &Projects{c: c},
		Documents:     &Documents{c: c},
		Workflows:     &Workflows{c: c},
		Notifications: &Notifications{c: c},
	}
}

func itemPath(prefix string, id int) string {
	return prefix + strconv.Itoa(id) + "/"
}

// Projects wraps /projects/.
type Projects struct{ c *apiclient.Client }

func (p *Projects) List(ctx context.Context) ([]domain.Project, error) {
	return apiclient.Decode[[]domain.Project](ctx, p.c, apiclient.RequestConfig{Endpoint: "/projects/"})
}

func (p *Projects) Get(ctx context.Context, id int) (domain.Project, error) {
	return apiclient.Decode[domain.Project](ctx, p.c, apiclient.RequestConfig{Endpoint: itemPath("/projects/", id)})
}

func (p *Projects) Create(ctx context.Context, in domain.Project) (domain.Project, error) {
	return apiclient.Decode[domain.Project](ctx, p.c, apiclient.RequestConfig{
		Endpoint: "/projects/",
		Method:   http.MethodPost,
		Body:     in,
	})
}

func (p *Projects) Update(ctx context.Context, id int, in domain.Project) (domain.Project, error) {
	return apiclient.Decode[domain.Project](ctx, p.c, apiclient.RequestConfig{
		Endpoint: itemPath("/projects/", id),
		Method:   http.MethodPut,
		Body:     in,
	})
}

func (p *Projects) Delete(ctx context.Context, id int) error {
	return p.c.Do(ctx, apiclient.RequestConfig{Endpoint: itemPath("/projects/", id), Method: http.MethodDelete}, nil)
}

// Documents wraps /documents/.
type Documents struct{ c *apiclient.Client }

// List returns documents, filtered by project when projectID is positive.
func (d *Documents) List(ctx context.Context, projectID int) ([]domain.Document, error) {
	cfg := apiclient.RequestConfig{Endpoint: "/documents/"}
	if projectID > 0 {
		cfg.Query = map[string]string{"project_id": strconv.Itoa(projectID)}
	}
	return apiclient.Decode[[]domain.Document](ctx, d.c, cfg)
}

func (d *Documents) Get(ctx context.Context, id int) (domain.Document, error) {
	return apiclient.Decode[domain.Document](ctx, d.c, apiclient.RequestConfig{Endpoint: itemPath("/documents/", id)})
}

func (d *Documents) Update(ctx context.Context, id int, in domain.Document) (domain.Document, error) {
	return apiclient.Decode[domain.Document](ctx, d.c, apiclient.RequestConfig{
		Endpoint: itemPath("/documents/", id),
		Method:   http.MethodPut,
		Body:     in,
	})
}

func (d *Documents) Delete(ctx context.Context, id int) error {
	return d.c.Do(ctx, apiclient.RequestConfig{Endpoint: itemPath("/documents/", id), Method: http.MethodDelete}, nil)
}

// Page is the envelope returned by paginated list views.
type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []T    `json:"results"`
}

// Search runs a full-text query against document names and metadata and
// returns the first page of matches.
func (d *Documents) Search(ctx context.Context, query string) ([]domain.Document, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	page, err := apiclient.Decode[Page[domain.Document]](ctx, d.c, apiclient.RequestConfig{
		Endpoint: "/documents/search/",
		Query:    map[string]string{"search": query},
	})
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Shared returns documents other users shared with the caller.
func (d *Documents) Shared(ctx context.Context) ([]domain.Document, error) {
	return apiclient.Decode[[]domain.Document](ctx, d.c, apiclient.RequestConfig{Endpoint: "/documents/shared/"})
}

// Workflows wraps /workflows/.
type Workflows struct{ c *apiclient.Client }

func (w *Workflows) List(ctx context.Context) ([]domain.DocumentWorkflow, error) {
	return apiclient.Decode[[]domain.DocumentWorkflow](ctx, w.c, apiclient.RequestConfig{Endpoint: "/workflows/"})
}

func (w *Workflows) Stages(ctx context.Context) ([]domain.WorkflowStage, error) {
	return apiclient.Decode[[]domain.WorkflowStage](ctx, w.c, apiclient.RequestConfig{Endpoint: "/workflows/stages/"})
}

// Notifications wraps /notifications/.
type Notifications struct{ c *apiclient.Client }

func (n *Notifications) List(ctx context.Context) ([]domain.Notification, error) {
	return apiclient.Decode[[]domain.Notification](ctx, n.c, apiclient.RequestConfig{Endpoint: "/notifications/notifications/"})
}

func (n *Notifications) MarkRead(ctx context.Context, id int) error {
	return n.c.Do(ctx, apiclient.RequestConfig{
		Endpoint: "/notifications/mark_as_read/",
		Method:   http.MethodPost,
		Body:     map[string]int{"id": id},
	}, nil)
}
