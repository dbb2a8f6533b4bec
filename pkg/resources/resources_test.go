package resources

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/doxly-hq/doxly-apiclient/internal/domain"
	"github.com/doxly-hq/doxly-apiclient/pkg/apiclient"
)

type call struct {
	method string
	path   string
	query  string
	body   string
}

func newService(t *testing.T, handler func(w http.ResponseWriter, c call)) (*Service, *[]call) {
	t.Helper()
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		c := call{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, body: string(body)}
		calls = append(calls, c)
		handler(w, c)
	}))
	t.Cleanup(srv.Close)

	client, err := apiclient.New(srv.URL+"/api", apiclient.WithTokenProvider(apiclient.StaticToken("tok")))
	if err != nil {
		t.Fatalf("apiclient.New: %v", err)
	}
	return New(client), &calls
}

func TestProjectsCRUD(t *testing.T) {
	svc, calls := newService(t, func(w http.ResponseWriter, c call) {
		switch {
		case c.method == http.MethodGet && c.path == "/api/projects/":
			_, _ = w.Write([]byte(`[{"id":1,"name":"Tower A","trade":"civil"}]`))
		case c.method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":2,"name":"Bridge"}`))
		case c.method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, nil)
		}
	})
	ctx := context.Background()

	list, err := svc.Projects.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Tower A" || list[0].Trade != "civil" {
		t.Fatalf("unexpected projects %#v", list)
	}

	created, err := svc.Projects.Create(ctx, domain.Project{Name: "Bridge"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 2 {
		t.Fatalf("unexpected created project %#v", created)
	}
	var sent map[string]any
	if err := json.Unmarshal([]byte((*calls)[1].body), &sent); err != nil {
		t.Fatalf("create body not json: %v", err)
	}
	if sent["name"] != "Bridge" {
		t.Fatalf("unexpected create body %v", sent)
	}
	if _, ok := sent["created_at"]; ok {
		t.Fatalf("unset timestamps should be omitted: %v", sent)
	}

	if err := svc.Projects.Delete(ctx, 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if (*calls)[2].path != "/api/projects/2/" {
		t.Fatalf("unexpected delete path %s", (*calls)[2].path)
	}

	_, err = svc.Projects.Get(ctx, 99)
	var statusErr *apiclient.HTTPStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 status error, got %v", err)
	}
}

func TestDocumentsFilteringAndSearch(t *testing.T) {
	svc, calls := newService(t, func(w http.ResponseWriter, c call) {
		if c.path == "/api/documents/search/" {
			_, _ = w.Write([]byte(`{"count":1,"next":null,"previous":null,"results":[{"id":8,"name":"drawings.dwg","status":"approved"}]}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":5,"name":"spec.pdf","status":"draft"}]`))
	})
	ctx := context.Background()

	docs, err := svc.Documents.List(ctx, 3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 1 || docs[0].Status != "draft" {
		t.Fatalf("unexpected documents %#v", docs)
	}
	if (*calls)[0].query != "project_id=3" {
		t.Fatalf("unexpected query %q", (*calls)[0].query)
	}

	if _, err := svc.Documents.List(ctx, 0); err != nil {
		t.Fatalf("List unfiltered: %v", err)
	}
	if (*calls)[1].query != "" {
		t.Fatalf("unfiltered list should not send a query, got %q", (*calls)[1].query)
	}

	found, err := svc.Documents.Search(ctx, "drawings")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 1 || found[0].ID != 8 || found[0].Status != "approved" {
		t.Fatalf("unexpected search results %#v", found)
	}
	if (*calls)[2].path != "/api/documents/search/" || (*calls)[2].query != "search=drawings" {
		t.Fatalf("unexpected search call %+v", (*calls)[2])
	}

	if _, err := svc.Documents.Search(ctx, ""); err == nil {
		t.Fatalf("expected error for empty query")
	}
	if len(*calls) != 3 {
		t.Fatalf("empty search must not hit the backend")
	}
}

func TestWorkflowsAndNotifications(t *testing.T) {
	svc, calls := newService(t, func(w http.ResponseWriter, c call) {
		switch c.path {
		case "/api/workflows/stages/":
			_, _ = w.Write([]byte(`[{"id":1,"name":"Review","sequence":1,"requires_approval":true}]`))
		case "/api/notifications/notifications/":
			_, _ = w.Write([]byte(`[{"id":9,"subject":"Approved","is_read":false}]`))
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	})
	ctx := context.Background()

	stages, err := svc.Workflows.Stages(ctx)
	if err != nil || len(stages) != 1 || !stages[0].RequiresApproval {
		t.Fatalf("unexpected stages %#v err=%v", stages, err)
	}

	notes, err := svc.Notifications.List(ctx)
	if err != nil || len(notes) != 1 || notes[0].Subject != "Approved" {
		t.Fatalf("unexpected notifications %#v err=%v", notes, err)
	}

	if err := svc.Notifications.MarkRead(ctx, 9); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	last := (*calls)[len(*calls)-1]
	if last.method != http.MethodPost || last.body != `{"id":9}` {
		t.Fatalf("unexpected mark-read call %+v", last)
	}
}
