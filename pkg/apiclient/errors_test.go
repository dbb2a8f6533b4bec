package apiclient

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorTaxonomyMatching(t *testing.T) {
	cause := errors.New("connection refused")
	transport := &TransportError{APIError: APIError{Message: cause.Error(), URL: "http://x/a"}, Method: "GET", Err: cause}
	status := newHTTPStatusError(404, "Not Found", "http://x/b", nil)
	parse := &ParseError{APIError: APIError{Message: "bad", URL: "http://x/c"}, Err: cause}

	wrapped := fmt.Errorf("load projects: %w", status)
	if !errors.Is(wrapped, ErrHTTPStatus) || errors.Is(wrapped, ErrTransport) {
		t.Fatalf("wrapped status error matched wrong sentinel")
	}
	if !errors.Is(transport, cause) || !errors.Is(parse, cause) {
		t.Fatalf("causes should unwrap")
	}
	if !errors.Is(parse, ErrParse) || errors.Is(parse, ErrHTTPStatus) {
		t.Fatalf("parse error matched wrong sentinel")
	}
	if status.Error() != "http error: status 404" {
		t.Fatalf("unexpected message %q", status.Error())
	}
}

func TestDetailsOf(t *testing.T) {
	err := fmt.Errorf("outer: %w", newHTTPStatusError(503, "Service Unavailable", "http://x/y", nil))
	d, ok := DetailsOf(err)
	if !ok {
		t.Fatalf("expected details")
	}
	if d.StatusCode != 503 || d.StatusText != "Service Unavailable" || d.URL != "http://x/y" {
		t.Fatalf("unexpected details %+v", d)
	}
	if _, ok := DetailsOf(errors.New("plain")); ok {
		t.Fatalf("plain errors carry no details")
	}
}

func TestDiagnosticsRecordFields(t *testing.T) {
	log := &recordingLogger{}
	NewDiagnostics(log).LogFailure(newHTTPStatusError(401, "Unauthorized", "http://x/me", nil))

	records := log.byLevel("error")
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	fields := records[0].obj.(map[string]any)
	if fields["message"] != "http error: status 401" || fields["status"] != 401 ||
		fields["status_text"] != "Unauthorized" || fields["url"] != "http://x/me" {
		t.Fatalf("unexpected fields %#v", fields)
	}
}

func TestDiagnosticsPlainErrorHasMessageOnly(t *testing.T) {
	log := &recordingLogger{}
	NewDiagnostics(log).LogFailure(errors.New("boom"))

	fields := log.byLevel("error")[0].obj.(map[string]any)
	if len(fields) != 1 || fields["message"] != "boom" {
		t.Fatalf("unexpected fields %#v", fields)
	}
}

type panickingLogger struct{ noopLogger }

func (panickingLogger) ErrorObj(string, string, interface{}) { panic("sink broke") }

func TestDiagnosticsNeverPanics(t *testing.T) {
	NewDiagnostics(panickingLogger{}).LogFailure(errors.New("x"))
	DiagnosticFunc(func(error) { panic("sink broke") }).LogFailure(errors.New("x"))
	NewDiagnostics(nil).LogFailure(nil)
}
