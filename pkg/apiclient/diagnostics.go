package apiclient

// DiagnosticLogger records a failed call before the error is handed back.
type DiagnosticLogger interface {
	LogFailure(err error)
}

// DiagnosticFunc adapts a plain function to DiagnosticLogger.
type DiagnosticFunc func(err error)

func (f DiagnosticFunc) LogFailure(err error) {
	if f == nil || err == nil {
		return
	}
	defer func() { _ = recover() }()
	f(err)
}

// NewDiagnostics returns a DiagnosticLogger that writes one error record per failure.
func NewDiagnostics(log Logger) DiagnosticLogger {
	return &logDiagnostics{log: ensureLogger(log)}
}

type logDiagnostics struct {
	log Logger
}

// LogFailure emits a single "api call failed" record. It never panics.
func (d *logDiagnostics) LogFailure(err error) {
	if err == nil {
		return
	}
	defer func() { _ = recover() }()
	d.log.ErrorObj("api call failed", "api_error", failureFields(err))
}

func failureFields(err error) map[string]any {
	fields := map[string]any{"message": err.Error()}
	details, ok := DetailsOf(err)
	if !ok {
		return fields
	}
	if details.StatusCode != 0 {
		fields["status"] = details.StatusCode
	}
	if details.StatusText != "" {
		fields["status_text"] = details.StatusText
	}
	if details.URL != "" {
		fields["url"] = details.URL
	}
	return fields
}
