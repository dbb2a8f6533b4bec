package logger

import (
	"testing"

	"github.com/doxly-hq/doxly-apiclient/internal/config"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapObjectHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	z := New(core)

	z.ErrorObj("api call failed", "api_error", map[string]any{"status": 503})
	z.InfoObj("api connection test", "api_probe", map[string]any{"ok": true})
	z.DebugObj("debug", "k", 1)
	z.WarnObj("warn", "k", 2)

	if logs.Len() != 4 {
		t.Fatalf("expected 4 entries, got %d", logs.Len())
	}
	failed := logs.FilterMessage("api call failed").All()
	if len(failed) != 1 || failed[0].Level != zapcore.ErrorLevel {
		t.Fatalf("unexpected failure entries %+v", failed)
	}
	fields := failed[0].ContextMap()
	obj, ok := fields["api_error"].(map[string]interface{})
	if !ok || obj["status"] != 503 {
		t.Fatalf("unexpected api_error field %#v", fields["api_error"])
	}
}

func TestZapSatisfiesFormattingLogger(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	z := New(core)

	var fl interface {
		Errorf(string, ...interface{})
		Warnf(string, ...interface{})
		Debugf(string, ...interface{})
	} = z
	fl.Warnf("retrying %s", "x")
	fl.Debugf("dropped")

	if logs.Len() != 1 || logs.All()[0].Message != "retrying x" {
		t.Fatalf("unexpected entries %+v", logs.All())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARNING": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"loud":    zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitInstallsPackageLogger(t *testing.T) {
	prev := S
	defer func() { S = prev }()

	z, err := Init(&config.Config{LogLevel: "error", LogFormat: "json"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if S == nil || S != z.SugaredLogger {
		t.Fatalf("Init should install the package logger")
	}
}
