package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize console logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}

	err = Init(WithFormat("json"))
	if err != nil {
		t.Fatalf("failed to initialize json logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()
	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerUnknownFormat(t *testing.T) {
	if err := Init(WithFormat("xml")); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestLoggerJSONFields(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithFormat("json"), WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := WithRequestID(context.Background(), "req-1")
	Get().Info(ctx, "prediction served", String("disease", "diabetes"), Int("label", 1), Error(errors.New("boom")))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "prediction served" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["disease"] != "diabetes" {
		t.Errorf("unexpected disease field: %v", entry["disease"])
	}
	if entry["request_id"] != "req-1" {
		t.Errorf("unexpected request_id: %v", entry["request_id"])
	}
	if entry["error"] != "boom" {
		t.Errorf("unexpected error field: %v", entry["error"])
	}
	if caller, _ := entry["caller"].(string); !strings.Contains(caller, "logger_test.go") {
		t.Errorf("caller should point at the test, got %v", entry["caller"])
	}
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithFormat("json"), WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("registry")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}
	namedLogger.Info(context.Background(), "test message")

	if !strings.Contains(buf.String(), `"logger":"registry"`) {
		t.Errorf("expected logger name in output, got %q", buf.String())
	}
}

func TestSetLevelString(t *testing.T) {
	defer SetLevel(zapcore.InfoLevel)

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		" error ": zapcore.ErrorLevel,
	}
	for in, want := range cases {
		if err := SetLevelString(in); err != nil {
			t.Fatalf("SetLevelString(%q) failed: %v", in, err)
		}
		if Level() != want {
			t.Errorf("SetLevelString(%q) = %v, want %v", in, Level(), want)
		}
	}
	if err := SetLevelString("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	defer SetLevel(zapcore.InfoLevel)

	var buf bytes.Buffer
	if err := Init(WithFormat("json"), WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	SetLevel(zapcore.InfoLevel)
	Get().Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Errorf("debug line should be filtered at info level, got %q", buf.String())
	}
}

func TestLoggerFileOutput(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "dxpredict.log")
	if err := Init(WithFormat("json"), WithOutput(&buf), WithFile(path)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	Get().Warn(context.Background(), "written twice")
	if !strings.Contains(buf.String(), "written twice") {
		t.Errorf("expected primary sink output, got %q", buf.String())
	}
}
