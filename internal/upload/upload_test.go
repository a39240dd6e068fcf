package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/importer"
)

const sampleCSV = `"Push · Day 1 · Week 1";"2026-03-02 18:10 h";"0:50 hr"
"1. Bench Press · Barbell · 6 reps"
#;KG;REPS;RIR
1;80;6;2
2;80;6;1
`

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	c := NewClient(ts.URL+"/", "secret")
	c.backoff = 0
	return c
}

// TestSendExport verifies the request shape and the decoded result.
func TestSendExport(t *testing.T) {
	id := uuid.New()
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if want := "/api/v1/profiles/" + id.String() + "/import/alpha"; r.URL.Path != want {
			t.Errorf("path = %s, want %s", r.URL.Path, want)
		}
		if r.Header.Get("X-API-Key") != "secret" {
			t.Errorf("X-API-Key = %q", r.Header.Get("X-API-Key"))
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != sampleCSV {
			t.Errorf("body = %q", body)
		}
		w.Write([]byte(`{"sessions_received":1,"logs_inserted":1,"logs_duplicated":0}`))
	})

	res, err := c.SendExport(context.Background(), id, []byte(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if res.SessionsReceived != 1 || res.LogsInserted != 1 {
		t.Errorf("result = %+v", res)
	}
}

// TestSendExportRetries verifies 5xx responses are retried.
func TestSendExportRetries(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"logs_inserted":2}`))
	})

	res, err := c.SendExport(context.Background(), uuid.New(), []byte(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 3 || res.LogsInserted != 2 {
		t.Errorf("calls = %d, result = %+v", calls.Load(), res)
	}
}

// TestSendExportRejected verifies 4xx responses fail without retrying.
func TestSendExportRejected(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"invalid API key"}`, http.StatusForbidden)
	})

	_, err := c.SendExport(context.Background(), uuid.New(), []byte(sampleCSV))
	if !errors.Is(err, errPermanent) {
		t.Errorf("err = %v, want permanent failure", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

type fakeSender struct {
	sent [][]byte
	fail bool
}

func (f *fakeSender) SendExport(_ context.Context, _ uuid.UUID, data []byte) (*importer.Result, error) {
	if f.fail {
		return nil, errors.New("connection refused")
	}
	f.sent = append(f.sent, data)
	return &importer.Result{SessionsReceived: 1, LogsInserted: 1}, nil
}

func writeExports(t *testing.T) (root, stateDir string) {
	t.Helper()
	dir := t.TempDir()
	root = filepath.Join(dir, "exports")
	if err := os.MkdirAll(filepath.Join(root, "2026"), 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range map[string]string{
		"a.csv":      sampleCSV,
		"2026/b.csv": sampleCSV,
		"readme.md":  "ignored",
	} {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root, filepath.Join(dir, "state")
}

// TestUploaderRun verifies each file is sent once across runs.
func TestUploaderRun(t *testing.T) {
	root, stateDir := writeExports(t)
	state, err := importer.OpenStateDB(stateDir)
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	sender := &fakeSender{}
	profileID := uuid.New()

	stats, err := New(sender, state, profileID, root, false, discard()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesTotal != 2 || stats.FilesUploaded != 2 || stats.LogsInserted != 2 {
		t.Errorf("first run stats = %+v", stats)
	}

	stats, err = New(sender, state, profileID, root, false, discard()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSkipped != 2 || stats.FilesUploaded != 0 {
		t.Errorf("second run stats = %+v", stats)
	}
	if len(sender.sent) != 2 {
		t.Errorf("sent %d payloads, want 2", len(sender.sent))
	}

	// A different profile has its own state.
	stats, _ = New(sender, state, uuid.New(), root, false, discard()).Run(context.Background())
	if stats.FilesUploaded != 2 {
		t.Errorf("other profile uploaded = %d, want 2", stats.FilesUploaded)
	}
}

// TestUploaderFailureRetriedNextRun verifies failed files are not marked done.
func TestUploaderFailureRetriedNextRun(t *testing.T) {
	root, stateDir := writeExports(t)
	state, err := importer.OpenStateDB(stateDir)
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	profileID := uuid.New()
	stats, err := New(&fakeSender{fail: true}, state, profileID, root, false, discard()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesErrored != 2 {
		t.Errorf("FilesErrored = %d, want 2", stats.FilesErrored)
	}

	stats, _ = New(&fakeSender{}, state, profileID, root, false, discard()).Run(context.Background())
	if stats.FilesUploaded != 2 {
		t.Errorf("FilesUploaded = %d, want 2", stats.FilesUploaded)
	}
}

// TestUploaderDryRun verifies files are parsed locally and nothing is recorded.
func TestUploaderDryRun(t *testing.T) {
	root, stateDir := writeExports(t)
	state, err := importer.OpenStateDB(stateDir)
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	profileID := uuid.New()
	for range 2 {
		stats, err := New(nil, state, profileID, root, true, discard()).Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if stats.FilesUploaded != 2 || stats.SessionsSent != 2 || stats.FilesSkipped != 0 {
			t.Errorf("dry run stats = %+v", stats)
		}
	}
}
