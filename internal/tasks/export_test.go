package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/campuskit/campusctl/internal/api"
	"github.com/campuskit/campusctl/internal/shared"
)

func TestSnapshot(t *testing.T) {
	t.Run("ExportsAllEntities", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": [{"id": 1, "name": "One"}, {"id": 2, "name": "Two"}]}`))
		}))
		t.Cleanup(srv.Close)

		logger := shared.NewLogger(&bytes.Buffer{})
		engine := NewSnapshotEngine(api.NewClient(srv.URL, nil, 100, logger), logger)

		dir := filepath.Join(t.TempDir(), "snap")
		prog := make(chan ProgressUpdate, 32)

		result, err := engine.Snapshot(context.Background(), prog, SnapshotOpts{OutputDir: dir, RateLimit: 100})
		if err != nil {
			t.Fatalf("snapshot failed: %v", err)
		}

		if result.Exported() != len(api.Entities()) {
			t.Errorf("expected all entities exported, got %d of %d", result.Exported(), len(api.Entities()))
		}

		data, err := os.ReadFile(filepath.Join(dir, "branches.json"))
		if err != nil {
			t.Fatalf("branches.json should exist: %v", err)
		}
		var records []map[string]any
		if err := json.Unmarshal(data, &records); err != nil {
			t.Fatalf("snapshot file should be a JSON array: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("expected 2 records, got %d", len(records))
		}

		if _, err := os.Stat(filepath.Join(dir, "manifest.json")); err != nil {
			t.Errorf("manifest.json should exist: %v", err)
		}

		close(prog)
		var updates int
		for range prog {
			updates++
		}
		if updates == 0 {
			t.Error("expected progress updates")
		}
	})

	t.Run("PartialFailureContinues", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/staff" {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"message": "boom"}`))
				return
			}
			w.Write([]byte(`{"data": []}`))
		}))
		t.Cleanup(srv.Close)

		logger := shared.NewLogger(&bytes.Buffer{})
		engine := NewSnapshotEngine(api.NewClient(srv.URL, nil, 100, logger), logger)

		result, err := engine.Snapshot(context.Background(), nil, SnapshotOpts{
			OutputDir: filepath.Join(t.TempDir(), "snap"),
			RateLimit: 100,
		})
		if err != nil {
			t.Fatalf("snapshot should tolerate entity failures: %v", err)
		}

		if result.Exported() != len(api.Entities())-1 {
			t.Errorf("expected one failure, got %d of %d", result.Exported(), len(api.Entities()))
		}

		for _, res := range result.Results {
			if res.Entity == "staff" {
				if res.Success || res.Error != "boom" {
					t.Errorf("staff should carry the backend error, got %+v", res)
				}
			}
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		logger := shared.NewLogger(&bytes.Buffer{})
		engine := NewSnapshotEngine(api.NewClient("http://127.0.0.1:1", nil, 100, logger), logger)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := engine.Snapshot(ctx, nil, SnapshotOpts{OutputDir: filepath.Join(t.TempDir(), "snap")}); err == nil {
			t.Error("cancelled context should abort the sweep")
		}
	})
}
