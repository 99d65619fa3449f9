package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/campuskit/campusctl/internal/api"
	"github.com/campuskit/campusctl/internal/envelope"
	"github.com/campuskit/campusctl/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// ProgressUpdate is a progress event during a snapshot sweep.
type ProgressUpdate struct {
	Entity  string // entity currently being exported
	Step    int    // 1-based position in the sweep
	Total   int    // number of entities in the sweep
	Message string // human-readable status for display
}

// SnapshotOpts configures a snapshot export.
type SnapshotOpts struct {
	OutputDir string  // default: campus_snapshot_{epoch}
	RateLimit float64 // requests per second, default 2
}

// EntityResult records one entity's outcome within a snapshot.
type EntityResult struct {
	Entity  string `json:"entity"`
	Records int    `json:"records"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SnapshotResult summarizes a completed sweep.
type SnapshotResult struct {
	OutputDir string         `json:"output_dir"`
	CreatedAt time.Time      `json:"created_at"`
	Results   []EntityResult `json:"results"`
}

// Exported returns how many entities exported successfully.
func (r *SnapshotResult) Exported() int {
	n := 0
	for _, res := range r.Results {
		if res.Success {
			n++
		}
	}
	return n
}

// SnapshotEngine exports entity lists through the API client.
type SnapshotEngine struct {
	api    *api.Client
	logger *log.Logger
}

// NewSnapshotEngine creates a SnapshotEngine.
func NewSnapshotEngine(client *api.Client, logger *log.Logger) *SnapshotEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SnapshotEngine{api: client, logger: logger}
}

// Snapshot fetches every registered entity list, normalizes it and writes it
// to <dir>/<entity>.json, finishing with a manifest.json summary. Individual
// entity failures are recorded and do not abort the sweep; only a cancelled
// context or an unwritable output directory do.
func (e *SnapshotEngine) Snapshot(ctx context.Context, prog chan<- ProgressUpdate, opts SnapshotOpts) (*SnapshotResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("campus_snapshot_%d", time.Now().Unix())
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	entities := api.Entities()
	result := &SnapshotResult{
		OutputDir: opts.OutputDir,
		CreatedAt: time.Now().UTC(),
		Results:   make([]EntityResult, 0, len(entities)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	for i, d := range entities {
		e.sendProgress(prog, ProgressUpdate{
			Entity:  d.Name,
			Step:    i + 1,
			Total:   len(entities),
			Message: fmt.Sprintf("Exporting %s...", d.Title),
		})

		if err := limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("%w: %v", shared.ErrTransport, err)
		}

		res := e.exportEntity(ctx, d, opts.OutputDir)
		if !res.Success {
			e.logger.Warnf("snapshot of %s failed: %s", d.Name, res.Error)
		}
		result.Results = append(result.Results, res)
	}

	manifest, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return result, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(opts.OutputDir, "manifest.json"), manifest, 0644); err != nil {
		return result, fmt.Errorf("failed to write manifest: %w", err)
	}

	return result, nil
}

// exportEntity fetches one entity list and writes it as a JSON array.
func (e *SnapshotEngine) exportEntity(ctx context.Context, d api.Descriptor, dir string) EntityResult {
	res := EntityResult{Entity: d.Name}

	env, err := e.api.List(ctx, d)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if !env.OK() {
		res.Error = env.ErrorMessage(fmt.Sprintf("status %d", env.StatusCode))
		return res
	}

	records, err := envelope.DecodeList[json.RawMessage](env.Body, d.Candidates)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		res.Error = err.Error()
		return res
	}

	path := filepath.Join(dir, d.Name+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Records = len(records)
	res.Success = true
	return res
}

// sendProgress delivers an update without blocking a slow or absent consumer.
func (e *SnapshotEngine) sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
	default:
	}
}
