package main

import (
	"context"

	"github.com/campuskit/campusctl/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Snapshot exports every entity list to local JSON files.
func (r *Runner) Snapshot(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	outputDir := cmd.String("output")
	if outputDir == "" {
		outputDir = r.config.Export.Dir
	}

	r.writePlain("Starting snapshot...\n")

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			r.writePlain("📥 [%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	engine := tasks.NewSnapshotEngine(r.api, r.logger)
	result, err := engine.Snapshot(ctx, progressCh, tasks.SnapshotOpts{
		OutputDir: outputDir,
		RateLimit: cmd.Float("rate"),
	})
	close(progressCh)

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlainln("✓ Snapshot complete")
	r.writePlain("Directory: %s\n", result.OutputDir)
	r.writePlain("Entities exported: %d/%d\n", result.Exported(), len(result.Results))
	for _, res := range result.Results {
		if res.Error != "" {
			r.writePlain("✗ %s: %s\n", res.Entity, res.Error)
		}
	}
	return nil
}
