package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/campuskit/campusctl/internal/formatter"
	"github.com/campuskit/campusctl/internal/notify"
	"github.com/campuskit/campusctl/internal/screens"
	"github.com/campuskit/campusctl/internal/shared"
)

// newScreen builds a screen for one entity and mounts a toast handler that
// prints bus messages to the runner's output. The returned func unmounts it.
func (r *Runner) newScreen(spec screens.Spec) (*screens.Screen, func()) {
	screen := screens.New(spec, r.api, r.bus, r.logger)
	unsub := r.bus.Subscribe(func(msg *notify.Message) {
		if msg == nil {
			return
		}
		switch msg.Kind {
		case notify.Success:
			r.writePlain("✓ %s\n", msg.Text)
		case notify.Error:
			r.writePlain("✗ %s\n", msg.Text)
		default:
			r.writePlain("• %s\n", msg.Text)
		}
	})
	return screen, unsub
}

// EntityList fetches and prints one entity's records.
func (r *Runner) EntityList(ctx context.Context, cmd *cli.Command, spec screens.Spec) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	screen, unsub := r.newScreen(spec)
	defer unsub()

	screen.Load(ctx)
	if !screen.Loaded() {
		return fmt.Errorf("%w: failed to fetch %s", shared.ErrTransport, spec.Entity.Name)
	}

	if cmd.Bool("json") {
		data, err := formatter.ToJSON(json.RawMessage(formatter.RawList(screen.Records())), cmd.Bool("pretty"))
		if err != nil {
			return err
		}
		return r.writePlain("%s\n", data)
	}

	if cmd.Bool("csv") {
		data, err := formatter.ToCSV(spec, screen.Records())
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	return r.writePlain("%s\n", formatter.ToTable(spec, screen.Records()))
}

// EntityAdd creates a record from the provided field flags.
func (r *Runner) EntityAdd(ctx context.Context, cmd *cli.Command, spec screens.Spec) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	screen, unsub := r.newScreen(spec)
	defer unsub()

	screen.ResetForm()
	for _, f := range spec.Fields {
		if cmd.IsSet(f.Name) {
			screen.SetField(f.Name, cmd.String(f.Name))
		}
	}

	if !screen.Submit(ctx) {
		return fmt.Errorf("failed to create record in %s", spec.Entity.Name)
	}
	return nil
}

// EntityEdit updates a record in place: the existing record seeds the form
// and provided flags overwrite individual fields.
func (r *Runner) EntityEdit(ctx context.Context, cmd *cli.Command, spec screens.Spec) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: record id", shared.ErrMissingArgument)
	}

	if err := r.requireAuth(); err != nil {
		return err
	}

	screen, unsub := r.newScreen(spec)
	defer unsub()

	screen.Load(ctx)
	if !screen.Loaded() {
		return fmt.Errorf("%w: failed to fetch %s", shared.ErrTransport, spec.Entity.Name)
	}

	found := false
	for _, rec := range screen.Records() {
		if rec.Get("id").String() == id {
			screen.BeginEdit(rec)
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: no %s with id %s", shared.ErrEntityNotFound, spec.Entity.Name, id)
	}

	for _, f := range spec.Fields {
		if cmd.IsSet(f.Name) {
			screen.SetField(f.Name, cmd.String(f.Name))
		}
	}

	if !screen.Submit(ctx) {
		return fmt.Errorf("failed to update %s %s", spec.Entity.Name, id)
	}
	return nil
}

// EntityDelete removes a record by id.
func (r *Runner) EntityDelete(ctx context.Context, cmd *cli.Command, spec screens.Spec) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: record id", shared.ErrMissingArgument)
	}

	if err := r.requireAuth(); err != nil {
		return err
	}

	screen, unsub := r.newScreen(spec)
	defer unsub()

	if !screen.Delete(ctx, id) {
		return fmt.Errorf("failed to delete %s %s", spec.Entity.Name, id)
	}
	return nil
}
