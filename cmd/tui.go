package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/campuskit/campusctl/internal/screens"
	"github.com/campuskit/campusctl/internal/shared"
	"github.com/campuskit/campusctl/internal/ui"
)

// TUI launches the interactive terminal UI for record management.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/campusctl-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	scrs := make([]*screens.Screen, 0)
	for _, spec := range screens.Registry() {
		scrs = append(scrs, screens.New(spec, r.api, r.bus, fileLogger))
	}

	model := ui.NewModel(ctx, r.session, r.bus, scrs, fileLogger)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
