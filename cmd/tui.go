package main

import (
	"context"
	"fmt"

	"github.com/Ckr1111/darlybot/internal/shared"
	"github.com/Ckr1111/darlybot/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive catalogue browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	r.configFromFlag(cmd)
	dryRun := cmd.Bool("dry-run") || r.config.Input.DryRun

	cat, _, err := r.loadCatalogue()
	if err != nil {
		return err
	}
	snap, _ := cat.Snapshot()

	sender, err := r.newSender()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/darlybot-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, snap, r.planner, sender, dryRun)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
