package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ckr1111/darlybot/internal/match"
	"github.com/Ckr1111/darlybot/internal/nav"
	"github.com/Ckr1111/darlybot/internal/shared"
	"github.com/urfave/cli/v3"
)

// Select resolves a song and drives the key sequence into the game window.
func (r *Runner) Select(ctx context.Context, cmd *cli.Command) error {
	r.configFromFlag(cmd)

	plan, err := r.resolvePlan(cmd)
	if err != nil {
		return err
	}

	dryRun := cmd.Bool("dry-run") || r.config.Input.DryRun
	if dryRun {
		return r.printPlan(plan, cmd.Bool("json"), false)
	}

	sender, err := r.newSender()
	if err != nil {
		return err
	}

	if err := sender.Focus(ctx); err != nil {
		return fmt.Errorf("failed to focus game window: %w", err)
	}
	if err := sender.Send(ctx, plan.Actions); err != nil {
		return fmt.Errorf("failed to send keys: %w", err)
	}

	if store, db, err := r.openStore(); err == nil {
		defer db.Close()
		if _, err := store.Record(plan, false); err != nil {
			r.logger.Warn("failed to record selection", "error", err)
		}
	} else {
		r.logger.Warn("history unavailable", "error", err)
	}

	return r.printPlan(plan, cmd.Bool("json"), true)
}

// PlanSong resolves a song and prints the plan without touching the game.
func (r *Runner) PlanSong(ctx context.Context, cmd *cli.Command) error {
	r.configFromFlag(cmd)

	plan, err := r.resolvePlan(cmd)
	if err != nil {
		return err
	}

	return r.printPlan(plan, cmd.Bool("json"), false)
}

// resolvePlan loads the catalogue, resolves the query argument, and computes
// the navigation plan.
func (r *Runner) resolvePlan(cmd *cli.Command) (nav.Plan, error) {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return nav.Plan{}, fmt.Errorf("%w: song title or number", shared.ErrMissingArgument)
	}

	cat, _, err := r.loadCatalogue()
	if err != nil {
		return nav.Plan{}, err
	}
	snap, _ := cat.Snapshot()

	entry, err := match.Resolve(snap, match.Query{Text: query})
	if err != nil {
		return nav.Plan{}, err
	}

	return r.planner.Plan(snap, entry)
}

func (r *Runner) printPlan(plan nav.Plan, asJSON, performed bool) error {
	if asJSON {
		return r.writeJSON(map[string]any{
			"song":      plan.Entry.Label(),
			"groupKey":  string(plan.Entry.Key),
			"jumpKey":   string(plan.Anchor),
			"offset":    plan.Offset,
			"sequence":  plan.Keys(),
			"performed": performed,
		}, true)
	}

	r.writePlain("%s\n", plan.Entry.Label())
	r.writePlain("  group:    %s\n", plan.Entry.Key)
	r.writePlain("  jump:     %s\n", plan.Anchor)
	r.writePlain("  steps:    %+d\n", plan.Offset)
	r.writePlain("  sequence: %s\n", strings.Join(plan.Keys(), " "))
	if performed {
		r.writePlain("keys sent\n")
	}
	return nil
}
