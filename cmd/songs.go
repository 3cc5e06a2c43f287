package main

import (
	"context"
	"strings"

	"github.com/Ckr1111/darlybot/internal/catalogue"
	"github.com/Ckr1111/darlybot/internal/textnorm"
	"github.com/urfave/cli/v3"
)

// Songs lists the loaded catalogue, optionally filtered to one group.
func (r *Runner) Songs(ctx context.Context, cmd *cli.Command) error {
	r.configFromFlag(cmd)

	cat, _, err := r.loadCatalogue()
	if err != nil {
		return err
	}
	snap, _ := cat.Snapshot()

	var group textnorm.GroupKey
	if raw := strings.TrimSpace(cmd.String("group")); raw != "" {
		switch lower := strings.ToLower(raw); lower {
		case "digit", "hangul", "hanja", "symbol":
			group = textnorm.GroupKey(lower)
		default:
			group = textnorm.GroupKey(strings.ToUpper(raw))
		}
	}

	var entries []catalogue.Entry
	for _, e := range snap.Entries() {
		if group != "" && e.Key != group {
			continue
		}
		entries = append(entries, e)
	}

	if cmd.Bool("json") {
		songs := make([]map[string]any, len(entries))
		for i, e := range entries {
			songs[i] = map[string]any{
				"index":       e.Index,
				"titleNumber": e.Number,
				"title":       e.Title,
				"groupKey":    string(e.Key),
			}
		}
		return r.writeJSON(songs, true)
	}

	for _, e := range entries {
		r.writePlain("%4d  [%s]  %s\n", e.Index+1, e.Key, e.Label())
	}
	r.writePlain("%d songs\n", len(entries))
	return nil
}

// History lists the most recent recorded selections.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	r.configFromFlag(cmd)

	store, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	selections, err := store.Recent(cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(selections, true)
	}

	for _, sel := range selections {
		mode := "sent"
		if sel.DryRun {
			mode = "dry-run"
		}
		label := sel.Title
		if sel.TitleNumber != "" {
			label = sel.TitleNumber + " " + sel.Title
		}
		r.writePlain("%s  %-7s  jump %s %+d  %s\n",
			sel.CreatedAt.Local().Format("2006-01-02 15:04:05"), mode, sel.JumpKey, sel.Offset, label)
	}
	r.writePlain("%d selections\n", len(selections))
	return nil
}
