package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotbridge/internal/journal"
	"github.com/desertthunder/spotbridge/internal/shared"
	"github.com/urfave/cli/v3"
)

// JournalShow prints recorded speaker state transitions, newest first.
func (r *Runner) JournalShow(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	speakerName := cmd.String("speaker")
	useJSON := cmd.Bool("json")

	db, err := shared.NewDatabase(r.config.Storage.JournalPath)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer db.Close()

	j := journal.New(db)
	if err := j.Init(ctx); err != nil {
		return err
	}

	var transitions []journal.Transition
	if speakerName != "" {
		target := r.registry.Get(speakerName)
		if target == nil {
			return shared.ErrUnknownSpeaker
		}
		transitions, err = j.ForTarget(ctx, target.ID, limit)
	} else {
		transitions, err = j.Recent(ctx, limit)
	}
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(transitions, true)
	}

	if len(transitions) == 0 {
		return r.writePlain("No transitions recorded yet.\n")
	}

	for _, tr := range transitions {
		status := "off"
		if tr.Active {
			status = fmt.Sprintf("on at %d%%", tr.Volume)
		}
		r.writePlain("%s  %-20s %s\n", tr.ObservedAt.Local().Format("2006-01-02 15:04:05"), tr.Name, status)
	}
	return nil
}
