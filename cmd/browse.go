package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/resound-fm/resound/internal/lists"
	"github.com/resound-fm/resound/internal/ui"
	"github.com/urfave/cli/v3"
)

// Browse launches the interactive list browser over the selected user's and
// track's lists.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	userID := cmd.Int("user")
	trackID := cmd.Int("track")
	actorID := cmd.Int("actor")

	eng, err := r.newEngine(cmd)
	if err != nil {
		return err
	}
	defer eng.close()

	var tabs []ui.Tab
	if userID > 0 {
		if err := eng.loadParent(ctx, lists.TagUserFollowers, userID); err != nil {
			return err
		}
		tabs = append(tabs,
			ui.Tab{Tag: lists.TagUserFollowers, ParentID: userID},
			ui.Tab{Tag: lists.TagTopSupporters, ParentID: userID},
			ui.Tab{Tag: lists.TagSupporting, ParentID: userID},
		)
	}
	if trackID > 0 {
		if err := eng.loadParent(ctx, lists.TagTrackFavoriters, trackID); err != nil {
			return err
		}
		tabs = append(tabs,
			ui.Tab{Tag: lists.TagTrackFavoriters, ParentID: trackID},
			ui.Tab{Tag: lists.TagTrackReposters, ParentID: trackID},
		)
	}
	if len(tabs) == 0 {
		return fmt.Errorf("nothing to browse, pass --user or --track")
	}

	model := ui.NewModel(ctx, eng.manager, eng.store, eng.supports, actorID, tabs)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
