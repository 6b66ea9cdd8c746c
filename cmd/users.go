package main

import (
	"context"
	"fmt"

	"github.com/resound-fm/resound/internal/cache"
	"github.com/resound-fm/resound/internal/formatter"
	"github.com/resound-fm/resound/internal/models"
	"github.com/resound-fm/resound/internal/shared"
	"github.com/urfave/cli/v3"
)

// UserGet fetches a user by id or handle, caches them, and prints the
// cached profile.
func (r *Runner) UserGet(ctx context.Context, cmd *cli.Command) error {
	userID := cmd.Int("id")
	handle := cmd.String("handle")

	if userID <= 0 && handle == "" {
		return fmt.Errorf("%w: either --id or --handle must be provided", shared.ErrMissingArgument)
	}

	eng, err := r.newEngine(cmd)
	if err != nil {
		return err
	}
	defer eng.close()

	var raw *models.RawUser
	if userID > 0 {
		raw, err = eng.src.User(ctx, userID)
	} else {
		raw, err = eng.src.UserByHandle(ctx, handle)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}

	ids := eng.norm.Normalize([]models.Raw{raw}, cache.NormalizeOpts{})
	if len(ids) == 0 {
		return fmt.Errorf("%w: user record was rejected", shared.ErrInvalidEntity)
	}

	user, ok := eng.store.User(ids[0])
	if !ok {
		return fmt.Errorf("%w: user %d", shared.ErrEntityNotFound, ids[0])
	}

	if cmd.Bool("json") {
		data, err := shared.MarshalJSON(user, cmd.Bool("pretty"))
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}
		return r.writeJSON(data)
	}

	return r.writePlain("%s", formatter.UserToText(user))
}

// TrackGet fetches a track by id, caches it with its owner, and prints it.
func (r *Runner) TrackGet(ctx context.Context, cmd *cli.Command) error {
	trackID := cmd.Int("id")

	eng, err := r.newEngine(cmd)
	if err != nil {
		return err
	}
	defer eng.close()

	raw, err := eng.src.Track(ctx, trackID)
	if err != nil {
		return fmt.Errorf("failed to fetch track: %w", err)
	}

	ids := eng.norm.Normalize([]models.Raw{raw}, cache.NormalizeOpts{})
	if len(ids) == 0 {
		return fmt.Errorf("%w: track record was rejected", shared.ErrInvalidEntity)
	}

	track, ok := eng.store.Track(ids[0])
	if !ok {
		return fmt.Errorf("%w: track %d", shared.ErrEntityNotFound, ids[0])
	}

	owner, _ := eng.store.User(track.OwnerID)

	if cmd.Bool("json") {
		data, err := shared.MarshalJSON(track, cmd.Bool("pretty"))
		if err != nil {
			return fmt.Errorf("failed to marshal track: %w", err)
		}
		return r.writeJSON(data)
	}

	return r.writePlain("%s", formatter.TrackToText(track, owner))
}
