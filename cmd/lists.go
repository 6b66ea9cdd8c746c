package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/resound-fm/resound/internal/formatter"
	"github.com/urfave/cli/v3"
)

// ListPage fetches one or more pages of a list and prints the combined
// result in text, JSON or CSV form.
func (r *Runner) ListPage(ctx context.Context, cmd *cli.Command) error {
	tag := cmd.String("tag")
	parentID := cmd.Int("parent")
	actorID := cmd.Int("actor")
	pageSize := int(cmd.Int("size"))
	pages := int(cmd.Int("pages"))
	if pages < 1 {
		pages = 1
	}

	eng, err := r.newEngine(cmd)
	if err != nil {
		return err
	}
	defer eng.close()

	if err := eng.loadParent(ctx, tag, parentID); err != nil {
		return err
	}

	r.logger.Info("fetching list pages", "tag", tag, "parent", parentID, "pages", pages)

	last, err := eng.manager.RequestPage(ctx, tag, parentID, pageSize, actorID)
	if err != nil {
		return fmt.Errorf("failed to fetch page: %w", err)
	}
	for i := 1; i < pages && last.HasMore; i++ {
		last, err = eng.manager.RequestPage(ctx, tag, parentID, pageSize, actorID)
		if err != nil {
			return fmt.Errorf("failed to fetch page %d: %w", i, err)
		}
	}

	page := formatter.BuildPage(last, eng.store, eng.supports, actorID)

	switch {
	case cmd.Bool("json"):
		data, err := formatter.PageToJSON(page, cmd.Bool("pretty"))
		if err != nil {
			return err
		}
		return r.writeJSON(data)
	case cmd.Bool("csv"):
		data, err := formatter.PageToCSV(page)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	default:
		return r.writePlain("%s", formatter.PageToText(page))
	}
}

// ListTags prints the registered list tags.
func (r *Runner) ListTags(ctx context.Context, cmd *cli.Command) error {
	eng, err := r.newEngine(cmd)
	if err != nil {
		return err
	}
	defer eng.close()

	tags := eng.manager.Tags()
	sort.Strings(tags)
	for _, tag := range tags {
		if err := r.writePlainln("%s", tag); err != nil {
			return err
		}
	}
	return nil
}
