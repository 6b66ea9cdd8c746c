package main

import (
	"context"
	"fmt"

	"github.com/resound-fm/resound/internal/repositories"
	"github.com/resound-fm/resound/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes a config.toml from the embedded template.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.logger.Info("config file created", "path", configPath)
	return r.writePlainln("✓ Config written to %s", configPath)
}

// SetupFixtures creates the fixture database schema and optionally seeds it
// with demo data.
func (r *Runner) SetupFixtures(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Fixtures.Path

	r.logger.Info("initializing fixture database", "path", path)

	db, err := shared.OpenFixtureDB(r.config.Fixtures)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	if err := repositories.Migrate(db); err != nil {
		return err
	}

	if cmd.Bool("seed") {
		if err := repositories.Seed(db); err != nil {
			return fmt.Errorf("failed to seed fixtures (already seeded?): %w", err)
		}
		r.logger.Info("seeded demo data")
	}

	return r.writePlainln("✓ Fixture database ready at %s", path)
}
