package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/resound-fm/resound/internal/cache"
	"github.com/resound-fm/resound/internal/lists"
	"github.com/resound-fm/resound/internal/models"
	"github.com/resound-fm/resound/internal/repositories"
	"github.com/resound-fm/resound/internal/services"
	"github.com/resound-fm/resound/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		timeout := time.Duration(opts.Config.API.TimeoutSeconds) * time.Second
		opts.HTTPClient = &http.Client{Timeout: timeout}
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, listsCommand, usersCommand, tracksCommand, browseCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// source extends the list engine's page boundary with the single-entity
// fetches the CLI needs to resolve parents and handles. Both the HTTP API
// and the SQLite fixture repository satisfy it.
type source interface {
	lists.RemoteSource
	Track(ctx context.Context, trackID int64) (*models.RawTrack, error)
	UserByHandle(ctx context.Context, handle string) (*models.RawUser, error)
}

// engine bundles one fully wired cache and list stack around a source.
type engine struct {
	store    *cache.Store
	supports *lists.SupportStore
	manager  *lists.Manager
	norm     *cache.Normalizer
	src      source
	close    func() error
}

// newEngine wires a cache, normalizer, aggregator and session manager around
// either the fixture database (--fixtures) or the streaming API.
func (r *Runner) newEngine(cmd *cli.Command) (*engine, error) {
	var src source
	closeFn := func() error { return nil }

	if cmd.Bool("fixtures") {
		db, err := shared.OpenFixtureDB(r.config.Fixtures)
		if err != nil {
			return nil, fmt.Errorf("failed to open fixture database: %w", err)
		}
		if err := repositories.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
		src = repositories.NewFixtureRepository(db)
		closeFn = db.Close
	} else {
		src = services.NewAPIService(r.config.API.BaseURL, r.httpClient, r.config.API.RateLimit)
	}

	store := cache.NewStore()
	supports := lists.NewSupportStore()
	norm := cache.NewNormalizer(store, r.logger)
	agg := lists.NewAggregator(norm, r.logger)
	manager := lists.NewManager(agg, r.config.Lists.DefaultPageSize, r.logger)
	lists.RegisterBuiltins(manager, store, supports, src)

	return &engine{
		store:    store,
		supports: supports,
		manager:  manager,
		norm:     norm,
		src:      src,
		close:    closeFn,
	}, nil
}

// loadParent fetches the parent entity for a list tag and normalizes it into
// the cache, so page requests find it locally.
func (e *engine) loadParent(ctx context.Context, tag string, parentID int64) error {
	var raw models.Raw

	switch tag {
	case lists.TagTrackFavoriters, lists.TagTrackReposters:
		track, err := e.src.Track(ctx, parentID)
		if err != nil {
			return fmt.Errorf("failed to fetch track %d: %w", parentID, err)
		}
		raw = track
	default:
		user, err := e.src.User(ctx, parentID)
		if err != nil {
			return fmt.Errorf("failed to fetch user %d: %w", parentID, err)
		}
		raw = user
	}

	e.norm.Normalize([]models.Raw{raw}, cache.NormalizeOpts{})
	return nil
}

func (r *Runner) writeJSON(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	return r.writePlain(format+"\n", args...)
}
