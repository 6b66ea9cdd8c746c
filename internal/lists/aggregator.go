package lists

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/resound-fm/resound/internal/cache"
	"github.com/resound-fm/resound/internal/models"
	"github.com/resound-fm/resound/internal/shared"
)

// RemoteSource is the transport collaborator boundary. Implementations own
// HTTP details, auth, retries and pacing; errors are passed through unchanged.
type RemoteSource interface {
	// User fetches a single user record, used for actor self-inclusion.
	User(ctx context.Context, userID int64) (*models.RawUser, error)
	TrackFavoriters(ctx context.Context, trackID int64, page, pageSize int, actorID int64) ([]models.Raw, error)
	TrackReposters(ctx context.Context, trackID int64, page, pageSize int, actorID int64) ([]models.Raw, error)
	UserFollowers(ctx context.Context, userID int64, page, pageSize int, actorID int64) ([]models.Raw, error)
	UserSupporters(ctx context.Context, userID int64, page, pageSize int, actorID int64) ([]models.Raw, error)
	UserSupporting(ctx context.Context, userID int64, page, pageSize int, actorID int64) ([]models.Raw, error)
}

// Provider configures the collaborators for one list type. Nil optional
// fields disable the corresponding behavior.
type Provider struct {
	// GetParent reads the (possibly stale) parent entity locally.
	GetParent func(parentID int64) (cache.Record, bool)
	// ExtractPriority returns ids pinned to the front of the first page.
	ExtractPriority func(parent cache.Record) []int64
	// FetchPage obtains one remote page of raw records.
	FetchPage func(ctx context.Context, parentID int64, page, pageSize int, actorID int64) ([]models.Raw, error)
	// IncludeActor reports whether the acting user themself must be
	// appended to the page (e.g. showing "You" in a supporters list).
	IncludeActor func(parent cache.Record, actorID int64) bool
	// FetchActor obtains the actor's own raw record when IncludeActor fires.
	FetchActor func(ctx context.Context, actorID int64) (models.Raw, error)
	// TotalCount reads the authoritative total from the parent entity.
	// ok=false means the field is unreadable; hasMore then fails safe to false.
	TotalCount func(parent cache.Record) (int64, bool)
	// ProcessExtra persists auxiliary per-pair data from the page (e.g.
	// supporter ranks). Must be idempotent under re-invocation.
	ProcessExtra func(parentID int64, raws []models.Raw)
	// ExcludeActor drops the actor from the bulk source at normalization,
	// so self-rows only ever come from IncludeActor.
	ExcludeActor bool
	// RowKind is the entity kind of the list's rows, used for position uid
	// allocation. Zero defaults to users.
	RowKind models.Kind
}

// Aggregator computes combined, deduplicated list pages and writes fetched
// entities into the cache through the normalizer.
type Aggregator struct {
	norm   *cache.Normalizer
	logger *log.Logger
}

// NewAggregator creates an aggregator writing through the given normalizer.
func NewAggregator(norm *cache.Normalizer, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Aggregator{
		norm:   norm,
		logger: shared.WithLogger(logger, "component", "aggregator"),
	}
}

// FetchPage runs the aggregation algorithm for one page and returns the full
// combined id list plus whether more pages exist. previous is the session's
// currently shown ids (empty on page 0). The cache is mutated only through
// normalization of the fetched page.
func (a *Aggregator) FetchPage(
	ctx context.Context,
	p Provider,
	parentID int64,
	page, pageSize int,
	actorID int64,
	previous []int64,
) ([]int64, bool, error) {
	parent, ok := p.GetParent(parentID)
	if !ok {
		return nil, false, fmt.Errorf("%w: id %d", shared.ErrParentNotFound, parentID)
	}

	var priority []int64
	if p.ExtractPriority != nil {
		priority = p.ExtractPriority(parent)
	}
	prioritySet := make(map[int64]struct{}, len(priority))
	for _, id := range priority {
		prioritySet[id] = struct{}{}
	}

	rawPage, err := p.FetchPage(ctx, parentID, page, pageSize, actorID)
	if err != nil {
		// Transport errors pass through; the sentinel only classifies.
		return nil, false, fmt.Errorf("%w: %w", shared.ErrTransport, err)
	}

	var exclude int64
	if p.ExcludeActor {
		exclude = actorID
	}
	written := a.norm.Normalize(rawPage, cache.NormalizeOpts{ExcludeActorID: exclude})

	// Side data is recorded before the self-inclusion check, so a pair
	// arriving in the bulk page (whose row self-exclusion may have dropped)
	// can satisfy IncludeActor on the same fetch.
	if p.ProcessExtra != nil {
		p.ProcessExtra(parentID, rawPage)
	}

	// The actor never counts against the remote page size and bypasses
	// self-exclusion: this is the one source a "You" row may come from.
	if actorID > 0 && p.IncludeActor != nil && p.IncludeActor(parent, actorID) {
		if p.FetchActor == nil {
			a.logger.Warn("list includes actor but has no actor source", "parent", parentID)
		} else if actorRaw, err := p.FetchActor(ctx, actorID); err != nil {
			a.logger.Warn("failed to fetch actor record", "actor", actorID, "err", err)
		} else {
			actorIDs := a.norm.Normalize([]models.Raw{actorRaw}, cache.NormalizeOpts{})
			written = append(written, actorIDs...)
		}
	}

	// Priority ids are never duplicated from the remote page; first seen wins.
	filtered := make([]int64, 0, len(written))
	for _, id := range written {
		if _, isPriority := prioritySet[id]; !isPriority {
			filtered = append(filtered, id)
		}
	}

	var combined []int64
	if page == 0 {
		combined = make([]int64, 0, len(priority)+len(previous)+len(filtered))
		combined = append(combined, priority...)
		combined = append(combined, previous...)
		combined = append(combined, filtered...)
	} else {
		combined = make([]int64, 0, len(previous)+len(filtered))
		combined = append(combined, previous...)
		combined = append(combined, filtered...)
	}

	final := dedup(combined)

	hasMore := false
	if p.TotalCount != nil {
		if total, ok := p.TotalCount(parent); ok {
			hasMore = int64(len(final)) < total
		}
	}

	return final, hasMore, nil
}

// dedup removes duplicate ids preserving first occurrence.
func dedup(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
