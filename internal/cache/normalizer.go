package cache

import (
	"github.com/charmbracelet/log"
	"github.com/resound-fm/resound/internal/models"
	"github.com/resound-fm/resound/internal/shared"
)

// Normalizer is the single write path for fetched wire records. It validates,
// deduplicates and merges raw records into the entity store.
type Normalizer struct {
	store  *Store
	logger *log.Logger
}

// NewNormalizer creates a normalizer writing to the given store.
func NewNormalizer(store *Store, logger *log.Logger) *Normalizer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Normalizer{
		store:  store,
		logger: shared.WithLogger(logger, "component", "normalizer"),
	}
}

// NormalizeOpts controls a normalization batch.
type NormalizeOpts struct {
	// ExcludeActorID drops records whose id matches it. Used when caching
	// "who saved this" lists so the acting user is not re-listed from a
	// secondary source.
	ExcludeActorID int64
}

// Normalize writes a batch of raw records into the store and returns the ids
// written, in first-seen input order. Duplicate ids collapse to a single
// returned id, but every duplicate still merges its fields (last occurrence
// wins). Embedded user sub-records are written before their parents so the
// store never holds a track or collection whose owner is absent.
//
// A malformed record is skipped and logged; it never aborts the rest of the
// batch. An all-invalid batch simply yields an empty id list.
func (n *Normalizer) Normalize(raws []models.Raw, opts NormalizeOpts) []int64 {
	if len(raws) == 0 {
		return nil
	}

	// Owners and collaborators first, so cross-references resolve.
	for _, raw := range raws {
		if raw == nil {
			continue
		}
		for _, sub := range raw.EmbeddedUsers() {
			if err := sub.Validate(); err != nil {
				n.logger.Warn("skipping embedded user", "err", err)
				continue
			}
			if err := n.store.Upsert(sub.ToEntity(), UpsertOpts{}); err != nil {
				n.logger.Warn("failed to cache embedded user", "id", sub.RawID(), "err", err)
			}
		}
	}

	seen := make(map[int64]struct{}, len(raws))
	order := make([]int64, 0, len(raws))

	for _, raw := range raws {
		if raw == nil {
			n.logger.Warn("skipping nil record in batch")
			continue
		}
		if err := raw.Validate(); err != nil {
			n.logger.Warn("skipping malformed record", "kind", raw.RawKind(), "err", err)
			continue
		}
		id := raw.RawID()
		if opts.ExcludeActorID > 0 && id == opts.ExcludeActorID {
			continue
		}
		if err := n.store.Upsert(raw.ToEntity(), UpsertOpts{}); err != nil {
			n.logger.Warn("skipping unwritable record", "kind", raw.RawKind(), "id", id, "err", err)
			continue
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			order = append(order, id)
		}
	}

	return order
}
