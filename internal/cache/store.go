package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/resound-fm/resound/internal/models"
	"github.com/resound-fm/resound/internal/shared"
)

// Record is a cache entry: the canonical entity plus fetch bookkeeping.
type Record struct {
	Kind      models.Kind
	ID        int64
	Entity    models.Entity
	FetchedAt time.Time
	Status    models.Status
}

// Store is the normalized, kind-partitioned entity cache. At most one record
// exists per (kind, id); writes are field-level merges unless Replace is set.
// All methods are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[models.Kind]map[int64]*Record
	handles map[string]int64 // normalized handle -> user id

	now func() time.Time
}

// NewStore creates an empty entity store.
func NewStore() *Store {
	return &Store{
		entries: map[models.Kind]map[int64]*Record{
			models.KindUser:       {},
			models.KindTrack:      {},
			models.KindCollection: {},
		},
		handles: map[string]int64{},
		now:     time.Now,
	}
}

// UpsertOpts controls write behavior.
type UpsertOpts struct {
	// Replace overwrites the record wholesale instead of merging fields.
	Replace bool
	// Force allows a write to resurrect a logically deleted entity.
	Force bool
}

// Get returns the record for (kind, id).
func (s *Store) Get(kind models.Kind, id int64) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.entries[kind][id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// GetMany returns the records for the given ids. Missing ids are simply
// absent from the result, never an error.
func (s *Store) GetMany(kind models.Kind, ids []int64) map[int64]Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64]Record, len(ids))
	for _, id := range ids {
		if rec, ok := s.entries[kind][id]; ok {
			out[id] = *rec
		}
	}
	return out
}

// User returns the cached user with the given id.
func (s *Store) User(id int64) (*models.User, bool) {
	rec, ok := s.Get(models.KindUser, id)
	if !ok {
		return nil, false
	}
	u, ok := rec.Entity.(*models.User)
	return u, ok
}

// Track returns the cached track with the given id.
func (s *Store) Track(id int64) (*models.Track, bool) {
	rec, ok := s.Get(models.KindTrack, id)
	if !ok {
		return nil, false
	}
	t, ok := rec.Entity.(*models.Track)
	return t, ok
}

// Collection returns the cached collection with the given id.
func (s *Store) Collection(id int64) (*models.Collection, bool) {
	rec, ok := s.Get(models.KindCollection, id)
	if !ok {
		return nil, false
	}
	c, ok := rec.Entity.(*models.Collection)
	return c, ok
}

// GetByHandle resolves a user through the handle index. Lookup is
// case-insensitive.
func (s *Store) GetByHandle(handle string) (*models.User, bool) {
	s.mu.RLock()
	id, ok := s.handles[shared.NormalizeHandle(handle)]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return s.User(id)
}

// Upsert writes an entity into the store. The default is a field-level merge:
// non-zero incoming fields overwrite, zero fields preserve the cached value.
// A merge never resurrects a deleted entity unless opts.Force is set; such
// writes are dropped silently. Invalid entities are rejected atomically.
func (s *Store) Upsert(entity models.Entity, opts UpsertOpts) error {
	if entity == nil {
		return fmt.Errorf("%w: nil entity", shared.ErrInvalidEntity)
	}
	kind, id := entity.EntityKind(), entity.EntityID()
	if id <= 0 {
		return fmt.Errorf("%w: %s entity without id", shared.ErrInvalidEntity, kind)
	}
	if _, ok := s.entries[kind]; !ok {
		return fmt.Errorf("%w: %d", shared.ErrKindMismatch, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.entries[kind][id]
	if ok && !opts.Replace {
		if existing.Entity.IsGone() && !entity.IsGone() && !opts.Force {
			// Deleted stays deleted; drop the write.
			return nil
		}
		merged, err := mergeEntities(existing.Entity, entity)
		if err != nil {
			return err
		}
		entity = merged
	}

	if kind == models.KindUser {
		s.reindexHandle(existing, entity.(*models.User))
	}

	s.entries[kind][id] = &Record{
		Kind:      kind,
		ID:        id,
		Entity:    entity,
		FetchedAt: s.now(),
		Status:    models.StatusSuccess,
	}
	return nil
}

// Evict removes a record. The handle index entry goes with it for users.
func (s *Store) Evict(kind models.Kind, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.entries[kind][id]; ok {
		if u, ok := rec.Entity.(*models.User); ok && u.Handle != "" {
			delete(s.handles, shared.NormalizeHandle(u.Handle))
		}
		delete(s.entries[kind], id)
	}
}

// Len reports the number of records held for a kind.
func (s *Store) Len(kind models.Kind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries[kind])
}

// reindexHandle keeps the handle index consistent with the latest user
// record. A handle change removes the prior mapping in the same write.
// Caller holds the write lock.
func (s *Store) reindexHandle(prev *Record, next *models.User) {
	if next.Handle == "" {
		return
	}
	if prev != nil {
		if old, ok := prev.Entity.(*models.User); ok && old.Handle != "" && !handleEqual(old.Handle, next.Handle) {
			delete(s.handles, shared.NormalizeHandle(old.Handle))
		}
	}
	s.handles[shared.NormalizeHandle(next.Handle)] = next.ID
}

func handleEqual(a, b string) bool {
	return shared.NormalizeHandle(a) == shared.NormalizeHandle(b)
}

// mergeEntities merges src into a copy of dst. Both must be the same kind.
func mergeEntities(dst, src models.Entity) (models.Entity, error) {
	switch d := dst.(type) {
	case *models.User:
		srcUser, ok := src.(*models.User)
		if !ok {
			return nil, fmt.Errorf("%w: merging %T into user", shared.ErrKindMismatch, src)
		}
		return mergeUsers(d, srcUser), nil
	case *models.Track:
		srcTrack, ok := src.(*models.Track)
		if !ok {
			return nil, fmt.Errorf("%w: merging %T into track", shared.ErrKindMismatch, src)
		}
		return mergeTracks(d, srcTrack), nil
	case *models.Collection:
		srcColl, ok := src.(*models.Collection)
		if !ok {
			return nil, fmt.Errorf("%w: merging %T into collection", shared.ErrKindMismatch, src)
		}
		return mergeCollections(d, srcColl), nil
	default:
		return nil, fmt.Errorf("%w: %T", shared.ErrKindMismatch, dst)
	}
}

func mergeUsers(dst, src *models.User) *models.User {
	out := *dst
	if src.Handle != "" {
		out.Handle = src.Handle
	}
	if src.Name != "" {
		out.Name = src.Name
	}
	if src.Bio != "" {
		out.Bio = src.Bio
	}
	if src.FollowerCount != 0 {
		out.FollowerCount = src.FollowerCount
	}
	if src.FolloweeCount != 0 {
		out.FolloweeCount = src.FolloweeCount
	}
	if src.SupporterCount != 0 {
		out.SupporterCount = src.SupporterCount
	}
	if src.SupportingCount != 0 {
		out.SupportingCount = src.SupportingCount
	}
	if src.FolloweeFollowIDs != nil {
		out.FolloweeFollowIDs = src.FolloweeFollowIDs
	}
	if src.Deactivated {
		out.Deactivated = true
	}
	return &out
}

func mergeTracks(dst, src *models.Track) *models.Track {
	out := *dst
	if src.Title != "" {
		out.Title = src.Title
	}
	if src.OwnerID != 0 {
		out.OwnerID = src.OwnerID
	}
	if src.Duration != 0 {
		out.Duration = src.Duration
	}
	if src.FavoriteCount != 0 {
		out.FavoriteCount = src.FavoriteCount
	}
	if src.RepostCount != 0 {
		out.RepostCount = src.RepostCount
	}
	if src.PlayCount != 0 {
		out.PlayCount = src.PlayCount
	}
	if src.FolloweeFavoriteIDs != nil {
		out.FolloweeFavoriteIDs = src.FolloweeFavoriteIDs
	}
	if src.FolloweeRepostIDs != nil {
		out.FolloweeRepostIDs = src.FolloweeRepostIDs
	}
	if src.Deleted {
		out.Deleted = true
	}
	return &out
}

func mergeCollections(dst, src *models.Collection) *models.Collection {
	out := *dst
	if src.Name != "" {
		out.Name = src.Name
	}
	if src.OwnerID != 0 {
		out.OwnerID = src.OwnerID
	}
	if src.TrackIDs != nil {
		out.TrackIDs = src.TrackIDs
	}
	if src.SaveCount != 0 {
		out.SaveCount = src.SaveCount
	}
	if src.RepostCount != 0 {
		out.RepostCount = src.RepostCount
	}
	if src.FolloweeSaveIDs != nil {
		out.FolloweeSaveIDs = src.FolloweeSaveIDs
	}
	if src.Album {
		out.Album = true
	}
	if src.Private {
		out.Private = true
	}
	if src.Deleted {
		out.Deleted = true
	}
	return &out
}
