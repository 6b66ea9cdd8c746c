package lists

import (
	"context"

	"github.com/resound-fm/resound/internal/cache"
	"github.com/resound-fm/resound/internal/models"
)

// Built-in list tags.
const (
	TagTrackFavoriters = "TRACK_FAVORITERS"
	TagTrackReposters  = "TRACK_REPOSTERS"
	TagUserFollowers   = "USER_FOLLOWERS"
	TagTopSupporters   = "TOP_SUPPORTERS"
	TagSupporting      = "SUPPORTING"
)

// RegisterBuiltins wires every built-in list provider into the manager.
func RegisterBuiltins(m *Manager, store *cache.Store, supports *SupportStore, src RemoteSource) {
	m.Register(TagTrackFavoriters, TrackFavoriters(store, src))
	m.Register(TagTrackReposters, TrackReposters(store, src))
	m.Register(TagUserFollowers, UserFollowers(store, src))
	m.Register(TagTopSupporters, TopSupporters(store, supports, src))
	m.Register(TagSupporting, Supporting(store, supports, src))
}

// TrackFavoriters lists the users who favorited a track. The viewing user's
// followees who favorited it (sampled on the track record) are pinned first.
func TrackFavoriters(store *cache.Store, src RemoteSource) Provider {
	return Provider{
		GetParent: trackParent(store),
		ExtractPriority: func(parent cache.Record) []int64 {
			if t, ok := parent.Entity.(*models.Track); ok {
				return t.FolloweeFavoriteIDs
			}
			return nil
		},
		FetchPage: src.TrackFavoriters,
		RowKind:   models.KindUser,
		TotalCount: func(parent cache.Record) (int64, bool) {
			if t, ok := parent.Entity.(*models.Track); ok {
				return t.FavoriteCount, true
			}
			return 0, false
		},
	}
}

// TrackReposters lists the users who reposted a track, followee reposts first.
func TrackReposters(store *cache.Store, src RemoteSource) Provider {
	return Provider{
		GetParent: trackParent(store),
		ExtractPriority: func(parent cache.Record) []int64 {
			if t, ok := parent.Entity.(*models.Track); ok {
				return t.FolloweeRepostIDs
			}
			return nil
		},
		FetchPage: src.TrackReposters,
		RowKind:   models.KindUser,
		TotalCount: func(parent cache.Record) (int64, bool) {
			if t, ok := parent.Entity.(*models.Track); ok {
				return t.RepostCount, true
			}
			return 0, false
		},
	}
}

// UserFollowers lists the followers of a user. Mutual connections (the
// viewing user's followees who follow this profile) are pinned first, and the
// viewing user is filtered from the bulk source.
func UserFollowers(store *cache.Store, src RemoteSource) Provider {
	return Provider{
		GetParent: userParent(store),
		ExtractPriority: func(parent cache.Record) []int64 {
			if u, ok := parent.Entity.(*models.User); ok {
				return u.FolloweeFollowIDs
			}
			return nil
		},
		FetchPage:    src.UserFollowers,
		RowKind:      models.KindUser,
		ExcludeActor: true,
		TotalCount: func(parent cache.Record) (int64, bool) {
			if u, ok := parent.Entity.(*models.User); ok {
				return u.FollowerCount, true
			}
			return 0, false
		},
	}
}

// TopSupporters lists the users who tipped a profile, by rank. Ranks and
// amounts are kept in the support side store. The acting user is excluded
// from the bulk list and re-appended as "You" when a support record for them
// is already known, so they appear exactly once.
func TopSupporters(store *cache.Store, supports *SupportStore, src RemoteSource) Provider {
	return Provider{
		GetParent:    userParent(store),
		FetchPage:    src.UserSupporters,
		RowKind:      models.KindUser,
		ExcludeActor: true,
		IncludeActor: func(parent cache.Record, actorID int64) bool {
			_, ok := supports.Get(parent.ID, actorID)
			return ok
		},
		FetchActor: actorFetcher(src),
		TotalCount: func(parent cache.Record) (int64, bool) {
			if u, ok := parent.Entity.(*models.User); ok {
				return u.SupporterCount, true
			}
			return 0, false
		},
		ProcessExtra: func(parentID int64, raws []models.Raw) {
			for _, raw := range raws {
				if sup, ok := raw.(*models.RawSupporter); ok && sup.User != nil {
					supports.Put(models.Support{
						ReceiverID: parentID,
						SenderID:   sup.User.UserID,
						Rank:       sup.Rank,
						Amount:     sup.Amount,
					})
				}
			}
		},
	}
}

// Supporting lists the profiles a user has tipped. The parent is the sender,
// so side-store pairs are keyed the other way around.
func Supporting(store *cache.Store, supports *SupportStore, src RemoteSource) Provider {
	return Provider{
		GetParent: userParent(store),
		FetchPage: src.UserSupporting,
		RowKind:   models.KindUser,
		TotalCount: func(parent cache.Record) (int64, bool) {
			if u, ok := parent.Entity.(*models.User); ok {
				return u.SupportingCount, true
			}
			return 0, false
		},
		ProcessExtra: func(parentID int64, raws []models.Raw) {
			for _, raw := range raws {
				if sup, ok := raw.(*models.RawSupporter); ok && sup.User != nil {
					supports.Put(models.Support{
						ReceiverID: sup.User.UserID,
						SenderID:   parentID,
						Rank:       sup.Rank,
						Amount:     sup.Amount,
					})
				}
			}
		},
	}
}

func trackParent(store *cache.Store) func(int64) (cache.Record, bool) {
	return func(id int64) (cache.Record, bool) {
		return store.Get(models.KindTrack, id)
	}
}

func userParent(store *cache.Store) func(int64) (cache.Record, bool) {
	return func(id int64) (cache.Record, bool) {
		return store.Get(models.KindUser, id)
	}
}

func actorFetcher(src RemoteSource) func(context.Context, int64) (models.Raw, error) {
	return func(ctx context.Context, actorID int64) (models.Raw, error) {
		raw, err := src.User(ctx, actorID)
		if err != nil {
			return nil, err
		}
		return raw, nil
	}
}
