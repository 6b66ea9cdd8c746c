package lists

import (
	"context"
	"errors"
	"testing"

	"github.com/resound-fm/resound/internal/cache"
	"github.com/resound-fm/resound/internal/models"
	"github.com/resound-fm/resound/internal/shared"
	tu "github.com/resound-fm/resound/internal/testing"
)

func newTestAggregator(t *testing.T) (*cache.Store, *Aggregator) {
	t.Helper()
	store := cache.NewStore()
	norm := cache.NewNormalizer(store, nil)
	return store, NewAggregator(norm, nil)
}

func seedTrack(t *testing.T, store *cache.Store, track *models.Track) {
	t.Helper()
	if err := store.Upsert(track, cache.UpsertOpts{}); err != nil {
		t.Fatalf("failed to seed track: %v", err)
	}
}

func seedUser(t *testing.T, store *cache.Store, user *models.User) {
	t.Helper()
	if err := store.Upsert(user, cache.UpsertOpts{}); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
}

func assertIDs(t *testing.T, got []int64, want ...int64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected ids %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected ids %v, got %v", want, got)
		}
	}
}

func TestAggregatorFetchPage(t *testing.T) {
	ctx := context.Background()

	t.Run("PriorityPinnedOnFirstPage", func(t *testing.T) {
		store, agg := newTestAggregator(t)
		seedTrack(t, store, &models.Track{
			ID: 101, Title: "Signal Fade", OwnerID: 1,
			FolloweeFavoriteIDs: []int64{10, 11},
			FavoriteCount:       6,
		})

		src := &tu.MockSource{
			TrackFavoritersFn: func(ctx context.Context, trackID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
				return []models.Raw{tu.NewRawUser(11), tu.NewRawUser(12), tu.NewRawUser(13)}, nil
			},
		}
		provider := TrackFavoriters(store, src)

		ids, hasMore, err := agg.FetchPage(ctx, provider, 101, 0, 5, 0, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertIDs(t, ids, 10, 11, 12, 13)
		if !hasMore {
			t.Error("4 of 6 favoriters shown, hasMore should be true")
		}
	})

	t.Run("LaterPagesAppendAfterPrevious", func(t *testing.T) {
		store, agg := newTestAggregator(t)
		seedTrack(t, store, &models.Track{
			ID: 101, Title: "Signal Fade", OwnerID: 1, FavoriteCount: 6,
		})

		src := &tu.MockSource{
			TrackFavoritersFn: func(ctx context.Context, trackID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
				return []models.Raw{tu.NewRawUser(14), tu.NewRawUser(12)}, nil
			},
		}
		provider := TrackFavoriters(store, src)

		previous := []int64{10, 11, 12, 13}
		ids, _, err := agg.FetchPage(ctx, provider, 101, 1, 4, 0, previous)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// 12 already shown; first occurrence wins.
		assertIDs(t, ids, 10, 11, 12, 13, 14)
	})

	t.Run("ParentNotFound", func(t *testing.T) {
		store, agg := newTestAggregator(t)
		provider := TrackFavoriters(store, &tu.MockSource{})

		_, _, err := agg.FetchPage(ctx, provider, 999, 0, 5, 0, nil)
		if !errors.Is(err, shared.ErrParentNotFound) {
			t.Errorf("expected ErrParentNotFound, got %v", err)
		}
	})

	t.Run("TransportErrorPassesThrough", func(t *testing.T) {
		store, agg := newTestAggregator(t)
		seedTrack(t, store, &models.Track{ID: 101, Title: "Signal Fade", OwnerID: 1})

		cause := errors.New("connection refused")
		src := &tu.MockSource{
			TrackFavoritersFn: func(ctx context.Context, trackID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
				return nil, cause
			},
		}
		provider := TrackFavoriters(store, src)

		_, _, err := agg.FetchPage(ctx, provider, 101, 0, 5, 0, nil)
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected transport classification, got %v", err)
		}
		if !errors.Is(err, cause) {
			t.Errorf("original cause should pass through, got %v", err)
		}
	})

	t.Run("HasMoreFalseWhenTotalUnreadable", func(t *testing.T) {
		store, agg := newTestAggregator(t)
		seedTrack(t, store, &models.Track{ID: 101, Title: "Signal Fade", OwnerID: 1})

		provider := TrackFavoriters(store, &tu.MockSource{})
		provider.TotalCount = func(parent cache.Record) (int64, bool) { return 0, false }

		_, hasMore, err := agg.FetchPage(ctx, provider, 101, 0, 5, 0, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hasMore {
			t.Error("hasMore must fail safe to false when the total is unreadable")
		}
	})

	t.Run("HasMoreFalseWhenAllShown", func(t *testing.T) {
		store, agg := newTestAggregator(t)
		seedTrack(t, store, &models.Track{
			ID: 101, Title: "Signal Fade", OwnerID: 1, FavoriteCount: 2,
		})

		src := &tu.MockSource{
			TrackFavoritersFn: func(ctx context.Context, trackID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
				return tu.RawUsers(10, 2), nil
			},
		}
		provider := TrackFavoriters(store, src)

		_, hasMore, err := agg.FetchPage(ctx, provider, 101, 0, 5, 0, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hasMore {
			t.Error("all favoriters shown, hasMore should be false")
		}
	})

	t.Run("PageEntitiesLandInCache", func(t *testing.T) {
		store, agg := newTestAggregator(t)
		seedTrack(t, store, &models.Track{ID: 101, Title: "Signal Fade", OwnerID: 1})

		src := &tu.MockSource{
			TrackFavoritersFn: func(ctx context.Context, trackID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
				return tu.RawUsers(20, 3), nil
			},
		}
		provider := TrackFavoriters(store, src)

		if _, _, err := agg.FetchPage(ctx, provider, 101, 0, 5, 0, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for id := int64(20); id < 23; id++ {
			if _, ok := store.User(id); !ok {
				t.Errorf("user %d should be cached after the fetch", id)
			}
		}
	})
}

func TestAggregatorActorHandling(t *testing.T) {
	ctx := context.Background()
	const actorID = int64(42)

	t.Run("FollowersExcludeActorFromBulk", func(t *testing.T) {
		store, agg := newTestAggregator(t)
		seedUser(t, store, &models.User{ID: 1, Handle: "nova", FollowerCount: 3})

		src := &tu.MockSource{
			UserFollowersFn: func(ctx context.Context, userID int64, page, pageSize int, a int64) ([]models.Raw, error) {
				return []models.Raw{tu.NewRawUser(actorID), tu.NewRawUser(7), tu.NewRawUser(8)}, nil
			},
		}
		provider := UserFollowers(store, src)

		ids, _, err := agg.FetchPage(ctx, provider, 1, 0, 5, actorID, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertIDs(t, ids, 7, 8)
	})

	t.Run("SupportersAppendActorOnce", func(t *testing.T) {
		store, agg := newTestAggregator(t)
		seedUser(t, store, &models.User{ID: 1, Handle: "nova", SupporterCount: 3})

		supports := NewSupportStore()
		supports.Put(models.Support{ReceiverID: 1, SenderID: actorID, Rank: 3, Amount: "25"})

		src := &tu.MockSource{
			UserFn: func(ctx context.Context, userID int64) (*models.RawUser, error) {
				return tu.NewRawUser(userID), nil
			},
			UserSupportersFn: func(ctx context.Context, userID int64, page, pageSize int, a int64) ([]models.Raw, error) {
				return []models.Raw{
					&models.RawSupporter{Rank: 1, Amount: "250", User: tu.NewRawUser(7)},
					&models.RawSupporter{Rank: 3, Amount: "25", User: tu.NewRawUser(actorID)},
				}, nil
			},
		}
		provider := TopSupporters(store, supports, src)

		ids, _, err := agg.FetchPage(ctx, provider, 1, 0, 5, actorID, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Bulk source drops the actor; the self row is re-appended exactly once.
		assertIDs(t, ids, 7, actorID)
	})

	t.Run("SupportersAppendActorOnFirstPage", func(t *testing.T) {
		store, agg := newTestAggregator(t)
		seedUser(t, store, &models.User{ID: 1, Handle: "nova", SupporterCount: 2})

		// The side store starts empty; the actor's rank arrives in the
		// bulk page itself. The self row must still land on page 0.
		supports := NewSupportStore()
		src := &tu.MockSource{
			UserFn: func(ctx context.Context, userID int64) (*models.RawUser, error) {
				return tu.NewRawUser(userID), nil
			},
			UserSupportersFn: func(ctx context.Context, userID int64, page, pageSize int, a int64) ([]models.Raw, error) {
				return []models.Raw{
					&models.RawSupporter{Rank: 1, Amount: "250", User: tu.NewRawUser(7)},
					&models.RawSupporter{Rank: 2, Amount: "100", User: tu.NewRawUser(actorID)},
				}, nil
			},
		}
		provider := TopSupporters(store, supports, src)

		ids, _, err := agg.FetchPage(ctx, provider, 1, 0, 5, actorID, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertIDs(t, ids, 7, actorID)

		if sup, ok := supports.Get(1, actorID); !ok || sup.Rank != 2 {
			t.Errorf("actor's rank from the bulk page should be recorded, got %+v", sup)
		}
	})

	t.Run("SupporterRanksRecorded", func(t *testing.T) {
		store, agg := newTestAggregator(t)
		seedUser(t, store, &models.User{ID: 1, Handle: "nova", SupporterCount: 2})

		supports := NewSupportStore()
		src := &tu.MockSource{
			UserSupportersFn: func(ctx context.Context, userID int64, page, pageSize int, a int64) ([]models.Raw, error) {
				return []models.Raw{
					&models.RawSupporter{Rank: 1, Amount: "250", User: tu.NewRawUser(7)},
					&models.RawSupporter{Rank: 2, Amount: "100", User: tu.NewRawUser(8)},
				}, nil
			},
		}
		provider := TopSupporters(store, supports, src)

		if _, _, err := agg.FetchPage(ctx, provider, 1, 0, 5, 0, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		sup, ok := supports.Get(1, 7)
		if !ok || sup.Rank != 1 || sup.Amount != "250" {
			t.Errorf("expected rank 1 amount 250 for sender 7, got %+v", sup)
		}
		if got := supports.SupportersOf(1); len(got) != 2 {
			t.Errorf("expected 2 supporter records, got %d", len(got))
		}
	})

	t.Run("SupportingRecordsReversedPairs", func(t *testing.T) {
		store, agg := newTestAggregator(t)
		seedUser(t, store, &models.User{ID: 2, Handle: "echo", SupportingCount: 1})

		supports := NewSupportStore()
		src := &tu.MockSource{
			UserSupportingFn: func(ctx context.Context, userID int64, page, pageSize int, a int64) ([]models.Raw, error) {
				return []models.Raw{
					&models.RawSupporter{Rank: 1, Amount: "250", User: tu.NewRawUser(1)},
				}, nil
			},
		}
		provider := Supporting(store, supports, src)

		if _, _, err := agg.FetchPage(ctx, provider, 2, 0, 5, 0, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, ok := supports.Get(1, 2); !ok {
			t.Error("pair should be keyed receiver 1, sender 2")
		}
	})
}
