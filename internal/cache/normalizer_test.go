package cache

import (
	"testing"

	"github.com/resound-fm/resound/internal/models"
)

func TestNormalize(t *testing.T) {
	t.Run("FirstSeenOrder", func(t *testing.T) {
		store := NewStore()
		norm := NewNormalizer(store, nil)

		ids := norm.Normalize([]models.Raw{
			&models.RawUser{UserID: 3, Handle: "c"},
			&models.RawUser{UserID: 1, Handle: "a"},
			&models.RawUser{UserID: 2, Handle: "b"},
		}, NormalizeOpts{})

		want := []int64{3, 1, 2}
		if len(ids) != len(want) {
			t.Fatalf("expected %d ids, got %d", len(want), len(ids))
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("position %d: expected %d, got %d", i, want[i], ids[i])
			}
		}
	})

	t.Run("DuplicatesCollapseButMerge", func(t *testing.T) {
		store := NewStore()
		norm := NewNormalizer(store, nil)

		ids := norm.Normalize([]models.Raw{
			&models.RawUser{UserID: 1, Handle: "a", FollowerCount: 5},
			&models.RawUser{UserID: 1, Handle: "a", Bio: "updated"},
		}, NormalizeOpts{})

		if len(ids) != 1 || ids[0] != 1 {
			t.Fatalf("duplicate ids should collapse, got %v", ids)
		}

		user, _ := store.User(1)
		if user.FollowerCount != 5 || user.Bio != "updated" {
			t.Errorf("both occurrences should merge, got count=%d bio=%q", user.FollowerCount, user.Bio)
		}
	})

	t.Run("EmbeddedUsersCachedFirst", func(t *testing.T) {
		store := NewStore()
		norm := NewNormalizer(store, nil)

		ids := norm.Normalize([]models.Raw{
			&models.RawTrack{
				TrackID: 101,
				Title:   "Signal Fade",
				User:    &models.RawUser{UserID: 9, Handle: "owner"},
			},
		}, NormalizeOpts{})

		if len(ids) != 1 || ids[0] != 101 {
			t.Fatalf("expected track id only, got %v", ids)
		}
		if _, ok := store.User(9); !ok {
			t.Error("embedded owner should be cached")
		}
		track, _ := store.Track(101)
		if track.OwnerID != 9 {
			t.Errorf("owner id should resolve from the embedded user, got %d", track.OwnerID)
		}
	})

	t.Run("MalformedRecordsSkipped", func(t *testing.T) {
		store := NewStore()
		norm := NewNormalizer(store, nil)

		ids := norm.Normalize([]models.Raw{
			&models.RawUser{UserID: 0, Handle: "noid"},
			nil,
			&models.RawUser{UserID: 2, Handle: "ok"},
			&models.RawUser{UserID: 3}, // missing handle
		}, NormalizeOpts{})

		if len(ids) != 1 || ids[0] != 2 {
			t.Fatalf("only the valid record should survive, got %v", ids)
		}
	})

	t.Run("AllInvalidYieldsEmpty", func(t *testing.T) {
		store := NewStore()
		norm := NewNormalizer(store, nil)

		ids := norm.Normalize([]models.Raw{
			&models.RawUser{UserID: 0},
			&models.RawUser{UserID: -4, Handle: "neg"},
		}, NormalizeOpts{})

		if len(ids) != 0 {
			t.Errorf("expected no ids, got %v", ids)
		}
		if store.Len(models.KindUser) != 0 {
			t.Error("nothing should be cached")
		}
	})

	t.Run("ExcludeActor", func(t *testing.T) {
		store := NewStore()
		norm := NewNormalizer(store, nil)

		ids := norm.Normalize([]models.Raw{
			&models.RawUser{UserID: 1, Handle: "a"},
			&models.RawUser{UserID: 2, Handle: "me"},
			&models.RawUser{UserID: 3, Handle: "c"},
		}, NormalizeOpts{ExcludeActorID: 2})

		for _, id := range ids {
			if id == 2 {
				t.Fatal("actor id should be excluded from the returned order")
			}
		}
		if len(ids) != 2 {
			t.Errorf("expected 2 ids, got %v", ids)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		store := NewStore()
		norm := NewNormalizer(store, nil)

		batch := []models.Raw{
			&models.RawUser{UserID: 1, Handle: "a"},
			&models.RawUser{UserID: 2, Handle: "b"},
		}
		first := norm.Normalize(batch, NormalizeOpts{})
		second := norm.Normalize(batch, NormalizeOpts{})

		if len(first) != len(second) {
			t.Fatalf("repeat normalization should return the same ids, got %v then %v", first, second)
		}
		for i := range first {
			if first[i] != second[i] {
				t.Errorf("position %d differs: %d vs %d", i, first[i], second[i])
			}
		}
		if store.Len(models.KindUser) != 2 {
			t.Errorf("expected 2 users cached, got %d", store.Len(models.KindUser))
		}
	})
}
