package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/resound-fm/resound/internal/models"
	"github.com/resound-fm/resound/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with the fixture schema
// and demo data applied.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenFixtureDB(shared.FixturesConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to create schema: %v", err)
	}
	if err := Seed(db); err != nil {
		db.Close()
		t.Fatalf("failed to seed fixtures: %v", err)
	}

	return db
}

func TestFixtureRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("User", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewFixtureRepository(db)
		user, err := repo.User(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Handle != "novakid" {
			t.Errorf("expected handle novakid, got %s", user.Handle)
		}
		if user.FollowerCount != 4 {
			t.Errorf("expected 4 followers, got %d", user.FollowerCount)
		}
	})

	t.Run("UserNotFound", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewFixtureRepository(db)
		_, err := repo.User(ctx, 999)
		if !errors.Is(err, shared.ErrEntityNotFound) {
			t.Errorf("expected ErrEntityNotFound, got %v", err)
		}
	})

	t.Run("UserByHandle", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewFixtureRepository(db)
		user, err := repo.UserByHandle(ctx, "NovaKid")
		if err != nil {
			t.Fatalf("lookup should be case-insensitive: %v", err)
		}
		if user.UserID != 1 {
			t.Errorf("expected user 1, got %d", user.UserID)
		}
	})

	t.Run("TrackEmbedsOwner", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewFixtureRepository(db)
		track, err := repo.Track(ctx, 101)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if track.Title != "Signal Fade" {
			t.Errorf("unexpected title %q", track.Title)
		}
		if track.User == nil || track.User.UserID != 1 {
			t.Error("owner should arrive embedded")
		}
	})

	t.Run("TrackFavoritersPagination", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewFixtureRepository(db)

		first, err := repo.TrackFavoriters(ctx, 101, 0, 2, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := repo.TrackFavoriters(ctx, 101, 1, 2, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(first) != 2 || len(second) != 2 {
			t.Fatalf("expected 2+2 favoriters, got %d and %d", len(first), len(second))
		}
		if first[0].RawID() != 2 || second[0].RawID() != 4 {
			t.Errorf("pages should follow favorite order, got %d then %d", first[0].RawID(), second[0].RawID())
		}
	})

	t.Run("UserFollowers", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewFixtureRepository(db)
		raws, err := repo.UserFollowers(ctx, 1, 0, 10, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(raws) != 4 {
			t.Errorf("expected 4 followers, got %d", len(raws))
		}
	})

	t.Run("UserSupportersRanked", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewFixtureRepository(db)
		raws, err := repo.UserSupporters(ctx, 1, 0, 10, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(raws) != 3 {
			t.Fatalf("expected 3 supporters, got %d", len(raws))
		}

		first, ok := raws[0].(*models.RawSupporter)
		if !ok {
			t.Fatalf("expected supporter record, got %T", raws[0])
		}
		if first.Rank != 1 || first.User.UserID != 2 {
			t.Errorf("expected rank 1 sender 2 first, got %+v", first)
		}
	})

	t.Run("UserSupportingReverseDirection", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewFixtureRepository(db)
		raws, err := repo.UserSupporting(ctx, 2, 0, 10, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(raws) != 1 {
			t.Fatalf("expected 1 supported profile, got %d", len(raws))
		}
		if raws[0].RawID() != 1 {
			t.Errorf("user 2 supports user 1, got %d", raws[0].RawID())
		}
	})

	t.Run("EmptyPageBeyondEnd", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewFixtureRepository(db)
		raws, err := repo.TrackFavoriters(ctx, 101, 10, 5, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(raws) != 0 {
			t.Errorf("page past the end should be empty, got %d", len(raws))
		}
	})
}

func TestSeedTwiceFails(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := Seed(db); err == nil {
		t.Error("seeding twice should fail on primary keys")
	}
}
