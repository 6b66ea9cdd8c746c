package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/resound-fm/resound/internal/models"
	"github.com/resound-fm/resound/internal/shared"
)

// FixtureRepository serves list pages from a local SQLite database. It
// implements the remote source boundary used by the list engine, so the same
// aggregation paths run against fixtures and against the live API.
type FixtureRepository struct {
	db *sql.DB
}

// NewFixtureRepository creates a fixture repository over an open database.
func NewFixtureRepository(db *sql.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

// Migrate creates the fixture schema if it does not exist.
func Migrate(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			user_id INTEGER PRIMARY KEY,
			handle TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			follower_count INTEGER NOT NULL DEFAULT 0,
			followee_count INTEGER NOT NULL DEFAULT 0,
			supporter_count INTEGER NOT NULL DEFAULT 0,
			supporting_count INTEGER NOT NULL DEFAULT 0,
			is_deactivated INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS tracks (
			track_id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			owner_id INTEGER NOT NULL REFERENCES users(user_id),
			duration INTEGER NOT NULL DEFAULT 0,
			favorite_count INTEGER NOT NULL DEFAULT 0,
			repost_count INTEGER NOT NULL DEFAULT 0,
			play_count INTEGER NOT NULL DEFAULT 0,
			is_delete INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS favorites (
			track_id INTEGER NOT NULL REFERENCES tracks(track_id),
			user_id INTEGER NOT NULL REFERENCES users(user_id),
			position INTEGER NOT NULL,
			PRIMARY KEY (track_id, user_id)
		);
		CREATE TABLE IF NOT EXISTS reposts (
			track_id INTEGER NOT NULL REFERENCES tracks(track_id),
			user_id INTEGER NOT NULL REFERENCES users(user_id),
			position INTEGER NOT NULL,
			PRIMARY KEY (track_id, user_id)
		);
		CREATE TABLE IF NOT EXISTS follows (
			followee_id INTEGER NOT NULL REFERENCES users(user_id),
			follower_id INTEGER NOT NULL REFERENCES users(user_id),
			position INTEGER NOT NULL,
			PRIMARY KEY (followee_id, follower_id)
		);
		CREATE TABLE IF NOT EXISTS supports (
			receiver_id INTEGER NOT NULL REFERENCES users(user_id),
			sender_id INTEGER NOT NULL REFERENCES users(user_id),
			rank INTEGER NOT NULL,
			amount TEXT NOT NULL DEFAULT '0',
			PRIMARY KEY (receiver_id, sender_id)
		);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create fixture schema: %w", err)
	}

	return nil
}

const userColumns = `user_id, handle, name, bio, follower_count, followee_count, supporter_count, supporting_count, is_deactivated`

// userColumnsQualified is userColumns with each column prefixed by the `u`
// alias, for queries that join users against a table that also has a user_id
// column.
const userColumnsQualified = `u.user_id, u.handle, u.name, u.bio, u.follower_count, u.followee_count, u.supporter_count, u.supporting_count, u.is_deactivated`

func scanRawUser(row interface{ Scan(...any) error }) (*models.RawUser, error) {
	var u models.RawUser
	err := row.Scan(
		&u.UserID,
		&u.Handle,
		&u.Name,
		&u.Bio,
		&u.FollowerCount,
		&u.FolloweeCount,
		&u.SupporterCount,
		&u.SupportingCount,
		&u.IsDeactivated,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// User retrieves a single user record by id.
func (r *FixtureRepository) User(ctx context.Context, userID int64) (*models.RawUser, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = ?`

	u, err := scanRawUser(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user %d", shared.ErrEntityNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return u, nil
}

// UserByHandle retrieves a single user record by handle, case-insensitively.
func (r *FixtureRepository) UserByHandle(ctx context.Context, handle string) (*models.RawUser, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(handle) = ?`

	u, err := scanRawUser(r.db.QueryRowContext(ctx, query, shared.NormalizeHandle(handle)))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: handle %q", shared.ErrEntityNotFound, handle)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by handle: %w", err)
	}

	return u, nil
}

// Track retrieves a single track record with its owner embedded.
func (r *FixtureRepository) Track(ctx context.Context, trackID int64) (*models.RawTrack, error) {
	query := `
		SELECT track_id, title, owner_id, duration, favorite_count, repost_count, play_count, is_delete
		FROM tracks WHERE track_id = ?
	`

	var t models.RawTrack
	err := r.db.QueryRowContext(ctx, query, trackID).Scan(
		&t.TrackID,
		&t.Title,
		&t.OwnerID,
		&t.Duration,
		&t.FavoriteCount,
		&t.RepostCount,
		&t.PlayCount,
		&t.IsDelete,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: track %d", shared.ErrEntityNotFound, trackID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query track: %w", err)
	}

	if owner, err := r.User(ctx, t.OwnerID); err == nil {
		t.User = owner
	}

	return &t, nil
}

func (r *FixtureRepository) userPage(ctx context.Context, query string, id int64, page, pageSize int) ([]models.Raw, error) {
	rows, err := r.db.QueryContext(ctx, query, id, pageSize, page*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query page: %w", err)
	}
	defer rows.Close()

	var raws []models.Raw
	for rows.Next() {
		u, err := scanRawUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		raws = append(raws, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}

	return raws, nil
}

// TrackFavoriters returns one page of users who favorited a track, in
// favorite order.
func (r *FixtureRepository) TrackFavoriters(ctx context.Context, trackID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
	query := `
		SELECT ` + userColumnsQualified + `
		FROM favorites f JOIN users u ON u.user_id = f.user_id
		WHERE f.track_id = ?
		ORDER BY f.position
		LIMIT ? OFFSET ?
	`
	return r.userPage(ctx, query, trackID, page, pageSize)
}

// TrackReposters returns one page of users who reposted a track, in repost
// order.
func (r *FixtureRepository) TrackReposters(ctx context.Context, trackID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
	query := `
		SELECT ` + userColumnsQualified + `
		FROM reposts rp JOIN users u ON u.user_id = rp.user_id
		WHERE rp.track_id = ?
		ORDER BY rp.position
		LIMIT ? OFFSET ?
	`
	return r.userPage(ctx, query, trackID, page, pageSize)
}

// UserFollowers returns one page of a user's followers, in follow order.
func (r *FixtureRepository) UserFollowers(ctx context.Context, userID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
	query := `
		SELECT ` + userColumns + `
		FROM follows fl JOIN users u ON u.user_id = fl.follower_id
		WHERE fl.followee_id = ?
		ORDER BY fl.position
		LIMIT ? OFFSET ?
	`
	return r.userPage(ctx, query, userID, page, pageSize)
}

func (r *FixtureRepository) supporterPage(ctx context.Context, query string, id int64, page, pageSize int) ([]models.Raw, error) {
	rows, err := r.db.QueryContext(ctx, query, id, pageSize, page*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query supporter page: %w", err)
	}
	defer rows.Close()

	var raws []models.Raw
	for rows.Next() {
		var sup models.RawSupporter
		var u models.RawUser
		err := rows.Scan(
			&sup.Rank,
			&sup.Amount,
			&u.UserID,
			&u.Handle,
			&u.Name,
			&u.Bio,
			&u.FollowerCount,
			&u.FolloweeCount,
			&u.SupporterCount,
			&u.SupportingCount,
			&u.IsDeactivated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan supporter row: %w", err)
		}
		sup.User = &u
		raws = append(raws, &sup)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read supporter page: %w", err)
	}

	return raws, nil
}

// UserSupporters returns one page of a user's supporters with ranks and
// amounts, best rank first.
func (r *FixtureRepository) UserSupporters(ctx context.Context, userID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
	query := `
		SELECT s.rank, s.amount, ` + userColumns + `
		FROM supports s JOIN users u ON u.user_id = s.sender_id
		WHERE s.receiver_id = ?
		ORDER BY s.rank
		LIMIT ? OFFSET ?
	`
	return r.supporterPage(ctx, query, userID, page, pageSize)
}

// UserSupporting returns one page of the users a user supports.
func (r *FixtureRepository) UserSupporting(ctx context.Context, userID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
	query := `
		SELECT s.rank, s.amount, ` + userColumns + `
		FROM supports s JOIN users u ON u.user_id = s.receiver_id
		WHERE s.sender_id = ?
		ORDER BY s.rank
		LIMIT ? OFFSET ?
	`
	return r.supporterPage(ctx, query, userID, page, pageSize)
}
