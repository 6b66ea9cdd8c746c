package repositories

import (
	"database/sql"
	"fmt"
)

// Seed populates the fixture database with a small demo graph: a handful of
// artists and listeners, one popular track, follower and supporter edges.
// Running it twice is an error; seed into a fresh database.
func Seed(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	users := []struct {
		id              int64
		handle, name    string
		followers       int64
		supporters      int64
		supportingCount int64
	}{
		{1, "novakid", "Nova Kid", 4, 3, 0},
		{2, "echoline", "Echoline", 2, 0, 1},
		{3, "fernweh", "Fernweh", 1, 0, 1},
		{4, "driftwood", "Driftwood", 0, 0, 1},
		{5, "lowtide", "Low Tide", 0, 0, 0},
		{6, "marginalia", "Marginalia", 0, 0, 0},
	}
	for _, u := range users {
		_, err := tx.Exec(
			`INSERT INTO users (user_id, handle, name, follower_count, supporter_count, supporting_count) VALUES (?, ?, ?, ?, ?, ?)`,
			u.id, u.handle, u.name, u.followers, u.supporters, u.supportingCount,
		)
		if err != nil {
			return fmt.Errorf("failed to seed user %d: %w", u.id, err)
		}
	}

	_, err = tx.Exec(
		`INSERT INTO tracks (track_id, title, owner_id, duration, favorite_count, repost_count, play_count) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		101, "Signal Fade", 1, 214, 4, 2, 1893,
	)
	if err != nil {
		return fmt.Errorf("failed to seed track: %w", err)
	}

	edges := []struct {
		table    string
		parent   int64
		child    int64
		position int
	}{
		{"favorites", 101, 2, 1},
		{"favorites", 101, 3, 2},
		{"favorites", 101, 4, 3},
		{"favorites", 101, 5, 4},
		{"reposts", 101, 3, 1},
		{"reposts", 101, 6, 2},
		{"follows", 1, 2, 1},
		{"follows", 1, 3, 2},
		{"follows", 1, 4, 3},
		{"follows", 1, 5, 4},
		{"follows", 2, 1, 1},
		{"follows", 2, 6, 2},
		{"follows", 3, 1, 1},
	}
	for _, e := range edges {
		var query string
		switch e.table {
		case "favorites", "reposts":
			query = `INSERT INTO ` + e.table + ` (track_id, user_id, position) VALUES (?, ?, ?)`
		case "follows":
			query = `INSERT INTO follows (followee_id, follower_id, position) VALUES (?, ?, ?)`
		}
		if _, err := tx.Exec(query, e.parent, e.child, e.position); err != nil {
			return fmt.Errorf("failed to seed %s edge (%d, %d): %w", e.table, e.parent, e.child, err)
		}
	}

	supports := []struct {
		receiver, sender int64
		rank             int
		amount           string
	}{
		{1, 2, 1, "250"},
		{1, 3, 2, "100"},
		{1, 4, 3, "25"},
	}
	for _, s := range supports {
		_, err := tx.Exec(
			`INSERT INTO supports (receiver_id, sender_id, rank, amount) VALUES (?, ?, ?, ?)`,
			s.receiver, s.sender, s.rank, s.amount,
		)
		if err != nil {
			return fmt.Errorf("failed to seed support (%d, %d): %w", s.receiver, s.sender, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	return nil
}
