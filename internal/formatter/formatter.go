// package formatter renders list pages and user profiles to plain text, CSV
// and JSON for CLI output
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/resound-fm/resound/internal/cache"
	"github.com/resound-fm/resound/internal/lists"
	"github.com/resound-fm/resound/internal/models"
	"github.com/resound-fm/resound/internal/shared"
)

// Row is one rendered list entry: the cached user joined with optional
// supporter data for the list's parent.
type Row struct {
	ID      int64  `json:"id"`
	UID     string `json:"uid,omitempty"`
	Handle  string `json:"handle"`
	Name    string `json:"name"`
	IsActor bool   `json:"is_actor,omitempty"`
	Rank    int    `json:"rank,omitempty"`
	Amount  string `json:"amount,omitempty"`
}

// Page is a snapshot joined against the cache, ready for serialization.
type Page struct {
	Tag      string `json:"tag"`
	ParentID int64  `json:"parent_id"`
	Status   string `json:"status"`
	HasMore  bool   `json:"has_more"`
	Error    string `json:"error,omitempty"`
	Rows     []Row  `json:"rows"`
}

// BuildPage joins a list snapshot against the cache and support store.
// Ids missing from the cache are skipped; supports may be nil for lists
// without supporter data, and actorID 0 means no row is marked as the
// viewer's own.
func BuildPage(snap lists.Snapshot, store *cache.Store, supports *lists.SupportStore, actorID int64) Page {
	page := Page{
		Tag:      snap.Tag,
		ParentID: snap.ParentID,
		Status:   snap.Status.String(),
		HasMore:  snap.HasMore,
		Error:    snap.ErrorMessage,
	}

	for i, id := range snap.IDs {
		user, ok := store.User(id)
		if !ok {
			continue
		}
		row := Row{
			ID:      user.ID,
			Handle:  user.Handle,
			Name:    user.DisplayName(),
			IsActor: actorID > 0 && user.ID == actorID,
		}
		if i < len(snap.UIDs) {
			row.UID = string(snap.UIDs[i])
		}
		if supports != nil {
			// Supporter lists key pairs with the parent as receiver;
			// supporting lists store them the other way around.
			sup, ok := supports.Get(snap.ParentID, user.ID)
			if !ok {
				sup, ok = supports.Get(user.ID, snap.ParentID)
			}
			if ok {
				row.Rank = sup.Rank
				row.Amount = sup.Amount
			}
		}
		page.Rows = append(page.Rows, row)
	}

	return page
}

// PageToText renders a page as aligned plain text lines.
func PageToText(page Page) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s (parent %d, %s)\n", page.Tag, page.ParentID, page.Status))
	if page.Error != "" {
		buf.WriteString(fmt.Sprintf("error: %s\n", page.Error))
	}

	for i, row := range page.Rows {
		marker := ""
		if row.IsActor {
			marker = " (you)"
		}
		if row.Rank > 0 {
			buf.WriteString(fmt.Sprintf("%d. #%d @%s - %s%s [%s]\n", i+1, row.Rank, row.Handle, row.Name, marker, row.Amount))
		} else {
			buf.WriteString(fmt.Sprintf("%d. @%s - %s%s\n", i+1, row.Handle, row.Name, marker))
		}
	}

	if page.HasMore {
		buf.WriteString("...more available\n")
	}

	return buf.Bytes()
}

// PageToCSV renders a page as CSV with columns: ID, Handle, Name, Rank, Amount.
func PageToCSV(page Page) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Handle", "Name", "Rank", "Amount"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range page.Rows {
		rank := ""
		if row.Rank > 0 {
			rank = strconv.Itoa(row.Rank)
		}
		record := []string{
			strconv.FormatInt(row.ID, 10),
			row.Handle,
			row.Name,
			rank,
			row.Amount,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// PageToJSON renders a page as JSON.
func PageToJSON(page Page, pretty bool) ([]byte, error) {
	data, err := shared.MarshalJSON(page, pretty)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal page: %w", err)
	}
	return data, nil
}

// UserToText renders a cached user profile as plain text.
func UserToText(u *models.User) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("@%s - %s (id %d)\n", u.Handle, u.DisplayName(), u.ID))
	if u.Bio != "" {
		buf.WriteString(fmt.Sprintf("%s\n", u.Bio))
	}
	buf.WriteString(fmt.Sprintf(
		"followers: %s  following: %s  supporters: %s\n",
		shared.FormatCount(u.FollowerCount),
		shared.FormatCount(u.FolloweeCount),
		shared.FormatCount(u.SupporterCount),
	))
	if u.Deactivated {
		buf.WriteString("(deactivated)\n")
	}

	return buf.Bytes()
}

// TrackToText renders a cached track as plain text.
func TrackToText(t *models.Track, owner *models.User) []byte {
	var buf bytes.Buffer

	ownerName := fmt.Sprintf("user %d", t.OwnerID)
	if owner != nil {
		ownerName = "@" + owner.Handle
	}
	buf.WriteString(fmt.Sprintf("%s by %s (id %d)\n", t.Title, ownerName, t.ID))
	buf.WriteString(fmt.Sprintf(
		"favorites: %s  reposts: %s  plays: %s\n",
		shared.FormatCount(t.FavoriteCount),
		shared.FormatCount(t.RepostCount),
		shared.FormatCount(t.PlayCount),
	))
	if t.Deleted {
		buf.WriteString("(deleted)\n")
	}

	return buf.Bytes()
}
