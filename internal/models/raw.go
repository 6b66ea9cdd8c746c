package models

import "fmt"

// Raw is a wire-format record as returned by the streaming API, prior to
// normalization. Each raw type knows its kind, validates itself, lists the
// user sub-records embedded in it, and converts to its canonical entity.
type Raw interface {
	RawKind() Kind
	RawID() int64
	Validate() error
	// EmbeddedUsers returns owner/collaborator sub-records that must be
	// normalized before this record so cross-references never dangle.
	EmbeddedUsers() []*RawUser
	// ToEntity converts the raw record to its canonical cached shape.
	ToEntity() Entity
}

// RawUser mirrors the API's user payload.
type RawUser struct {
	UserID            int64   `json:"user_id"`
	Handle            string  `json:"handle"`
	Name              string  `json:"name"`
	Bio               string  `json:"bio"`
	FollowerCount     int64   `json:"follower_count"`
	FolloweeCount     int64   `json:"followee_count"`
	SupporterCount    int64   `json:"supporter_count"`
	SupportingCount   int64   `json:"supporting_count"`
	FolloweeFollowIDs []int64 `json:"followee_follow_ids"`
	IsDeactivated     bool    `json:"is_deactivated"`
}

func (r *RawUser) RawKind() Kind             { return KindUser }
func (r *RawUser) RawID() int64              { return r.UserID }
func (r *RawUser) EmbeddedUsers() []*RawUser { return nil }

func (r *RawUser) Validate() error {
	if r.UserID <= 0 {
		return fmt.Errorf("user record missing user_id")
	}
	if r.Handle == "" {
		return fmt.Errorf("user %d missing handle", r.UserID)
	}
	return nil
}

func (r *RawUser) ToEntity() Entity {
	return &User{
		ID:                r.UserID,
		Handle:            r.Handle,
		Name:              r.Name,
		Bio:               r.Bio,
		FollowerCount:     r.FollowerCount,
		FolloweeCount:     r.FolloweeCount,
		SupporterCount:    r.SupporterCount,
		SupportingCount:   r.SupportingCount,
		FolloweeFollowIDs: r.FolloweeFollowIDs,
		Deactivated:       r.IsDeactivated,
	}
}

// RawTrack mirrors the API's track payload. The owning user arrives embedded.
type RawTrack struct {
	TrackID             int64    `json:"track_id"`
	Title               string   `json:"title"`
	OwnerID             int64    `json:"owner_id"`
	User                *RawUser `json:"user"`
	Duration            int      `json:"duration"`
	FavoriteCount       int64    `json:"favorite_count"`
	RepostCount         int64    `json:"repost_count"`
	PlayCount           int64    `json:"play_count"`
	FolloweeFavoriteIDs []int64  `json:"followee_favorite_ids"`
	FolloweeRepostIDs   []int64  `json:"followee_repost_ids"`
	IsDelete            bool     `json:"is_delete"`
}

func (r *RawTrack) RawKind() Kind { return KindTrack }
func (r *RawTrack) RawID() int64  { return r.TrackID }

func (r *RawTrack) EmbeddedUsers() []*RawUser {
	if r.User == nil {
		return nil
	}
	return []*RawUser{r.User}
}

func (r *RawTrack) Validate() error {
	if r.TrackID <= 0 {
		return fmt.Errorf("track record missing track_id")
	}
	if r.OwnerID <= 0 && r.User == nil {
		return fmt.Errorf("track %d has no owner", r.TrackID)
	}
	return nil
}

func (r *RawTrack) ToEntity() Entity {
	ownerID := r.OwnerID
	if ownerID <= 0 && r.User != nil {
		ownerID = r.User.UserID
	}
	return &Track{
		ID:                  r.TrackID,
		Title:               r.Title,
		OwnerID:             ownerID,
		Duration:            r.Duration,
		FavoriteCount:       r.FavoriteCount,
		RepostCount:         r.RepostCount,
		PlayCount:           r.PlayCount,
		FolloweeFavoriteIDs: r.FolloweeFavoriteIDs,
		FolloweeRepostIDs:   r.FolloweeRepostIDs,
		Deleted:             r.IsDelete,
	}
}

// RawSupporter mirrors one item of the supporters/supporting endpoints: a
// user record paired with the rank and amount of their contribution. The id
// and entity are the paired user's; rank and amount ride along for the
// support side store.
type RawSupporter struct {
	Rank   int      `json:"rank"`
	Amount string   `json:"amount"`
	User   *RawUser `json:"user"`
}

func (r *RawSupporter) RawKind() Kind { return KindUser }

func (r *RawSupporter) RawID() int64 {
	if r.User == nil {
		return 0
	}
	return r.User.UserID
}

func (r *RawSupporter) EmbeddedUsers() []*RawUser { return nil }

func (r *RawSupporter) Validate() error {
	if r.User == nil {
		return fmt.Errorf("supporter record missing user")
	}
	if r.Rank <= 0 {
		return fmt.Errorf("supporter %d missing rank", r.User.UserID)
	}
	return r.User.Validate()
}

func (r *RawSupporter) ToEntity() Entity { return r.User.ToEntity() }

// RawCollection mirrors the API's playlist/album payload.
type RawCollection struct {
	PlaylistID      int64    `json:"playlist_id"`
	PlaylistName    string   `json:"playlist_name"`
	OwnerID         int64    `json:"playlist_owner_id"`
	User            *RawUser `json:"user"`
	TrackIDs        []int64  `json:"track_ids"`
	SaveCount       int64    `json:"save_count"`
	RepostCount     int64    `json:"repost_count"`
	FolloweeSaveIDs []int64  `json:"followee_save_ids"`
	IsAlbum         bool     `json:"is_album"`
	IsPrivate       bool     `json:"is_private"`
	IsDelete        bool     `json:"is_delete"`
}

func (r *RawCollection) RawKind() Kind { return KindCollection }
func (r *RawCollection) RawID() int64  { return r.PlaylistID }

func (r *RawCollection) EmbeddedUsers() []*RawUser {
	if r.User == nil {
		return nil
	}
	return []*RawUser{r.User}
}

func (r *RawCollection) Validate() error {
	if r.PlaylistID <= 0 {
		return fmt.Errorf("collection record missing playlist_id")
	}
	if r.OwnerID <= 0 && r.User == nil {
		return fmt.Errorf("collection %d has no owner", r.PlaylistID)
	}
	return nil
}

func (r *RawCollection) ToEntity() Entity {
	ownerID := r.OwnerID
	if ownerID <= 0 && r.User != nil {
		ownerID = r.User.UserID
	}
	return &Collection{
		ID:              r.PlaylistID,
		Name:            r.PlaylistName,
		OwnerID:         ownerID,
		TrackIDs:        r.TrackIDs,
		SaveCount:       r.SaveCount,
		RepostCount:     r.RepostCount,
		FolloweeSaveIDs: r.FolloweeSaveIDs,
		Album:           r.IsAlbum,
		Private:         r.IsPrivate,
		Deleted:         r.IsDelete,
	}
}
