package models

import "fmt"

// Kind is the type partition of a cached entity.
type Kind int

const (
	KindUser Kind = iota + 1
	KindTrack
	KindCollection
)

// String returns the wire-friendly name of the kind, used in UIDs and logs.
func (k Kind) String() string {
	switch k {
	case KindUser:
		return "users"
	case KindTrack:
		return "tracks"
	case KindCollection:
		return "collections"
	default:
		return "unknown"
	}
}

// Status represents the fetch lifecycle of a cache record or list session.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Entity is the canonical cached form of a user, track or collection.
// Implementations are value-merged by the entity store; the zero value of a
// field means "not provided" and never clobbers a cached value on merge.
type Entity interface {
	EntityKind() Kind
	EntityID() int64
	// IsGone reports whether the entity is logically deleted/deactivated.
	// The store refuses to resurrect gone entities unless forced.
	IsGone() bool
}

// User is the canonical cached user profile.
type User struct {
	ID              int64  `json:"id"`
	Handle          string `json:"handle"`
	Name            string `json:"name"`
	Bio             string `json:"bio,omitempty"`
	FollowerCount   int64  `json:"follower_count"`
	FolloweeCount   int64  `json:"followee_count"`
	SupporterCount  int64  `json:"supporter_count"`
	SupportingCount int64  `json:"supporting_count"`
	// FolloweeFollowIDs is the sample of the viewing user's followees who
	// also follow this user. It seeds the priority subset of follower lists.
	FolloweeFollowIDs []int64 `json:"followee_follow_ids,omitempty"`
	Deactivated       bool    `json:"deactivated,omitempty"`
}

func (u *User) EntityKind() Kind { return KindUser }
func (u *User) EntityID() int64  { return u.ID }
func (u *User) IsGone() bool     { return u.Deactivated }

// DisplayName returns the profile name, falling back to the handle.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return "@" + u.Handle
}

// Track is the canonical cached track.
type Track struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	OwnerID       int64  `json:"owner_id"`
	Duration      int    `json:"duration"`
	FavoriteCount int64  `json:"favorite_count"`
	RepostCount   int64  `json:"repost_count"`
	PlayCount     int64  `json:"play_count"`
	// FolloweeFavoriteIDs / FolloweeRepostIDs are samples of the viewing
	// user's followees who favorited/reposted this track. They seed the
	// priority subsets of the favoriters and reposters lists.
	FolloweeFavoriteIDs []int64 `json:"followee_favorite_ids,omitempty"`
	FolloweeRepostIDs   []int64 `json:"followee_repost_ids,omitempty"`
	Deleted             bool    `json:"deleted,omitempty"`
}

func (t *Track) EntityKind() Kind { return KindTrack }
func (t *Track) EntityID() int64  { return t.ID }
func (t *Track) IsGone() bool     { return t.Deleted }

// Collection is the canonical cached playlist or album.
type Collection struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	OwnerID         int64   `json:"owner_id"`
	TrackIDs        []int64 `json:"track_ids,omitempty"`
	SaveCount       int64   `json:"save_count"`
	RepostCount     int64   `json:"repost_count"`
	FolloweeSaveIDs []int64 `json:"followee_save_ids,omitempty"`
	Album           bool    `json:"album,omitempty"`
	Private         bool    `json:"private,omitempty"`
	Deleted         bool    `json:"deleted,omitempty"`
}

func (c *Collection) EntityKind() Kind { return KindCollection }
func (c *Collection) EntityID() int64  { return c.ID }
func (c *Collection) IsGone() bool     { return c.Deleted }

// Support is the per-pair supporter data kept alongside user entities: the
// sender's rank and cumulative contribution toward a receiver.
type Support struct {
	ReceiverID int64  `json:"receiver_id"`
	SenderID   int64  `json:"sender_id"`
	Rank       int    `json:"rank"`
	Amount     string `json:"amount"` // stringified wei, too wide for int64
}

// Validate checks the pair keys and rank are present.
func (s Support) Validate() error {
	if s.ReceiverID <= 0 || s.SenderID <= 0 {
		return fmt.Errorf("support pair requires receiver and sender ids")
	}
	if s.Rank <= 0 {
		return fmt.Errorf("support pair (%d, %d) missing rank", s.ReceiverID, s.SenderID)
	}
	return nil
}
