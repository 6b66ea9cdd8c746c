package models

import "testing"

func TestKindString(t *testing.T) {
	cases := []struct {
		kind Kind
		want string
	}{
		{KindUser, "users"},
		{KindTrack, "tracks"},
		{KindCollection, "collections"},
		{Kind(99), "unknown"},
	}

	for _, tc := range cases {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestStatusString(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{StatusIdle, "idle"},
		{StatusLoading, "loading"},
		{StatusSuccess, "success"},
		{StatusError, "error"},
	}

	for _, tc := range cases {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("Status(%d).String() = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestUserDisplayName(t *testing.T) {
	u := &User{ID: 1, Handle: "nova", Name: "Nova Kid"}
	if got := u.DisplayName(); got != "Nova Kid" {
		t.Errorf("expected profile name, got %q", got)
	}

	u.Name = ""
	if got := u.DisplayName(); got != "@nova" {
		t.Errorf("expected handle fallback, got %q", got)
	}
}

func TestEntityIsGone(t *testing.T) {
	if (&User{ID: 1, Deactivated: true}).IsGone() != true {
		t.Error("deactivated user should be gone")
	}
	if (&Track{ID: 1, Deleted: true}).IsGone() != true {
		t.Error("deleted track should be gone")
	}
	if (&Collection{ID: 1}).IsGone() {
		t.Error("live collection should not be gone")
	}
}

func TestSupportValidate(t *testing.T) {
	cases := []struct {
		name    string
		support Support
		wantErr bool
	}{
		{"valid", Support{ReceiverID: 1, SenderID: 2, Rank: 1, Amount: "250"}, false},
		{"missing receiver", Support{SenderID: 2, Rank: 1}, true},
		{"missing sender", Support{ReceiverID: 1, Rank: 1}, true},
		{"missing rank", Support{ReceiverID: 1, SenderID: 2}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.support.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRawValidate(t *testing.T) {
	cases := []struct {
		name    string
		raw     Raw
		wantErr bool
	}{
		{"valid user", &RawUser{UserID: 1, Handle: "nova"}, false},
		{"user without id", &RawUser{Handle: "nova"}, true},
		{"user without handle", &RawUser{UserID: 1}, true},
		{"valid track", &RawTrack{TrackID: 1, OwnerID: 2}, false},
		{"track with embedded owner only", &RawTrack{TrackID: 1, User: &RawUser{UserID: 2, Handle: "o"}}, false},
		{"track without owner", &RawTrack{TrackID: 1}, true},
		{"valid collection", &RawCollection{PlaylistID: 1, OwnerID: 2}, false},
		{"collection without id", &RawCollection{OwnerID: 2}, true},
		{"valid supporter", &RawSupporter{Rank: 1, User: &RawUser{UserID: 1, Handle: "a"}}, false},
		{"supporter without user", &RawSupporter{Rank: 1}, true},
		{"supporter without rank", &RawSupporter{User: &RawUser{UserID: 1, Handle: "a"}}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.raw.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRawToEntity(t *testing.T) {
	t.Run("TrackOwnerFromEmbeddedUser", func(t *testing.T) {
		raw := &RawTrack{TrackID: 1, Title: "x", User: &RawUser{UserID: 7, Handle: "o"}}
		track := raw.ToEntity().(*Track)
		if track.OwnerID != 7 {
			t.Errorf("owner should come from the embedded user, got %d", track.OwnerID)
		}
	})

	t.Run("SupporterYieldsPairedUser", func(t *testing.T) {
		raw := &RawSupporter{Rank: 2, Amount: "100", User: &RawUser{UserID: 9, Handle: "s"}}
		if raw.RawKind() != KindUser {
			t.Error("supporter records normalize as users")
		}
		user := raw.ToEntity().(*User)
		if user.ID != 9 {
			t.Errorf("expected paired user 9, got %d", user.ID)
		}
	})

	t.Run("DeactivationCarries", func(t *testing.T) {
		raw := &RawUser{UserID: 1, Handle: "gone", IsDeactivated: true}
		if !raw.ToEntity().IsGone() {
			t.Error("deactivation should carry into the entity")
		}
	})
}
