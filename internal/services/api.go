// Streaming API page source.
//
// Each list endpoint returns one page of raw records wrapped in a data
// envelope. Pagination is offset based: offset = page * pageSize.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/resound-fm/resound/internal/models"
	"github.com/resound-fm/resound/internal/shared"
	"golang.org/x/time/rate"
)

const defaultBaseURL string = "https://api.resound.fm/v1"

// APIService fetches user and supporter pages from the streaming API.
// Requests are paced by a client-side rate limiter and tagged with a
// request id header.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewAPIService creates an API service instance. ratePerSec <= 0 disables
// client-side pacing.
func NewAPIService(baseURL string, client *http.Client, ratePerSec float64) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	var limiter *rate.Limiter
	if ratePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), 1)
	}

	return &APIService{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    limiter,
	}
}

func (a *APIService) doRequest(ctx context.Context, endpoint string, result any) error {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		return fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("api error (status %d): %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("api error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func pageQuery(page, pageSize int, actorID int64) string {
	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", pageSize))
	q.Set("offset", fmt.Sprintf("%d", page*pageSize))
	if actorID > 0 {
		q.Set("user_id", fmt.Sprintf("%d", actorID))
	}
	return q.Encode()
}

// User fetches a single user record.
//
// Calls GET /users/{id}.
func (a *APIService) User(ctx context.Context, userID int64) (*models.RawUser, error) {
	var envelope struct {
		Data *models.RawUser `json:"data"`
	}

	endpoint := fmt.Sprintf("/users/%d", userID)
	if err := a.doRequest(ctx, endpoint, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: user %d", shared.ErrEntityNotFound, userID)
	}

	return envelope.Data, nil
}

// UserByHandle fetches a single user record by handle.
//
// Calls GET /users/handle/{handle}.
func (a *APIService) UserByHandle(ctx context.Context, handle string) (*models.RawUser, error) {
	var envelope struct {
		Data *models.RawUser `json:"data"`
	}

	endpoint := fmt.Sprintf("/users/handle/%s", url.PathEscape(shared.NormalizeHandle(handle)))
	if err := a.doRequest(ctx, endpoint, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: handle %q", shared.ErrEntityNotFound, handle)
	}

	return envelope.Data, nil
}

// Track fetches a single track record with its embedded owner.
//
// Calls GET /tracks/{id}.
func (a *APIService) Track(ctx context.Context, trackID int64) (*models.RawTrack, error) {
	var envelope struct {
		Data *models.RawTrack `json:"data"`
	}

	endpoint := fmt.Sprintf("/tracks/%d", trackID)
	if err := a.doRequest(ctx, endpoint, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: track %d", shared.ErrEntityNotFound, trackID)
	}

	return envelope.Data, nil
}

func (a *APIService) userPage(ctx context.Context, endpoint string) ([]models.Raw, error) {
	var envelope struct {
		Data []*models.RawUser `json:"data"`
	}

	if err := a.doRequest(ctx, endpoint, &envelope); err != nil {
		return nil, err
	}

	raws := make([]models.Raw, len(envelope.Data))
	for i, u := range envelope.Data {
		raws[i] = u
	}

	return raws, nil
}

func (a *APIService) supporterPage(ctx context.Context, endpoint string) ([]models.Raw, error) {
	var envelope struct {
		Data []*models.RawSupporter `json:"data"`
	}

	if err := a.doRequest(ctx, endpoint, &envelope); err != nil {
		return nil, err
	}

	raws := make([]models.Raw, len(envelope.Data))
	for i, s := range envelope.Data {
		raws[i] = s
	}

	return raws, nil
}

// TrackFavoriters fetches one page of users who favorited a track.
//
// Calls GET /tracks/{id}/favorites.
func (a *APIService) TrackFavoriters(ctx context.Context, trackID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
	endpoint := fmt.Sprintf("/tracks/%d/favorites?%s", trackID, pageQuery(page, pageSize, actorID))
	return a.userPage(ctx, endpoint)
}

// TrackReposters fetches one page of users who reposted a track.
//
// Calls GET /tracks/{id}/reposts.
func (a *APIService) TrackReposters(ctx context.Context, trackID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
	endpoint := fmt.Sprintf("/tracks/%d/reposts?%s", trackID, pageQuery(page, pageSize, actorID))
	return a.userPage(ctx, endpoint)
}

// UserFollowers fetches one page of a user's followers.
//
// Calls GET /users/{id}/followers.
func (a *APIService) UserFollowers(ctx context.Context, userID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
	endpoint := fmt.Sprintf("/users/%d/followers?%s", userID, pageQuery(page, pageSize, actorID))
	return a.userPage(ctx, endpoint)
}

// UserSupporters fetches one page of a user's supporters with ranks and
// amounts.
//
// Calls GET /users/{id}/supporters.
func (a *APIService) UserSupporters(ctx context.Context, userID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
	endpoint := fmt.Sprintf("/users/%d/supporters?%s", userID, pageQuery(page, pageSize, actorID))
	return a.supporterPage(ctx, endpoint)
}

// UserSupporting fetches one page of the users a user supports.
//
// Calls GET /users/{id}/supporting.
func (a *APIService) UserSupporting(ctx context.Context, userID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
	endpoint := fmt.Sprintf("/users/%d/supporting?%s", userID, pageQuery(page, pageSize, actorID))
	return a.supporterPage(ctx, endpoint)
}
