package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/foolclub/boleta-api/internal/domain"
)

const (
	defaultBaseURL  = "https://api.spotify.com/v1"
	defaultAuthURL  = "https://accounts.spotify.com/api/token"
	defaultPageSize = 20
	// Refresh the cached token slightly before the catalog expires it.
	tokenSlack = 30 * time.Second
)

// Provider is the catalog adapter for the Spotify Web API. It owns a
// client-credentials token and refreshes it transparently before expiry.
type Provider struct {
	client       *http.Client
	clientID     string
	clientSecret string
	baseURL      string
	authURL      string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewProvider creates a Spotify provider with the given HTTP client and
// client-credentials pair. If client is nil, http.DefaultClient is used.
func NewProvider(client *http.Client, clientID, clientSecret string) *Provider {
	if client == nil {
		client = http.DefaultClient
	}
	return &Provider{
		client:       client,
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      defaultBaseURL,
		authURL:      defaultAuthURL,
	}
}

// -- API response types (internal) ------------------------------------------

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type artistData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type imageData struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type albumItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Artists     []artistData `json:"artists"`
	Images      []imageData  `json:"images"`
	ReleaseDate string       `json:"release_date"`
	TotalTracks int          `json:"total_tracks"`
	Label       string       `json:"label"`
}

type searchResponse struct {
	Albums struct {
		Items []albumItem `json:"items"`
	} `json:"albums"`
}

type trackItem struct {
	ID          string `json:"id"`
	TrackNumber int    `json:"track_number"`
	Name        string `json:"name"`
	Explicit    bool   `json:"explicit"`
	DurationMS  int    `json:"duration_ms"`
}

type trackPage struct {
	Items []trackItem `json:"items"`
	Next  string      `json:"next"`
}

type albumDetailResponse struct {
	albumItem
	Tracks trackPage `json:"tracks"`
}

// -- CatalogProvider implementation ------------------------------------------

// Token returns the current client-credentials token, for the SPA's own
// catalog searches.
func (p *Provider) Token(ctx context.Context) (*domain.CatalogToken, error) {
	token, expiry, err := p.bearer(ctx)
	if err != nil {
		return nil, err
	}
	remaining := int(time.Until(expiry).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return &domain.CatalogToken{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   remaining,
	}, nil
}

// SearchAlbums runs an album search. Track lists are not populated on
// search results.
func (p *Provider) SearchAlbums(ctx context.Context, query string, limit int) ([]domain.Album, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	endpoint := fmt.Sprintf("%s/search?type=album&limit=%d&q=%s",
		p.baseURL, limit, url.QueryEscape(query))

	body, err := p.doGet(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("spotify: album search failed: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("spotify: failed to parse search response: %w", err)
	}

	albums := make([]domain.Album, 0, len(resp.Albums.Items))
	for _, item := range resp.Albums.Items {
		albums = append(albums, toAlbum(item, nil))
	}
	return albums, nil
}

// AlbumByID returns the full album detail, following track pagination
// until the complete track list is assembled.
func (p *Provider) AlbumByID(ctx context.Context, id string) (*domain.Album, error) {
	body, err := p.doGet(ctx, fmt.Sprintf("%s/albums/%s", p.baseURL, id))
	if err != nil {
		return nil, fmt.Errorf("spotify: failed to get album %s: %w", id, err)
	}

	var resp albumDetailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("spotify: failed to parse album response: %w", err)
	}

	tracks := resp.Tracks.Items
	next := resp.Tracks.Next
	for next != "" {
		pageBody, err := p.doGet(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("spotify: failed to page album tracks: %w", err)
		}
		var page trackPage
		if err := json.Unmarshal(pageBody, &page); err != nil {
			return nil, fmt.Errorf("spotify: failed to parse tracks page: %w", err)
		}
		tracks = append(tracks, page.Items...)
		next = page.Next
	}

	album := toAlbum(resp.albumItem, tracks)
	return &album, nil
}

// -- Token handling ----------------------------------------------------------

// bearer returns a valid access token, fetching a fresh one when the
// cached token is near expiry.
func (p *Provider) bearer(ctx context.Context) (string, time.Time, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.accessToken != "" && time.Now().Add(tokenSlack).Before(p.tokenExpiry) {
		return p.accessToken, p.tokenExpiry, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.authURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, err
	}
	req.SetBasicAuth(p.clientID, p.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("spotify: token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", time.Time{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, fmt.Errorf("spotify: token endpoint returned status %d: %s",
			resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", time.Time{}, fmt.Errorf("spotify: failed to parse token response: %w", err)
	}

	p.accessToken = token.AccessToken
	p.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	return p.accessToken, p.tokenExpiry, nil
}

// -- HTTP helpers ------------------------------------------------------------

func (p *Provider) doGet(ctx context.Context, endpoint string) ([]byte, error) {
	token, _, err := p.bearer(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spotify API returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// -- Helpers -----------------------------------------------------------------

func toAlbum(item albumItem, tracks []trackItem) domain.Album {
	album := domain.Album{
		ID:          item.ID,
		Name:        item.Name,
		ReleaseDate: item.ReleaseDate,
		TotalTracks: item.TotalTracks,
		Label:       item.Label,
	}
	for _, artist := range item.Artists {
		album.Artists = append(album.Artists, domain.Artist{ID: artist.ID, Name: artist.Name})
	}
	for _, image := range item.Images {
		album.Images = append(album.Images, domain.Image{URL: image.URL, Width: image.Width, Height: image.Height})
	}
	for _, track := range tracks {
		album.Tracks = append(album.Tracks, domain.Track{
			ID:          track.ID,
			TrackNumber: track.TrackNumber,
			Name:        track.Name,
			Explicit:    track.Explicit,
			DurationMS:  track.DurationMS,
		})
	}
	return album
}
