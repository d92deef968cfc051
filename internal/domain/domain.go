package domain

import "strings"

// Artist identifies one album artist on the catalog.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Image is one artwork rendition offered by the catalog.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Track is one track of an album as returned by the catalog.
type Track struct {
	ID          string `json:"id"`
	TrackNumber int    `json:"track_number"`
	Name        string `json:"name"`
	Explicit    bool   `json:"explicit"`
	DurationMS  int    `json:"duration_ms"`
}

// Album is the catalog album detail used everywhere boletas are built.
// Tracks may be empty on search results; album detail lookups fill it.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	Images      []Image  `json:"images"`
	ReleaseDate string   `json:"release_date"`
	TotalTracks int      `json:"total_tracks"`
	Label       string   `json:"label,omitempty"`
	Tracks      []Track  `json:"tracks,omitempty"`
}

// ArtworkURL returns the primary artwork URL, or "" when the catalog
// offered none.
func (a *Album) ArtworkURL() string {
	if a == nil || len(a.Images) == 0 {
		return ""
	}
	return a.Images[0].URL
}

// ArtistLine joins the artist names the way they are printed on a boleta.
func (a *Album) ArtistLine() string {
	if a == nil {
		return ""
	}
	names := make([]string, 0, len(a.Artists))
	for _, artist := range a.Artists {
		names = append(names, artist.Name)
	}
	return strings.Join(names, ", ")
}

// CatalogToken is the client-credentials token handed to the SPA so it can
// query the catalog directly.
type CatalogToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
