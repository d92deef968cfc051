package rating

import (
	"regexp"
	"strconv"

	"github.com/foolclub/boleta-api/internal/domain"
)

// Accepts 1-9 with up to one decimal, or exactly 10.
var scoreInputPattern = regexp.MustCompile(`^([1-9](\.\d)?|10)$`)

// Sheet holds the rating inputs for exactly one album at a time. Switching
// albums always wins over unsaved edits: the previous sheet is discarded
// wholesale, never merged.
type Sheet struct {
	album      *domain.Album
	ratings    map[string]domain.TrackRating
	albumScore *float64
	albumStamp *domain.Stamp
	braveStamp bool

	averages domain.Averages
	dirty    bool
}

// NewSheet returns an empty sheet with no album selected.
func NewSheet() *Sheet {
	return &Sheet{ratings: map[string]domain.TrackRating{}}
}

// SelectAlbum replaces the whole sheet for the given album: a zeroed
// rating per track, no overall score, no stamps. A nil album clears the
// sheet entirely.
func (s *Sheet) SelectAlbum(album *domain.Album) {
	s.album = album
	s.albumScore = nil
	s.albumStamp = nil
	s.braveStamp = false
	s.dirty = true

	if album == nil {
		s.ratings = map[string]domain.TrackRating{}
		return
	}
	s.ratings = make(map[string]domain.TrackRating, len(album.Tracks))
	for _, track := range album.Tracks {
		s.ratings[track.ID] = domain.TrackRating{}
	}
}

// Album returns the currently selected album, or nil.
func (s *Sheet) Album() *domain.Album {
	return s.album
}

// SetTrackScore sets the 0-5 star score of one track. Unknown track ids
// and out-of-range values leave the sheet unchanged.
func (s *Sheet) SetTrackScore(trackID string, score int) {
	if score < 0 || score > 5 {
		return
	}
	r, ok := s.ratings[trackID]
	if !ok {
		return
	}
	r.Score = score
	s.ratings[trackID] = r
	s.dirty = true
}

// SetTrackFavorite sets the 0/1 heart flag of one track.
func (s *Sheet) SetTrackFavorite(trackID string, favorite int) {
	if favorite != 0 && favorite != 1 {
		return
	}
	r, ok := s.ratings[trackID]
	if !ok {
		return
	}
	r.Favorite = favorite
	s.ratings[trackID] = r
	s.dirty = true
}

// SetTrackHighlight toggles the visual emphasis of one track. Highlights
// never feed into the averages.
func (s *Sheet) SetTrackHighlight(trackID string, highlighted bool) {
	r, ok := s.ratings[trackID]
	if !ok {
		return
	}
	r.Highlighted = highlighted
	s.ratings[trackID] = r
}

// SetAlbumScoreInput parses an overall-score text edit. The empty string
// clears the score; anything not matching the 1.0-10.0 single-decimal
// pattern is dropped without touching the stored value.
func (s *Sheet) SetAlbumScoreInput(raw string) {
	if raw == "" {
		s.albumScore = nil
		return
	}
	if !scoreInputPattern.MatchString(raw) {
		return
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return
	}
	s.albumScore = &value
}

// SetAlbumStamp sets the verdict stamp. Unrecognized tags are dropped.
func (s *Sheet) SetAlbumStamp(stamp domain.Stamp) {
	if !stamp.Valid() {
		return
	}
	s.albumStamp = &stamp
}

// ClearAlbumStamp removes the verdict stamp.
func (s *Sheet) ClearAlbumStamp() {
	s.albumStamp = nil
}

// ToggleBraveStamp flips the independent "valiente" badge and returns the
// new state.
func (s *Sheet) ToggleBraveStamp() bool {
	s.braveStamp = !s.braveStamp
	return s.braveStamp
}

// Averages returns the derived scores, recomputing only when a rating
// changed since the last read. Recomputing is always safe; the cache only
// avoids redundant work on repeated reads.
func (s *Sheet) Averages() domain.Averages {
	if s.dirty {
		s.averages = ComputeAverages(s.ratings, s.trackCount())
		s.dirty = false
	}
	return s.averages
}

func (s *Sheet) trackCount() int {
	if s.album == nil {
		return 0
	}
	return len(s.album.Tracks)
}

// CanExport reports whether the sheet satisfies the export gate: an album
// is selected, a stamp is chosen and an overall score is entered.
func (s *Sheet) CanExport() bool {
	return s.album != nil && s.albumStamp != nil && s.albumScore != nil
}

// Certificate snapshots the sheet for rasterization. The rating map is
// copied so in-flight edits cannot race a capture.
func (s *Sheet) Certificate() domain.Certificate {
	ratings := make(map[string]domain.TrackRating, len(s.ratings))
	for id, r := range s.ratings {
		ratings[id] = r
	}
	cert := domain.Certificate{
		Album:      s.album,
		Ratings:    ratings,
		Averages:   s.Averages(),
		BraveStamp: s.braveStamp,
	}
	if s.albumScore != nil {
		score := *s.albumScore
		cert.AlbumScore = &score
	}
	if s.albumStamp != nil {
		stamp := *s.albumStamp
		cert.AlbumStamp = &stamp
	}
	return cert
}

// Snapshot is the JSON view of a sheet served to the SPA.
type Snapshot struct {
	Album         *domain.Album                 `json:"album"`
	TrackRatings  map[string]domain.TrackRating `json:"trackRatings"`
	Averages      domain.Averages               `json:"averages"`
	AlbumScore    *float64                      `json:"albumScore"`
	AlbumStamp    *domain.Stamp                 `json:"albumStamp"`
	BraveStamp    bool                          `json:"braveStamp"`
	DisableExport bool                          `json:"disableExport"`
}

// Snapshot builds the serializable view of the sheet.
func (s *Sheet) Snapshot() Snapshot {
	cert := s.Certificate()
	return Snapshot{
		Album:         cert.Album,
		TrackRatings:  cert.Ratings,
		Averages:      cert.Averages,
		AlbumScore:    cert.AlbumScore,
		AlbumStamp:    cert.AlbumStamp,
		BraveStamp:    cert.BraveStamp,
		DisableExport: !s.CanExport(),
	}
}
