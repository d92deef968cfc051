package rating

import (
	"sync"

	"github.com/foolclub/boleta-api/internal/domain"
)

// Service owns one rating sheet per login session. Sheets are ephemeral:
// they live for the session and are never persisted.
type Service struct {
	mu     sync.Mutex
	sheets map[string]*Sheet
}

// NewService creates an empty rating service.
func NewService() *Service {
	return &Service{sheets: make(map[string]*Sheet)}
}

// sheet returns the session's sheet, creating it on first use.
// Callers must hold s.mu.
func (s *Service) sheet(token string) *Sheet {
	sh, ok := s.sheets[token]
	if !ok {
		sh = NewSheet()
		s.sheets[token] = sh
	}
	return sh
}

// SelectAlbum replaces the session's sheet with a fresh one for album.
func (s *Service) SelectAlbum(token string, album *domain.Album) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheet(token).SelectAlbum(album)
}

// SetTrackScore updates one track's star score on the session's sheet.
func (s *Service) SetTrackScore(token, trackID string, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheet(token).SetTrackScore(trackID, score)
}

// SetTrackFavorite updates one track's heart flag on the session's sheet.
func (s *Service) SetTrackFavorite(token, trackID string, favorite int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheet(token).SetTrackFavorite(trackID, favorite)
}

// SetTrackHighlight updates one track's highlight on the session's sheet.
func (s *Service) SetTrackHighlight(token, trackID string, highlighted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheet(token).SetTrackHighlight(trackID, highlighted)
}

// SetAlbumScoreInput applies an overall-score text edit.
func (s *Service) SetAlbumScoreInput(token, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheet(token).SetAlbumScoreInput(raw)
}

// SetAlbumStamp sets the verdict stamp; an empty tag clears it.
func (s *Service) SetAlbumStamp(token string, stamp domain.Stamp) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stamp == "" {
		s.sheet(token).ClearAlbumStamp()
		return
	}
	s.sheet(token).SetAlbumStamp(stamp)
}

// ToggleBraveStamp flips the "valiente" badge and returns the new state.
func (s *Service) ToggleBraveStamp(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheet(token).ToggleBraveStamp()
}

// Snapshot returns the session's current sheet view.
func (s *Service) Snapshot(token string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheet(token).Snapshot()
}

// Certificate snapshots the session's sheet for export, along with
// whether the export gate is satisfied.
func (s *Service) Certificate(token string) (domain.Certificate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.sheet(token)
	return sh.Certificate(), sh.CanExport()
}

// Drop discards the session's sheet, e.g. on logout.
func (s *Service) Drop(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sheets, token)
}
