package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foolclub/boleta-api/internal/domain"
)

func testAlbum(trackIDs ...string) *domain.Album {
	album := &domain.Album{ID: "album-1", Name: "Test Album"}
	for i, id := range trackIDs {
		album.Tracks = append(album.Tracks, domain.Track{
			ID:          id,
			TrackNumber: i + 1,
			Name:        "Track " + id,
		})
	}
	return album
}

func TestSheet_SelectAlbumResetsEverything(t *testing.T) {
	s := NewSheet()
	s.SelectAlbum(testAlbum("t1", "t2"))

	s.SetTrackScore("t1", 5)
	s.SetTrackFavorite("t1", 1)
	s.SetAlbumScoreInput("8.5")
	s.SetAlbumStamp(domain.StampApproved)
	s.ToggleBraveStamp()
	require.True(t, s.CanExport())

	s.SelectAlbum(testAlbum("x1", "x2", "x3"))

	snap := s.Snapshot()
	assert.Nil(t, snap.AlbumScore)
	assert.Nil(t, snap.AlbumStamp)
	assert.False(t, snap.BraveStamp)
	assert.True(t, snap.DisableExport)
	assert.Len(t, snap.TrackRatings, 3)
	for _, r := range snap.TrackRatings {
		assert.Equal(t, domain.TrackRating{}, r)
	}
	assert.Equal(t, domain.Averages{}, s.Averages())
}

func TestSheet_SelectNilAlbumClears(t *testing.T) {
	s := NewSheet()
	s.SelectAlbum(testAlbum("t1"))
	s.SetTrackScore("t1", 4)

	s.SelectAlbum(nil)

	assert.Nil(t, s.Album())
	assert.Empty(t, s.Snapshot().TrackRatings)
	assert.Equal(t, domain.Averages{}, s.Averages())
}

func TestSheet_UnknownTrackIgnored(t *testing.T) {
	s := NewSheet()
	s.SelectAlbum(testAlbum("t1"))

	s.SetTrackScore("nope", 5)
	s.SetTrackFavorite("nope", 1)
	s.SetTrackHighlight("nope", true)

	assert.Equal(t, domain.Averages{}, s.Averages())
	assert.Len(t, s.Snapshot().TrackRatings, 1)
}

func TestSheet_OutOfRangeValuesIgnored(t *testing.T) {
	s := NewSheet()
	s.SelectAlbum(testAlbum("t1"))

	s.SetTrackScore("t1", 6)
	s.SetTrackScore("t1", -1)
	s.SetTrackFavorite("t1", 2)

	assert.Equal(t, domain.TrackRating{}, s.Snapshot().TrackRatings["t1"])
}

func TestSheet_AlbumScoreInput(t *testing.T) {
	cases := []struct {
		raw      string
		accepted bool
		value    float64
	}{
		{"7.3", true, 7.3},
		{"10", true, 10},
		{"1", true, 1},
		{"9.9", true, 9.9},
		{"10.5", false, 0},
		{"0", false, 0},
		{"0.9", false, 0},
		{"11", false, 0},
		{"7.35", false, 0},
		{"abc", false, 0},
		{"-3", false, 0},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			s := NewSheet()
			s.SelectAlbum(testAlbum("t1"))
			s.SetAlbumScoreInput(tc.raw)

			score := s.Snapshot().AlbumScore
			if tc.accepted {
				require.NotNil(t, score)
				assert.Equal(t, tc.value, *score)
			} else {
				assert.Nil(t, score)
			}
		})
	}
}

func TestSheet_RejectedScoreKeepsPrevious(t *testing.T) {
	s := NewSheet()
	s.SelectAlbum(testAlbum("t1"))

	s.SetAlbumScoreInput("8.5")
	s.SetAlbumScoreInput("10.5")

	score := s.Snapshot().AlbumScore
	require.NotNil(t, score)
	assert.Equal(t, 8.5, *score)
}

func TestSheet_EmptyScoreClears(t *testing.T) {
	s := NewSheet()
	s.SelectAlbum(testAlbum("t1"))

	s.SetAlbumScoreInput("8.5")
	s.SetAlbumScoreInput("")

	assert.Nil(t, s.Snapshot().AlbumScore)
}

func TestSheet_ExportGate(t *testing.T) {
	s := NewSheet()
	assert.False(t, s.CanExport())

	s.SelectAlbum(testAlbum("t1"))
	assert.False(t, s.CanExport())

	s.SetAlbumStamp(domain.StampPerfect)
	assert.False(t, s.CanExport())

	s.SetAlbumScoreInput("9.5")
	assert.True(t, s.CanExport())

	s.SetAlbumScoreInput("")
	assert.False(t, s.CanExport())
}

func TestSheet_InvalidStampIgnored(t *testing.T) {
	s := NewSheet()
	s.SelectAlbum(testAlbum("t1"))

	s.SetAlbumStamp(domain.Stamp("banana"))
	assert.Nil(t, s.Snapshot().AlbumStamp)

	s.SetAlbumStamp(domain.StampMeh)
	require.NotNil(t, s.Snapshot().AlbumStamp)

	s.ClearAlbumStamp()
	assert.Nil(t, s.Snapshot().AlbumStamp)
}

func TestSheet_BraveStampIndependent(t *testing.T) {
	s := NewSheet()
	s.SelectAlbum(testAlbum("t1"))

	assert.True(t, s.ToggleBraveStamp())
	assert.False(t, s.CanExport())
	assert.False(t, s.ToggleBraveStamp())
}

func TestSheet_CertificateCopiesRatings(t *testing.T) {
	s := NewSheet()
	s.SelectAlbum(testAlbum("t1"))
	s.SetTrackScore("t1", 3)

	cert := s.Certificate()
	s.SetTrackScore("t1", 5)

	assert.Equal(t, 3, cert.Ratings["t1"].Score)
}

func TestService_SheetsAreIsolatedPerSession(t *testing.T) {
	svc := NewService()
	svc.SelectAlbum("session-a", testAlbum("t1"))
	svc.SelectAlbum("session-b", testAlbum("t1"))

	svc.SetTrackScore("session-a", "t1", 5)

	assert.Equal(t, 5, svc.Snapshot("session-a").TrackRatings["t1"].Score)
	assert.Equal(t, 0, svc.Snapshot("session-b").TrackRatings["t1"].Score)
}

func TestService_DropForgetsSheet(t *testing.T) {
	svc := NewService()
	svc.SelectAlbum("session-a", testAlbum("t1"))
	svc.SetAlbumScoreInput("session-a", "8.0")

	svc.Drop("session-a")

	assert.Nil(t, svc.Snapshot("session-a").Album)
}
