package render

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foolclub/boleta-api/internal/domain"
)

func artworkServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		img := image.NewRGBA(image.Rect(0, 0, 64, 64))
		w.Header().Set("Content-Type", "image/png")
		require.NoError(t, png.Encode(w, img))
	}))
	t.Cleanup(server.Close)
	return server
}

func renderAlbum(artURL string, trackCount int) *domain.Album {
	album := &domain.Album{
		ID:          "alb-1",
		Name:        "Render Test Album",
		Artists:     []domain.Artist{{ID: "art-1", Name: "The Renderers"}},
		ReleaseDate: "2024-06-01",
		TotalTracks: trackCount,
	}
	if artURL != "" {
		album.Images = []domain.Image{{URL: artURL, Width: 640, Height: 640}}
	}
	for i := 0; i < trackCount; i++ {
		album.Tracks = append(album.Tracks, domain.Track{
			ID:          string(rune('a' + i)),
			TrackNumber: i + 1,
			Name:        "Track",
			DurationMS:  200000,
		})
	}
	return album
}

func TestRenderAndCapture_ProducesJPEGAtScale(t *testing.T) {
	server := artworkServer(t)
	r, err := New(server.Client())
	require.NoError(t, err)

	score := 8.5
	stamp := domain.StampApproved
	cert := domain.Certificate{
		Album: renderAlbum(server.URL+"/art.png", 12),
		Ratings: map[string]domain.TrackRating{
			"a": {Score: 5, Favorite: 1, Highlighted: true},
			"b": {Score: 3},
		},
		Averages:   domain.Averages{Hearts: 0.8, Stars: 1.3, Total: 1.1},
		AlbumScore: &score,
		AlbumStamp: &stamp,
		BraveStamp: true,
	}

	data, err := r.RenderAndCapture(context.Background(), cert)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1600, img.Bounds().Dx())
	assert.Equal(t, 1580, img.Bounds().Dy())
}

func TestRenderAndCapture_NoArtworkStillRenders(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	cert := domain.BlankCertificate(renderAlbum("", 3))

	data, err := r.RenderAndCapture(context.Background(), cert)
	require.NoError(t, err)

	_, err = jpeg.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestRenderAndCapture_NilAlbum(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	_, err = r.RenderAndCapture(context.Background(), domain.Certificate{})

	assert.Error(t, err)
}

func TestRenderAndCapture_ArtworkFailureLowersSlot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	r, err := New(server.Client())
	require.NoError(t, err)

	cert := domain.BlankCertificate(renderAlbum(server.URL+"/art.png", 1))
	_, err = r.RenderAndCapture(context.Background(), cert)

	require.Error(t, err)
	// The slot must be lowered again even on the failure path.
	assert.False(t, r.Target().Visible())
}

func TestRenderAndCapture_LongAlbumOverflowsGridGracefully(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	cert := domain.BlankCertificate(renderAlbum("", 30))

	data, err := r.RenderAndCapture(context.Background(), cert)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestTarget_UnmountStopsCaptures(t *testing.T) {
	target := NewTarget()
	assert.True(t, target.Mounted())

	target.Unmount()
	assert.False(t, target.Mounted())
}

func TestTarget_VisibleOnlyDuringCapture(t *testing.T) {
	target := NewTarget()
	assert.False(t, target.Visible())

	release := target.acquire()
	assert.True(t, target.Visible())

	release()
	assert.False(t, target.Visible())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "3:20", formatDuration(200000))
	assert.Equal(t, "0:05", formatDuration(5000))
	assert.Equal(t, "10:00", formatDuration(600000))
}

func TestStampLabel(t *testing.T) {
	assert.Equal(t, "NOT APPROVED", stampLabel("not_approved"))
	assert.Equal(t, "VALIENTE", stampLabel("valiente"))
}
