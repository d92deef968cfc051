package export

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foolclub/boleta-api/internal/domain"
)

// -- Mock renderer and tracker -----------------------------------------------

type mockRenderer struct {
	mounted bool
	data    []byte
	err     error

	mu       sync.Mutex
	captured []string
	failFor  map[string]error
}

func (m *mockRenderer) Mounted() bool { return m.mounted }

func (m *mockRenderer) RenderAndCapture(_ context.Context, cert domain.Certificate) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.captured = append(m.captured, cert.Album.Name)
	if err, ok := m.failFor[cert.Album.Name]; ok {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.data, nil
}

type mockTracker struct {
	mu     sync.Mutex
	events [][2]string
}

func (m *mockTracker) Event(category, action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, [2]string{category, action})
}

func certWith(album *domain.Album, stamp *domain.Stamp) domain.Certificate {
	score := 8.5
	return domain.Certificate{
		Album:      album,
		Ratings:    map[string]domain.TrackRating{},
		AlbumScore: &score,
		AlbumStamp: stamp,
	}
}

// -- Tests -------------------------------------------------------------------

func TestFilenames(t *testing.T) {
	assert.Equal(t, "boleta-OK Computer.jpeg", Filename("OK Computer"))
	assert.Equal(t, "boleta-empty-OK Computer.jpeg", BlankFilename("OK Computer"))
}

func TestCapture_UnmountedIsSilentNoOp(t *testing.T) {
	p := NewPipeline(&mockRenderer{mounted: false, data: []byte("jpeg")}, nil)

	data, err := p.Capture(context.Background(), certWith(&domain.Album{Name: "A"}, nil))

	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCapture_PropagatesRenderFailure(t *testing.T) {
	boom := errors.New("render blew up")
	p := NewPipeline(&mockRenderer{mounted: true, err: boom}, nil)

	_, err := p.Capture(context.Background(), certWith(&domain.Album{Name: "A"}, nil))

	assert.ErrorIs(t, err, boom)
}

func TestExport_WritesImageAndTracksDownload(t *testing.T) {
	tracker := &mockTracker{}
	p := NewPipeline(&mockRenderer{mounted: true, data: []byte("jpeg-bytes")}, tracker)

	var buf bytes.Buffer
	filename, err := p.Export(context.Background(), certWith(&domain.Album{Name: "In Rainbows"}, nil), &buf)

	require.NoError(t, err)
	assert.Equal(t, "boleta-In Rainbows.jpeg", filename)
	assert.Equal(t, "jpeg-bytes", buf.String())
	assert.Equal(t, [][2]string{{"boleta-export", "download"}}, tracker.events)
}

func TestExport_TracksStampWhenSet(t *testing.T) {
	tracker := &mockTracker{}
	p := NewPipeline(&mockRenderer{mounted: true, data: []byte("x")}, tracker)

	stamp := domain.StampPerfect
	var buf bytes.Buffer
	_, err := p.Export(context.Background(), certWith(&domain.Album{Name: "A"}, &stamp), &buf)

	require.NoError(t, err)
	require.Len(t, tracker.events, 2)
	assert.Equal(t, [2]string{"boleta-export", "download"}, tracker.events[0])
	assert.Equal(t, [2]string{"boleta-export", "stamp:perfect"}, tracker.events[1])
}

func TestExport_UnmountedEmitsNothing(t *testing.T) {
	tracker := &mockTracker{}
	p := NewPipeline(&mockRenderer{mounted: false}, tracker)

	var buf bytes.Buffer
	filename, err := p.Export(context.Background(), certWith(&domain.Album{Name: "A"}, nil), &buf)

	require.NoError(t, err)
	assert.Empty(t, filename)
	assert.Zero(t, buf.Len())
	assert.Empty(t, tracker.events)
}

func TestExport_NilTrackerIsSafe(t *testing.T) {
	p := NewPipeline(&mockRenderer{mounted: true, data: []byte("x")}, nil)

	var buf bytes.Buffer
	_, err := p.Export(context.Background(), certWith(&domain.Album{Name: "A"}, nil), &buf)

	require.NoError(t, err)
}
