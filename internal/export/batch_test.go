package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foolclub/boleta-api/internal/domain"
)

func testCollection(albumNames ...string) domain.Collection {
	col := domain.Collection{
		Kind:      domain.KindBillboard,
		StartDate: time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC),
	}
	for i, name := range albumNames {
		col.Albums = append(col.Albums, &domain.Album{
			ID:   name,
			Name: name,
			Tracks: []domain.Track{
				{ID: name + "-t1", TrackNumber: i + 1, Name: "Opener"},
			},
		})
	}
	return col
}

func zipNames(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func TestArchiveFilename(t *testing.T) {
	col := testCollection()
	assert.Equal(t, "boletas-cartelera-14-03-20-03.zip", ArchiveFilename(col))

	col.Kind = domain.KindReview
	assert.Equal(t, "boletas-review-friday-14-03-20-03.zip", ArchiveFilename(col))
}

func TestExportCollection_BundlesAllInOrder(t *testing.T) {
	renderer := &mockRenderer{mounted: true, data: []byte("jpeg")}
	o := NewOrchestrator(NewPipeline(renderer, nil), 0)

	var buf bytes.Buffer
	filename, err := o.ExportCollection(context.Background(), testCollection("A", "B", "C"), &buf)

	require.NoError(t, err)
	assert.Equal(t, "boletas-cartelera-14-03-20-03.zip", filename)
	assert.Equal(t, []string{"A", "B", "C"}, renderer.captured)
	assert.Equal(t, []string{"boleta-A.jpeg", "boleta-B.jpeg", "boleta-C.jpeg"}, zipNames(t, buf.Bytes()))
}

func TestExportCollection_SkipsFailedCaptures(t *testing.T) {
	renderer := &mockRenderer{
		mounted: true,
		data:    []byte("jpeg"),
		failFor: map[string]error{"B": errors.New("capture failed")},
	}
	o := NewOrchestrator(NewPipeline(renderer, nil), 0)

	var buf bytes.Buffer
	filename, err := o.ExportCollection(context.Background(), testCollection("A", "B", "C"), &buf)

	// One failure does not sink the batch: the archive is still delivered
	// with the captures that worked.
	require.NoError(t, err)
	assert.NotEmpty(t, filename)
	assert.Equal(t, []string{"boleta-A.jpeg", "boleta-C.jpeg"}, zipNames(t, buf.Bytes()))
}

func TestExportCollection_EmptyCollection(t *testing.T) {
	renderer := &mockRenderer{mounted: true, data: []byte("jpeg")}
	o := NewOrchestrator(NewPipeline(renderer, nil), 0)

	var buf bytes.Buffer
	filename, err := o.ExportCollection(context.Background(), testCollection(), &buf)

	require.NoError(t, err)
	assert.NotEmpty(t, filename)
	assert.Empty(t, zipNames(t, buf.Bytes()))
}

func TestExportCollection_BusyWhileRunning(t *testing.T) {
	renderer := &mockRenderer{mounted: true, data: []byte("jpeg")}
	o := NewOrchestrator(NewPipeline(renderer, nil), 0)
	o.busy.Store(true)

	var buf bytes.Buffer
	_, err := o.ExportCollection(context.Background(), testCollection("A"), &buf)

	assert.ErrorIs(t, err, ErrBusy)
}

func TestExportCollection_ReleasesBusyFlag(t *testing.T) {
	renderer := &mockRenderer{mounted: true, data: []byte("jpeg")}
	o := NewOrchestrator(NewPipeline(renderer, nil), 0)

	var buf bytes.Buffer
	_, err := o.ExportCollection(context.Background(), testCollection("A"), &buf)
	require.NoError(t, err)
	assert.False(t, o.Busy())

	// A second run must be accepted once the first is done.
	buf.Reset()
	_, err = o.ExportCollection(context.Background(), testCollection("A"), &buf)
	assert.NoError(t, err)
}

func TestExportCollection_HonorsCancellation(t *testing.T) {
	renderer := &mockRenderer{mounted: true, data: []byte("jpeg")}
	o := NewOrchestrator(NewPipeline(renderer, nil), 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err := o.ExportCollection(ctx, testCollection("A", "B"), &buf)

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, o.Busy())
}

func TestExportCollection_SettleDelayBetweenItems(t *testing.T) {
	renderer := &mockRenderer{mounted: true, data: []byte("jpeg")}
	settle := 30 * time.Millisecond
	o := NewOrchestrator(NewPipeline(renderer, nil), settle)

	start := time.Now()
	var buf bytes.Buffer
	_, err := o.ExportCollection(context.Background(), testCollection("A", "B", "C"), &buf)

	require.NoError(t, err)
	// Two settle pauses: before B and before C, none before A.
	assert.GreaterOrEqual(t, time.Since(start), 2*settle)
}
