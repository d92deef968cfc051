package export

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync/atomic"
	"time"

	"github.com/foolclub/boleta-api/internal/domain"
)

// ErrBusy is returned when a batch export is already running. The render
// slot is a single shared resource, so batches never overlap.
var ErrBusy = errors.New("a boleta batch export is already running")

// ArchiveFilename names the zip bundle for a collection export, e.g.
// "boletas-cartelera-14-03-20-03.zip".
func ArchiveFilename(col domain.Collection) string {
	return fmt.Sprintf("boletas-%s-%s-%s.zip",
		col.Kind,
		col.StartDate.Format("02-01"),
		col.EndDate.Format("02-01"))
}

// Orchestrator produces one archive of blank boletas per collection. It
// walks the album list strictly in order, reusing the pipeline's single
// render slot, and tolerates per-album capture failures.
type Orchestrator struct {
	pipeline *Pipeline
	settle   time.Duration
	busy     atomic.Bool
}

// NewOrchestrator creates a batch orchestrator. settle is the pause
// between consecutive captures, giving the render slot time to settle
// after remounting; zero disables it.
func NewOrchestrator(pipeline *Pipeline, settle time.Duration) *Orchestrator {
	return &Orchestrator{pipeline: pipeline, settle: settle}
}

// Busy reports whether a batch export is currently running, so the
// triggering control can be disabled while one is in flight.
func (o *Orchestrator) Busy() bool {
	return o.busy.Load()
}

type archiveEntry struct {
	name string
	data []byte
}

// ExportCollection generates a blank boleta per album, bundles the
// successful captures into a zip written to w, and returns the archive
// filename. Individual capture failures are logged and skipped; only a
// failure to finalize the archive itself is returned to the caller.
// The busy flag is released on every exit path.
func (o *Orchestrator) ExportCollection(ctx context.Context, col domain.Collection, w io.Writer) (string, error) {
	if !o.busy.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer o.busy.Store(false)

	total := len(col.Albums)
	log.Printf("[batch] exporting %d boletas for %s %s - %s",
		total, col.Kind, col.StartDate.Format("02-01"), col.EndDate.Format("02-01"))

	var entries []archiveEntry
	for i, album := range col.Albums {
		if err := o.settleDown(ctx, i); err != nil {
			return "", err
		}

		data, err := o.pipeline.Capture(ctx, domain.BlankCertificate(album))
		if err != nil {
			log.Printf("[batch] skipping %q: %v", album.Name, err)
			continue
		}
		if data == nil {
			log.Printf("[batch] render slot not mounted, skipping %q", album.Name)
			continue
		}

		name := Filename(album.Name)
		entries = append(entries, archiveEntry{name: name, data: data})
		log.Printf("[batch] boleta %d/%d added: %s", i+1, total, name)
	}

	if err := writeArchive(w, entries); err != nil {
		return "", fmt.Errorf("finalize archive: %w", err)
	}

	log.Printf("[batch] done: %d/%d boletas bundled", len(entries), total)
	return ArchiveFilename(col), nil
}

// settleDown waits the configured delay before every capture after the
// first, honoring cancellation between items.
func (o *Orchestrator) settleDown(ctx context.Context, index int) error {
	if index == 0 || o.settle <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(o.settle)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// writeArchive serializes the accumulated entries as a zip stream.
func writeArchive(w io.Writer, entries []archiveEntry) error {
	zw := zip.NewWriter(w)
	for _, entry := range entries {
		f, err := zw.Create(entry.name)
		if err != nil {
			return fmt.Errorf("create entry %q: %w", entry.name, err)
		}
		if _, err := f.Write(entry.data); err != nil {
			return fmt.Errorf("write entry %q: %w", entry.name, err)
		}
	}
	return zw.Close()
}
