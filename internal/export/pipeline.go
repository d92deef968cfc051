package export

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/foolclub/boleta-api/internal/domain"
	"github.com/foolclub/boleta-api/internal/ports"
)

// Filename names a personal (rated) boleta image.
func Filename(albumName string) string {
	return fmt.Sprintf("boleta-%s.jpeg", albumName)
}

// BlankFilename names a blank-template boleta image. The distinct
// "boleta-empty-" prefix is a deliberate compatibility artifact: template
// exports have always been named this way.
func BlankFilename(albumName string) string {
	return fmt.Sprintf("boleta-empty-%s.jpeg", albumName)
}

// Pipeline converts a certificate into a downloadable JPEG. It is shared
// by the single-export path and the batch orchestrator; the renderer
// underneath serializes captures on its single render slot.
type Pipeline struct {
	renderer ports.Renderer
	tracker  ports.EventTracker
}

// NewPipeline creates a pipeline over the given renderer. The tracker may
// be nil, in which case no analytics events are emitted.
func NewPipeline(renderer ports.Renderer, tracker ports.EventTracker) *Pipeline {
	return &Pipeline{renderer: renderer, tracker: tracker}
}

// Capture rasterizes one certificate and returns the encoded bytes.
// An unmounted renderer is normal UI timing, not an error: the result is
// (nil, nil) and no artifact is produced. Rasterization failures are
// logged here so every caller shares one diagnostic path.
func (p *Pipeline) Capture(ctx context.Context, cert domain.Certificate) ([]byte, error) {
	if p.renderer == nil || !p.renderer.Mounted() {
		return nil, nil
	}

	data, err := p.renderer.RenderAndCapture(ctx, cert)
	if err != nil {
		log.Printf("[export] capture failed for %q: %v", cert.Album.Name, err)
		return nil, err
	}
	return data, nil
}

// Export captures the certificate and writes it to w, returning the
// download filename. This is the user-facing single-export path: it is
// the only one that emits analytics events. A ("", nil) return with
// nothing written means the renderer was not mounted.
func (p *Pipeline) Export(ctx context.Context, cert domain.Certificate, w io.Writer) (string, error) {
	data, err := p.Capture(ctx, cert)
	if err != nil {
		return "", err
	}
	if data == nil {
		return "", nil
	}

	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("deliver boleta: %w", err)
	}

	p.trackExport(cert)
	return Filename(cert.Album.Name), nil
}

// trackExport emits the fire-and-forget analytics events: one per export,
// plus one naming the stamp when a stamp was chosen.
func (p *Pipeline) trackExport(cert domain.Certificate) {
	if p.tracker == nil {
		return
	}
	p.tracker.Event("boleta-export", "download")
	if cert.AlbumStamp != nil {
		p.tracker.Event("boleta-export", "stamp:"+string(*cert.AlbumStamp))
	}
}
