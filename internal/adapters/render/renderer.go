package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"net/http"

	_ "image/png" // album art decoding

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/foolclub/boleta-api/internal/domain"
)

const (
	// Logical card size. All layout below is in these units; the raster
	// is produced at renderScale times the logical size.
	logicalWidth  = 800
	logicalHeight = 790
	renderScale   = 2

	jpegQuality = 95

	// The track grid always shows this many rows; short albums are
	// padded with blank rows so every boleta has the same footprint.
	gridRows = 19
	rowH     = 22

	margin  = 16
	artSize = 205
)

var stampColors = map[domain.Stamp]string{
	domain.StampApproved:    "#4CAF50",
	domain.StampNotApproved: "#FF0000",
	domain.StampPerfect:     "#FFC107",
	domain.StampMeh:         "#FF9800",
	domain.StampZzz:         "#90A4AE",
	domain.StampPrism:       "#9C27B0",
}

// Renderer draws boleta certificates onto the shared render slot and
// encodes them as JPEG. Album art is prefetched over HTTP before any
// drawing starts, so a capture never races an image load.
type Renderer struct {
	target *Target
	client *http.Client

	label   font.Face // small uppercase field labels
	body    font.Face // track names, durations
	value   font.Face // field values, averages
	heading font.Face // album title
	display font.Face // the big overall score
}

// New creates a renderer with a mounted slot. If client is nil,
// http.DefaultClient is used for artwork fetches.
func New(client *http.Client) (*Renderer, error) {
	if client == nil {
		client = http.DefaultClient
	}

	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}

	r := &Renderer{target: NewTarget(), client: client}
	for _, f := range []struct {
		dst  *font.Face
		src  *opentype.Font
		size float64
	}{
		{&r.label, regular, 10},
		{&r.body, regular, 13},
		{&r.value, bold, 16},
		{&r.heading, bold, 24},
		{&r.display, bold, 40},
	} {
		face, err := opentype.NewFace(f.src, &opentype.FaceOptions{
			Size:    f.size * renderScale,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("build %gpt face: %w", f.size, err)
		}
		*f.dst = face
	}
	return r, nil
}

// Target exposes the render slot, mainly so wiring and tests can observe
// or unmount it.
func (r *Renderer) Target() *Target {
	return r.target
}

// Mounted reports whether the render slot is ready.
func (r *Renderer) Mounted() bool {
	return r.target.Mounted()
}

// RenderAndCapture draws the certificate and returns the encoded JPEG.
// The slot is raised for the capture and lowered again on every path.
func (r *Renderer) RenderAndCapture(ctx context.Context, cert domain.Certificate) ([]byte, error) {
	if cert.Album == nil {
		return nil, errors.New("render: certificate has no album")
	}

	release := r.target.acquire()
	defer release()

	art, err := r.fetchArtwork(ctx, cert.Album.ArtworkURL())
	if err != nil {
		return nil, fmt.Errorf("load artwork for %q: %w", cert.Album.Name, err)
	}

	dc := r.draw(cert, art)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode boleta: %w", err)
	}
	return buf.Bytes(), nil
}

// fetchArtwork downloads and decodes the primary album art. An album
// without artwork renders an empty frame; a fetch or decode failure is a
// capture failure.
func (r *Renderer) fetchArtwork(ctx context.Context, url string) (image.Image, error) {
	if url == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artwork fetch returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode artwork: %w", err)
	}
	return img, nil
}

// px converts logical units to raster pixels.
func px(v float64) float64 { return v * renderScale }

// draw paints the whole card. Layout mirrors the printed boleta: framed
// art and metadata block on top, the 19-row track grid in the middle,
// averages and the overall score at the bottom, stamps overlaid top right.
func (r *Renderer) draw(cert domain.Certificate, art image.Image) *gg.Context {
	dc := gg.NewContext(logicalWidth*renderScale, logicalHeight*renderScale)
	dc.SetHexColor("#FFFFFF")
	dc.Clear()
	dc.SetHexColor("#28231D")
	dc.SetLineWidth(renderScale)

	r.drawHeader(dc, cert, art)
	r.drawGrid(dc, cert)
	r.drawFooter(dc, cert)
	r.drawStamps(dc, cert)
	return dc
}

func (r *Renderer) drawHeader(dc *gg.Context, cert domain.Certificate, art image.Image) {
	album := cert.Album

	// Framed artwork.
	frame := float64(artSize + 16)
	dc.DrawRectangle(px(margin), px(margin), px(frame), px(frame))
	dc.Stroke()
	if art != nil {
		scaled := image.NewRGBA(image.Rect(0, 0, int(px(artSize)), int(px(artSize))))
		draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), art, art.Bounds(), draw.Over, nil)
		dc.DrawImage(scaled, int(px(margin+8)), int(px(margin+8)))
	}

	// Metadata panel, sharing the artwork frame's right edge.
	panelX := margin + frame
	panelW := logicalWidth - margin - panelX
	dc.DrawRectangle(px(panelX), px(margin), px(panelW), px(frame))
	dc.Stroke()

	fieldX := panelX + 12
	fields := []struct {
		label string
		value string
		face  font.Face
	}{
		{"ALBUM TITLE", album.Name, r.heading},
		{"ARTIST", album.ArtistLine(), r.value},
		{"RELEASE DATE", album.ReleaseDate, r.value},
		{"TRACKS", fmt.Sprintf("%d", album.TotalTracks), r.value},
	}
	y := margin + 28.0
	for _, f := range fields {
		dc.SetFontFace(r.label)
		dc.SetHexColor("#28231D")
		dc.DrawString(f.label, px(fieldX), px(y))
		dc.SetFontFace(f.face)
		value := truncate(dc, f.value, px(panelW-140))
		dc.DrawString(value, px(fieldX), px(y+24))
		y += 52
	}
}

func (r *Renderer) drawGrid(dc *gg.Context, cert domain.Certificate) {
	const (
		gridTop = margin + artSize + 16 + 24 // below the header block
		numX    = 28.0
		nameX   = 60.0
		timeX   = 520.0
		heartX  = 600.0
		starsX  = 636.0
	)

	// Column headings.
	dc.SetFontFace(r.label)
	dc.SetHexColor("#28231D")
	dc.DrawString("#", px(numX), px(gridTop))
	dc.DrawString("TRACK", px(nameX), px(gridTop))
	dc.DrawString("TIME", px(timeX), px(gridTop))
	dc.DrawString("FAV", px(heartX-4), px(gridTop))
	dc.DrawString("SCORE", px(starsX+24), px(gridTop))

	tracks := cert.Album.Tracks
	for row := 0; row < gridRows; row++ {
		y := float64(gridTop) + 10 + float64(row+1)*rowH

		if row >= len(tracks) {
			// Padding row: just the ruled line.
			dc.SetHexColor("#28231D22")
			dc.DrawLine(px(margin), px(y), px(logicalWidth-margin), px(y))
			dc.Stroke()
			continue
		}

		track := tracks[row]
		rating := cert.Ratings[track.ID]

		if rating.Highlighted {
			dc.SetHexColor("#FFF3C4")
			dc.DrawRectangle(px(margin), px(y-rowH+6), px(logicalWidth-2*margin), px(rowH))
			dc.Fill()
		}

		dc.SetHexColor("#28231D")
		dc.SetFontFace(r.body)
		dc.DrawString(fmt.Sprintf("%d", track.TrackNumber), px(numX), px(y))

		name := track.Name
		if track.Explicit {
			name += "  [E]"
		}
		dc.DrawString(truncate(dc, name, px(timeX-nameX-20)), px(nameX), px(y))
		dc.DrawString(formatDuration(track.DurationMS), px(timeX), px(y))

		drawHeart(dc, px(heartX), px(y-4), px(6), rating.Favorite == 1)
		for star := 0; star < 5; star++ {
			drawStar(dc, px(starsX+float64(star)*20), px(y-4), px(7), star < rating.Score)
		}

		dc.SetHexColor("#28231D22")
		dc.DrawLine(px(margin), px(y+6), px(logicalWidth-margin), px(y+6))
		dc.Stroke()
	}
}

func (r *Renderer) drawFooter(dc *gg.Context, cert domain.Certificate) {
	const footerTop = logicalHeight - 84

	averages := []struct {
		label string
		value float64
	}{
		{"HEARTS AVG", cert.Averages.Hearts},
		{"STARS AVG", cert.Averages.Stars},
		{"TOTAL AVG", cert.Averages.Total},
	}
	x := float64(margin) + 8
	for _, avg := range averages {
		dc.SetFontFace(r.label)
		dc.SetHexColor("#28231D")
		dc.DrawString(avg.label, px(x), px(footerTop+16))
		dc.SetFontFace(r.value)
		dc.DrawString(fmt.Sprintf("%.1f", avg.value), px(x), px(footerTop+44))
		x += 140
	}

	// Overall score box.
	const boxW, boxH = 150.0, 64.0
	boxX := float64(logicalWidth - margin - boxW)
	dc.DrawRectangle(px(boxX), px(footerTop), px(boxW), px(boxH))
	dc.Stroke()
	dc.SetFontFace(r.label)
	dc.DrawString("ALBUM SCORE", px(boxX+10), px(footerTop+16))
	dc.SetFontFace(r.display)
	if cert.AlbumScore != nil {
		dc.DrawString(fmt.Sprintf("%.1f", *cert.AlbumScore), px(boxX+10), px(footerTop+56))
	} else {
		dc.DrawString("—", px(boxX+10), px(footerTop+56))
	}
}

func (r *Renderer) drawStamps(dc *gg.Context, cert domain.Certificate) {
	if cert.AlbumStamp != nil {
		color, ok := stampColors[*cert.AlbumStamp]
		if !ok {
			color = "#28231D"
		}
		cx, cy := 660.0, 120.0
		if cert.BraveStamp {
			cx -= 80
		}
		drawBadge(dc, r.label, px(cx), px(cy), px(54), color, string(*cert.AlbumStamp))
	}

	if cert.BraveStamp {
		dc.Push()
		dc.RotateAbout(gg.Radians(5), px(716), px(116))
		drawBadge(dc, r.label, px(716), px(116), px(44), "#E53935", "valiente")
		dc.Pop()
	}
}

// drawBadge paints a ring stamp with its tag across the middle.
func drawBadge(dc *gg.Context, face font.Face, cx, cy, radius float64, hex, tag string) {
	dc.SetHexColor(hex)
	dc.SetLineWidth(3 * renderScale)
	dc.DrawCircle(cx, cy, radius)
	dc.Stroke()
	dc.DrawCircle(cx, cy, radius*0.82)
	dc.Stroke()
	dc.SetFontFace(face)
	dc.DrawStringAnchored(stampLabel(tag), cx, cy, 0.5, 0.5)
	dc.SetLineWidth(renderScale)
	dc.SetHexColor("#28231D")
}

func stampLabel(tag string) string {
	out := make([]rune, 0, len(tag))
	for _, r := range tag {
		if r == '_' {
			r = ' '
		}
		if 'a' <= r && r <= 'z' {
			r -= 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}

// drawStar paints a five-point star, filled for earned points.
func drawStar(dc *gg.Context, cx, cy, r float64, filled bool) {
	const points = 5
	inner := r * 0.45
	for i := 0; i <= points*2; i++ {
		radius := r
		if i%2 == 1 {
			radius = inner
		}
		angle := gg.Radians(float64(i)*36 - 90)
		x := cx + radius*math.Cos(angle)
		y := cy + radius*math.Sin(angle)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	if filled {
		dc.SetHexColor("#FFC107")
		dc.Fill()
	} else {
		dc.SetHexColor("#28231D66")
		dc.Stroke()
	}
	dc.SetHexColor("#28231D")
}

// drawHeart paints the favorite marker: two lobes over a point.
func drawHeart(dc *gg.Context, cx, cy, r float64, filled bool) {
	if filled {
		dc.SetHexColor("#E53935")
	} else {
		dc.SetHexColor("#28231D33")
	}
	lobe := r * 0.55
	dc.DrawCircle(cx-lobe, cy-r*0.2, lobe)
	dc.Fill()
	dc.DrawCircle(cx+lobe, cy-r*0.2, lobe)
	dc.Fill()
	dc.MoveTo(cx-r*1.05, cy)
	dc.LineTo(cx+r*1.05, cy)
	dc.LineTo(cx, cy+r)
	dc.ClosePath()
	dc.Fill()
	dc.SetHexColor("#28231D")
}

// truncate shortens s with an ellipsis until it fits maxWidth under the
// context's current font face.
func truncate(dc *gg.Context, s string, maxWidth float64) string {
	if w, _ := dc.MeasureString(s); w <= maxWidth {
		return s
	}
	runes := []rune(s)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if w, _ := dc.MeasureString(candidate); w <= maxWidth {
			return candidate
		}
	}
	return "…"
}

func formatDuration(ms int) string {
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
