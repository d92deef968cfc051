package ports

import (
	"context"

	"github.com/foolclub/boleta-api/internal/domain"
)

// CatalogProvider is the driven port for the third-party music catalog.
type CatalogProvider interface {
	// SearchAlbums runs an album search. A limit <= 0 uses the provider
	// default page size.
	SearchAlbums(ctx context.Context, query string, limit int) ([]domain.Album, error)

	// AlbumByID returns the full album detail including its track list,
	// handling track pagination internally.
	AlbumByID(ctx context.Context, id string) (*domain.Album, error)

	// Token returns a short-lived catalog token the SPA can use for its
	// own search requests.
	Token(ctx context.Context) (*domain.CatalogToken, error)
}

// Renderer rasterizes boleta certificates. Implementations own a single
// render slot; calls are serialized by the implementation, never the caller.
type Renderer interface {
	// Mounted reports whether the render slot is ready. Capturing against
	// an unmounted renderer is a no-op, not an error.
	Mounted() bool

	// RenderAndCapture draws the certificate and returns JPEG bytes.
	RenderAndCapture(ctx context.Context, cert domain.Certificate) ([]byte, error)
}

// EventTracker records product analytics events. Implementations are
// fire-and-forget: they must never block or fail the caller.
type EventTracker interface {
	Event(category, action string)
}

// CollectionStore persists billboards, review collections and the cached
// catalog albums they reference.
type CollectionStore interface {
	CreateBillboard(ctx context.Context, billboard *domain.Billboard) error
	UpdateBillboard(ctx context.Context, billboard *domain.Billboard) error
	DeleteBillboard(ctx context.Context, uuid string) error
	Billboards(ctx context.Context) ([]domain.Billboard, error)
	BillboardByUUID(ctx context.Context, uuid string) (*domain.Billboard, error)
	ActiveBillboard(ctx context.Context) (*domain.Billboard, error)
	SetActiveBillboard(ctx context.Context, uuid string) (*domain.Billboard, error)

	CreateReview(ctx context.Context, review *domain.Review) error
	UpdateReview(ctx context.Context, review *domain.Review) error
	DeleteReview(ctx context.Context, uuid string) error
	Reviews(ctx context.Context) ([]domain.Review, error)
	ReviewByUUID(ctx context.Context, uuid string) (*domain.Review, error)

	Album(ctx context.Context, id string) (*domain.Album, error)
	SaveAlbum(ctx context.Context, album *domain.Album) error
}

// SessionStore persists login sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *domain.Session) error
	SessionByToken(ctx context.Context, token string) (*domain.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}
