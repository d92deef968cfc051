package collections

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/foolclub/boleta-api/internal/domain"
	"github.com/foolclub/boleta-api/internal/ports"
)

// ErrInvalidDates marks a payload whose date range cannot be scheduled.
var ErrInvalidDates = errors.New("invalid collection dates")

// Service implements billboard and review CRUD over the store, hydrating
// album ids into full catalog album data on reads. Album details are read
// through a store-backed cache so listing collections does not hammer the
// catalog API.
type Service struct {
	store   ports.CollectionStore
	catalog ports.CatalogProvider
}

// NewService creates a collections service.
func NewService(store ports.CollectionStore, catalog ports.CatalogProvider) *Service {
	return &Service{store: store, catalog: catalog}
}

// Album reads one album through the cache, falling back to the catalog
// and persisting the result on a miss.
func (s *Service) Album(ctx context.Context, id string) (*domain.Album, error) {
	if cached, err := s.store.Album(ctx, id); err == nil {
		return cached, nil
	}

	album, err := s.catalog.AlbumByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch album %s: %w", id, err)
	}
	if err := s.store.SaveAlbum(ctx, album); err != nil {
		// Cache writes are best effort; the caller still gets the album.
		log.Printf("[collections] caching album %s failed: %v", id, err)
	}
	return album, nil
}

// -- Billboards --------------------------------------------------------------

// CreateBillboard validates and persists a new billboard.
func (s *Service) CreateBillboard(ctx context.Context, payload domain.BillboardPayload) (*domain.Billboard, error) {
	if err := validateDates(payload.StartDate, payload.EndDate); err != nil {
		return nil, err
	}

	billboard := &domain.Billboard{
		UUID:      uuid.NewString(),
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
	}
	for _, entry := range payload.Albums {
		billboard.Albums = append(billboard.Albums, domain.BillboardAlbum{
			UUID:    uuid.NewString(),
			Date:    entry.Date,
			AlbumID: entry.AlbumID,
		})
	}

	if err := s.store.CreateBillboard(ctx, billboard); err != nil {
		return nil, fmt.Errorf("create billboard: %w", err)
	}
	return billboard, nil
}

// UpdateBillboard replaces a billboard's dates and album schedule.
func (s *Service) UpdateBillboard(ctx context.Context, id string, payload domain.BillboardPayload) (*domain.Billboard, error) {
	if err := validateDates(payload.StartDate, payload.EndDate); err != nil {
		return nil, err
	}

	existing, err := s.store.BillboardByUUID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.StartDate = payload.StartDate
	existing.EndDate = payload.EndDate
	existing.Albums = existing.Albums[:0]
	for _, entry := range payload.Albums {
		existing.Albums = append(existing.Albums, domain.BillboardAlbum{
			UUID:    uuid.NewString(),
			Date:    entry.Date,
			AlbumID: entry.AlbumID,
		})
	}

	if err := s.store.UpdateBillboard(ctx, existing); err != nil {
		return nil, fmt.Errorf("update billboard %s: %w", id, err)
	}
	return existing, nil
}

// DeleteBillboard removes a billboard.
func (s *Service) DeleteBillboard(ctx context.Context, id string) error {
	return s.store.DeleteBillboard(ctx, id)
}

// Billboards lists every billboard with hydrated album data.
func (s *Service) Billboards(ctx context.Context) ([]domain.Billboard, error) {
	billboards, err := s.store.Billboards(ctx)
	if err != nil {
		return nil, err
	}
	for i := range billboards {
		if err := s.hydrateBillboard(ctx, &billboards[i]); err != nil {
			return nil, err
		}
	}
	return billboards, nil
}

// BillboardByUUID returns one billboard with hydrated album data.
func (s *Service) BillboardByUUID(ctx context.Context, id string) (*domain.Billboard, error) {
	billboard, err := s.store.BillboardByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.hydrateBillboard(ctx, billboard); err != nil {
		return nil, err
	}
	return billboard, nil
}

// ActiveBillboard returns the active billboard with hydrated album data.
func (s *Service) ActiveBillboard(ctx context.Context) (*domain.Billboard, error) {
	billboard, err := s.store.ActiveBillboard(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.hydrateBillboard(ctx, billboard); err != nil {
		return nil, err
	}
	return billboard, nil
}

// ActivateBillboard marks one billboard active, deactivating the rest.
func (s *Service) ActivateBillboard(ctx context.Context, id string) (*domain.Billboard, error) {
	billboard, err := s.store.SetActiveBillboard(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.hydrateBillboard(ctx, billboard); err != nil {
		return nil, err
	}
	return billboard, nil
}

func (s *Service) hydrateBillboard(ctx context.Context, billboard *domain.Billboard) error {
	for i := range billboard.Albums {
		album, err := s.Album(ctx, billboard.Albums[i].AlbumID)
		if err != nil {
			return err
		}
		billboard.Albums[i].AlbumData = album
	}
	return nil
}

// -- Reviews -----------------------------------------------------------------

// CreateReview validates and persists a new review collection.
func (s *Service) CreateReview(ctx context.Context, payload domain.ReviewPayload) (*domain.Review, error) {
	if err := validateDates(payload.StartDate, payload.EndDate); err != nil {
		return nil, err
	}

	review := &domain.Review{
		UUID:      uuid.NewString(),
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
	}
	for _, entry := range payload.Albums {
		review.Albums = append(review.Albums, domain.ReviewAlbum{
			UUID:    uuid.NewString(),
			AlbumID: entry.AlbumID,
		})
	}

	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

// UpdateReview replaces a review collection's dates and albums.
func (s *Service) UpdateReview(ctx context.Context, id string, payload domain.ReviewPayload) (*domain.Review, error) {
	if err := validateDates(payload.StartDate, payload.EndDate); err != nil {
		return nil, err
	}

	existing, err := s.store.ReviewByUUID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.StartDate = payload.StartDate
	existing.EndDate = payload.EndDate
	existing.Albums = existing.Albums[:0]
	for _, entry := range payload.Albums {
		existing.Albums = append(existing.Albums, domain.ReviewAlbum{
			UUID:    uuid.NewString(),
			AlbumID: entry.AlbumID,
		})
	}

	if err := s.store.UpdateReview(ctx, existing); err != nil {
		return nil, fmt.Errorf("update review %s: %w", id, err)
	}
	return existing, nil
}

// DeleteReview removes a review collection.
func (s *Service) DeleteReview(ctx context.Context, id string) error {
	return s.store.DeleteReview(ctx, id)
}

// Reviews lists every review collection with hydrated album data.
func (s *Service) Reviews(ctx context.Context) ([]domain.Review, error) {
	reviews, err := s.store.Reviews(ctx)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		if err := s.hydrateReview(ctx, &reviews[i]); err != nil {
			return nil, err
		}
	}
	return reviews, nil
}

// ReviewByUUID returns one review collection with hydrated album data.
func (s *Service) ReviewByUUID(ctx context.Context, id string) (*domain.Review, error) {
	review, err := s.store.ReviewByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.hydrateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *Service) hydrateReview(ctx context.Context, review *domain.Review) error {
	for i := range review.Albums {
		album, err := s.Album(ctx, review.Albums[i].AlbumID)
		if err != nil {
			return err
		}
		review.Albums[i].AlbumData = album
	}
	return nil
}

func validateDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidDates)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: endDate %s precedes startDate %s", ErrInvalidDates,
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return nil
}

// -- Export sources ----------------------------------------------------------

// BillboardSource adapts the service into the batch exporter's billboard
// collection source.
type BillboardSource struct{ Service *Service }

func (s BillboardSource) Kind() domain.CollectionKind { return domain.KindBillboard }

func (s BillboardSource) CollectionByUUID(ctx context.Context, id string) (*domain.Collection, error) {
	billboard, err := s.Service.BillboardByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	col := billboard.Collection()
	return &col, nil
}

// ReviewSource adapts the service into the batch exporter's review
// collection source.
type ReviewSource struct{ Service *Service }

func (s ReviewSource) Kind() domain.CollectionKind { return domain.KindReview }

func (s ReviewSource) CollectionByUUID(ctx context.Context, id string) (*domain.Collection, error) {
	review, err := s.Service.ReviewByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	col := review.Collection()
	return &col, nil
}
