// Package store persists collections, cached catalog albums and login
// sessions in a sqlite database file.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foolclub/boleta-api/internal/domain"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// Store represents our sqlite3 database file.
type Store struct{ db *gorm.DB }

// Open returns a connection to a migrated sqlite3 database file on disk,
// creating the file and running migrations if necessary.
func Open(filename string) (*Store, error) {
	gdb, err := gorm.Open(sqlite.Open(filename), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening db file at '%s': %w", filename, err)
	}

	if err := gdb.AutoMigrate(
		&billboardRecord{},
		&billboardAlbumRecord{},
		&reviewRecord{},
		&reviewAlbumRecord{},
		&albumRecord{},
		&sessionRecord{},
	); err != nil {
		return nil, fmt.Errorf("error migrating db at '%s': %w", filename, err)
	}

	return &Store{db: gdb}, nil
}

// -- Records -----------------------------------------------------------------

type billboardRecord struct {
	UUID      string `gorm:"primaryKey"`
	StartDate time.Time
	EndDate   time.Time
	IsActive  bool
	Albums    []billboardAlbumRecord `gorm:"foreignKey:BillboardUUID;constraint:OnDelete:CASCADE"`
}

type billboardAlbumRecord struct {
	UUID          string `gorm:"primaryKey"`
	BillboardUUID string `gorm:"index"`
	Position      int
	Date          time.Time
	AlbumID       string
}

type reviewRecord struct {
	UUID      string `gorm:"primaryKey"`
	StartDate time.Time
	EndDate   time.Time
	IsActive  bool
	Albums    []reviewAlbumRecord `gorm:"foreignKey:ReviewUUID;constraint:OnDelete:CASCADE"`
}

type reviewAlbumRecord struct {
	UUID       string `gorm:"primaryKey"`
	ReviewUUID string `gorm:"index"`
	Position   int
	AlbumID    string
}

// albumRecord caches one catalog album detail as its JSON payload; the
// catalog stays the source of truth for the shape.
type albumRecord struct {
	ID      string `gorm:"primaryKey"`
	Name    string
	Payload []byte
}

type sessionRecord struct {
	Token     string `gorm:"primaryKey"`
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index"`
}

// -- Billboards --------------------------------------------------------------

func (s *Store) CreateBillboard(ctx context.Context, billboard *domain.Billboard) error {
	record := toBillboardRecord(billboard)
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("error inserting billboard '%s': %w", billboard.UUID, err)
	}
	return nil
}

func (s *Store) UpdateBillboard(ctx context.Context, billboard *domain.Billboard) error {
	record := toBillboardRecord(billboard)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("billboard_uuid = ?", billboard.UUID).
			Delete(&billboardAlbumRecord{}).Error; err != nil {
			return err
		}
		return tx.Save(&record).Error
	})
	if err != nil {
		return fmt.Errorf("error updating billboard '%s': %w", billboard.UUID, err)
	}
	return nil
}

func (s *Store) DeleteBillboard(ctx context.Context, uuid string) error {
	result := s.db.WithContext(ctx).Select("Albums").
		Delete(&billboardRecord{UUID: uuid})
	if result.Error != nil {
		return fmt.Errorf("error deleting billboard '%s': %w", uuid, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Billboards(ctx context.Context) ([]domain.Billboard, error) {
	var records []billboardRecord
	if err := s.db.WithContext(ctx).
		Preload("Albums", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("start_date desc").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("error listing billboards: %w", err)
	}

	billboards := make([]domain.Billboard, 0, len(records))
	for i := range records {
		billboards = append(billboards, fromBillboardRecord(&records[i]))
	}
	return billboards, nil
}

func (s *Store) BillboardByUUID(ctx context.Context, uuid string) (*domain.Billboard, error) {
	var record billboardRecord
	err := s.db.WithContext(ctx).
		Preload("Albums", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&record, "uuid = ?", uuid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading billboard '%s': %w", uuid, err)
	}
	billboard := fromBillboardRecord(&record)
	return &billboard, nil
}

func (s *Store) ActiveBillboard(ctx context.Context) (*domain.Billboard, error) {
	var record billboardRecord
	err := s.db.WithContext(ctx).
		Preload("Albums", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&record, "is_active = ?", true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading active billboard: %w", err)
	}
	billboard := fromBillboardRecord(&record)
	return &billboard, nil
}

// SetActiveBillboard activates one billboard and deactivates every other
// in a single transaction, so exactly one is active afterwards.
func (s *Store) SetActiveBillboard(ctx context.Context, uuid string) (*domain.Billboard, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&billboardRecord{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		result := tx.Model(&billboardRecord{}).
			Where("uuid = ?", uuid).
			Update("is_active", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error activating billboard '%s': %w", uuid, err)
	}
	return s.BillboardByUUID(ctx, uuid)
}

func toBillboardRecord(billboard *domain.Billboard) billboardRecord {
	record := billboardRecord{
		UUID:      billboard.UUID,
		StartDate: billboard.StartDate,
		EndDate:   billboard.EndDate,
		IsActive:  billboard.IsActive,
	}
	for i, album := range billboard.Albums {
		record.Albums = append(record.Albums, billboardAlbumRecord{
			UUID:          album.UUID,
			BillboardUUID: billboard.UUID,
			Position:      i,
			Date:          album.Date,
			AlbumID:       album.AlbumID,
		})
	}
	return record
}

func fromBillboardRecord(record *billboardRecord) domain.Billboard {
	billboard := domain.Billboard{
		UUID:      record.UUID,
		StartDate: record.StartDate,
		EndDate:   record.EndDate,
		IsActive:  record.IsActive,
	}
	for _, album := range record.Albums {
		billboard.Albums = append(billboard.Albums, domain.BillboardAlbum{
			UUID:    album.UUID,
			Date:    album.Date,
			AlbumID: album.AlbumID,
		})
	}
	return billboard
}

// -- Reviews -----------------------------------------------------------------

func (s *Store) CreateReview(ctx context.Context, review *domain.Review) error {
	record := toReviewRecord(review)
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("error inserting review '%s': %w", review.UUID, err)
	}
	return nil
}

func (s *Store) UpdateReview(ctx context.Context, review *domain.Review) error {
	record := toReviewRecord(review)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_uuid = ?", review.UUID).
			Delete(&reviewAlbumRecord{}).Error; err != nil {
			return err
		}
		return tx.Save(&record).Error
	})
	if err != nil {
		return fmt.Errorf("error updating review '%s': %w", review.UUID, err)
	}
	return nil
}

func (s *Store) DeleteReview(ctx context.Context, uuid string) error {
	result := s.db.WithContext(ctx).Select("Albums").
		Delete(&reviewRecord{UUID: uuid})
	if result.Error != nil {
		return fmt.Errorf("error deleting review '%s': %w", uuid, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Reviews(ctx context.Context) ([]domain.Review, error) {
	var records []reviewRecord
	if err := s.db.WithContext(ctx).
		Preload("Albums", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("start_date desc").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("error listing reviews: %w", err)
	}

	reviews := make([]domain.Review, 0, len(records))
	for i := range records {
		reviews = append(reviews, fromReviewRecord(&records[i]))
	}
	return reviews, nil
}

func (s *Store) ReviewByUUID(ctx context.Context, uuid string) (*domain.Review, error) {
	var record reviewRecord
	err := s.db.WithContext(ctx).
		Preload("Albums", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&record, "uuid = ?", uuid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading review '%s': %w", uuid, err)
	}
	review := fromReviewRecord(&record)
	return &review, nil
}

func toReviewRecord(review *domain.Review) reviewRecord {
	record := reviewRecord{
		UUID:      review.UUID,
		StartDate: review.StartDate,
		EndDate:   review.EndDate,
		IsActive:  review.IsActive,
	}
	for i, album := range review.Albums {
		record.Albums = append(record.Albums, reviewAlbumRecord{
			UUID:       album.UUID,
			ReviewUUID: review.UUID,
			Position:   i,
			AlbumID:    album.AlbumID,
		})
	}
	return record
}

func fromReviewRecord(record *reviewRecord) domain.Review {
	review := domain.Review{
		UUID:      record.UUID,
		StartDate: record.StartDate,
		EndDate:   record.EndDate,
		IsActive:  record.IsActive,
	}
	for _, album := range record.Albums {
		review.Albums = append(review.Albums, domain.ReviewAlbum{
			UUID:    album.UUID,
			AlbumID: album.AlbumID,
		})
	}
	return review
}

// -- Album cache -------------------------------------------------------------

func (s *Store) Album(ctx context.Context, id string) (*domain.Album, error) {
	var record albumRecord
	err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading album '%s': %w", id, err)
	}

	var album domain.Album
	if err := json.Unmarshal(record.Payload, &album); err != nil {
		return nil, fmt.Errorf("error decoding cached album '%s': %w", id, err)
	}
	return &album, nil
}

func (s *Store) SaveAlbum(ctx context.Context, album *domain.Album) error {
	payload, err := json.Marshal(album)
	if err != nil {
		return fmt.Errorf("error encoding album '%s': %w", album.ID, err)
	}
	record := albumRecord{ID: album.ID, Name: album.Name, Payload: payload}
	if err := s.db.WithContext(ctx).Save(&record).Error; err != nil {
		return fmt.Errorf("error caching album '%s': %w", album.ID, err)
	}
	return nil
}

// -- Sessions ----------------------------------------------------------------

func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	record := sessionRecord{
		Token:     session.Token,
		Username:  session.Username,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("error inserting session: %w", err)
	}
	return nil
}

func (s *Store) SessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	var record sessionRecord
	err := s.db.WithContext(ctx).
		First(&record, "token = ? AND expires_at > ?", token, time.Now()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading session: %w", err)
	}
	return &domain.Session{
		Token:     record.Token,
		Username:  record.Username,
		CreatedAt: record.CreatedAt,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	if err := s.db.WithContext(ctx).
		Delete(&sessionRecord{Token: token}).Error; err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

func (s *Store) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&sessionRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("error deleting expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
