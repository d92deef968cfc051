package domain

import "time"

// CollectionKind labels the two dated album collections the club runs.
// The labels appear verbatim in exported archive filenames.
type CollectionKind string

const (
	KindBillboard CollectionKind = "cartelera"
	KindReview    CollectionKind = "review-friday"
)

// BillboardAlbum schedules one album on a billboard for a given day.
type BillboardAlbum struct {
	UUID      string    `json:"uuid"`
	Date      time.Time `json:"date"`
	AlbumID   string    `json:"albumId"`
	AlbumData *Album    `json:"albumData,omitempty"`
}

// Billboard is a dated collection of albums for a public display cycle.
// At most one billboard is active at a time.
type Billboard struct {
	UUID      string           `json:"uuid"`
	StartDate time.Time        `json:"startDate"`
	EndDate   time.Time        `json:"endDate"`
	IsActive  bool             `json:"isActive"`
	Albums    []BillboardAlbum `json:"albums"`
}

// ReviewAlbum is one album of a review collection.
type ReviewAlbum struct {
	UUID      string `json:"uuid"`
	AlbumID   string `json:"albumId"`
	AlbumData *Album `json:"albumData,omitempty"`
}

// Review is a dated collection of albums for a group-review cycle.
type Review struct {
	UUID      string        `json:"uuid"`
	StartDate time.Time     `json:"startDate"`
	EndDate   time.Time     `json:"endDate"`
	IsActive  bool          `json:"isActive"`
	Albums    []ReviewAlbum `json:"albums"`
}

// Collection is the normalized view batch exports operate on: an ordered
// album list plus the date range the archive is named after.
type Collection struct {
	Kind      CollectionKind
	StartDate time.Time
	EndDate   time.Time
	Albums    []*Album
}

// Collection flattens a billboard into its export view. Albums keep their
// scheduled order; entries without hydrated album data are skipped.
func (b *Billboard) Collection() Collection {
	col := Collection{
		Kind:      KindBillboard,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
	}
	for i := range b.Albums {
		if b.Albums[i].AlbumData != nil {
			col.Albums = append(col.Albums, b.Albums[i].AlbumData)
		}
	}
	return col
}

// Collection flattens a review collection into its export view.
func (r *Review) Collection() Collection {
	col := Collection{
		Kind:      KindReview,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
	for i := range r.Albums {
		if r.Albums[i].AlbumData != nil {
			col.Albums = append(col.Albums, r.Albums[i].AlbumData)
		}
	}
	return col
}

// BillboardPayload is the create/update request body for billboards.
type BillboardPayload struct {
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
	Albums    []struct {
		Date    time.Time `json:"date" binding:"required"`
		AlbumID string    `json:"albumId" binding:"required"`
	} `json:"albums" binding:"required"`
}

// ReviewPayload is the create/update request body for review collections.
type ReviewPayload struct {
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
	Albums    []struct {
		AlbumID string `json:"albumId" binding:"required"`
	} `json:"albums" binding:"required"`
}

// Session is one authenticated curator session.
type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}
