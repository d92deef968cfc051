package domain

// TrackRating is the rating state of one track on the current sheet.
// Score is 0-5 stars (0 means unrated), Favorite is a 0/1 heart flag and
// Highlighted is a purely visual emphasis that never affects the averages.
type TrackRating struct {
	Score       int  `json:"score"`
	Favorite    int  `json:"favorite"`
	Highlighted bool `json:"isHighlighted"`
}

// Averages are the three derived scores printed on a boleta.
type Averages struct {
	Hearts float64 `json:"heartsAverage"`
	Stars  float64 `json:"starsAverage"`
	Total  float64 `json:"totalAverage"`
}

// Stamp is the qualitative verdict stamped onto a boleta.
type Stamp string

const (
	StampApproved    Stamp = "approved"
	StampNotApproved Stamp = "not_approved"
	StampPerfect     Stamp = "perfect"
	StampMeh         Stamp = "meh"
	StampZzz         Stamp = "zzz"
	StampPrism       Stamp = "prism"
)

// Stamps lists every recognized stamp tag.
var Stamps = []Stamp{
	StampApproved,
	StampNotApproved,
	StampPerfect,
	StampMeh,
	StampZzz,
	StampPrism,
}

// Valid reports whether s is one of the recognized stamp tags.
func (s Stamp) Valid() bool {
	for _, known := range Stamps {
		if s == known {
			return true
		}
	}
	return false
}

// Certificate is an immutable snapshot of one album's boleta, ready to be
// rasterized. AlbumScore and AlbumStamp are nil on blank templates.
type Certificate struct {
	Album      *Album
	Ratings    map[string]TrackRating
	Averages   Averages
	AlbumScore *float64
	AlbumStamp *Stamp
	BraveStamp bool
}

// BlankCertificate builds the pre-rating template variant for an album:
// every track zeroed, no overall score, no stamps.
func BlankCertificate(album *Album) Certificate {
	ratings := make(map[string]TrackRating, len(album.Tracks))
	for _, track := range album.Tracks {
		ratings[track.ID] = TrackRating{}
	}
	return Certificate{
		Album:   album,
		Ratings: ratings,
	}
}
