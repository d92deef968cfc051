package rating

import (
	"math"

	"github.com/foolclub/boleta-api/internal/domain"
)

// round1 rounds to one decimal place, the precision boletas print.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// ComputeAverages derives the three boleta scores from a rating set.
// Hearts weigh each favorite at 10 points, stars double the 0-5 track
// score onto the same 0-10 scale, and the total is the midpoint of the
// two rounded components. An empty album yields zeroes rather than NaN
// so downstream rendering stays stable.
func ComputeAverages(ratings map[string]domain.TrackRating, trackCount int) domain.Averages {
	if trackCount == 0 {
		return domain.Averages{}
	}

	var hearts, stars float64
	for _, r := range ratings {
		hearts += float64(r.Favorite) * 10
		stars += float64(r.Score)
	}

	heartsAvg := round1(hearts / float64(trackCount))
	starsAvg := round1(stars * 2 / float64(trackCount))

	return domain.Averages{
		Hearts: heartsAvg,
		Stars:  starsAvg,
		Total:  round1((heartsAvg + starsAvg) / 2),
	}
}
