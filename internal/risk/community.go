package risk

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/i474232898/climate-risk-assistant/internal/weather"
)

// DefaultNeighborOffset is the distance in degrees to each sampled neighbor.
const DefaultNeighborOffset = 0.05

// Status compares a point's score with its neighborhood.
type Status string

const (
	StatusHigher  Status = "Your area is at higher risk than nearby regions."
	StatusSafer   Status = "Your area is safer compared to nearby regions."
	StatusSimilar Status = "Your area has similar risk to nearby regions."
)

// Observer fetches the environment observation for a coordinate.
// *weather.Gateway satisfies it.
type Observer interface {
	Observe(ctx context.Context, c weather.Coordinate) (weather.Observation, error)
}

// Comparison is the community comparator output.
type Comparison struct {
	LocalScore      int     `json:"your_risk"`
	NeighborAverage float64 `json:"nearby_average_risk"`
	Status          Status  `json:"status"`
}

// Comparator samples the scorer at the four cardinal neighbors of a point.
type Comparator struct {
	observer Observer
	offset   float64
}

// NewComparator creates a Comparator. A non-positive offset uses DefaultNeighborOffset.
func NewComparator(observer Observer, offset float64) *Comparator {
	if offset <= 0 {
		offset = DefaultNeighborOffset
	}
	return &Comparator{observer: observer, offset: offset}
}

// Neighbors returns the north, south, east and west samples around center.
func (c *Comparator) Neighbors(center weather.Coordinate) [4]weather.Coordinate {
	return [4]weather.Coordinate{
		center.Offset(c.offset, 0),
		center.Offset(-c.offset, 0),
		center.Offset(0, c.offset),
		center.Offset(0, -c.offset),
	}
}

// Compare observes and scores the four neighbors concurrently with the same
// role, then compares localScore with their mean rounded to two decimals.
// Any neighbor failure fails the whole comparison.
func (c *Comparator) Compare(ctx context.Context, center weather.Coordinate, role Role, localScore int) (Comparison, error) {
	neighbors := c.Neighbors(center)
	var scores [4]int

	eg, ectx := errgroup.WithContext(ctx)
	for i, n := range neighbors {
		eg.Go(func() error {
			obs, err := c.observer.Observe(ectx, n)
			if err != nil {
				return err
			}
			scores[i] = Score(obs, role).Total
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Comparison{}, err
	}

	avg := NeighborAverage(scores[:])
	return Comparison{
		LocalScore:      localScore,
		NeighborAverage: avg,
		Status:          CompareStatus(localScore, avg),
	}, nil
}

// NeighborAverage is the arithmetic mean rounded to two decimals, half away from zero.
func NeighborAverage(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return math.Round(float64(sum)/float64(len(scores))*100) / 100
}

// CompareStatus classifies local against the neighbor average. Only exact
// equality is "similar".
func CompareStatus(local int, average float64) Status {
	l := float64(local)
	switch {
	case l > average:
		return StatusHigher
	case l < average:
		return StatusSafer
	default:
		return StatusSimilar
	}
}
