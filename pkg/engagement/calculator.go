package engagement

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"igengage/pkg/errors"
)

// DefaultPrecision is the number of decimals the rate is rounded to
const DefaultPrecision = 2

// Calculator turns a Snapshot into a Result. It is safe for concurrent use and
// its precision may be changed while checks are running.
type Calculator struct {
	precision atomic.Int32
}

// NewCalculator creates a calculator rounding to precision decimal places
func NewCalculator(precision int) *Calculator {
	c := &Calculator{}
	c.SetPrecision(precision)
	return c
}

// SetPrecision changes the rounding precision. Negative values clamp to 0.
func (c *Calculator) SetPrecision(precision int) {
	if precision < 0 {
		precision = 0
	}
	c.precision.Store(int32(precision))
}

// Precision returns the current rounding precision
func (c *Calculator) Precision() int {
	return int(c.precision.Load())
}

// Calculate computes floor averages and the engagement rate percentage.
// It returns ErrInvalidSnapshot when the snapshot has no followers, no posts,
// or misaligned likes/comments.
func (c *Calculator) Calculate(s Snapshot) (Result, error) {
	switch {
	case s.Followers <= 0:
		return Result{}, fmt.Errorf("%w: follower count is %d", errors.ErrInvalidSnapshot, s.Followers)
	case len(s.PostLikes) == 0:
		return Result{}, fmt.Errorf("%w: no post likes", errors.ErrInvalidSnapshot)
	case len(s.PostLikes) != len(s.PostComments):
		return Result{}, fmt.Errorf("%w: %d like counts but %d comment counts",
			errors.ErrInvalidSnapshot, len(s.PostLikes), len(s.PostComments))
	}

	n := int64(len(s.PostLikes))
	sumLikes := sum(s.PostLikes)
	sumComments := sum(s.PostComments)

	perPost := float64(sumLikes+sumComments) / float64(n)
	rate := perPost / float64(s.Followers) * 100

	return Result{
		AverageLikes:    sumLikes / n,
		AverageComments: sumComments / n,
		EngagementRate:  roundTo(rate, c.Precision()),
	}, nil
}

func sum(values []int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}

// roundTo rounds to the nearest decimal using the exact binary value of v, so
// exact halves go to the even digit: 0.625 becomes 0.62 and 2.675 becomes 2.67.
func roundTo(v float64, precision int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', precision, 64), 64)
	if err != nil {
		return v
	}
	return r
}
