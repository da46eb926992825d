package evaluation

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	maxScore = decimal.NewFromInt(10)

	ratingThresholds = []struct {
		min    decimal.Decimal
		rating Rating
	}{
		{decimal.NewFromInt(9), RatingExcellent},
		{decimal.NewFromInt(8), RatingVeryGood},
		{decimal.NewFromInt(7), RatingGood},
		{decimal.NewFromInt(6), RatingSatisfactory},
		{decimal.NewFromInt(5), RatingFair},
	}
)

// DeriveStatus maps scoring coverage to a status. Cancelled is terminal and
// returned unchanged.
func DeriveStatus(current Status, criteria []Criterion) Status {
	if current == StatusCancelled {
		return StatusCancelled
	}

	scored := 0
	for _, c := range criteria {
		if c.Scored() {
			scored++
		}
	}

	switch {
	case scored == 0:
		return StatusPending
	case scored == len(criteria):
		return StatusCompleted
	default:
		return StatusInProgress
	}
}

// WeightedScore is sum(score*weight)/sum(weight) over scored criteria,
// rounded to two places. ok is false when nothing is scored or the scored
// weights add up to zero.
func WeightedScore(criteria []Criterion) (score decimal.Decimal, ok bool) {
	total := decimal.Zero
	weights := decimal.Zero
	for _, c := range criteria {
		if !c.Scored() {
			continue
		}
		total = total.Add(c.Score.Decimal.Mul(c.Weight))
		weights = weights.Add(c.Weight)
	}
	if weights.IsZero() {
		return decimal.Zero, false
	}
	return total.DivRound(weights, 2), true
}

func RatingFor(score decimal.Decimal) Rating {
	for _, t := range ratingThresholds {
		if score.GreaterThanOrEqual(t.min) {
			return t.rating
		}
	}
	return RatingUnsatisfactory
}

// Recompute refreshes the derived fields of e from its criteria and reports
// whether any of them changed. A cancelled evaluation is left alone.
func Recompute(e *Evaluation, now time.Time) bool {
	if e.Status == StatusCancelled {
		return false
	}

	changed := false

	status := DeriveStatus(e.Status, e.Criteria)
	if status != e.Status {
		e.Status = status
		changed = true
	}

	score, ok := WeightedScore(e.Criteria)
	overall := decimal.NullDecimal{Decimal: score, Valid: ok}
	if overall.Valid != e.OverallScore.Valid || !overall.Decimal.Equal(e.OverallScore.Decimal) {
		e.OverallScore = overall
		changed = true
	}

	rating := RatingNone
	if ok {
		rating = RatingFor(score)
	}
	if rating != e.Rating {
		e.Rating = rating
		changed = true
	}

	if e.Status == StatusCompleted && e.EvaluatedOn == nil {
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		e.EvaluatedOn = &day
		changed = true
	}

	return changed
}

func validScore(score decimal.Decimal) bool {
	return !score.IsNegative() && score.LessThanOrEqual(maxScore)
}
