package ranking

import (
	"errors"
	"fmt"
	"math"
)

// Weight sum tolerance. Construction fails outside [0.99, 1.01]. The epsilon
// keeps sums landing exactly on a boundary from being rejected by float
// subtraction error (0.99 would otherwise miss by ~1e-17).
const (
	weightSumTolerance = 0.01
	weightSumEpsilon   = 1e-9
)

// ErrInvalidWeights marks a weight vector that breaks the sum invariant.
var ErrInvalidWeights = errors.New("invalid score weights")

// ScoreWeights is the four-way composite weight vector. The components must
// sum to 1.0; violating that is a hard validation failure, never clamped.
type ScoreWeights struct {
	Skills     float64
	Experience float64
	Activity   float64
	Domain     float64
}

// NewScoreWeights validates the weight invariant at construction time.
func NewScoreWeights(skills, experience, activity, domain float64) (ScoreWeights, error) {
	w := ScoreWeights{
		Skills:     skills,
		Experience: experience,
		Activity:   activity,
		Domain:     domain,
	}

	for _, weight := range []float64{skills, experience, activity, domain} {
		if weight < 0 || weight > 1 {
			return ScoreWeights{}, fmt.Errorf("%w: component %.3f outside [0, 1]", ErrInvalidWeights, weight)
		}
	}

	if math.Abs(w.sum()-1.0) > weightSumTolerance+weightSumEpsilon {
		return ScoreWeights{}, fmt.Errorf("%w: components sum to %.3f, want 1.0", ErrInvalidWeights, w.sum())
	}

	return w, nil
}

// DefaultScoreWeights returns the production weight vector.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{Skills: 0.40, Experience: 0.20, Activity: 0.20, Domain: 0.20}
}

func (w ScoreWeights) sum() float64 {
	return w.Skills + w.Experience + w.Activity + w.Domain
}

// withoutDomain redistributes the domain weight proportionally across the
// remaining components, so a job without a domain does not leave weight
// stranded on a zero-signal. For the default vector this yields
// 0.50/0.25/0.25/0.00.
func (w ScoreWeights) withoutDomain() ScoreWeights {
	if w.Domain == 0 {
		return w
	}

	rest := w.Skills + w.Experience + w.Activity
	if rest == 0 {
		return w
	}

	factor := 1.0 / rest
	return ScoreWeights{
		Skills:     w.Skills * factor,
		Experience: w.Experience * factor,
		Activity:   w.Activity * factor,
		Domain:     0,
	}
}
