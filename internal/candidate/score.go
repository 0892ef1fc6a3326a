package candidate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

const weightsTolerance = 1e-6

// Weights are the per-factor multipliers of the total fit score.
type Weights struct {
	Education  float64 `json:"education" mapstructure:"education"`
	Trajectory float64 `json:"trajectory" mapstructure:"trajectory"`
	Company    float64 `json:"company" mapstructure:"company"`
	Skills     float64 `json:"skills" mapstructure:"skills"`
	Location   float64 `json:"location" mapstructure:"location"`
	Tenure     float64 `json:"tenure" mapstructure:"tenure"`
}

// DefaultWeights returns the stock weight set.
func DefaultWeights() Weights {
	return Weights{
		Education:  0.20,
		Trajectory: 0.20,
		Company:    0.15,
		Skills:     0.25,
		Location:   0.10,
		Tenure:     0.10,
	}
}

// Sum returns the sum of all weights.
func (w Weights) Sum() float64 {
	return w.Education + w.Trajectory + w.Company + w.Skills + w.Location + w.Tenure
}

// Validate checks that every weight is non-negative and that they sum to 1.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"education":  w.Education,
		"trajectory": w.Trajectory,
		"company":    w.Company,
		"skills":     w.Skills,
		"location":   w.Location,
		"tenure":     w.Tenure,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("weight %s must be non-negative, got %v", name, v)
		}
	}

	if sum := w.Sum(); math.Abs(sum-1) > weightsTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %.6f", sum)
	}

	return nil
}

// IsZero reports whether no weight was set.
func (w Weights) IsZero() bool {
	return w == Weights{}
}

// ScoreBreakdown holds the six sub-scores and the weights they are combined with.
type ScoreBreakdown struct {
	Education  float64 `json:"education_score"`
	Trajectory float64 `json:"trajectory_score"`
	Company    float64 `json:"company_score"`
	Skills     float64 `json:"skills_score"`
	Location   float64 `json:"location_score"`
	Tenure     float64 `json:"tenure_score"`
	Weights    Weights `json:"weights"`
}

// ErrNoWeights is returned when a breakdown without weights is marshalled.
var ErrNoWeights = errors.New("score breakdown has no weights")

// Total is the weighted sum of the sub-scores rounded to two decimals.
// It is derived on every call and never stored.
func (b ScoreBreakdown) Total() float64 {
	w := b.Weights
	total := b.Education*w.Education +
		b.Trajectory*w.Trajectory +
		b.Company*w.Company +
		b.Skills*w.Skills +
		b.Location*w.Location +
		b.Tenure*w.Tenure

	return Round2(total)
}

func (b ScoreBreakdown) MarshalJSON() ([]byte, error) {
	if b.Weights.IsZero() {
		return nil, ErrNoWeights
	}

	type plain ScoreBreakdown
	return json.Marshal(struct {
		plain
		TotalScore float64 `json:"total_score"`
	}{plain: plain(b), TotalScore: b.Total()})
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
