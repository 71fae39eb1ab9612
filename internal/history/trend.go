package history

import (
	"sort"
)

// Trend describes how a unit's violation pressure is moving across runs
type Trend struct {
	Direction  string  `json:"direction"` // "increasing" | "stable" | "decreasing"
	Velocity   float64 `json:"velocity"`  // violations per day
	DataPoints int     `json:"dataPoints"`
}

// CalculateTrend fits a linear regression over violation counts of past
// runs. Fewer than two data points is always stable.
func CalculateTrend(summaries []RunSummary) *Trend {
	if len(summaries) < 2 {
		return &Trend{Direction: "stable", DataPoints: len(summaries)}
	}

	ordered := make([]RunSummary, len(summaries))
	copy(ordered, summaries)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	var sumX, sumY, sumXY, sumX2 float64
	n := float64(len(ordered))
	base := ordered[0].CreatedAt
	for _, s := range ordered {
		x := s.CreatedAt.Sub(base).Hours() / 24
		y := float64(s.ViolationCount)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denominator := n*sumX2 - sumX*sumX
	var velocity float64
	if denominator != 0 {
		velocity = (n*sumXY - sumX*sumY) / denominator
	}

	direction := "stable"
	if velocity > 0.01 {
		direction = "increasing"
	} else if velocity < -0.01 {
		direction = "decreasing"
	}

	return &Trend{
		Direction:  direction,
		Velocity:   velocity,
		DataPoints: len(ordered),
	}
}
