package models

import "time"

// RecommendedDay scores one forecast day for a hobby.
type RecommendedDay struct {
	Date            time.Time `json:"date"`
	Score           float64   `json:"score"`
	MatchingFactors []string  `json:"matching_factors"`
	WarningFactors  []string  `json:"warning_factors"`
}

// Recommendation is the suitability result for one hobby, 0-100.
type Recommendation struct {
	Hobby           *Hobby           `json:"hobby"`
	OverallScore    float64          `json:"overall_score"`
	RecommendedDays []RecommendedDay `json:"recommended_days"`
}

// BestDay returns the highest-scoring day, or nil if none were scored.
func (r *Recommendation) BestDay() *RecommendedDay {
	if len(r.RecommendedDays) == 0 {
		return nil
	}
	best := &r.RecommendedDays[0]
	for i := range r.RecommendedDays {
		if r.RecommendedDays[i].Score > best.Score {
			best = &r.RecommendedDays[i]
		}
	}
	return best
}
