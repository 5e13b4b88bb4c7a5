package core

import "time"

// QuotaSnapshot is the point budget reported alongside a single response.
type QuotaSnapshot struct {
	LimitPerHour        int64   `json:"limit_per_hour" yaml:"limit_per_hour"`
	PointsSpentThisHour float64 `json:"points_spent_this_hour" yaml:"points_spent_this_hour"`
	PointsResetIn       int64   `json:"points_reset_in" yaml:"points_reset_in"`
}

// Remaining returns the unspent points in the current hour.
func (q QuotaSnapshot) Remaining() float64 {
	return float64(q.LimitPerHour) - q.PointsSpentThisHour
}

// ResetIn returns the time until the budget resets. Negative values clamp to zero.
func (q QuotaSnapshot) ResetIn() time.Duration {
	if q.PointsResetIn <= 0 {
		return 0
	}
	return time.Duration(q.PointsResetIn) * time.Second
}
