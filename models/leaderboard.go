package models

// LeaderboardEntry is a ranked row of summed settlement output for one user.
// Derived by aggregation, never stored.
type LeaderboardEntry struct {
	UserID        int    `json:"user_id" db:"user_id"`
	Nickname      string `json:"nickname" db:"nickname"`
	TotalPoints   int    `json:"total_points" db:"total_points"`
	PerfectPicks  int    `json:"perfect_picks" db:"perfect_picks"`
	UnderdogPicks int    `json:"underdog_picks" db:"underdog_picks"`
}
