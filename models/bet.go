package models

import "time"

// Bet is a single user prediction for a match. The settlement fields
// (PointsEarned, IsPerfectPick, IsUnderdogPick) are written only by the
// settlement service and are read-only everywhere else.
type Bet struct {
	ID                int  `json:"id" db:"id"`
	MatchID           int  `json:"match_id" db:"match_id"`
	UserID            int  `json:"user_id" db:"user_id"`
	PredictedWinnerID *int `json:"predicted_winner_id,omitempty" db:"predicted_winner_id"`
	PredictedScoreA   int  `json:"predicted_score_a" db:"predicted_score_a"`
	PredictedScoreB   int  `json:"predicted_score_b" db:"predicted_score_b"`

	PointsEarned   int  `json:"points_earned" db:"points_earned"`
	IsPerfectPick  bool `json:"is_perfect_pick" db:"is_perfect_pick"`
	IsUnderdogPick bool `json:"is_underdog_pick" db:"is_underdog_pick"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	User *User `json:"user,omitempty" db:"-"`
}
