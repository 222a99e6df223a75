// Package engine holds the prediction settlement and bracket projection core.
// Everything here is pure: functions take in-memory snapshots and return
// derived values, never touching storage. Malformed or in-progress data is
// expected during live scoring, so the functions fail safe to zero values
// instead of returning errors.
package engine

import "github.com/avshev/prediction-league/models"

// Result is the actual outcome of a match as far as it is known, plus the
// underdog designation computed from the final bet distribution. Nil fields
// mean the match is not finished yet; scoring then awards nothing.
type Result struct {
	WinnerID *int `json:"winner_id"`
	ScoreA   *int `json:"score_a"`
	ScoreB   *int `json:"score_b"`

	UnderdogTeamID *int `json:"underdog_team_id"`
	UnderdogTier   int  `json:"underdog_tier"` // 1 extreme, 2 moderate, 0 none
}

// Breakdown is the settlement output for a single bet.
type Breakdown struct {
	Points         int  `json:"points"`
	IsPerfectPick  bool `json:"is_perfect_pick"`
	IsUnderdogPick bool `json:"is_underdog_pick"`
}

// CalculatePoints scores one bet against one result under the given rules.
//
// An exact score with the correct winner awards rules.Exact alone; it replaces
// the winner-only reward rather than stacking on it. The underdog bonus is
// additive on top of either outcome, and only when the predicted winner is
// both the actual winner and the designated underdog.
func CalculatePoints(bet *models.Bet, result Result, rules models.ResolvedScoringRules) Breakdown {
	if bet == nil {
		return Breakdown{}
	}

	winnerCorrect := result.WinnerID != nil &&
		bet.PredictedWinnerID != nil &&
		*bet.PredictedWinnerID == *result.WinnerID

	exactCorrect := result.ScoreA != nil && result.ScoreB != nil &&
		*result.ScoreA == bet.PredictedScoreA &&
		*result.ScoreB == bet.PredictedScoreB

	points := 0
	switch {
	case winnerCorrect && exactCorrect:
		points = rules.Exact
	case winnerCorrect:
		points = rules.Winner
	}

	underdogPick := winnerCorrect &&
		result.UnderdogTeamID != nil &&
		*result.UnderdogTeamID == *result.WinnerID
	if underdogPick {
		switch result.UnderdogTier {
		case UnderdogTierExtreme:
			points += rules.Underdog25
		case UnderdogTierModerate:
			points += rules.Underdog50
		default:
			underdogPick = false
		}
	}

	if points < 0 {
		points = 0
	}

	return Breakdown{
		Points:         points,
		IsPerfectPick:  winnerCorrect && exactCorrect,
		IsUnderdogPick: underdogPick,
	}
}

// ResultOfMatch builds a Result from a match row, picking up the persisted
// underdog designation if settlement already stored one.
func ResultOfMatch(match *models.Match) Result {
	if match == nil {
		return Result{}
	}
	result := Result{
		WinnerID:       match.WinnerID,
		ScoreA:         match.ScoreA,
		ScoreB:         match.ScoreB,
		UnderdogTeamID: match.UnderdogTeamID,
	}
	if match.UnderdogTier != nil {
		result.UnderdogTier = *match.UnderdogTier
	}
	return result
}
