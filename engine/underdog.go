package engine

import "github.com/avshev/prediction-league/models"

const (
	// UnderdogTierExtreme marks a team that at most 25% of bettors picked.
	UnderdogTierExtreme = 1
	// UnderdogTierModerate marks a team picked by 26-50% of bettors.
	UnderdogTierModerate = 2
)

// Underdog is the crowd-distribution classification for one match.
type Underdog struct {
	TeamID int
	Tier   int
}

// ClassifyUnderdog determines which of the two teams, if either, the crowd bet
// against. Predictions naming neither team are ignored. The side with strictly
// fewer picks is the underdog; its share of the counted total decides the
// tier. A perfect 50/50 split (or no countable bets at all) classifies
// nothing, so at most one side can ever qualify.
//
// Settlement calls this with the final bet distribution; the designation is
// not fixed at match creation.
func ClassifyUnderdog(bets []*models.Bet, teamAID, teamBID int) *Underdog {
	var picksA, picksB int
	for _, bet := range bets {
		if bet == nil || bet.PredictedWinnerID == nil {
			continue
		}
		switch *bet.PredictedWinnerID {
		case teamAID:
			picksA++
		case teamBID:
			picksB++
		}
	}

	total := picksA + picksB
	if total == 0 || picksA == picksB {
		return nil
	}

	underdogID, picks := teamAID, picksA
	if picksB < picksA {
		underdogID, picks = teamBID, picksB
	}

	share := float64(picks) / float64(total)
	tier := UnderdogTierModerate
	if share <= 0.25 {
		tier = UnderdogTierExtreme
	}

	return &Underdog{TeamID: underdogID, Tier: tier}
}
