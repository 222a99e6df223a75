package engine

import (
	"testing"

	"github.com/avshev/prediction-league/models"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func bet(winnerID *int, scoreA, scoreB int) *models.Bet {
	return &models.Bet{PredictedWinnerID: winnerID, PredictedScoreA: scoreA, PredictedScoreB: scoreB}
}

func TestCalculatePointsWorkedExample(t *testing.T) {
	// Team B (id 20) wins 1-2 and is the extreme underdog.
	rules := (&models.ScoringRules{
		Winner:     intPtr(2),
		Exact:      intPtr(5),
		Underdog25: intPtr(1),
	}).Sanitized()
	result := Result{
		WinnerID:       intPtr(20),
		ScoreA:         intPtr(1),
		ScoreB:         intPtr(2),
		UnderdogTeamID: intPtr(20),
		UnderdogTier:   UnderdogTierExtreme,
	}

	tests := []struct {
		name     string
		bet      *models.Bet
		points   int
		perfect  bool
		underdog bool
	}{
		{"wrong winner", bet(intPtr(10), 2, 1), 0, false, false},
		{"exact score on the underdog", bet(intPtr(20), 1, 2), 6, true, true},
		{"correct winner only", bet(intPtr(20), 0, 2), 3, false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculatePoints(tc.bet, result, rules)
			assert.Equal(t, tc.points, got.Points)
			assert.Equal(t, tc.perfect, got.IsPerfectPick)
			assert.Equal(t, tc.underdog, got.IsUnderdogPick)
		})
	}
}

func TestCalculatePointsExactReplacesWinner(t *testing.T) {
	rules := (&models.ScoringRules{Winner: intPtr(2), Exact: intPtr(5)}).Sanitized()
	result := Result{WinnerID: intPtr(1), ScoreA: intPtr(2), ScoreB: intPtr(0)}

	got := CalculatePoints(bet(intPtr(1), 2, 0), result, rules)
	assert.Equal(t, 5, got.Points, "exact score must not stack on the winner reward")
	assert.True(t, got.IsPerfectPick)
}

func TestCalculatePointsUnfinishedResultAwardsNothing(t *testing.T) {
	got := CalculatePoints(bet(intPtr(1), 2, 0), Result{}, (&models.ScoringRules{}).Sanitized())
	assert.Equal(t, Breakdown{}, got)
}

func TestCalculatePointsNilPredictedWinnerIsAlwaysWrong(t *testing.T) {
	result := Result{WinnerID: intPtr(1), ScoreA: intPtr(2), ScoreB: intPtr(0)}
	got := CalculatePoints(bet(nil, 2, 0), result, (&models.ScoringRules{}).Sanitized())
	assert.Equal(t, 0, got.Points)
	assert.False(t, got.IsPerfectPick)
}

func TestCalculatePointsNoBonusWhenWinnerIsNotTheUnderdog(t *testing.T) {
	rules := (&models.ScoringRules{Winner: intPtr(2), Underdog25: intPtr(4)}).Sanitized()
	result := Result{
		WinnerID:       intPtr(1),
		ScoreA:         intPtr(2),
		ScoreB:         intPtr(1),
		UnderdogTeamID: intPtr(2),
		UnderdogTier:   UnderdogTierExtreme,
	}
	got := CalculatePoints(bet(intPtr(1), 2, 1), result, rules)
	assert.Equal(t, 3, got.Points) // default exact reward, no bonus
	assert.False(t, got.IsUnderdogPick)
}

func TestCalculatePointsIsPure(t *testing.T) {
	rules := (&models.ScoringRules{Winner: intPtr(2), Exact: intPtr(5)}).Sanitized()
	result := Result{WinnerID: intPtr(1), ScoreA: intPtr(2), ScoreB: intPtr(1)}
	b := bet(intPtr(1), 2, 1)

	first := CalculatePoints(b, result, rules)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, CalculatePoints(b, result, rules))
	}
}

func TestSanitizedRulesDefaults(t *testing.T) {
	resolved := (*models.ScoringRules)(nil).Sanitized()
	assert.Equal(t, models.ResolvedScoringRules{Winner: 1, Exact: 3, Underdog25: 2, Underdog50: 1}, resolved)

	negative := (&models.ScoringRules{Winner: intPtr(-4)}).Sanitized()
	assert.Equal(t, 1, negative.Winner)
}
