package engine

import (
	"testing"

	"github.com/avshev/prediction-league/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pickBets(teamID int, count int) []*models.Bet {
	bets := make([]*models.Bet, 0, count)
	for i := 0; i < count; i++ {
		id := teamID
		bets = append(bets, &models.Bet{PredictedWinnerID: &id})
	}
	return bets
}

func TestClassifyUnderdogZeroBets(t *testing.T) {
	assert.Nil(t, ClassifyUnderdog(nil, 1, 2))
	assert.Nil(t, ClassifyUnderdog([]*models.Bet{{PredictedWinnerID: nil}}, 1, 2))
}

func TestClassifyUnderdogExtremeTier(t *testing.T) {
	// 3 of 4 bets on team 1: team 2 holds exactly 25% of the volume.
	bets := append(pickBets(1, 3), pickBets(2, 1)...)

	got := ClassifyUnderdog(bets, 1, 2)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.TeamID)
	assert.Equal(t, UnderdogTierExtreme, got.Tier)
}

func TestClassifyUnderdogModerateTier(t *testing.T) {
	bets := append(pickBets(1, 3), pickBets(2, 2)...) // 60/40

	got := ClassifyUnderdog(bets, 1, 2)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.TeamID)
	assert.Equal(t, UnderdogTierModerate, got.Tier)
}

func TestClassifyUnderdogEvenSplit(t *testing.T) {
	bets := append(pickBets(1, 2), pickBets(2, 2)...)
	assert.Nil(t, ClassifyUnderdog(bets, 1, 2))
}

func TestClassifyUnderdogIgnoresUnrelatedPicks(t *testing.T) {
	bets := append(pickBets(1, 3), pickBets(99, 5)...)
	bets = append(bets, pickBets(2, 1)...)

	got := ClassifyUnderdog(bets, 1, 2)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.TeamID)
	assert.Equal(t, UnderdogTierExtreme, got.Tier)
}

func TestClassifyUnderdogNeverBothSides(t *testing.T) {
	for picksA := 0; picksA <= 6; picksA++ {
		for picksB := 0; picksB <= 6; picksB++ {
			bets := append(pickBets(1, picksA), pickBets(2, picksB)...)
			got := ClassifyUnderdog(bets, 1, 2)
			if got == nil {
				continue
			}
			if picksA < picksB {
				assert.Equal(t, 1, got.TeamID)
			} else {
				assert.Equal(t, 2, got.TeamID)
			}
		}
	}
}
