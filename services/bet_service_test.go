package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/avshev/prediction-league/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scheduledTestMatch mirrors what the repository returns for an upcoming
// match: team ids plus the joined Team records.
func scheduledTestMatch(id, teamA, teamB int) *models.Match {
	return &models.Match{
		ID:           id,
		TournamentID: 1,
		TeamAID:      &teamA,
		TeamBID:      &teamB,
		TeamA:        &models.Team{ID: teamA, Name: fmt.Sprintf("Team %d", teamA)},
		TeamB:        &models.Team{ID: teamB, Name: fmt.Sprintf("Team %d", teamB)},
		Status:       models.MatchStatusScheduled,
	}
}

func TestPlaceBetStoresPrediction(t *testing.T) {
	betRepo := newFakeBetRepo()
	svc := NewBetService(betRepo, newFakeMatchRepo(scheduledTestMatch(7, 10, 20)))

	placed, err := svc.Place(context.Background(), 100, PlaceBetInput{
		MatchID:           7,
		PredictedWinnerID: intPtr(10),
		PredictedScoreA:   2,
		PredictedScoreB:   1,
	})

	require.NoError(t, err)
	assert.Equal(t, 7, placed.MatchID)
	assert.Equal(t, 100, placed.UserID)
	require.Len(t, betRepo.bets, 1)
}

func TestPlaceBetReplacesExisting(t *testing.T) {
	betRepo := newFakeBetRepo(bet(1, 7, 100, intPtr(10), 2, 0))
	svc := NewBetService(betRepo, newFakeMatchRepo(scheduledTestMatch(7, 10, 20)))

	placed, err := svc.Place(context.Background(), 100, PlaceBetInput{
		MatchID:           7,
		PredictedWinnerID: intPtr(20),
		PredictedScoreA:   0,
		PredictedScoreB:   2,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, placed.ID)
	require.Len(t, betRepo.bets, 1)
	assert.Equal(t, intPtr(20), betRepo.bets[0].PredictedWinnerID)
}

func TestPlaceBetClosedOnceMatchStarts(t *testing.T) {
	for _, status := range []models.MatchStatus{models.MatchStatusLive, models.MatchStatusFinished} {
		match := scheduledTestMatch(7, 10, 20)
		match.Status = status
		svc := NewBetService(newFakeBetRepo(), newFakeMatchRepo(match))

		_, err := svc.Place(context.Background(), 100, PlaceBetInput{MatchID: 7, PredictedWinnerID: intPtr(10)})

		require.ErrorIs(t, err, ErrBettingClosed, "status %s", status)
	}
}

func TestPlaceBetRejectsOutsideWinner(t *testing.T) {
	svc := NewBetService(newFakeBetRepo(), newFakeMatchRepo(scheduledTestMatch(7, 10, 20)))

	_, err := svc.Place(context.Background(), 100, PlaceBetInput{MatchID: 7, PredictedWinnerID: intPtr(30)})

	require.ErrorIs(t, err, ErrBetInvalidWinner)
}

func TestPlaceBetRejectsNegativeScore(t *testing.T) {
	svc := NewBetService(newFakeBetRepo(), newFakeMatchRepo(scheduledTestMatch(7, 10, 20)))

	_, err := svc.Place(context.Background(), 100, PlaceBetInput{
		MatchID:           7,
		PredictedWinnerID: intPtr(10),
		PredictedScoreA:   -1,
	})

	require.ErrorIs(t, err, ErrBetInvalidScore)
}

func TestPlaceBetUnknownMatch(t *testing.T) {
	svc := NewBetService(newFakeBetRepo(), newFakeMatchRepo())

	_, err := svc.Place(context.Background(), 100, PlaceBetInput{MatchID: 404})

	require.ErrorIs(t, err, ErrMatchNotFound)
}
