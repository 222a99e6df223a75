package services

import (
	"context"
	"testing"

	"github.com/avshev/prediction-league/brackets"
	"github.com/avshev/prediction-league/engine"
	"github.com/avshev/prediction-league/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettlement struct {
	settledMatchIDs []int
}

func (s *fakeSettlement) SettleMatch(_ context.Context, matchID int) (*SettlementSummary, error) {
	s.settledMatchIDs = append(s.settledMatchIDs, matchID)
	return &SettlementSummary{MatchID: matchID}, nil
}

func (s *fakeSettlement) PreviewPoints(bet *models.Bet, result engine.Result, rules *models.ScoringRules) engine.Breakdown {
	return engine.CalculatePoints(bet, result, rules.Sanitized())
}

func TestEnterResultRequiresBothTeams(t *testing.T) {
	match := &models.Match{ID: 7, TournamentID: 1, TeamAID: intPtr(10), Status: models.MatchStatusScheduled}
	svc := NewMatchService(newFakeMatchRepo(match), &fakeSettlement{}, brackets.NewHub(), testLogger())

	_, err := svc.EnterResult(context.Background(), 7, ResultInput{WinnerID: 10, ScoreA: 2, ScoreB: 0})

	require.ErrorIs(t, err, ErrMatchTeamsNotSet)
}

func TestEnterResultRejectsOutsideWinner(t *testing.T) {
	svc := NewMatchService(newFakeMatchRepo(scheduledTestMatch(7, 10, 20)), &fakeSettlement{}, brackets.NewHub(), testLogger())

	_, err := svc.EnterResult(context.Background(), 7, ResultInput{WinnerID: 30, ScoreA: 2, ScoreB: 0})

	require.ErrorIs(t, err, ErrResultInvalid)
}

func TestEnterResultRejectsNegativeScore(t *testing.T) {
	svc := NewMatchService(newFakeMatchRepo(scheduledTestMatch(7, 10, 20)), &fakeSettlement{}, brackets.NewHub(), testLogger())

	_, err := svc.EnterResult(context.Background(), 7, ResultInput{WinnerID: 10, ScoreA: -1, ScoreB: 0})

	require.ErrorIs(t, err, ErrResultInvalid)
}

func TestEnterResultStoresAndSettles(t *testing.T) {
	matchRepo := newFakeMatchRepo(scheduledTestMatch(7, 10, 20))
	settlement := &fakeSettlement{}
	svc := NewMatchService(matchRepo, settlement, brackets.NewHub(), testLogger())

	summary, err := svc.EnterResult(context.Background(), 7, ResultInput{WinnerID: 20, ScoreA: 1, ScoreB: 2})

	require.NoError(t, err)
	assert.Equal(t, 7, summary.MatchID)
	require.Len(t, matchRepo.resultUpdates, 1)
	assert.Equal(t, resultUpdate{matchID: 7, winnerID: 20, scoreA: 1, scoreB: 2}, matchRepo.resultUpdates[0])
	assert.Equal(t, []int{7}, settlement.settledMatchIDs)

	stored := matchRepo.matches[7]
	assert.Equal(t, models.MatchStatusFinished, stored.Status)
	assert.Equal(t, intPtr(20), stored.WinnerID)
}

func TestEnterResultUnknownMatch(t *testing.T) {
	svc := NewMatchService(newFakeMatchRepo(), &fakeSettlement{}, brackets.NewHub(), testLogger())

	_, err := svc.EnterResult(context.Background(), 404, ResultInput{WinnerID: 10})

	require.ErrorIs(t, err, ErrMatchNotFound)
}
