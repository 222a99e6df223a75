package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/avshev/prediction-league/engine"
	"github.com/avshev/prediction-league/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func finishedTestMatch(id, teamA, teamB, winner, scoreA, scoreB int) *models.Match {
	return &models.Match{
		ID:           id,
		TournamentID: 1,
		TeamAID:      &teamA,
		TeamBID:      &teamB,
		Status:       models.MatchStatusFinished,
		WinnerID:     &winner,
		ScoreA:       &scoreA,
		ScoreB:       &scoreB,
	}
}

func bet(id, matchID, userID int, winnerID *int, scoreA, scoreB int) *models.Bet {
	return &models.Bet{
		ID:                id,
		MatchID:           matchID,
		UserID:            userID,
		PredictedWinnerID: winnerID,
		PredictedScoreA:   scoreA,
		PredictedScoreB:   scoreB,
	}
}

func TestSettleMatchNotFound(t *testing.T) {
	svc := NewSettlementService(newFakeMatchRepo(), newFakeBetRepo(), newFakeRulesRepo(), nil, testLogger())

	_, err := svc.SettleMatch(context.Background(), 42)

	require.ErrorIs(t, err, ErrMatchNotFound)
}

func TestSettleMatchNotFinished(t *testing.T) {
	match := &models.Match{
		ID:           7,
		TournamentID: 1,
		TeamAID:      intPtr(10),
		TeamBID:      intPtr(20),
		Status:       models.MatchStatusLive,
	}
	matchRepo := newFakeMatchRepo(match)
	betRepo := newFakeBetRepo(bet(1, 7, 100, intPtr(10), 2, 0))
	svc := NewSettlementService(matchRepo, betRepo, newFakeRulesRepo(), nil, testLogger())

	_, err := svc.SettleMatch(context.Background(), 7)

	require.ErrorIs(t, err, ErrMatchNotFinished)
	assert.Empty(t, betRepo.settled, "no settlement may be written for an unfinished match")
	assert.Empty(t, matchRepo.underdogUpdates)
}

func TestSettleMatchScoresEveryBet(t *testing.T) {
	// Team 20 wins 2-1 while only one of three bettors picked it, making it a
	// moderate underdog. Default rules: winner 1, exact 3, tier bonuses 2/1.
	match := finishedTestMatch(7, 10, 20, 20, 2, 1)
	matchRepo := newFakeMatchRepo(match)
	betRepo := newFakeBetRepo(
		bet(1, 7, 100, intPtr(10), 2, 0),
		bet(2, 7, 101, intPtr(10), 2, 1),
		bet(3, 7, 102, intPtr(20), 2, 1),
	)
	svc := NewSettlementService(matchRepo, betRepo, newFakeRulesRepo(), nil, testLogger())

	summary, err := svc.SettleMatch(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 3, summary.BetsSettled)
	assert.Equal(t, 0, summary.BetsFailed)
	require.NotNil(t, summary.Underdog)
	assert.Equal(t, 20, summary.Underdog.TeamID)
	assert.Equal(t, engine.UnderdogTierModerate, summary.Underdog.Tier)

	// Wrong winner scores nothing, even with the right digits.
	assert.Equal(t, settledBet{points: 0}, betRepo.settled[1])
	assert.Equal(t, settledBet{points: 0}, betRepo.settled[2])
	// Exact score on the underdog: exact 3 plus tier-2 bonus 1.
	assert.Equal(t, settledBet{points: 4, perfect: true, underdog: true}, betRepo.settled[3])

	require.Len(t, matchRepo.underdogUpdates, 1)
	assert.Equal(t, intPtr(20), matchRepo.underdogUpdates[0].teamID)
	assert.Equal(t, intPtr(engine.UnderdogTierModerate), matchRepo.underdogUpdates[0].tier)
}

func TestSettleMatchContinuesPastFailedWrite(t *testing.T) {
	match := finishedTestMatch(7, 10, 20, 10, 2, 0)
	betRepo := newFakeBetRepo(
		bet(1, 7, 100, intPtr(10), 2, 0),
		bet(2, 7, 101, intPtr(10), 1, 0),
		bet(3, 7, 102, intPtr(20), 0, 2),
	)
	betRepo.failBetIDs[2] = true
	svc := NewSettlementService(newFakeMatchRepo(match), betRepo, newFakeRulesRepo(), nil, testLogger())

	summary, err := svc.SettleMatch(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.BetsSettled)
	assert.Equal(t, 1, summary.BetsFailed)
	assert.Contains(t, betRepo.settled, 1)
	assert.Contains(t, betRepo.settled, 3)
	assert.NotContains(t, betRepo.settled, 2)
}

func TestSettleMatchIsIdempotent(t *testing.T) {
	match := finishedTestMatch(7, 10, 20, 20, 2, 1)
	matchRepo := newFakeMatchRepo(match)
	// Picks split 2 to 1, so team 20 carries an underdog designation.
	betRepo := newFakeBetRepo(
		bet(1, 7, 100, intPtr(10), 2, 0),
		bet(2, 7, 101, intPtr(20), 2, 1),
		bet(3, 7, 102, intPtr(10), 1, 0),
	)
	svc := NewSettlementService(matchRepo, betRepo, newFakeRulesRepo(), nil, testLogger())

	first, err := svc.SettleMatch(context.Background(), 7)
	require.NoError(t, err)
	firstSettled := make(map[int]settledBet, len(betRepo.settled))
	for id, s := range betRepo.settled {
		firstSettled[id] = s
	}

	second, err := svc.SettleMatch(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, first.BetsSettled, second.BetsSettled)
	assert.Equal(t, firstSettled, betRepo.settled)
	// The designation did not change, so the second run writes nothing.
	assert.Len(t, matchRepo.underdogUpdates, 1)
}

func TestSettleMatchUsesStageOverrideRules(t *testing.T) {
	match := finishedTestMatch(7, 10, 20, 10, 2, 0)
	match.StageID = intPtr(3)
	rulesRepo := newFakeRulesRepo()
	rulesRepo.stages[[2]int{1, 3}] = &models.ScoringRules{
		TournamentID: 1,
		StageID:      intPtr(3),
		Winner:       intPtr(10),
		Exact:        intPtr(25),
	}
	betRepo := newFakeBetRepo(bet(1, 7, 100, intPtr(10), 1, 0))
	svc := NewSettlementService(newFakeMatchRepo(match), betRepo, rulesRepo, nil, testLogger())

	_, err := svc.SettleMatch(context.Background(), 7)

	require.NoError(t, err)
	// Right winner, wrong score, stage override winner reward of 10.
	assert.Equal(t, settledBet{points: 10}, betRepo.settled[1])
}

func TestPreviewPointsDoesNotPersist(t *testing.T) {
	betRepo := newFakeBetRepo()
	svc := NewSettlementService(newFakeMatchRepo(), betRepo, newFakeRulesRepo(), nil, testLogger())

	breakdown := svc.PreviewPoints(
		bet(0, 0, 0, intPtr(10), 2, 0),
		engine.Result{WinnerID: intPtr(10), ScoreA: intPtr(2), ScoreB: intPtr(0)},
		nil,
	)

	assert.Equal(t, 3, breakdown.Points)
	assert.True(t, breakdown.IsPerfectPick)
	assert.Empty(t, betRepo.settled)
}
