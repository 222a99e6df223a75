package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/avshev/prediction-league/models"
	"github.com/avshev/prediction-league/repositories"
)

// In-memory repository fakes for service tests. They implement only the
// behavior the services under test exercise and record every write.

type fakeMatchRepo struct {
	matches map[int]*models.Match

	underdogUpdates []underdogUpdate
	resultUpdates   []resultUpdate
}

type underdogUpdate struct {
	matchID int
	teamID  *int
	tier    *int
}

type resultUpdate struct {
	matchID  int
	winnerID int
	scoreA   int
	scoreB   int
}

func newFakeMatchRepo(matches ...*models.Match) *fakeMatchRepo {
	repo := &fakeMatchRepo{matches: make(map[int]*models.Match)}
	for _, match := range matches {
		repo.matches[match.ID] = match
	}
	return repo
}

func (r *fakeMatchRepo) Create(_ context.Context, match *models.Match) error {
	match.ID = len(r.matches) + 1
	r.matches[match.ID] = match
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return match, nil
}

func (r *fakeMatchRepo) ListByTournament(_ context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	var matches []*models.Match
	for _, match := range r.matches {
		if match.TournamentID != tournamentID {
			continue
		}
		if status != nil && match.Status != *status {
			continue
		}
		matches = append(matches, match)
	}
	return matches, nil
}

func (r *fakeMatchRepo) Update(_ context.Context, match *models.Match) error {
	if _, ok := r.matches[match.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	r.matches[match.ID] = match
	return nil
}

func (r *fakeMatchRepo) UpdateResult(_ context.Context, id int, winnerID, scoreA, scoreB int) error {
	match, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.WinnerID = &winnerID
	match.ScoreA = &scoreA
	match.ScoreB = &scoreB
	match.Status = models.MatchStatusFinished
	r.resultUpdates = append(r.resultUpdates, resultUpdate{id, winnerID, scoreA, scoreB})
	return nil
}

func (r *fakeMatchRepo) UpdateUnderdog(_ context.Context, id int, teamID *int, tier *int) error {
	match, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.UnderdogTeamID = teamID
	match.UnderdogTier = tier
	r.underdogUpdates = append(r.underdogUpdates, underdogUpdate{id, teamID, tier})
	return nil
}

func (r *fakeMatchRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

type settledBet struct {
	points   int
	perfect  bool
	underdog bool
}

type fakeBetRepo struct {
	bets          []*models.Bet
	settled       map[int]settledBet
	failBetIDs    map[int]bool
	listByUserHit int
}

func newFakeBetRepo(bets ...*models.Bet) *fakeBetRepo {
	return &fakeBetRepo{
		bets:       bets,
		settled:    make(map[int]settledBet),
		failBetIDs: make(map[int]bool),
	}
}

func (r *fakeBetRepo) Upsert(_ context.Context, bet *models.Bet) error {
	for _, existing := range r.bets {
		if existing.MatchID == bet.MatchID && existing.UserID == bet.UserID {
			existing.PredictedWinnerID = bet.PredictedWinnerID
			existing.PredictedScoreA = bet.PredictedScoreA
			existing.PredictedScoreB = bet.PredictedScoreB
			bet.ID = existing.ID
			return nil
		}
	}
	bet.ID = len(r.bets) + 1
	r.bets = append(r.bets, bet)
	return nil
}

func (r *fakeBetRepo) GetByMatchAndUser(_ context.Context, matchID, userID int) (*models.Bet, error) {
	for _, bet := range r.bets {
		if bet.MatchID == matchID && bet.UserID == userID {
			return bet, nil
		}
	}
	return nil, repositories.ErrBetNotFound
}

func (r *fakeBetRepo) ListByMatch(_ context.Context, matchID int) ([]*models.Bet, error) {
	var bets []*models.Bet
	for _, bet := range r.bets {
		if bet.MatchID == matchID {
			bets = append(bets, bet)
		}
	}
	return bets, nil
}

func (r *fakeBetRepo) ListByTournamentAndUser(_ context.Context, _, userID int) ([]*models.Bet, error) {
	r.listByUserHit++
	var bets []*models.Bet
	for _, bet := range r.bets {
		if bet.UserID == userID {
			bets = append(bets, bet)
		}
	}
	return bets, nil
}

func (r *fakeBetRepo) UpdateSettlement(_ context.Context, betID int, points int, perfect, underdog bool) error {
	if r.failBetIDs[betID] {
		return fmt.Errorf("write failed for bet %d", betID)
	}
	r.settled[betID] = settledBet{points: points, perfect: perfect, underdog: underdog}
	return nil
}

func (r *fakeBetRepo) LeaderboardByTournament(_ context.Context, _ int) ([]*models.LeaderboardEntry, error) {
	return nil, errors.New("not implemented")
}

type fakeRulesRepo struct {
	tournament map[int]*models.ScoringRules
	stages     map[[2]int]*models.ScoringRules
}

func newFakeRulesRepo() *fakeRulesRepo {
	return &fakeRulesRepo{
		tournament: make(map[int]*models.ScoringRules),
		stages:     make(map[[2]int]*models.ScoringRules),
	}
}

func (r *fakeRulesRepo) GetByTournament(_ context.Context, tournamentID int) (*models.ScoringRules, error) {
	rules, ok := r.tournament[tournamentID]
	if !ok {
		return nil, repositories.ErrScoringRulesNotFound
	}
	return rules, nil
}

func (r *fakeRulesRepo) GetStageOverride(_ context.Context, tournamentID, stageID int) (*models.ScoringRules, error) {
	rules, ok := r.stages[[2]int{tournamentID, stageID}]
	if !ok {
		return nil, repositories.ErrScoringRulesNotFound
	}
	return rules, nil
}

func (r *fakeRulesRepo) Upsert(_ context.Context, rules *models.ScoringRules) error {
	if rules.StageID != nil {
		r.stages[[2]int{rules.TournamentID, *rules.StageID}] = rules
	} else {
		r.tournament[rules.TournamentID] = rules
	}
	return nil
}

func intPtr(v int) *int { return &v }
