package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/avshev/prediction-league/engine"
	"github.com/avshev/prediction-league/models"
	"github.com/avshev/prediction-league/repositories"
	"golang.org/x/sync/errgroup"
)

// ProjectionService feeds rendering components with derived views: the bracket
// with resolvable slots filled in, and group standings. Nothing is persisted;
// every call works on its own snapshot.
type ProjectionService interface {
	// ProjectBracket returns the match set with unresolved slots derived from
	// confirmed results, and from the user's own predictions when
	// includePredictions is set.
	ProjectBracket(ctx context.Context, tournamentID, userID int, includePredictions bool) ([]*models.Match, error)
	// Standings derives the group tables, optionally treating the user's
	// predictions as results for unfinished matches.
	Standings(ctx context.Context, tournamentID, userID int, includePredictions bool) ([]engine.Standing, error)
}

type projectionService struct {
	matchRepo repositories.MatchRepository
	betRepo   repositories.BetRepository
}

func NewProjectionService(matchRepo repositories.MatchRepository, betRepo repositories.BetRepository) ProjectionService {
	return &projectionService{matchRepo: matchRepo, betRepo: betRepo}
}

func (s *projectionService) ProjectBracket(ctx context.Context, tournamentID, userID int, includePredictions bool) ([]*models.Match, error) {
	matches, bets, err := s.loadSnapshot(ctx, tournamentID, userID, includePredictions)
	if err != nil {
		return nil, err
	}

	predictedWinners := make(map[int]int, len(bets))
	for _, bet := range bets {
		if bet.PredictedWinnerID != nil {
			predictedWinners[bet.MatchID] = *bet.PredictedWinnerID
		}
	}
	return engine.ProjectBracket(matches, predictedWinners, includePredictions), nil
}

func (s *projectionService) Standings(ctx context.Context, tournamentID, userID int, includePredictions bool) ([]engine.Standing, error) {
	matches, bets, err := s.loadSnapshot(ctx, tournamentID, userID, includePredictions)
	if err != nil {
		return nil, err
	}

	var predicted map[int]engine.PredictedOutcome
	if includePredictions {
		predicted = make(map[int]engine.PredictedOutcome, len(bets))
		for _, bet := range bets {
			if bet.PredictedWinnerID == nil {
				continue
			}
			predicted[bet.MatchID] = engine.PredictedOutcome{
				WinnerID: *bet.PredictedWinnerID,
				Score:    engine.FormatScorePair(bet.PredictedScoreA, bet.PredictedScoreB),
			}
		}
	}
	return engine.ComputeStandings(matches, predicted), nil
}

// loadSnapshot fetches matches and, when predictions are requested, the
// user's bets in parallel.
func (s *projectionService) loadSnapshot(ctx context.Context, tournamentID, userID int, includePredictions bool) ([]*models.Match, []*models.Bet, error) {
	var (
		matches []*models.Match
		bets    []*models.Bet
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loaded, err := s.matchRepo.ListByTournament(gCtx, tournamentID, nil)
		if err != nil {
			return fmt.Errorf("failed to load matches for tournament %d: %w", tournamentID, err)
		}
		matches = loaded
		return nil
	})
	if includePredictions {
		g.Go(func() error {
			loaded, err := s.betRepo.ListByTournamentAndUser(gCtx, tournamentID, userID)
			if err != nil {
				if errors.Is(err, repositories.ErrBetNotFound) {
					return nil
				}
				return fmt.Errorf("failed to load bets for tournament %d: %w", tournamentID, err)
			}
			bets = loaded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return matches, bets, nil
}
