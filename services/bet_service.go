package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/avshev/prediction-league/models"
	"github.com/avshev/prediction-league/repositories"
)

type BetService interface {
	// Place creates or replaces the user's bet on a match. Betting closes the
	// moment a match leaves the scheduled state.
	Place(ctx context.Context, userID int, input PlaceBetInput) (*models.Bet, error)
	GetOwn(ctx context.Context, matchID, userID int) (*models.Bet, error)
	ListOwnByTournament(ctx context.Context, tournamentID, userID int) ([]*models.Bet, error)
}

type PlaceBetInput struct {
	MatchID           int  `json:"match_id"`
	PredictedWinnerID *int `json:"predicted_winner_id"`
	PredictedScoreA   int  `json:"predicted_score_a"`
	PredictedScoreB   int  `json:"predicted_score_b"`
}

type betService struct {
	betRepo   repositories.BetRepository
	matchRepo repositories.MatchRepository
}

func NewBetService(betRepo repositories.BetRepository, matchRepo repositories.MatchRepository) BetService {
	return &betService{betRepo: betRepo, matchRepo: matchRepo}
}

func (s *betService) Place(ctx context.Context, userID int, input PlaceBetInput) (*models.Bet, error) {
	if input.PredictedScoreA < 0 || input.PredictedScoreB < 0 {
		return nil, ErrBetInvalidScore
	}

	match, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", input.MatchID, err)
	}
	if match.Status != models.MatchStatusScheduled {
		return nil, ErrBettingClosed
	}
	if input.PredictedWinnerID != nil {
		validA := match.TeamAID != nil && *match.TeamAID == *input.PredictedWinnerID
		validB := match.TeamBID != nil && *match.TeamBID == *input.PredictedWinnerID
		if !validA && !validB {
			return nil, ErrBetInvalidWinner
		}
	}

	bet := &models.Bet{
		MatchID:           input.MatchID,
		UserID:            userID,
		PredictedWinnerID: input.PredictedWinnerID,
		PredictedScoreA:   input.PredictedScoreA,
		PredictedScoreB:   input.PredictedScoreB,
	}
	if err := s.betRepo.Upsert(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to store bet: %w", err)
	}
	return bet, nil
}

func (s *betService) GetOwn(ctx context.Context, matchID, userID int) (*models.Bet, error) {
	bet, err := s.betRepo.GetByMatchAndUser(ctx, matchID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrBetNotFound) {
			return nil, ErrBetNotFound
		}
		return nil, err
	}
	return bet, nil
}

func (s *betService) ListOwnByTournament(ctx context.Context, tournamentID, userID int) ([]*models.Bet, error) {
	bets, err := s.betRepo.ListByTournamentAndUser(ctx, tournamentID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets for tournament %d: %w", tournamentID, err)
	}
	return bets, nil
}
