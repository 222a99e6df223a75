package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/avshev/prediction-league/brackets"
	"github.com/avshev/prediction-league/models"
	"github.com/avshev/prediction-league/repositories"
)

type MatchService interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)
	Update(ctx context.Context, match *models.Match) error
	Delete(ctx context.Context, id int) error
	// EnterResult records the final score and winner, marks the match finished
	// and triggers settlement of its bets.
	EnterResult(ctx context.Context, matchID int, input ResultInput) (*SettlementSummary, error)
}

type ResultInput struct {
	WinnerID int `json:"winner_id"`
	ScoreA   int `json:"score_a"`
	ScoreB   int `json:"score_b"`
}

type matchService struct {
	matchRepo  repositories.MatchRepository
	settlement SettlementService
	hub        *brackets.Hub
	logger     *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	settlement SettlementService,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:  matchRepo,
		settlement: settlement,
		hub:        hub,
		logger:     logger,
	}
}

func (s *matchService) Create(ctx context.Context, match *models.Match) error {
	if match.Status == "" {
		match.Status = models.MatchStatusScheduled
	}
	return s.matchRepo.Create(ctx, match)
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

func (s *matchService) Update(ctx context.Context, match *models.Match) error {
	err := s.matchRepo.Update(ctx, match)
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return ErrMatchNotFound
	}
	return err
}

func (s *matchService) Delete(ctx context.Context, id int) error {
	err := s.matchRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return ErrMatchNotFound
	}
	return err
}

func (s *matchService) EnterResult(ctx context.Context, matchID int, input ResultInput) (*SettlementSummary, error) {
	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.TeamAID == nil || match.TeamBID == nil {
		return nil, ErrMatchTeamsNotSet
	}
	if input.WinnerID != *match.TeamAID && input.WinnerID != *match.TeamBID {
		return nil, ErrResultInvalid
	}
	if input.ScoreA < 0 || input.ScoreB < 0 {
		return nil, ErrResultInvalid
	}

	if err := s.matchRepo.UpdateResult(ctx, matchID, input.WinnerID, input.ScoreA, input.ScoreB); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrResultInvalid
		}
		return nil, fmt.Errorf("failed to store result for match %d: %w", matchID, err)
	}

	s.hub.BroadcastToRoom(brackets.TournamentRoom(match.TournamentID), brackets.Event{
		Type:    brackets.EventBracketUpdated,
		Payload: map[string]int{"match_id": matchID},
	})

	summary, err := s.settlement.SettleMatch(ctx, matchID)
	if err != nil {
		// The result is already stored; surface the settlement failure without
		// rolling the result back. Re-running settlement later is safe.
		s.logger.Error("settlement after result entry failed",
			slog.Int("match_id", matchID),
			slog.Any("error", err))
		return nil, err
	}
	return summary, nil
}
