package services

import (
	"context"
	"fmt"

	"github.com/avshev/prediction-league/models"
	"github.com/avshev/prediction-league/repositories"
)

// LeaderboardService ranks users by their summed settlement output. It never
// rescores anything; the settlement service owns the points.
type LeaderboardService interface {
	Tournament(ctx context.Context, tournamentID int) ([]*models.LeaderboardEntry, error)
}

type leaderboardService struct {
	betRepo repositories.BetRepository
}

func NewLeaderboardService(betRepo repositories.BetRepository) LeaderboardService {
	return &leaderboardService{betRepo: betRepo}
}

func (s *leaderboardService) Tournament(ctx context.Context, tournamentID int) ([]*models.LeaderboardEntry, error) {
	entries, err := s.betRepo.LeaderboardByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to build leaderboard for tournament %d: %w", tournamentID, err)
	}
	return entries, nil
}
