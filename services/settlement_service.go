package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/avshev/prediction-league/brackets"
	"github.com/avshev/prediction-league/engine"
	"github.com/avshev/prediction-league/models"
	"github.com/avshev/prediction-league/repositories"
)

// SettlementService is the only component with side effects around the
// engine: it scores every bet of one finished match and persists the output.
type SettlementService interface {
	// SettleMatch scores and persists all bets of a finished match. Safe to
	// re-run: it recomputes and overwrites the same values.
	SettleMatch(ctx context.Context, matchID int) (*SettlementSummary, error)
	// PreviewPoints scores a hypothetical prediction against a hypothetical
	// result without writing anything. Used by admin compensation tooling.
	PreviewPoints(bet *models.Bet, result engine.Result, rules *models.ScoringRules) engine.Breakdown
}

type SettlementSummary struct {
	MatchID     int              `json:"match_id"`
	BetsSettled int              `json:"bets_settled"`
	BetsFailed  int              `json:"bets_failed"`
	Underdog    *engine.Underdog `json:"underdog,omitempty"`
}

type settlementService struct {
	matchRepo repositories.MatchRepository
	betRepo   repositories.BetRepository
	rulesRepo repositories.ScoringRulesRepository
	hub       *brackets.Hub
	logger    *slog.Logger
}

func NewSettlementService(
	matchRepo repositories.MatchRepository,
	betRepo repositories.BetRepository,
	rulesRepo repositories.ScoringRulesRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) SettlementService {
	return &settlementService{
		matchRepo: matchRepo,
		betRepo:   betRepo,
		rulesRepo: rulesRepo,
		hub:       hub,
		logger:    logger,
	}
}

func (s *settlementService) SettleMatch(ctx context.Context, matchID int) (*SettlementSummary, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d for settlement: %w", matchID, err)
	}
	if !match.IsFinished() || match.WinnerID == nil {
		return nil, ErrMatchNotFinished
	}

	rules, err := s.loadRules(ctx, match)
	if err != nil {
		return nil, err
	}

	bets, err := s.betRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bets for match %d: %w", matchID, err)
	}

	// The underdog designation comes from the final bet distribution, not from
	// anything fixed at match creation.
	var underdog *engine.Underdog
	if match.TeamAID != nil && match.TeamBID != nil {
		underdog = engine.ClassifyUnderdog(bets, *match.TeamAID, *match.TeamBID)
	}
	if err := s.persistUnderdog(ctx, match, underdog); err != nil {
		return nil, err
	}

	result := engine.Result{
		WinnerID: match.WinnerID,
		ScoreA:   match.ScoreA,
		ScoreB:   match.ScoreB,
	}
	if underdog != nil {
		result.UnderdogTeamID = &underdog.TeamID
		result.UnderdogTier = underdog.Tier
	}

	summary := &SettlementSummary{MatchID: matchID, Underdog: underdog}
	for _, bet := range bets {
		breakdown := engine.CalculatePoints(bet, result, rules)
		if updateErr := s.betRepo.UpdateSettlement(ctx, bet.ID, breakdown.Points, breakdown.IsPerfectPick, breakdown.IsUnderdogPick); updateErr != nil {
			// One failed write must not block the rest of the batch.
			summary.BetsFailed++
			s.logger.Error("failed to persist bet settlement",
				slog.Int("match_id", matchID),
				slog.Int("bet_id", bet.ID),
				slog.Any("error", updateErr))
			continue
		}
		summary.BetsSettled++
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(brackets.TournamentRoom(match.TournamentID), brackets.Event{
			Type:    brackets.EventMatchSettled,
			Payload: summary,
		})
	}
	return summary, nil
}

func (s *settlementService) PreviewPoints(bet *models.Bet, result engine.Result, rules *models.ScoringRules) engine.Breakdown {
	return engine.CalculatePoints(bet, result, rules.Sanitized())
}

// loadRules resolves the rule set for a match: the stage override when the
// match belongs to a stage that has one, otherwise the tournament rules, and
// failing both, the defaults.
func (s *settlementService) loadRules(ctx context.Context, match *models.Match) (models.ResolvedScoringRules, error) {
	if match.StageID != nil {
		rules, err := s.rulesRepo.GetStageOverride(ctx, match.TournamentID, *match.StageID)
		if err == nil {
			return rules.Sanitized(), nil
		}
		if !errors.Is(err, repositories.ErrScoringRulesNotFound) {
			return models.ResolvedScoringRules{}, fmt.Errorf("failed to load stage scoring rules: %w", err)
		}
	}

	rules, err := s.rulesRepo.GetByTournament(ctx, match.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrScoringRulesNotFound) {
			return (*models.ScoringRules)(nil).Sanitized(), nil
		}
		return models.ResolvedScoringRules{}, fmt.Errorf("failed to load tournament scoring rules: %w", err)
	}
	return rules.Sanitized(), nil
}

func (s *settlementService) persistUnderdog(ctx context.Context, match *models.Match, underdog *engine.Underdog) error {
	var teamID, tier *int
	if underdog != nil {
		teamID, tier = &underdog.TeamID, &underdog.Tier
	}

	unchanged := equalIntPtr(match.UnderdogTeamID, teamID) && equalIntPtr(match.UnderdogTier, tier)
	if unchanged {
		return nil
	}
	if err := s.matchRepo.UpdateUnderdog(ctx, match.ID, teamID, tier); err != nil {
		return fmt.Errorf("failed to persist underdog for match %d: %w", match.ID, err)
	}
	match.UnderdogTeamID = teamID
	match.UnderdogTier = tier
	return nil
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
