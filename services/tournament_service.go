package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/avshev/prediction-league/models"
	"github.com/avshev/prediction-league/repositories"
	"github.com/avshev/prediction-league/storage"
)

type TournamentService interface {
	Create(ctx context.Context, input TournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error)
	Update(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error)
	UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error

	GetScoringRules(ctx context.Context, tournamentID int) (models.ResolvedScoringRules, error)
	SetScoringRules(ctx context.Context, rules *models.ScoringRules) error
}

type TournamentInput struct {
	Name        string                  `json:"name"`
	Description *string                 `json:"description"`
	Status      models.TournamentStatus `json:"status"`
	StartDate   time.Time               `json:"start_date"`
	EndDate     time.Time               `json:"end_date"`
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	rulesRepo      repositories.ScoringRulesRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	rulesRepo repositories.ScoringRulesRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		rulesRepo:      rulesRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

func validateTournamentInput(input TournamentInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrValidationFailed)
	}
	if !input.StartDate.Before(input.EndDate) {
		return fmt.Errorf("%w: start date must be before end date", ErrValidationFailed)
	}
	switch input.Status {
	case models.TournamentStatusUpcoming, models.TournamentStatusActive, models.TournamentStatusCompleted:
		return nil
	default:
		return fmt.Errorf("%w: unknown tournament status %q", ErrValidationFailed, input.Status)
	}
}

func (s *tournamentService) Create(ctx context.Context, input TournamentInput) (*models.Tournament, error) {
	if input.Status == "" {
		input.Status = models.TournamentStatusUpcoming
	}
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Status:      input.Status,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	populateTournamentLogoURL(tournament, s.uploader)
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for _, tournament := range tournaments {
		populateTournamentLogoURL(tournament, s.uploader)
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error) {
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		ID:          id,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Status:      input.Status,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return nil, ErrTournamentNotFound
		case errors.Is(err, repositories.ErrTournamentNameConflict):
			return nil, ErrTournamentNameConflict
		default:
			return nil, fmt.Errorf("failed to update tournament %d: %w", id, err)
		}
	}
	return s.GetByID(ctx, id)
}

func (s *tournamentService) UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrUploaderNotConfigured
	}

	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext, err := ExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLogoType, err)
	}

	oldKey := tournament.LogoKey
	key := fmt.Sprintf("tournaments/%d/logo%s", id, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload tournament logo: %w", err)
	}

	if err := s.tournamentRepo.UpdateLogoKey(ctx, id, &key); err != nil {
		return nil, fmt.Errorf("failed to store tournament logo key: %w", err)
	}

	if oldKey != nil && *oldKey != key {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			s.logger.WarnContext(ctx, "failed to delete previous tournament logo",
				slog.Int("tournament_id", id),
				slog.String("key", *oldKey),
				slog.Any("error", delErr))
		}
	}

	tournament.LogoKey = &key
	populateTournamentLogoURL(tournament, s.uploader)
	return tournament, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to delete tournament %d: %w", id, err)
	}
	return nil
}

func (s *tournamentService) GetScoringRules(ctx context.Context, tournamentID int) (models.ResolvedScoringRules, error) {
	rules, err := s.rulesRepo.GetByTournament(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrScoringRulesNotFound) {
			return (*models.ScoringRules)(nil).Sanitized(), nil
		}
		return models.ResolvedScoringRules{}, fmt.Errorf("failed to get scoring rules: %w", err)
	}
	return rules.Sanitized(), nil
}

func (s *tournamentService) SetScoringRules(ctx context.Context, rules *models.ScoringRules) error {
	if rules == nil || rules.TournamentID == 0 {
		return fmt.Errorf("%w: scoring rules must reference a tournament", ErrValidationFailed)
	}
	if _, err := s.GetByID(ctx, rules.TournamentID); err != nil {
		return err
	}
	if err := s.rulesRepo.Upsert(ctx, rules); err != nil {
		return fmt.Errorf("failed to save scoring rules: %w", err)
	}
	return nil
}

func populateTournamentLogoURL(tournament *models.Tournament, uploader storage.FileUploader) {
	if tournament == nil || tournament.LogoKey == nil || *tournament.LogoKey == "" || uploader == nil {
		return
	}
	if url := uploader.GetPublicURL(*tournament.LogoKey); url != "" {
		tournament.LogoURL = &url
	}
}
