package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avshev/prediction-league/models"
)

var ErrScoringRulesNotFound = errors.New("scoring rules not found")

type ScoringRulesRepository interface {
	GetByTournament(ctx context.Context, tournamentID int) (*models.ScoringRules, error)
	GetStageOverride(ctx context.Context, tournamentID, stageID int) (*models.ScoringRules, error)
	Upsert(ctx context.Context, rules *models.ScoringRules) error
}

type postgresScoringRulesRepository struct {
	db *sql.DB
}

func NewPostgresScoringRulesRepository(db *sql.DB) ScoringRulesRepository {
	return &postgresScoringRulesRepository{db: db}
}

const scoringRulesColumns = `id, tournament_id, stage_id, winner, exact, underdog_25, underdog_50`

func scanScoringRules(row interface{ Scan(...interface{}) error }) (*models.ScoringRules, error) {
	rules := &models.ScoringRules{}
	err := row.Scan(
		&rules.ID, &rules.TournamentID, &rules.StageID,
		&rules.Winner, &rules.Exact, &rules.Underdog25, &rules.Underdog50,
	)
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *postgresScoringRulesRepository) GetByTournament(ctx context.Context, tournamentID int) (*models.ScoringRules, error) {
	query := `SELECT ` + scoringRulesColumns + ` FROM scoring_rules
		WHERE tournament_id = $1 AND stage_id IS NULL`
	return r.getOne(ctx, query, tournamentID)
}

func (r *postgresScoringRulesRepository) GetStageOverride(ctx context.Context, tournamentID, stageID int) (*models.ScoringRules, error) {
	query := `SELECT ` + scoringRulesColumns + ` FROM scoring_rules
		WHERE tournament_id = $1 AND stage_id = $2`
	return r.getOne(ctx, query, tournamentID, stageID)
}

func (r *postgresScoringRulesRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.ScoringRules, error) {
	rules, err := scanScoringRules(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScoringRulesNotFound
		}
		return nil, err
	}
	return rules, nil
}

func (r *postgresScoringRulesRepository) Upsert(ctx context.Context, rules *models.ScoringRules) error {
	query := `
		INSERT INTO scoring_rules (tournament_id, stage_id, winner, exact, underdog_25, underdog_50)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tournament_id, COALESCE(stage_id, 0)) DO UPDATE
		SET winner = EXCLUDED.winner,
			exact = EXCLUDED.exact,
			underdog_25 = EXCLUDED.underdog_25,
			underdog_50 = EXCLUDED.underdog_50
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		rules.TournamentID,
		rules.StageID,
		rules.Winner,
		rules.Exact,
		rules.Underdog25,
		rules.Underdog50,
	).Scan(&rules.ID)
}
