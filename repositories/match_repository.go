package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avshev/prediction-league/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchTeamInvalid = errors.New("match references an unknown team")
)

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error)
	Update(ctx context.Context, match *models.Match) error
	// UpdateResult sets winner, score and the finished status in one statement,
	// keeping the "set together" invariant at the storage level.
	UpdateResult(ctx context.Context, id int, winnerID, scoreA, scoreB int) error
	UpdateUnderdog(ctx context.Context, id int, teamID *int, tier *int) error
	Delete(ctx context.Context, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchSelect = `
	SELECT
		m.id, m.tournament_id, m.stage_id, m.name, m.team_a_id, m.team_b_id,
		m.status, m.start_time, m.winner_id, m.score_a, m.score_b,
		m.underdog_team_id, m.underdog_tier,
		m.round_index, m.bracket_side, m.display_order, m.slot_role,
		m.team_a_prev_match_id, m.team_a_prev_match_result,
		m.team_b_prev_match_id, m.team_b_prev_match_result,
		m.created_at,
		ta.id, ta.name, ta.slug, ta.region, ta.logo_key, ta.created_at,
		tb.id, tb.name, tb.slug, tb.region, tb.logo_key, tb.created_at
	FROM matches m
	LEFT JOIN teams ta ON ta.id = m.team_a_id
	LEFT JOIN teams tb ON tb.id = m.team_b_id`

func scanMatch(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	match := &models.Match{}
	var (
		teamAID        sql.NullInt64
		teamAName      sql.NullString
		teamASlug      sql.NullString
		teamARegion    sql.NullString
		teamALogoKey   sql.NullString
		teamACreatedAt sql.NullTime
		teamBID        sql.NullInt64
		teamBName      sql.NullString
		teamBSlug      sql.NullString
		teamBRegion    sql.NullString
		teamBLogoKey   sql.NullString
		teamBCreatedAt sql.NullTime
	)

	err := row.Scan(
		&match.ID, &match.TournamentID, &match.StageID, &match.Name,
		&match.TeamAID, &match.TeamBID,
		&match.Status, &match.StartTime,
		&match.WinnerID, &match.ScoreA, &match.ScoreB,
		&match.UnderdogTeamID, &match.UnderdogTier,
		&match.RoundIndex, &match.BracketSide, &match.DisplayOrder, &match.SlotRole,
		&match.TeamAPrevMatchID, &match.TeamAPrevMatchResult,
		&match.TeamBPrevMatchID, &match.TeamBPrevMatchResult,
		&match.CreatedAt,
		&teamAID, &teamAName, &teamASlug, &teamARegion, &teamALogoKey, &teamACreatedAt,
		&teamBID, &teamBName, &teamBSlug, &teamBRegion, &teamBLogoKey, &teamBCreatedAt,
	)
	if err != nil {
		return nil, err
	}

	match.TeamA = teamFromNullable(teamAID, teamAName, teamASlug, teamARegion, teamALogoKey, teamACreatedAt)
	match.TeamB = teamFromNullable(teamBID, teamBName, teamBSlug, teamBRegion, teamBLogoKey, teamBCreatedAt)
	return match, nil
}

func teamFromNullable(id sql.NullInt64, name, slug, region, logoKey sql.NullString, createdAt sql.NullTime) *models.Team {
	if !id.Valid {
		return nil
	}
	team := &models.Team{
		ID:        int(id.Int64),
		Name:      name.String,
		CreatedAt: createdAt.Time,
	}
	if slug.Valid {
		v := slug.String
		team.Slug = &v
	}
	if region.Valid {
		v := region.String
		team.Region = &v
	}
	if logoKey.Valid {
		v := logoKey.String
		team.LogoKey = &v
	}
	return team
}

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, stage_id, name, team_a_id, team_b_id, status, start_time,
			 round_index, bracket_side, display_order, slot_role,
			 team_a_prev_match_id, team_a_prev_match_result,
			 team_b_prev_match_id, team_b_prev_match_result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		match.TournamentID,
		match.StageID,
		match.Name,
		match.TeamAID,
		match.TeamBID,
		match.Status,
		match.StartTime,
		match.RoundIndex,
		match.BracketSide,
		match.DisplayOrder,
		match.SlotRole,
		match.TeamAPrevMatchID,
		match.TeamAPrevMatchResult,
		match.TeamBPrevMatchID,
		match.TeamBPrevMatchResult,
	).Scan(&match.ID, &match.CreatedAt)
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := scanMatch(r.db.QueryRowContext(ctx, matchSelect+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	query := matchSelect + ` WHERE m.tournament_id = $1`
	args := []interface{}{tournamentID}
	if status != nil {
		query += ` AND m.status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY m.round_index ASC, m.display_order ASC, m.id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) Update(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches
		SET stage_id = $1, name = $2, team_a_id = $3, team_b_id = $4, status = $5,
			start_time = $6, round_index = $7, bracket_side = $8, display_order = $9,
			slot_role = $10,
			team_a_prev_match_id = $11, team_a_prev_match_result = $12,
			team_b_prev_match_id = $13, team_b_prev_match_result = $14
		WHERE id = $15`

	result, err := r.db.ExecContext(ctx, query,
		match.StageID, match.Name, match.TeamAID, match.TeamBID, match.Status,
		match.StartTime, match.RoundIndex, match.BracketSide, match.DisplayOrder,
		match.SlotRole,
		match.TeamAPrevMatchID, match.TeamAPrevMatchResult,
		match.TeamBPrevMatchID, match.TeamBPrevMatchResult,
		match.ID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return r.requireRow(result)
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, id int, winnerID, scoreA, scoreB int) error {
	query := `
		UPDATE matches
		SET winner_id = $1, score_a = $2, score_b = $3, status = $4
		WHERE id = $5 AND (team_a_id = $1 OR team_b_id = $1)`

	result, err := r.db.ExecContext(ctx, query, winnerID, scoreA, scoreB, models.MatchStatusFinished, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return r.requireRow(result)
}

func (r *postgresMatchRepository) UpdateUnderdog(ctx context.Context, id int, teamID *int, tier *int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE matches SET underdog_team_id = $1, underdog_tier = $2 WHERE id = $3`,
		teamID, tier, id)
	if err != nil {
		return err
	}
	return r.requireRow(result)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return r.requireRow(result)
}

func (r *postgresMatchRepository) requireRow(result sql.Result) error {
	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		return ErrMatchTeamInvalid
	}
	return err
}
