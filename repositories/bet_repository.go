package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avshev/prediction-league/models"
	"github.com/lib/pq"
)

var (
	ErrBetNotFound     = errors.New("bet not found")
	ErrBetMatchInvalid = errors.New("bet references an unknown match or user")
)

type BetRepository interface {
	// Upsert inserts the user's bet for a match or replaces the prediction
	// fields of an existing one. Settlement output is never touched here.
	Upsert(ctx context.Context, bet *models.Bet) error
	GetByMatchAndUser(ctx context.Context, matchID, userID int) (*models.Bet, error)
	ListByMatch(ctx context.Context, matchID int) ([]*models.Bet, error)
	ListByTournamentAndUser(ctx context.Context, tournamentID, userID int) ([]*models.Bet, error)
	// UpdateSettlement overwrites the settlement output of one bet. Re-running
	// settlement writes the same values, which keeps the operation idempotent.
	UpdateSettlement(ctx context.Context, betID int, points int, perfect, underdog bool) error
	LeaderboardByTournament(ctx context.Context, tournamentID int) ([]*models.LeaderboardEntry, error)
}

type postgresBetRepository struct {
	db *sql.DB
}

func NewPostgresBetRepository(db *sql.DB) BetRepository {
	return &postgresBetRepository{db: db}
}

const betColumns = `id, match_id, user_id, predicted_winner_id, predicted_score_a, predicted_score_b,
	points_earned, is_perfect_pick, is_underdog_pick, created_at, updated_at`

func scanBet(row interface{ Scan(...interface{}) error }) (*models.Bet, error) {
	bet := &models.Bet{}
	err := row.Scan(
		&bet.ID, &bet.MatchID, &bet.UserID,
		&bet.PredictedWinnerID, &bet.PredictedScoreA, &bet.PredictedScoreB,
		&bet.PointsEarned, &bet.IsPerfectPick, &bet.IsUnderdogPick,
		&bet.CreatedAt, &bet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return bet, nil
}

func (r *postgresBetRepository) Upsert(ctx context.Context, bet *models.Bet) error {
	query := `
		INSERT INTO bets (match_id, user_id, predicted_winner_id, predicted_score_a, predicted_score_b)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (match_id, user_id) DO UPDATE
		SET predicted_winner_id = EXCLUDED.predicted_winner_id,
			predicted_score_a = EXCLUDED.predicted_score_a,
			predicted_score_b = EXCLUDED.predicted_score_b,
			updated_at = now()
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		bet.MatchID,
		bet.UserID,
		bet.PredictedWinnerID,
		bet.PredictedScoreA,
		bet.PredictedScoreB,
	).Scan(&bet.ID, &bet.CreatedAt, &bet.UpdatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		return ErrBetMatchInvalid
	}
	return err
}

func (r *postgresBetRepository) GetByMatchAndUser(ctx context.Context, matchID, userID int) (*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE match_id = $1 AND user_id = $2`
	bet, err := scanBet(r.db.QueryRowContext(ctx, query, matchID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBetNotFound
		}
		return nil, err
	}
	return bet, nil
}

func (r *postgresBetRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE match_id = $1 ORDER BY id ASC`
	return r.list(ctx, query, matchID)
}

func (r *postgresBetRepository) ListByTournamentAndUser(ctx context.Context, tournamentID, userID int) ([]*models.Bet, error) {
	query := `
		SELECT b.id, b.match_id, b.user_id, b.predicted_winner_id, b.predicted_score_a, b.predicted_score_b,
			b.points_earned, b.is_perfect_pick, b.is_underdog_pick, b.created_at, b.updated_at
		FROM bets b
		JOIN matches m ON m.id = b.match_id
		WHERE m.tournament_id = $1 AND b.user_id = $2
		ORDER BY b.id ASC`
	return r.list(ctx, query, tournamentID, userID)
}

func (r *postgresBetRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Bet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bets := make([]*models.Bet, 0)
	for rows.Next() {
		bet, scanErr := scanBet(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		bets = append(bets, bet)
	}
	return bets, rows.Err()
}

func (r *postgresBetRepository) UpdateSettlement(ctx context.Context, betID int, points int, perfect, underdog bool) error {
	query := `
		UPDATE bets
		SET points_earned = $1, is_perfect_pick = $2, is_underdog_pick = $3, updated_at = now()
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, points, perfect, underdog, betID)
	if err != nil {
		return err
	}
	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrBetNotFound
	}
	return nil
}

// LeaderboardByTournament sums already settled points per user; the ranking
// itself is plain aggregation of what settlement persisted.
func (r *postgresBetRepository) LeaderboardByTournament(ctx context.Context, tournamentID int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT u.id, u.nickname,
			COALESCE(SUM(b.points_earned), 0) AS total_points,
			COUNT(*) FILTER (WHERE b.is_perfect_pick) AS perfect_picks,
			COUNT(*) FILTER (WHERE b.is_underdog_pick) AS underdog_picks
		FROM bets b
		JOIN users u ON u.id = b.user_id
		JOIN matches m ON m.id = b.match_id
		WHERE m.tournament_id = $1
		GROUP BY u.id, u.nickname
		ORDER BY total_points DESC, perfect_picks DESC, u.id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.LeaderboardEntry, 0)
	for rows.Next() {
		entry := &models.LeaderboardEntry{}
		if scanErr := rows.Scan(
			&entry.UserID,
			&entry.Nickname,
			&entry.TotalPoints,
			&entry.PerfectPicks,
			&entry.UnderdogPicks,
		); scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
