package engine

import (
	"sort"
	"strconv"
	"strings"

	"github.com/avshev/prediction-league/models"
)

// Standing is one row of a derived group table. Standings are recomputed from
// the current snapshot on every view request and never persisted.
type Standing struct {
	Team      *models.Team `json:"team"`
	Played    int          `json:"played"`
	Wins      int          `json:"wins"`
	Losses    int          `json:"losses"`
	MapWins   int          `json:"map_wins"`
	MapLosses int          `json:"map_losses"`
	MapDiff   int          `json:"map_diff"`
}

// PredictedOutcome is a caller-supplied hypothetical result for a match that
// has no actual result yet, keyed by match id. Score carries the map score in
// the "A - B" display form; unparseable strings count as 0-0.
type PredictedOutcome struct {
	WinnerID int
	Score    string
}

// ComputeStandings derives a sorted group table from the given matches.
// Finished matches count their actual result; for the rest, the caller's
// predicted outcome is used when present, otherwise the match contributes
// nothing. Ghost placeholder teams are dropped before any counting.
//
// Sort order: wins desc, then map diff desc, then map wins desc. Ties beyond
// that keep first-appearance order.
func ComputeStandings(matches []*models.Match, predicted map[int]PredictedOutcome) []Standing {
	rows := make(map[int]*Standing)
	order := make([]int, 0)

	row := func(team *models.Team) *Standing {
		if r, ok := rows[team.ID]; ok {
			return r
		}
		r := &Standing{Team: team}
		rows[team.ID] = r
		order = append(order, team.ID)
		return r
	}

	for _, match := range matches {
		teamA, teamB := match.TeamA, match.TeamB
		if teamA.IsGhost() || teamB.IsGhost() {
			continue
		}

		var winnerID int
		var scoreA, scoreB int
		switch {
		case match.IsFinished() && match.WinnerID != nil:
			winnerID = *match.WinnerID
			if match.ScoreA != nil {
				scoreA = *match.ScoreA
			}
			if match.ScoreB != nil {
				scoreB = *match.ScoreB
			}
		default:
			outcome, ok := predicted[match.ID]
			if !ok {
				continue
			}
			winnerID = outcome.WinnerID
			scoreA, scoreB = ParseScorePair(outcome.Score)
		}
		if winnerID != teamA.ID && winnerID != teamB.ID {
			continue
		}

		rowA, rowB := row(teamA), row(teamB)
		rowA.Played++
		rowB.Played++
		if winnerID == teamA.ID {
			rowA.Wins++
			rowB.Losses++
		} else {
			rowB.Wins++
			rowA.Losses++
		}
		rowA.MapWins += scoreA
		rowA.MapLosses += scoreB
		rowB.MapWins += scoreB
		rowB.MapLosses += scoreA
	}

	table := make([]Standing, 0, len(order))
	for _, teamID := range order {
		r := rows[teamID]
		r.MapDiff = r.MapWins - r.MapLosses
		table = append(table, *r)
	}

	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Wins != table[j].Wins {
			return table[i].Wins > table[j].Wins
		}
		if table[i].MapDiff != table[j].MapDiff {
			return table[i].MapDiff > table[j].MapDiff
		}
		return table[i].MapWins > table[j].MapWins
	})

	return table
}

// ParseScorePair parses a "2 - 1" style map score. Anything that does not
// split into two integers yields 0-0 rather than an error.
func ParseScorePair(score string) (int, int) {
	parts := strings.SplitN(score, "-", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errA != nil || errB != nil || a < 0 || b < 0 {
		return 0, 0
	}
	return a, b
}

// FormatScorePair renders a map score in the form ParseScorePair accepts.
func FormatScorePair(a, b int) string {
	return strconv.Itoa(a) + " - " + strconv.Itoa(b)
}
