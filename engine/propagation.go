package engine

import (
	"regexp"
	"sort"
	"strings"

	"github.com/avshev/prediction-league/models"
)

// projectionPasses bounds the fixed-point sweep. Each pass moves every
// resolvable outcome one hop, so this covers brackets up to 32 entrants.
const projectionPasses = 5

var groupNamePattern = regexp.MustCompile(`(?i)group\s+([a-z0-9]+)`)

// ProjectBracket returns a deep copy of the match set with unresolved
// teamA/teamB slots filled in wherever they can be derived, following the
// backward previous-match links and the group-stage structure. Finished
// matches are never touched; anything underivable stays unresolved.
//
// With includePredictions set, the caller's predicted winners (keyed by match
// id) stand in for results of unfinished matches. Confirmed results always
// take precedence. The function is idempotent: projecting an already projected
// snapshot changes nothing.
func ProjectBracket(matches []*models.Match, predictedWinners map[int]int, includePredictions bool) []*models.Match {
	projected := make([]*models.Match, len(matches))
	for i, m := range matches {
		projected[i] = m.Clone()
	}

	pool := buildTeamPool(projected)

	bracket := make([]*models.Match, 0, len(projected))
	for _, m := range projected {
		if !m.IsGroupStage() {
			bracket = append(bracket, m)
		}
	}
	// Earlier rounds first, so most outcomes cascade within a single pass.
	sort.SliceStable(bracket, func(i, j int) bool {
		if bracket[i].RoundIndex != bracket[j].RoundIndex {
			return bracket[i].RoundIndex < bracket[j].RoundIndex
		}
		if bracket[i].DisplayOrder != bracket[j].DisplayOrder {
			return bracket[i].DisplayOrder < bracket[j].DisplayOrder
		}
		return bracket[i].ID < bracket[j].ID
	})

	for pass := 0; pass < projectionPasses; pass++ {
		for _, m := range bracket {
			outcome := resolveOutcome(m, pool, predictedWinners, includePredictions)
			if outcome == nil {
				continue
			}
			// Forward links are unreliable, so scan for matches fed by this one.
			for _, target := range projected {
				if target.IsFinished() {
					continue
				}
				if target.TeamAPrevMatchID != nil && *target.TeamAPrevMatchID == m.ID {
					assignTeam(target, slotA, outcome.pick(target.TeamAPrevMatchResult))
				}
				if target.TeamBPrevMatchID != nil && *target.TeamBPrevMatchID == m.ID {
					assignTeam(target, slotB, outcome.pick(target.TeamBPrevMatchResult))
				}
			}
		}
		propagateGroups(projected, pool, predictedWinners, includePredictions)
	}

	return projected
}

// matchOutcome holds the resolved winner and loser of a match. Loser may be
// nil when only one side of the match is known.
type matchOutcome struct {
	winner *models.Team
	loser  *models.Team
}

// pick selects the side of the outcome a previous-match link asks for,
// defaulting to the winner when the tag is unset.
func (o *matchOutcome) pick(result *models.PrevMatchResult) *models.Team {
	if result != nil && *result == models.PrevMatchLoser {
		return o.loser
	}
	return o.winner
}

// resolveOutcome determines the (actual or, if allowed, predicted) winner of a
// match and resolves the winner and loser Team objects, preferring the match's
// own team references and falling back to the tournament-wide pool.
func resolveOutcome(m *models.Match, pool map[int]*models.Team, predictedWinners map[int]int, includePredictions bool) *matchOutcome {
	var winnerID int
	switch {
	case m.WinnerID != nil:
		winnerID = *m.WinnerID
	case includePredictions:
		predicted, ok := predictedWinners[m.ID]
		if !ok {
			return nil
		}
		winnerID = predicted
	default:
		return nil
	}

	var loserID *int
	switch {
	case m.TeamAID != nil && *m.TeamAID == winnerID:
		loserID = m.TeamBID
	case m.TeamBID != nil && *m.TeamBID == winnerID:
		loserID = m.TeamAID
	}

	winner := lookupTeam(m, pool, winnerID)
	if winner == nil {
		return nil
	}
	outcome := &matchOutcome{winner: winner}
	if loserID != nil {
		outcome.loser = lookupTeam(m, pool, *loserID)
	}
	return outcome
}

func lookupTeam(m *models.Match, pool map[int]*models.Team, teamID int) *models.Team {
	if m.TeamA != nil && m.TeamA.ID == teamID {
		return m.TeamA
	}
	if m.TeamB != nil && m.TeamB.ID == teamID {
		return m.TeamB
	}
	return pool[teamID]
}

type slot int

const (
	slotA slot = iota
	slotB
)

func assignTeam(target *models.Match, s slot, team *models.Team) {
	if team == nil {
		return
	}
	id := team.ID
	if s == slotA {
		target.TeamAID = &id
		target.TeamA = team
	} else {
		target.TeamBID = &id
		target.TeamB = team
	}
}

// buildTeamPool indexes every Team referenced anywhere in the snapshot by id,
// so winners of matches that do not embed the Team object can still be
// resolved. Built once per projection; read-only afterwards.
func buildTeamPool(matches []*models.Match) map[int]*models.Team {
	pool := make(map[int]*models.Team)
	for _, m := range matches {
		if m.TeamA != nil {
			pool[m.TeamA.ID] = m.TeamA
		}
		if m.TeamB != nil {
			pool[m.TeamB.ID] = m.TeamB
		}
	}
	return pool
}

// propagateGroups resolves GSL-style group progression: two opening matches
// feed the winners and elimination matches, whose loser and winner in turn
// feed the decider.
func propagateGroups(all []*models.Match, pool map[int]*models.Team, predictedWinners map[int]int, includePredictions bool) {
	groups := make(map[string][]*models.Match)
	for _, m := range all {
		if !m.IsGroupStage() {
			continue
		}
		groups[groupKey(m.Name)] = append(groups[groupKey(m.Name)], m)
	}

	for _, members := range groups {
		var openings []*models.Match
		var winners, elimination, decider *models.Match
		for _, m := range members {
			switch groupRole(m) {
			case models.SlotRoleOpening:
				openings = append(openings, m)
			case models.SlotRoleWinners:
				winners = m
			case models.SlotRoleElimination:
				elimination = m
			case models.SlotRoleDecider:
				decider = m
			}
		}

		if len(openings) == 2 {
			sort.SliceStable(openings, func(i, j int) bool {
				if openings[i].DisplayOrder != openings[j].DisplayOrder {
					return openings[i].DisplayOrder < openings[j].DisplayOrder
				}
				return openings[i].ID < openings[j].ID
			})
			first := resolveOutcome(openings[0], pool, predictedWinners, includePredictions)
			second := resolveOutcome(openings[1], pool, predictedWinners, includePredictions)

			if winners != nil && !winners.IsFinished() {
				if first != nil {
					assignTeam(winners, slotA, first.winner)
				}
				if second != nil {
					assignTeam(winners, slotB, second.winner)
				}
			}
			if elimination != nil && !elimination.IsFinished() {
				if first != nil {
					assignTeam(elimination, slotA, first.loser)
				}
				if second != nil {
					assignTeam(elimination, slotB, second.loser)
				}
			}
		}

		if winners != nil && elimination != nil && decider != nil && !decider.IsFinished() {
			if winnersOutcome := resolveOutcome(winners, pool, predictedWinners, includePredictions); winnersOutcome != nil {
				assignTeam(decider, slotA, winnersOutcome.loser)
			}
			if elimOutcome := resolveOutcome(elimination, pool, predictedWinners, includePredictions); elimOutcome != nil {
				assignTeam(decider, slotB, elimOutcome.winner)
			}
		}
	}
}

// groupKey clusters group-stage matches by the "Group X" fragment of their
// name, falling back to the raw name when no such fragment exists.
func groupKey(name string) string {
	if match := groupNamePattern.FindString(name); match != "" {
		return strings.ToLower(match)
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// groupRole tags a group match by role. The explicit SlotRole column wins;
// legacy rows fall back to substring matching on the match name.
func groupRole(m *models.Match) models.SlotRole {
	if m.SlotRole != nil {
		return *m.SlotRole
	}
	name := strings.ToLower(m.Name)
	switch {
	case strings.Contains(name, "opening"):
		return models.SlotRoleOpening
	case strings.Contains(name, "decider"):
		return models.SlotRoleDecider
	case strings.Contains(name, "elimination") || strings.Contains(name, "loser"):
		return models.SlotRoleElimination
	case strings.Contains(name, "winner"):
		return models.SlotRoleWinners
	}
	return ""
}
