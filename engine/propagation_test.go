package engine

import (
	"testing"

	"github.com/avshev/prediction-league/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prevWinner(matchID int) (*int, *models.PrevMatchResult) {
	result := models.PrevMatchWinner
	return &matchID, &result
}

func prevLoser(matchID int) (*int, *models.PrevMatchResult) {
	result := models.PrevMatchLoser
	return &matchID, &result
}

// fourTeamBracket builds a 4-entrant single elimination: two finished
// semifinals feeding an unresolved final by backward links.
func fourTeamBracket() []*models.Match {
	alpha, bravo := team(1, "Alpha"), team(2, "Bravo")
	clutch, delta := team(3, "Clutch"), team(4, "Delta")

	semi1 := finishedMatch(1, alpha, bravo, 1, 2, 0)
	semi1.RoundIndex = 1
	semi1.DisplayOrder = 1
	semi2 := finishedMatch(2, clutch, delta, 4, 1, 2)
	semi2.RoundIndex = 1
	semi2.DisplayOrder = 2

	final := &models.Match{ID: 3, Name: "Grand Final", Status: models.MatchStatusScheduled, RoundIndex: 2}
	final.TeamAPrevMatchID, final.TeamAPrevMatchResult = prevWinner(1)
	final.TeamBPrevMatchID, final.TeamBPrevMatchResult = prevWinner(2)

	return []*models.Match{final, semi2, semi1} // deliberately unordered
}

func TestProjectBracketResolvesFinalFromSemifinalWinners(t *testing.T) {
	projected := ProjectBracket(fourTeamBracket(), nil, false)

	var final *models.Match
	for _, m := range projected {
		if m.ID == 3 {
			final = m
		}
	}
	require.NotNil(t, final)
	require.NotNil(t, final.TeamAID)
	require.NotNil(t, final.TeamBID)
	assert.Equal(t, 1, *final.TeamAID)
	assert.Equal(t, 4, *final.TeamBID)
	assert.Equal(t, "Alpha", final.TeamA.Name)
	assert.Equal(t, "Delta", final.TeamB.Name)
}

func TestProjectBracketDoesNotMutateInput(t *testing.T) {
	matches := fourTeamBracket()
	ProjectBracket(matches, nil, false)

	for _, m := range matches {
		if m.ID == 3 {
			assert.Nil(t, m.TeamAID, "input snapshot must stay untouched")
			assert.Nil(t, m.TeamBID)
		}
	}
}

func TestProjectBracketIsIdempotent(t *testing.T) {
	predicted := map[int]int{3: 4}
	once := ProjectBracket(fourTeamBracket(), predicted, true)
	twice := ProjectBracket(once, predicted, true)
	assert.Equal(t, once, twice)
}

func TestProjectBracketPredictionsFillUnplayedMatches(t *testing.T) {
	alpha, bravo := team(1, "Alpha"), team(2, "Bravo")
	clutch, delta := team(3, "Clutch"), team(4, "Delta")

	semi1 := scheduledMatch(1, alpha, bravo)
	semi1.RoundIndex = 1
	semi2 := scheduledMatch(2, clutch, delta)
	semi2.RoundIndex = 1
	semi2.DisplayOrder = 2
	final := &models.Match{ID: 3, Status: models.MatchStatusScheduled, RoundIndex: 2}
	final.TeamAPrevMatchID, final.TeamAPrevMatchResult = prevWinner(1)
	final.TeamBPrevMatchID, final.TeamBPrevMatchResult = prevWinner(2)

	matches := []*models.Match{semi1, semi2, final}
	predicted := map[int]int{1: 2, 2: 3}

	real := ProjectBracket(matches, predicted, false)
	assert.Nil(t, real[2].TeamAID, "real view must ignore predictions")

	mine := ProjectBracket(matches, predicted, true)
	require.NotNil(t, mine[2].TeamAID)
	require.NotNil(t, mine[2].TeamBID)
	assert.Equal(t, 2, *mine[2].TeamAID)
	assert.Equal(t, 3, *mine[2].TeamBID)
}

func TestProjectBracketActualResultBeatsPrediction(t *testing.T) {
	matches := fourTeamBracket()
	// The user predicted the losers of both semifinals; the confirmed results win.
	projected := ProjectBracket(matches, map[int]int{1: 2, 2: 3}, true)

	for _, m := range projected {
		if m.ID == 3 {
			assert.Equal(t, 1, *m.TeamAID)
			assert.Equal(t, 4, *m.TeamBID)
		}
	}
}

func TestProjectBracketNeverOverwritesFinishedMatches(t *testing.T) {
	matches := fourTeamBracket()
	// Hand-enter a final that disagrees with the links; it must stay as entered.
	alpha, clutch := team(1, "Alpha"), team(3, "Clutch")
	matches[0] = finishedMatch(3, alpha, clutch, 3, 1, 2)
	matches[0].RoundIndex = 2
	matches[0].TeamAPrevMatchID, matches[0].TeamAPrevMatchResult = prevWinner(1)
	matches[0].TeamBPrevMatchID, matches[0].TeamBPrevMatchResult = prevWinner(2)

	projected := ProjectBracket(matches, nil, false)
	for _, m := range projected {
		if m.ID == 3 {
			assert.Equal(t, 3, *m.TeamBID, "finished match kept its entered teams")
		}
	}
}

func TestProjectBracketLoserLinkFeedsLowerBracket(t *testing.T) {
	matches := fourTeamBracket()
	loserFinal := &models.Match{ID: 4, Name: "Consolation", Status: models.MatchStatusScheduled, RoundIndex: 2, BracketSide: models.BracketSideLower}
	loserFinal.TeamAPrevMatchID, loserFinal.TeamAPrevMatchResult = prevLoser(1)
	loserFinal.TeamBPrevMatchID, loserFinal.TeamBPrevMatchResult = prevLoser(2)
	matches = append(matches, loserFinal)

	projected := ProjectBracket(matches, nil, false)
	for _, m := range projected {
		if m.ID == 4 {
			require.NotNil(t, m.TeamAID)
			require.NotNil(t, m.TeamBID)
			assert.Equal(t, 2, *m.TeamAID)
			assert.Equal(t, 3, *m.TeamBID)
		}
	}
}

func TestProjectBracketMissingLinkageLeavesSlotUnresolved(t *testing.T) {
	final := &models.Match{ID: 3, Status: models.MatchStatusScheduled, RoundIndex: 2}
	final.TeamAPrevMatchID, final.TeamAPrevMatchResult = prevWinner(99) // dangling

	projected := ProjectBracket([]*models.Match{final}, nil, false)
	assert.Nil(t, projected[0].TeamAID)
	assert.Nil(t, projected[0].TeamBID)
}

// gslGroup builds a full 5-match GSL group with finished openings.
func gslGroup() []*models.Match {
	alpha, bravo := team(1, "Alpha"), team(2, "Bravo")
	clutch, delta := team(3, "Clutch"), team(4, "Delta")

	opening1 := finishedMatch(1, alpha, bravo, 1, 2, 1)
	opening1.Name = "Group A Opening Match 1"
	opening1.BracketSide = models.BracketSideGroups
	opening1.DisplayOrder = 1

	opening2 := finishedMatch(2, clutch, delta, 4, 0, 2)
	opening2.Name = "Group A Opening Match 2"
	opening2.BracketSide = models.BracketSideGroups
	opening2.DisplayOrder = 2

	winners := &models.Match{ID: 3, Name: "Group A Winners Match", BracketSide: models.BracketSideGroups, Status: models.MatchStatusScheduled}
	elimination := &models.Match{ID: 4, Name: "Group A Elimination Match", BracketSide: models.BracketSideGroups, Status: models.MatchStatusScheduled}
	decider := &models.Match{ID: 5, Name: "Group A Decider Match", BracketSide: models.BracketSideGroups, Status: models.MatchStatusScheduled}

	return []*models.Match{opening1, opening2, winners, elimination, decider}
}

func TestProjectBracketResolvesGSLGroup(t *testing.T) {
	projected := ProjectBracket(gslGroup(), map[int]int{3: 4, 4: 2}, true)

	byID := make(map[int]*models.Match)
	for _, m := range projected {
		byID[m.ID] = m
	}

	winners := byID[3]
	require.NotNil(t, winners.TeamAID)
	require.NotNil(t, winners.TeamBID)
	assert.Equal(t, 1, *winners.TeamAID, "opening 1 winner")
	assert.Equal(t, 4, *winners.TeamBID, "opening 2 winner")

	elimination := byID[4]
	require.NotNil(t, elimination.TeamAID)
	require.NotNil(t, elimination.TeamBID)
	assert.Equal(t, 2, *elimination.TeamAID, "opening 1 loser")
	assert.Equal(t, 3, *elimination.TeamBID, "opening 2 loser")

	// Predicted: winners match won by Delta, elimination won by Bravo.
	decider := byID[5]
	require.NotNil(t, decider.TeamAID)
	require.NotNil(t, decider.TeamBID)
	assert.Equal(t, 1, *decider.TeamAID, "winners match loser drops to the decider")
	assert.Equal(t, 2, *decider.TeamBID, "elimination winner advances to the decider")
}

func TestProjectBracketGroupRealViewStopsAtUnplayedMatches(t *testing.T) {
	projected := ProjectBracket(gslGroup(), nil, false)

	for _, m := range projected {
		if m.ID == 5 {
			assert.Nil(t, m.TeamAID, "decider stays unresolved without results or predictions")
			assert.Nil(t, m.TeamBID)
		}
	}
}

func TestGroupRoleHeuristics(t *testing.T) {
	tests := []struct {
		name string
		want models.SlotRole
	}{
		{"Group B Opening Match 2", models.SlotRoleOpening},
		{"Group B Winners' Match", models.SlotRoleWinners},
		{"Group B Elimination Match", models.SlotRoleElimination},
		{"Losers Match", models.SlotRoleElimination},
		{"Group B Decider", models.SlotRoleDecider},
		{"Showmatch", models.SlotRole("")},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, groupRole(&models.Match{Name: tc.name}), tc.name)
	}
}

func TestGroupRoleExplicitFieldWins(t *testing.T) {
	role := models.SlotRoleDecider
	m := &models.Match{Name: "Group A Winners Match", SlotRole: &role}
	assert.Equal(t, models.SlotRoleDecider, groupRole(m))
}
