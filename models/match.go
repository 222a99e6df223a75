package models

import (
	"strings"
	"time"
)

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusFinished  MatchStatus = "finished"
)

type BracketSide string

const (
	BracketSideUpper      BracketSide = "upper"
	BracketSideLower      BracketSide = "lower"
	BracketSideGrandFinal BracketSide = "grand_final"
	BracketSideGroups     BracketSide = "groups"
)

// PrevMatchResult tags which outcome of a linked previous match feeds a slot.
type PrevMatchResult string

const (
	PrevMatchWinner PrevMatchResult = "winner"
	PrevMatchLoser  PrevMatchResult = "loser"
)

// SlotRole is the explicit role of a GSL group-stage match. Legacy rows have it
// empty, in which case the free-text Name is matched by substring instead.
type SlotRole string

const (
	SlotRoleOpening     SlotRole = "opening"
	SlotRoleWinners     SlotRole = "winners"
	SlotRoleElimination SlotRole = "elimination"
	SlotRoleDecider     SlotRole = "decider"
)

type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	StageID      *int        `json:"stage_id,omitempty" db:"stage_id"`
	Name         string      `json:"name" db:"name"`
	TeamAID      *int        `json:"team_a_id,omitempty" db:"team_a_id"`
	TeamBID      *int        `json:"team_b_id,omitempty" db:"team_b_id"`
	Status       MatchStatus `json:"status" db:"status"`
	StartTime    time.Time   `json:"start_time" db:"start_time"`

	// Set together, only when Status is finished. WinnerID is one of TeamAID/TeamBID.
	WinnerID *int `json:"winner_id,omitempty" db:"winner_id"`
	ScoreA   *int `json:"score_a,omitempty" db:"score_a"`
	ScoreB   *int `json:"score_b,omitempty" db:"score_b"`

	// Written by settlement from the final bet distribution.
	UnderdogTeamID *int `json:"underdog_team_id,omitempty" db:"underdog_team_id"`
	UnderdogTier   *int `json:"underdog_tier,omitempty" db:"underdog_tier"`

	RoundIndex   int         `json:"round_index" db:"round_index"`
	BracketSide  BracketSide `json:"bracket_side" db:"bracket_side"`
	DisplayOrder int         `json:"display_order" db:"display_order"`
	SlotRole     *SlotRole   `json:"slot_role,omitempty" db:"slot_role"`

	// Backward links to feeding matches. Forward links are not reliably
	// populated, so bracket projection resolves them by reverse lookup.
	TeamAPrevMatchID     *int             `json:"team_a_prev_match_id,omitempty" db:"team_a_prev_match_id"`
	TeamAPrevMatchResult *PrevMatchResult `json:"team_a_prev_match_result,omitempty" db:"team_a_prev_match_result"`
	TeamBPrevMatchID     *int             `json:"team_b_prev_match_id,omitempty" db:"team_b_prev_match_id"`
	TeamBPrevMatchResult *PrevMatchResult `json:"team_b_prev_match_result,omitempty" db:"team_b_prev_match_result"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	TeamA *Team `json:"team_a,omitempty" db:"-"`
	TeamB *Team `json:"team_b,omitempty" db:"-"`
}

func (m *Match) IsFinished() bool {
	return m.Status == MatchStatusFinished
}

// IsGroupStage reports whether the match belongs to a group stage, either by
// explicit flag or by the legacy "Group" naming convention.
func (m *Match) IsGroupStage() bool {
	if m.BracketSide == BracketSideGroups {
		return true
	}
	return strings.Contains(strings.ToLower(m.Name), "group")
}

// Clone returns a deep copy. Projections mutate copies only, so the "real" and
// "predicted" views stay independent outputs of one input snapshot.
func (m *Match) Clone() *Match {
	clone := *m
	clone.TeamAID = cloneIntPtr(m.TeamAID)
	clone.TeamBID = cloneIntPtr(m.TeamBID)
	clone.WinnerID = cloneIntPtr(m.WinnerID)
	clone.ScoreA = cloneIntPtr(m.ScoreA)
	clone.ScoreB = cloneIntPtr(m.ScoreB)
	clone.UnderdogTeamID = cloneIntPtr(m.UnderdogTeamID)
	clone.UnderdogTier = cloneIntPtr(m.UnderdogTier)
	clone.StageID = cloneIntPtr(m.StageID)
	clone.TeamAPrevMatchID = cloneIntPtr(m.TeamAPrevMatchID)
	clone.TeamBPrevMatchID = cloneIntPtr(m.TeamBPrevMatchID)
	if m.TeamAPrevMatchResult != nil {
		v := *m.TeamAPrevMatchResult
		clone.TeamAPrevMatchResult = &v
	}
	if m.TeamBPrevMatchResult != nil {
		v := *m.TeamBPrevMatchResult
		clone.TeamBPrevMatchResult = &v
	}
	if m.SlotRole != nil {
		v := *m.SlotRole
		clone.SlotRole = &v
	}
	if m.TeamA != nil {
		teamA := *m.TeamA
		clone.TeamA = &teamA
	}
	if m.TeamB != nil {
		teamB := *m.TeamB
		clone.TeamB = &teamB
	}
	return &clone
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
