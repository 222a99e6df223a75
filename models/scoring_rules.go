package models

// ScoringRules is the rule set attached to a tournament, optionally overridden
// per stage. Fields are nullable as stored; consumers go through Sanitized,
// which substitutes defaults for anything missing.
type ScoringRules struct {
	ID           int  `json:"id" db:"id"`
	TournamentID int  `json:"tournament_id" db:"tournament_id"`
	StageID      *int `json:"stage_id,omitempty" db:"stage_id"`

	Winner     *int `json:"winner,omitempty" db:"winner"`
	Exact      *int `json:"exact,omitempty" db:"exact"`
	Underdog25 *int `json:"underdog_25,omitempty" db:"underdog_25"`
	Underdog50 *int `json:"underdog_50,omitempty" db:"underdog_50"`
}

// ResolvedScoringRules is a fully populated rule set ready for scoring.
type ResolvedScoringRules struct {
	Winner     int `json:"winner"`
	Exact      int `json:"exact"`
	Underdog25 int `json:"underdog_25"`
	Underdog50 int `json:"underdog_50"`
}

const (
	defaultWinnerPoints     = 1
	defaultExactPoints      = 3
	defaultUnderdog25Points = 2
	defaultUnderdog50Points = 1
)

// Sanitized fills missing or negative fields with the defaults. A nil receiver
// yields the full default rule set.
func (r *ScoringRules) Sanitized() ResolvedScoringRules {
	resolved := ResolvedScoringRules{
		Winner:     defaultWinnerPoints,
		Exact:      defaultExactPoints,
		Underdog25: defaultUnderdog25Points,
		Underdog50: defaultUnderdog50Points,
	}
	if r == nil {
		return resolved
	}
	if r.Winner != nil && *r.Winner >= 0 {
		resolved.Winner = *r.Winner
	}
	if r.Exact != nil && *r.Exact >= 0 {
		resolved.Exact = *r.Exact
	}
	if r.Underdog25 != nil && *r.Underdog25 >= 0 {
		resolved.Underdog25 = *r.Underdog25
	}
	if r.Underdog50 != nil && *r.Underdog50 >= 0 {
		resolved.Underdog50 = *r.Underdog50
	}
	return resolved
}
