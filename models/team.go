package models

import (
	"strings"
	"time"
)

// Ghost teams are placeholder entries shown in unresolved bracket slots
// ("TBD", "Winner of M12", "Seed 3"). They must never accumulate standings stats.
var ghostNameMarkers = []string{"WINNER", "LOSER", "TBD", "SEED"}

type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      *string   `json:"slug,omitempty" db:"slug"`
	Region    *string   `json:"region,omitempty" db:"region"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

func (t *Team) IsGhost() bool {
	if t == nil {
		return true
	}
	upper := strings.ToUpper(t.Name)
	for _, marker := range ghostNameMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}
