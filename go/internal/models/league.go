package models

import (
	"github.com/google/uuid"
	"time"
)

// PositionalRequirement pairs a roster position with the number of players a
// team must roster there.
type PositionalRequirement struct {
	Position Position `json:"position" yaml:"position"`
	Required int      `json:"required" yaml:"required"`
}

// ScoringCategories lists the stat categories a league scores.
type ScoringCategories struct {
	Hitters  []string `json:"hitters" yaml:"hitters"`
	Pitchers []string `json:"pitchers" yaml:"pitchers"`
}

// League represents a fantasy league and its roster construction rules
type League struct {
	ID                     uuid.UUID               `json:"id"`
	Name                   string                  `json:"name"`
	NumberOfTeams          int                     `json:"number_of_teams"`
	RosterSize             int                     `json:"roster_size"`
	PositionalRequirements []PositionalRequirement `json:"positional_requirements"`
	ScoringCategories      *ScoringCategories      `json:"scoring_categories,omitempty"`
	CreatedAt              time.Time               `json:"created_at"`
	UpdatedAt              time.Time               `json:"updated_at"`
}

// TotalPicks is the number of picks in a full draft for this league.
func (l *League) TotalPicks() int {
	return l.NumberOfTeams * l.RosterSize
}
