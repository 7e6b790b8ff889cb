package leagues

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spragsdale/mockdraftapp/go/internal/draft/repository"
	"github.com/spragsdale/mockdraftapp/go/internal/models"
)

// Preset is a named league configuration loaded from YAML.
type Preset struct {
	Name                   string                         `yaml:"name"`
	NumberOfTeams          int                            `yaml:"number_of_teams"`
	RosterSize             int                            `yaml:"roster_size"`
	PositionalRequirements []models.PositionalRequirement `yaml:"positional_requirements"`
	ScoringCategories      *models.ScoringCategories      `yaml:"scoring_categories"`
}

type presetFile struct {
	Leagues []Preset `yaml:"leagues"`
}

// Request converts the preset into a create request.
func (p Preset) Request() repository.CreateLeagueRequest {
	return repository.CreateLeagueRequest{
		Name:                   p.Name,
		NumberOfTeams:          p.NumberOfTeams,
		RosterSize:             p.RosterSize,
		PositionalRequirements: p.PositionalRequirements,
		ScoringCategories:      p.ScoringCategories,
	}
}

// LoadPresets reads league presets from a YAML file.
func LoadPresets(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}
	return ParsePresets(data)
}

func ParsePresets(data []byte) ([]Preset, error) {
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}
	return f.Leagues, nil
}
