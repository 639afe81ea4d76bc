package football_college

import (
	"github.com/Higherpines/SkoreBot/internal/sports/espnparse"
	"github.com/Higherpines/SkoreBot/pkg/models"
)

// Module implements SportAdapter for college football
type Module struct {
	school  string
	enabled bool
}

// New creates a new college football adapter tracking the given school
func New(school string) *Module {
	return &Module{school: school, enabled: true}
}

func (m *Module) SportKey() string {
	return "football_college"
}

func (m *Module) DisplayName() string {
	return "College Football"
}

func (m *Module) ESPNSportPath() string {
	return "football/college-football"
}

func (m *Module) IsEnabled() bool {
	return m.enabled
}

func (m *Module) ParseScoreboard(rawData map[string]interface{}) ([]models.GameSnapshot, error) {
	return espnparse.ParseScoreboard(rawData, m.SportKey(), m.school)
}

func (m *Module) ParseScoringPlays(rawData map[string]interface{}) ([]models.ScoringEvent, error) {
	return espnparse.ParseScoringPlays(rawData)
}
