package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScenarioValidate(t *testing.T) {
	ok := Scenario{
		Country:           "USA",
		AttackSource:      "Nation-state",
		VulnerabilityType: "Zero-day",
		DefenseMechanism:  "Firewall",
		Year:              2021,
		AffectedUsers:     1000,
		ResolutionHours:   12,
	}
	assert.NoError(t, ok.Validate())

	missing := ok
	missing.Country = ""
	err := missing.Validate()
	assert.ErrorIs(t, err, ErrInvalidScenario)
	assert.Contains(t, err.Error(), "Country failed required")

	negative := ok
	negative.AffectedUsers = -1
	negative.ResolutionHours = -2
	err = negative.Validate()
	assert.ErrorIs(t, err, ErrInvalidScenario)
	assert.Contains(t, err.Error(), "AffectedUsers failed gte")
	assert.Contains(t, err.Error(), "ResolutionHours failed gte")
}

func TestScenarioIncident(t *testing.T) {
	s := Scenario{Country: "USA", Year: 2020, AffectedUsers: 5, ResolutionHours: 1.5}
	inc := s.Incident()
	assert.Equal(t, "USA", inc.Country)
	assert.Equal(t, 2020, inc.Year)
	assert.Empty(t, inc.AttackType)
	assert.Zero(t, inc.FinancialLoss)
}
