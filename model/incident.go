// Package model - Incident defines one row of the global cybersecurity threats dataset.
package model

// Incident represents one cleaned row of the source table.
// Records are immutable once loaded and live for a single pipeline run.
type Incident struct {
	Country           string  `json:"country"`
	Year              int     `json:"year"`
	AttackType        string  `json:"attack_type"`
	TargetIndustry    string  `json:"target_industry"`
	FinancialLoss     float64 `json:"financial_loss"`
	AffectedUsers     int64   `json:"affected_users"`
	AttackSource      string  `json:"attack_source"`
	VulnerabilityType string  `json:"vulnerability_type"`
	DefenseMechanism  string  `json:"defense_mechanism"`
	ResolutionHours   float64 `json:"resolution_hours"`
}

// Scenario holds the feature values a user submits from the simulation form.
// It carries the same seven inputs the models are trained on.
type Scenario struct {
	Country           string  `json:"country" form:"country" validate:"required"`
	AttackSource      string  `json:"attack_source" form:"attack_source" validate:"required"`
	VulnerabilityType string  `json:"vulnerability_type" form:"vulnerability_type" validate:"required"`
	DefenseMechanism  string  `json:"defense_mechanism" form:"defense_mechanism" validate:"required"`
	Year              int     `json:"year" form:"year" validate:"gte=0"`
	AffectedUsers     int64   `json:"affected_users" form:"affected_users" validate:"gte=0"`
	ResolutionHours   float64 `json:"resolution_hours" form:"resolution_hours" validate:"gte=0"`
}

// Incident converts the scenario into an incident so it can flow through the
// same feature assembly as the training rows. Target fields are left empty.
func (s Scenario) Incident() Incident {
	return Incident{
		Country:           s.Country,
		Year:              s.Year,
		AffectedUsers:     s.AffectedUsers,
		AttackSource:      s.AttackSource,
		VulnerabilityType: s.VulnerabilityType,
		DefenseMechanism:  s.DefenseMechanism,
		ResolutionHours:   s.ResolutionHours,
	}
}
