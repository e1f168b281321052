// Package model - Prediction types returned by the scenario simulator
package model

import "time"

// Prediction is the decoded output of the three trained models for one scenario.
type Prediction struct {
	ID             string    `json:"id"`
	AttackType     string    `json:"attack_type"`
	TargetIndustry string    `json:"target_industry"`
	FinancialLoss  float64   `json:"financial_loss"`
	TopFeatures    []string  `json:"top_features"`
	Narrative      string    `json:"narrative"`
	Scenario       Scenario  `json:"scenario"`
	PredictedAt    time.Time `json:"predicted_at"`
}

// FormOptions lists the selectable values and numeric ranges for the scenario form.
// Categorical options come from the same observed values the encoders were built from.
type FormOptions struct {
	Countries          []string `json:"countries"`
	AttackSources      []string `json:"attack_sources"`
	VulnerabilityTypes []string `json:"vulnerability_types"`
	DefenseMechanisms  []string `json:"defense_mechanisms"`
	YearMin            int      `json:"year_min"`
	YearMax            int      `json:"year_max"`
	YearDefault        int      `json:"year_default"`
	UsersMax           int64    `json:"users_max"`
	UsersDefault       int64    `json:"users_default"`
	HoursMin           float64  `json:"hours_min"`
	HoursMax           float64  `json:"hours_max"`
	HoursDefault       float64  `json:"hours_default"`
}
