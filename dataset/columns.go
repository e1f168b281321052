// Package dataset loads and cleans the global cybersecurity threats table.
package dataset

import (
	"github.com/threatinsight/portal-backend/model"
)

// Column names of the source table.
const (
	ColCountry           = "Country"
	ColYear              = "Year"
	ColAttackType        = "Attack Type"
	ColTargetIndustry    = "Target Industry"
	ColFinancialLoss     = "Financial Loss (in Million $)"
	ColAffectedUsers     = "Number of Affected Users"
	ColAttackSource      = "Attack Source"
	ColVulnerabilityType = "Security Vulnerability Type"
	ColDefenseMechanism  = "Defense Mechanism Used"
	ColResolutionTime    = "Incident Resolution Time (in Hours)"
)

// Columns is the fixed column set of the source table, in file order.
var Columns = []string{
	ColCountry,
	ColYear,
	ColAttackType,
	ColTargetIndustry,
	ColFinancialLoss,
	ColAffectedUsers,
	ColAttackSource,
	ColVulnerabilityType,
	ColDefenseMechanism,
	ColResolutionTime,
}

// CategoricalColumns are the label columns that get an encoder.
var CategoricalColumns = []string{
	ColCountry,
	ColAttackType,
	ColTargetIndustry,
	ColAttackSource,
	ColVulnerabilityType,
	ColDefenseMechanism,
}

// NumericColumns are coerced to numbers during cleaning.
var NumericColumns = []string{
	ColYear,
	ColFinancialLoss,
	ColAffectedUsers,
	ColResolutionTime,
}

var categoricalGetters = map[string]func(model.Incident) string{
	ColCountry:           func(i model.Incident) string { return i.Country },
	ColAttackType:        func(i model.Incident) string { return i.AttackType },
	ColTargetIndustry:    func(i model.Incident) string { return i.TargetIndustry },
	ColAttackSource:      func(i model.Incident) string { return i.AttackSource },
	ColVulnerabilityType: func(i model.Incident) string { return i.VulnerabilityType },
	ColDefenseMechanism:  func(i model.Incident) string { return i.DefenseMechanism },
}

var numericGetters = map[string]func(model.Incident) float64{
	ColYear:           func(i model.Incident) float64 { return float64(i.Year) },
	ColFinancialLoss:  func(i model.Incident) float64 { return i.FinancialLoss },
	ColAffectedUsers:  func(i model.Incident) float64 { return float64(i.AffectedUsers) },
	ColResolutionTime: func(i model.Incident) float64 { return i.ResolutionHours },
}

// IsCategorical reports whether the named column holds labels.
func IsCategorical(name string) bool {
	_, ok := categoricalGetters[name]
	return ok
}

// CategoricalValue returns the label held by an incident for a categorical column.
func CategoricalValue(inc model.Incident, name string) (string, bool) {
	get, ok := categoricalGetters[name]
	if !ok {
		return "", false
	}
	return get(inc), true
}

// NumericValue returns the number held by an incident for a numeric column.
func NumericValue(inc model.Incident, name string) (float64, bool) {
	get, ok := numericGetters[name]
	if !ok {
		return 0, false
	}
	return get(inc), true
}
