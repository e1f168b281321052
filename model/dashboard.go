// Package model - Dashboard aggregates rendered on the portal
package model

// LossSummary holds the headline financial loss metrics (in million $).
type LossSummary struct {
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Variance float64 `json:"variance"`
}

// AttackTypeStats summarises the financial loss for a single attack type.
type AttackTypeStats struct {
	AttackType string  `json:"attack_type"`
	Count      int     `json:"count"`
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	StdDev     float64 `json:"std_dev"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
}

// Variability is the coefficient of variation (%) of financial loss for an attack type.
type Variability struct {
	AttackType string  `json:"attack_type"`
	CV         float64 `json:"cv"`
}

// CategoryCount is one bar segment of a stacked per-year chart.
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// YearBreakdown is one x-axis point of a stacked per-year chart.
type YearBreakdown struct {
	Year   int             `json:"year"`
	Counts []CategoryCount `json:"counts"`
	Total  int             `json:"total"`
}

// YearValue is one point of a per-year line chart.
type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// YearlyStats aggregates the numeric columns for one year.
type YearlyStats struct {
	Year             int     `json:"year"`
	LossMean         float64 `json:"loss_mean"`
	LossMedian       float64 `json:"loss_median"`
	LossStdDev       float64 `json:"loss_std_dev"`
	UsersMean        float64 `json:"users_mean"`
	UsersMedian      float64 `json:"users_median"`
	ResolutionMean   float64 `json:"resolution_mean"`
	MostCommonAttack string  `json:"most_common_attack"`
}

// IndustryStats aggregates the numeric columns for one target industry.
type IndustryStats struct {
	Industry       string  `json:"industry"`
	LossMean       float64 `json:"loss_mean"`
	UsersMean      float64 `json:"users_mean"`
	ResolutionMean float64 `json:"resolution_mean"`
}

// Dashboard is everything the portal page renders apart from the model reports.
type Dashboard struct {
	Rows           int               `json:"rows"`
	Loss           LossSummary       `json:"loss"`
	AttackStats    []AttackTypeStats `json:"attack_stats"`
	Variability    []Variability     `json:"variability"`
	AttackTrend    []YearBreakdown   `json:"attack_trend"`
	AttackLabels   []string          `json:"attack_labels"`
	IndustryTrend  []YearBreakdown   `json:"industry_trend"`
	IndustryLabels []string          `json:"industry_labels"`
	LossTrend      []YearValue       `json:"loss_trend"`
	Yearly         []YearlyStats     `json:"yearly"`
	Industries     []IndustryStats   `json:"industries"`
}
