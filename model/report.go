// Package model - Model evaluation and findings report types
package model

// ClassMetrics is one row of a classification report.
type ClassMetrics struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// ClassificationReport mirrors the per-class precision/recall/F1 table of a classifier.
type ClassificationReport struct {
	Classes     []ClassMetrics `json:"classes"`
	Accuracy    float64        `json:"accuracy"`
	MacroAvg    ClassMetrics   `json:"macro_avg"`
	WeightedAvg ClassMetrics   `json:"weighted_avg"`
}

// FeatureImportance is the normalised impurity decrease attributed to a feature.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// RegressionReport holds the held-out metrics of the financial loss model.
type RegressionReport struct {
	MAE float64 `json:"mae"`
	R2  float64 `json:"r2"`
}

// ModelPerformance collects the held-out evaluation of all three models.
type ModelPerformance struct {
	TrainRows          int                  `json:"train_rows"`
	TestRows           int                  `json:"test_rows"`
	AttackType         ClassificationReport `json:"attack_type"`
	TargetIndustry     ClassificationReport `json:"target_industry"`
	FinancialLoss      RegressionReport     `json:"financial_loss"`
	AttackImportance   []FeatureImportance  `json:"attack_importance"`
	LossImportance     []FeatureImportance  `json:"loss_importance"`
	IndustryImportance []FeatureImportance  `json:"industry_importance"`
}

// Findings are the headline conclusions drawn from the data and the models.
type Findings struct {
	AvgLoss                 float64 `json:"avg_loss"`
	HighestLossYear         int     `json:"highest_loss_year"`
	HighestLossYearMean     float64 `json:"highest_loss_year_mean"`
	MostVolatileYear        int     `json:"most_volatile_year"`
	MostVolatileYearStdDev  float64 `json:"most_volatile_year_std_dev"`
	MostTargetedIndustry    string  `json:"most_targeted_industry"`
	MostTargetedIndustryAvg float64 `json:"most_targeted_industry_avg"`
	FastestRecoveryIndustry string  `json:"fastest_recovery_industry"`
	FastestRecoveryHours    float64 `json:"fastest_recovery_hours"`
	SlowestRecoveryIndustry string  `json:"slowest_recovery_industry"`
	SlowestRecoveryHours    float64 `json:"slowest_recovery_hours"`
	AvgUsersAffected        float64 `json:"avg_users_affected"`
	PeakImpactYear          int     `json:"peak_impact_year"`
	PeakImpactUsers         float64 `json:"peak_impact_users"`
	AvgResolutionHours      float64 `json:"avg_resolution_hours"`
	MostPersistentAttack    string  `json:"most_persistent_attack"`
	Text                    string  `json:"text"`
}

// Report is the full output of one pipeline run, printed by the report command.
type Report struct {
	Dashboard   Dashboard        `json:"dashboard"`
	Performance ModelPerformance `json:"performance"`
	Findings    Findings         `json:"findings"`
}
