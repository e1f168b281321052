package trainer

import (
	"math"
	"sort"

	"github.com/threatinsight/portal-backend/model"
)

// Accuracy is the fraction of exact matches.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	hits := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(yTrue))
}

// ClassificationReport computes per-class precision, recall, F1 and support for
// every class present in either yTrue or yPred, in code order. Undefined ratios
// are reported as zero.
func ClassificationReport(yTrue, yPred []int, classes []string) model.ClassificationReport {
	tp := make(map[int]int)
	predicted := make(map[int]int)
	support := make(map[int]int)
	present := make(map[int]bool)

	for i := range yTrue {
		support[yTrue[i]]++
		predicted[yPred[i]]++
		present[yTrue[i]] = true
		present[yPred[i]] = true
		if yTrue[i] == yPred[i] {
			tp[yTrue[i]]++
		}
	}

	codes := make([]int, 0, len(present))
	for c := range present {
		codes = append(codes, c)
	}
	sort.Ints(codes)

	report := model.ClassificationReport{Accuracy: Accuracy(yTrue, yPred)}
	total := 0
	for _, c := range codes {
		label := ""
		if c >= 0 && c < len(classes) {
			label = classes[c]
		}
		precision := ratio(tp[c], predicted[c])
		recall := ratio(tp[c], support[c])
		m := model.ClassMetrics{
			Label:     label,
			Precision: precision,
			Recall:    recall,
			F1:        f1(precision, recall),
			Support:   support[c],
		}
		report.Classes = append(report.Classes, m)

		report.MacroAvg.Precision += m.Precision
		report.MacroAvg.Recall += m.Recall
		report.MacroAvg.F1 += m.F1

		w := float64(m.Support)
		report.WeightedAvg.Precision += w * m.Precision
		report.WeightedAvg.Recall += w * m.Recall
		report.WeightedAvg.F1 += w * m.F1
		total += m.Support
	}

	if k := float64(len(codes)); k > 0 {
		report.MacroAvg.Precision /= k
		report.MacroAvg.Recall /= k
		report.MacroAvg.F1 /= k
	}
	if total > 0 {
		report.WeightedAvg.Precision /= float64(total)
		report.WeightedAvg.Recall /= float64(total)
		report.WeightedAvg.F1 /= float64(total)
	}
	report.MacroAvg.Label = "macro avg"
	report.MacroAvg.Support = total
	report.WeightedAvg.Label = "weighted avg"
	report.WeightedAvg.Support = total
	return report
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func f1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

// MeanAbsoluteError of a regression.
func MeanAbsoluteError(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	sum := 0.0
	for i := range yTrue {
		sum += math.Abs(yTrue[i] - yPred[i])
	}
	return sum / float64(len(yTrue))
}

// R2 is the coefficient of determination. A constant yTrue scores 1 for a
// perfect fit and 0 otherwise.
func R2(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range yTrue {
		mean += v
	}
	mean /= float64(len(yTrue))

	ssRes, ssTot := 0.0, 0.0
	for i := range yTrue {
		ssRes += (yTrue[i] - yPred[i]) * (yTrue[i] - yPred[i])
		ssTot += (yTrue[i] - mean) * (yTrue[i] - mean)
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// RankImportances pairs importances with feature names, highest first.
func RankImportances(names []string, importances []float64) []model.FeatureImportance {
	out := make([]model.FeatureImportance, len(importances))
	for i, v := range importances {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		out[i] = model.FeatureImportance{Feature: name, Importance: v}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Importance > out[b].Importance
	})
	return out
}
