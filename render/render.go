// Package render prints a pipeline report as aligned text tables or JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/threatinsight/portal-backend/model"
)

// Format names an output format of the report command.
type Format string

// Supported formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Renderer writes a report.
type Renderer interface {
	Render(w io.Writer, report model.Report) error
}

// New returns the renderer for f. Unknown formats render as tables.
func New(f Format) Renderer {
	switch f {
	case FormatJSON:
		return &jsonRenderer{}
	default:
		return &tableRenderer{}
	}
}

type jsonRenderer struct{}

func (r *jsonRenderer) Render(w io.Writer, report model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

type tableRenderer struct{}

func (r *tableRenderer) Render(w io.Writer, report model.Report) error {
	d := report.Dashboard
	p := report.Performance

	fmt.Fprintf(w, "Incidents: %d\n", d.Rows)
	fmt.Fprintf(w, "Financial loss (million $): mean %.2f, median %.2f, std %.2f, variance %.2f\n\n",
		d.Loss.Mean, d.Loss.Median, d.Loss.StdDev, d.Loss.Variance)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ATTACK TYPE\tCOUNT\tMEAN\tMEDIAN\tSTD\tMIN\tMAX\n")
	for _, s := range d.AttackStats {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			s.AttackType, s.Count, s.Mean, s.Median, s.StdDev, s.Min, s.Max)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n--- Model performance (%d train / %d test rows) ---\n", p.TrainRows, p.TestRows)
	fmt.Fprintf(w, "Financial loss: MAE %.2f, R2 %.2f\n", p.FinancialLoss.MAE, p.FinancialLoss.R2)

	if err := classification(w, "Attack type", p.AttackType); err != nil {
		return err
	}
	if err := classification(w, "Target industry", p.TargetIndustry); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nFeature importance (attack type model):\n")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, f := range p.AttackImportance {
		fmt.Fprintf(tw, "  %d.\t%s\t%.4f\n", i+1, f.Feature, f.Importance)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s", report.Findings.Text)
	return nil
}

func classification(w io.Writer, title string, r model.ClassificationReport) error {
	fmt.Fprintf(w, "\n%s: accuracy %.2f%%\n", title, r.Accuracy*100)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "CLASS\tPRECISION\tRECALL\tF1\tSUPPORT\n")
	for _, c := range r.Classes {
		row(tw, c)
	}
	row(tw, r.MacroAvg)
	row(tw, r.WeightedAvg)
	return tw.Flush()
}

func row(w io.Writer, c model.ClassMetrics) {
	fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%d\n", c.Label, c.Precision, c.Recall, c.F1, c.Support)
}
