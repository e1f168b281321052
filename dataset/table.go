package dataset

import (
	"fmt"

	"github.com/threatinsight/portal-backend/model"
)

// Table is the in-memory, cleaned incident table. Rows keep file order.
type Table struct {
	Incidents []model.Incident
}

// NewTable wraps already-cleaned incidents.
func NewTable(incidents []model.Incident) *Table {
	return &Table{Incidents: incidents}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Incidents)
}

// Labels returns every value of a categorical column in row order.
func (t *Table) Labels(column string) ([]string, error) {
	get, ok := categoricalGetters[column]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not categorical", ErrMissingColumn, column)
	}
	out := make([]string, len(t.Incidents))
	for i, inc := range t.Incidents {
		out[i] = get(inc)
	}
	return out, nil
}

// Numbers returns every value of a numeric column in row order.
func (t *Table) Numbers(column string) ([]float64, error) {
	get, ok := numericGetters[column]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not numeric", ErrMissingColumn, column)
	}
	out := make([]float64, len(t.Incidents))
	for i, inc := range t.Incidents {
		out[i] = get(inc)
	}
	return out, nil
}

// Unique returns the distinct values of a categorical column in first-seen order.
func (t *Table) Unique(column string) ([]string, error) {
	labels, err := t.Labels(column)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(labels))
	var out []string
	for _, l := range labels {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out, nil
}
