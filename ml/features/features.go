// Package features assembles fixed-order numeric feature vectors from incidents.
package features

import (
	"fmt"

	"github.com/threatinsight/portal-backend/dataset"
	"github.com/threatinsight/portal-backend/ml/labelenc"
	"github.com/threatinsight/portal-backend/model"
)

// Width is the number of features in a vector.
const Width = 7

// Names lists the feature columns in vector order: four encoded categorical
// columns followed by three raw numeric columns.
var Names = [Width]string{
	dataset.ColCountry + "_encoded",
	dataset.ColAttackSource + "_encoded",
	dataset.ColVulnerabilityType + "_encoded",
	dataset.ColDefenseMechanism + "_encoded",
	dataset.ColYear,
	dataset.ColAffectedUsers,
	dataset.ColResolutionTime,
}

var categorical = [4]string{
	dataset.ColCountry,
	dataset.ColAttackSource,
	dataset.ColVulnerabilityType,
	dataset.ColDefenseMechanism,
}

// Vector is one assembled feature row.
type Vector [Width]float64

// Slice returns the vector as a slice for model input.
func (v Vector) Slice() []float64 {
	out := make([]float64, Width)
	copy(out, v[:])
	return out
}

// Assembler turns incidents into vectors using a fitted encoder set.
type Assembler struct {
	encoders *labelenc.Set
}

// NewAssembler creates an assembler bound to the encoders of one table.
func NewAssembler(encoders *labelenc.Set) *Assembler {
	return &Assembler{encoders: encoders}
}

// Assemble builds the vector of a single incident. Both training rows and
// scenario inputs go through here so the column order cannot diverge.
func (a *Assembler) Assemble(inc model.Incident) (Vector, error) {
	var v Vector
	for i, col := range categorical {
		label, _ := dataset.CategoricalValue(inc, col)
		code, err := a.encoders.Encode(col, label)
		if err != nil {
			return Vector{}, fmt.Errorf("assemble %s: %w", Names[i], err)
		}
		v[i] = float64(code)
	}
	v[4] = float64(inc.Year)
	v[5] = float64(inc.AffectedUsers)
	v[6] = inc.ResolutionHours
	return v, nil
}

// Scenario builds the vector of a form submission.
func (a *Assembler) Scenario(s model.Scenario) (Vector, error) {
	return a.Assemble(s.Incident())
}

// Matrix assembles every row of a table.
func (a *Assembler) Matrix(t *dataset.Table) ([][]float64, error) {
	out := make([][]float64, t.Len())
	for i, inc := range t.Incidents {
		v, err := a.Assemble(inc)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = v.Slice()
	}
	return out, nil
}
