package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/threatinsight/portal-backend/model"
)

var (
	// ErrNotFound is returned when the dataset file does not exist.
	ErrNotFound = errors.New("dataset not found")
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrEmptyTable is returned when the file has no header row.
	ErrEmptyTable = errors.New("empty table")
)

// missingLabel fills categorical cells that had no earlier value to forward-fill.
const missingLabel = "0"

// Load reads a .csv or .xlsx dataset from disk and cleans it.
func Load(path string) (*Table, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		rows, err = readCSVFile(path)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, err
	}

	t, err := FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	zap.S().Infof("Loaded dataset %s: %d rows", path, t.Len())
	return t, nil
}

// Read parses and cleans CSV content.
func Read(r io.Reader) (*Table, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	return FromRows(rows)
}

// FromRows cleans a header row plus data rows into a Table.
//
// Cleaning runs in three passes: empty cells are forward-filled from the
// previous row, numeric columns are coerced (malformed values become missing),
// and anything still missing becomes zero.
func FromRows(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}

	pos, err := columnPositions(rows[0])
	if err != nil {
		return nil, err
	}

	cells := forwardFill(rows[1:], pos)

	incidents := make([]model.Incident, len(cells))
	for i, row := range cells {
		incidents[i] = toIncident(row)
	}
	return NewTable(incidents), nil
}

func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCSV(f)
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyTable
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// columnPositions maps each required column to its index in the header.
func columnPositions(header []string) ([]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	pos := make([]int, len(Columns))
	var missing []string
	for j, col := range Columns {
		i, ok := index[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		pos[j] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return pos, nil
}

// forwardFill projects every data row onto Columns and fills empty cells
// with the last non-empty value seen in the same column.
func forwardFill(rows [][]string, pos []int) [][]string {
	last := make([]string, len(Columns))
	seen := make([]bool, len(Columns))

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		cells := make([]string, len(Columns))
		for j, p := range pos {
			v := ""
			if p < len(row) {
				v = strings.TrimSpace(row[p])
			}
			if v == "" {
				if seen[j] {
					v = last[j]
				}
			} else {
				last[j] = v
				seen[j] = true
			}
			cells[j] = v
		}
		out = append(out, cells)
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// toIncident coerces a forward-filled row. Cells are in Columns order.
func toIncident(cells []string) model.Incident {
	label := func(v string) string {
		if v == "" {
			return missingLabel
		}
		return v
	}

	return model.Incident{
		Country:           label(cells[0]),
		Year:              int(coerceInt(cells[1])),
		AttackType:        label(cells[2]),
		TargetIndustry:    label(cells[3]),
		FinancialLoss:     coerce(cells[4]),
		AffectedUsers:     coerceInt(cells[5]),
		AttackSource:      label(cells[6]),
		VulnerabilityType: label(cells[7]),
		DefenseMechanism:  label(cells[8]),
		ResolutionHours:   coerce(cells[9]),
	}
}

// coerce parses a numeric cell. Anything unparseable or non-finite is treated
// as missing and therefore becomes zero.
func coerce(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// maxExactInt is the largest magnitude a float64 holds without losing integer
// precision. Integer cells beyond it are malformed.
const maxExactInt = 1 << 53

// coerceInt truncates a numeric cell, zeroing values that cannot round-trip
// through the float64 feature vector.
func coerceInt(v string) int64 {
	f := coerce(v)
	if f > maxExactInt || f < -maxExactInt {
		return 0
	}
	return int64(f)
}
