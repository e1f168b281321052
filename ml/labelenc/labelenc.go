// Package labelenc assigns dense integer codes to categorical labels.
package labelenc

import (
	"errors"
	"fmt"
	"sort"

	"github.com/threatinsight/portal-backend/dataset"
)

var (
	// ErrUnseenLabel is returned when encoding a value that was not observed at fit time.
	ErrUnseenLabel = errors.New("unseen label")
	// ErrCodeOutOfRange is returned when decoding a code outside [0, k).
	ErrCodeOutOfRange = errors.New("code out of range")
	// ErrUnknownColumn is returned when no encoder was built for a column.
	ErrUnknownColumn = errors.New("unknown column")
)

// Encoder maps the distinct values of one column to codes in [0, k).
// Codes follow the sorted order of the labels.
type Encoder struct {
	column  string
	classes []string
	codes   map[string]int
}

// Fit builds an encoder from every value observed in a column.
func Fit(column string, values []string) *Encoder {
	codes := make(map[string]int)
	for _, v := range values {
		codes[v] = 0
	}

	classes := make([]string, 0, len(codes))
	for v := range codes {
		classes = append(classes, v)
	}
	sort.Strings(classes)

	for i, c := range classes {
		codes[c] = i
	}

	return &Encoder{column: column, classes: classes, codes: codes}
}

// Column returns the column the encoder was fitted on.
func (e *Encoder) Column() string { return e.column }

// Len returns the number of distinct labels.
func (e *Encoder) Len() int { return len(e.classes) }

// Classes returns the labels in code order.
func (e *Encoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

// Encode returns the code of a label.
func (e *Encoder) Encode(value string) (int, error) {
	code, ok := e.codes[value]
	if !ok {
		return 0, fmt.Errorf("%w: %q in column %q", ErrUnseenLabel, value, e.column)
	}
	return code, nil
}

// EncodeAll encodes a full column.
func (e *Encoder) EncodeAll(values []string) ([]int, error) {
	out := make([]int, len(values))
	for i, v := range values {
		code, err := e.Encode(v)
		if err != nil {
			return nil, err
		}
		out[i] = code
	}
	return out, nil
}

// Decode returns the label of a code.
func (e *Encoder) Decode(code int) (string, error) {
	if code < 0 || code >= len(e.classes) {
		return "", fmt.Errorf("%w: %d for column %q (k=%d)", ErrCodeOutOfRange, code, e.column, len(e.classes))
	}
	return e.classes[code], nil
}

// Set holds one encoder per categorical column of a table.
type Set struct {
	encoders map[string]*Encoder
}

// FitTable builds an encoder for every categorical column of the table.
// Codes are only valid for the table they were built from.
func FitTable(t *dataset.Table) (*Set, error) {
	s := &Set{encoders: make(map[string]*Encoder, len(dataset.CategoricalColumns))}
	for _, col := range dataset.CategoricalColumns {
		values, err := t.Labels(col)
		if err != nil {
			return nil, err
		}
		s.encoders[col] = Fit(col, values)
	}
	return s, nil
}

// Encoder returns the encoder of a column.
func (s *Set) Encoder(column string) (*Encoder, error) {
	e, ok := s.encoders[column]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return e, nil
}

// Encode encodes a value of the named column.
func (s *Set) Encode(column, value string) (int, error) {
	e, err := s.Encoder(column)
	if err != nil {
		return 0, err
	}
	return e.Encode(value)
}

// Decode decodes a code of the named column.
func (s *Set) Decode(column string, code int) (string, error) {
	e, err := s.Encoder(column)
	if err != nil {
		return "", err
	}
	return e.Decode(code)
}

// Classes returns the vocabulary of the named column in code order.
func (s *Set) Classes(column string) ([]string, error) {
	e, err := s.Encoder(column)
	if err != nil {
		return nil, err
	}
	return e.Classes(), nil
}
