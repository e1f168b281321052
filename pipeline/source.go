package pipeline

import (
	"context"
	"fmt"

	"github.com/threatinsight/portal-backend/database"
	"github.com/threatinsight/portal-backend/dataset"
)

// Source yields the cleaned incident table for one run.
type Source interface {
	Name() string
	Load(ctx context.Context) (*dataset.Table, error)
}

// FileSource reads a CSV or XLSX file on every run.
type FileSource struct {
	Path string
}

// Name implements Source.
func (s FileSource) Name() string { return "file" }

// Load implements Source.
func (s FileSource) Load(_ context.Context) (*dataset.Table, error) {
	return dataset.Load(s.Path)
}

// ArangoSource reads incidents previously stored with database.ImportIncidents.
type ArangoSource struct {
	DB database.DBConnection
}

// Name implements Source.
func (s ArangoSource) Name() string { return "arangodb" }

// Load implements Source. Stored rows were cleaned before import.
func (s ArangoSource) Load(ctx context.Context) (*dataset.Table, error) {
	incidents, err := database.LoadIncidents(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	if len(incidents) == 0 {
		return nil, fmt.Errorf("%w: collection %s has no documents", dataset.ErrEmptyTable, database.IncidentCollection)
	}
	return dataset.NewTable(incidents), nil
}
