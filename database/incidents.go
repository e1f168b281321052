package database

import (
	"context"
	"fmt"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"go.uber.org/zap"

	"github.com/threatinsight/portal-backend/model"
)

// importBatchSize bounds the number of documents bound into one INSERT query.
const importBatchSize = 500

// IncidentDocument is the stored form of an incident. Row preserves file order.
type IncidentDocument struct {
	Row int `json:"row"`
	model.Incident
}

// ToDocuments numbers incidents in order for storage.
func ToDocuments(incidents []model.Incident) []IncidentDocument {
	docs := make([]IncidentDocument, len(incidents))
	for i, inc := range incidents {
		docs[i] = IncidentDocument{Row: i, Incident: inc}
	}
	return docs
}

// ImportIncidents replaces the contents of the incident collection. The purge
// and every batch run in one stream transaction, so a failed import leaves
// the previous contents in place.
func ImportIncidents(ctx context.Context, db DBConnection, incidents []model.Incident) (int, error) {
	var inserted int
	err := db.Database.WithTransaction(ctx,
		arangodb.TransactionCollections{Exclusive: []string{IncidentCollection}},
		&arangodb.BeginTransactionOptions{LockTimeoutDuration: 30 * time.Second},
		nil, nil,
		func(ctx context.Context, t arangodb.Transaction) error {
			var err error
			inserted, err = replaceIncidents(ctx, t, incidents)
			return err
		})
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", IncidentCollection, err)
	}

	zap.S().Infof("Imported %d incidents into %s", inserted, IncidentCollection)
	return inserted, nil
}

// replaceIncidents purges the collection and inserts incidents in batches.
// It stops at the first failing query.
func replaceIncidents(ctx context.Context, q arangodb.DatabaseQuery, incidents []model.Incident) (int, error) {
	purge := `
		FOR i IN @@collection
			REMOVE i IN @@collection
	`
	err := exec(ctx, q, purge, map[string]interface{}{"@collection": IncidentCollection})
	if err != nil {
		return 0, fmt.Errorf("clear %s: %w", IncidentCollection, err)
	}

	docs := ToDocuments(incidents)
	inserted := 0
	for start := 0; start < len(docs); start += importBatchSize {
		end := min(start+importBatchSize, len(docs))
		if err := batchInsert(ctx, q, docs[start:end]); err != nil {
			return inserted, fmt.Errorf("insert rows %d-%d: %w", start, end-1, err)
		}
		inserted += end - start
	}
	return inserted, nil
}

func batchInsert(ctx context.Context, q arangodb.DatabaseQuery, docs []IncidentDocument) error {
	query := `
		FOR doc IN @docs
			INSERT doc INTO @@collection
	`
	bindVars := map[string]interface{}{
		"@collection": IncidentCollection,
		"docs":        docs,
	}
	return exec(ctx, q, query, bindVars)
}

// exec runs a write query and closes its cursor.
func exec(ctx context.Context, q arangodb.DatabaseQuery, query string, bindVars map[string]interface{}) error {
	cursor, err := q.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return err
	}
	if err := cursor.Close(); err != nil {
		return fmt.Errorf("close cursor: %w", err)
	}
	return nil
}

// LoadIncidents reads every stored incident back in row order.
func LoadIncidents(ctx context.Context, db DBConnection) ([]model.Incident, error) {
	query := `
		FOR i IN @@collection
			SORT i.row ASC
			RETURN i
	`
	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"@collection": IncidentCollection},
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", IncidentCollection, err)
	}
	defer cursor.Close()

	var incidents []model.Incident
	for cursor.HasMore() {
		var doc IncidentDocument
		if _, err := cursor.ReadDocument(ctx, &doc); err != nil {
			return nil, fmt.Errorf("read %s: %w", IncidentCollection, err)
		}
		incidents = append(incidents, doc.Incident)
	}
	return incidents, nil
}
