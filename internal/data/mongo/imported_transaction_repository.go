// Package mongo provides the MongoDB implementation of the imported
// transaction repository. Parsed statement lines carry opaque raw data and
// a denormalized match snapshot, which fits a document store better than
// relational columns.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/expense-ledger/internal/domain/imports"
)

const (
	// ImportedTransactionCollectionName is the name of the imported transactions collection
	ImportedTransactionCollectionName = "imported_transactions"
)

// ImportedTransactionRepository implements imports.TransactionRepository for MongoDB
type ImportedTransactionRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewImportedTransactionRepository creates a new MongoDB imported transaction repository
func NewImportedTransactionRepository(logger *slog.Logger, db *mongo.Database) imports.TransactionRepository {
	return &ImportedTransactionRepository{
		db:     db,
		logger: logger,
	}
}

// CreateBatch inserts all parsed lines of one import. The poller retries the
// whole batch on failure, so inserts are unordered and duplicate key errors
// from a previous partial attempt are tolerated.
func (r *ImportedTransactionRepository) CreateBatch(ctx context.Context, transactions []*imports.ImportedTransaction) error {
	if len(transactions) == 0 {
		return nil
	}

	collection := r.db.Collection(ImportedTransactionCollectionName)

	docs := make([]interface{}, 0, len(transactions))
	for _, txn := range transactions {
		docs = append(docs, txn)
	}

	opts := options.InsertMany().SetOrdered(false)
	_, err := collection.InsertMany(ctx, docs, opts)
	if err != nil {
		if isOnlyDuplicateKeyErrors(err) {
			r.logger.Warn("Batch insert hit duplicate keys, treating as already published",
				"import_id", transactions[0].ImportID.String(),
				"count", len(transactions),
			)
			return nil
		}
		r.logger.Error("Failed to insert imported transaction batch",
			"import_id", transactions[0].ImportID.String(),
			"count", len(transactions),
			"error", err,
		)
		return fmt.Errorf("failed to insert imported transaction batch: %w", err)
	}

	return nil
}

func isOnlyDuplicateKeyErrors(err error) bool {
	var bulkErr mongo.BulkWriteException
	if !errors.As(err, &bulkErr) {
		return false
	}
	for _, we := range bulkErr.WriteErrors {
		if we.Code != 11000 {
			return false
		}
	}
	return len(bulkErr.WriteErrors) > 0
}

// GetByID retrieves an imported transaction by its ID.
// Returns ErrImportedTransactionNotFound if no document exists.
func (r *ImportedTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*imports.ImportedTransaction, error) {
	collection := r.db.Collection(ImportedTransactionCollectionName)

	filter := bson.M{"_id": id}
	var txn imports.ImportedTransaction
	err := collection.FindOne(ctx, filter).Decode(&txn)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, imports.ErrImportedTransactionNotFound{ID: id}
		}
		r.logger.Error("Failed to get imported transaction",
			"id", id.String(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to get imported transaction: %w", err)
	}

	return &txn, nil
}

// ListByImportID retrieves every line of one import ordered by statement
// date. Soft-deleted items come back too, flagged, so clients decide whether
// to show them.
func (r *ImportedTransactionRepository) ListByImportID(ctx context.Context, importID uuid.UUID) ([]*imports.ImportedTransaction, error) {
	collection := r.db.Collection(ImportedTransactionCollectionName)

	filter := bson.M{"import_id": importID}
	opts := options.Find().SetSort(bson.M{"date": 1})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list imported transactions",
			"import_id", importID.String(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to list imported transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var transactions []*imports.ImportedTransaction
	if err := cursor.All(ctx, &transactions); err != nil {
		r.logger.Error("Failed to decode imported transactions",
			"import_id", importID.String(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to decode imported transactions: %w", err)
	}

	return transactions, nil
}

// UpdateStatus transitions an imported transaction to a terminal status and
// stamps the resolution time. Returns ErrImportedTransactionNotFound if the
// document doesn't exist.
func (r *ImportedTransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status imports.ImportedTransactionStatus) error {
	collection := r.db.Collection(ImportedTransactionCollectionName)

	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"status":      status,
			"resolved_at": time.Now(),
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to update imported transaction status",
			"id", id.String(),
			"status", string(status),
			"error", err,
		)
		return fmt.Errorf("failed to update imported transaction status: %w", err)
	}

	if result.MatchedCount == 0 {
		return imports.ErrImportedTransactionNotFound{ID: id}
	}

	return nil
}

// MarkDeleted soft-deletes an imported transaction. The document is kept so
// the import history remains complete.
func (r *ImportedTransactionRepository) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	collection := r.db.Collection(ImportedTransactionCollectionName)

	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"deleted": true,
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to mark imported transaction deleted",
			"id", id.String(),
			"error", err,
		)
		return fmt.Errorf("failed to mark imported transaction deleted: %w", err)
	}

	if result.MatchedCount == 0 {
		return imports.ErrImportedTransactionNotFound{ID: id}
	}

	return nil
}
