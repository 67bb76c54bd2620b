package submissionRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes used by lookups and the reconciliation listing.
func (r *mongoSubmissionRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "estado", Value: 1}, {Key: "updatedAt", Value: -1}},
			Options: options.Index().SetName("estado_updated_idx"),
		},
		{
			Keys:    bson.D{{Key: "idReserva", Value: 1}},
			Options: options.Index().SetName("reserva_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create submission indexes: %w", err)
	}
	return nil
}
