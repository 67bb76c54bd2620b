package submissionRepo

import (
	"context"
	"errors"
	"time"

	"canchas/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new submission record and returns its ID.
func (r *mongoSubmissionRepo) Create(ctx context.Context, record models.SubmissionRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return "", err
	}
	return record.ID, nil
}

// Update overwrites the saga progress of an existing record.
func (r *mongoSubmissionRepo) Update(ctx context.Context, record models.SubmissionRecord) error {
	set := bson.M{
		"idReserva": record.IDReserva,
		"codigoQr":  record.CodigoQR,
		"stage":     record.Stage,
		"estado":    record.Estado,
		"mensaje":   record.Mensaje,
		"updatedAt": time.Now().UTC(),
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": record.ID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// GetByID returns a submission record by its ID.
func (r *mongoSubmissionRepo) GetByID(ctx context.Context, id string) (*models.SubmissionRecord, error) {
	var record models.SubmissionRecord
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByEstado returns the newest records in any of the given states.
func (r *mongoSubmissionRepo) ListByEstado(ctx context.Context, estados []string, limit int64) ([]models.SubmissionRecord, error) {
	filter := bson.M{}
	if len(estados) > 0 {
		filter["estado"] = bson.M{"$in": estados}
	}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.SubmissionRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
