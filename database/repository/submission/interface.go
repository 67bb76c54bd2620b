package submissionRepo

import (
	"context"
	"errors"

	"canchas/database"
	"canchas/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var ErrRecordNotFound = errors.New("submission record not found")

type SubmissionRepository interface {
	Create(ctx context.Context, record models.SubmissionRecord) (string, error)
	Update(ctx context.Context, record models.SubmissionRecord) error
	GetByID(ctx context.Context, id string) (*models.SubmissionRecord, error)
	ListByEstado(ctx context.Context, estados []string, limit int64) ([]models.SubmissionRecord, error)
	EnsureIndexes() error
}

type mongoSubmissionRepo struct {
	coll *mongo.Collection
}

// NewMongoSubmissionRepo returns a SubmissionRepository backed by the submissions collection.
func NewMongoSubmissionRepo() SubmissionRepository {
	return NewSubmissionRepoWithCollection(database.Database().Collection("submissions"))
}

func NewSubmissionRepoWithCollection(coll *mongo.Collection) SubmissionRepository {
	return &mongoSubmissionRepo{coll: coll}
}
