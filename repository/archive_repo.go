package repository

import (
	"context"

	"github.com/tieubaoca/second-brain-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ArchiveRepo keeps the ingestion journal: one entry per successfully stored
// knowledge item, used by the history view.
type ArchiveRepo interface {
	SaveEntry(ctx context.Context, entry *types.ArchiveEntry) error
	ListRecent(ctx context.Context, limit int64) ([]types.ArchiveEntry, error)
}

type archiveRepo struct {
	collection *mongo.Collection
}

func NewArchiveRepo(collection *mongo.Collection) ArchiveRepo {
	return &archiveRepo{
		collection: collection,
	}
}

func (r *archiveRepo) SaveEntry(ctx context.Context, entry *types.ArchiveEntry) error {
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

func (r *archiveRepo) ListRecent(ctx context.Context, limit int64) ([]types.ArchiveEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []types.ArchiveEntry
	for cursor.Next(ctx) {
		var entry types.ArchiveEntry
		if err := cursor.Decode(&entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, cursor.Err()
}
