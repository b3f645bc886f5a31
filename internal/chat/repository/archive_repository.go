package repository

import (
	"context"
	"errors"
	"time"

	"secondhand_market/internal/chat/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ArchiveRepository stores the long-term copy of chat history in
// per-room, per-day buckets.
type ArchiveRepository interface {
	AppendMessage(ctx context.Context, roomID string, msg domain.ArchivedMessage) error
	FindBucket(ctx context.Context, roomID, date string) (*domain.ArchiveBucket, error)
	FindBucketsByRoom(ctx context.Context, roomID string) ([]domain.ArchiveBucket, error)
	DeleteByRoom(ctx context.Context, roomID string) error
}

type archiveRepository struct {
	coll *mongo.Collection
}

// NewMongoArchiveRepository create an ArchiveRepository
func NewMongoArchiveRepository(db *mongo.Database) ArchiveRepository {
	return &archiveRepository{
		coll: db.Collection("chat_archive"),
	}
}

func (r *archiveRepository) AppendMessage(ctx context.Context, roomID string, msg domain.ArchivedMessage) error {
	date := time.Unix(msg.Timestamp, 0).UTC().Format("2006-01-02")
	filter := bson.M{"room_id": roomID, "date": date}
	update := bson.M{"$push": bson.M{"messages": msg}}
	opts := options.Update().SetUpsert(true)
	_, err := r.coll.UpdateOne(ctx, filter, update, opts)
	return err
}

func (r *archiveRepository) FindBucket(ctx context.Context, roomID, date string) (*domain.ArchiveBucket, error) {
	filter := bson.M{"room_id": roomID, "date": date}
	var bucket domain.ArchiveBucket
	err := r.coll.FindOne(ctx, filter).Decode(&bucket)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &bucket, nil
}

func (r *archiveRepository) FindBucketsByRoom(ctx context.Context, roomID string) ([]domain.ArchiveBucket, error) {
	opts := options.Find()
	opts.SetSort(bson.M{"date": 1})
	cur, err := r.coll.Find(ctx, bson.M{"room_id": roomID}, opts)
	if err != nil {
		return nil, err
	}
	var buckets []domain.ArchiveBucket
	if err := cur.All(ctx, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

func (r *archiveRepository) DeleteByRoom(ctx context.Context, roomID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"room_id": roomID})
	return err
}
