package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"barberbook-service/internal/domain/entity"
	"barberbook-service/internal/domain/repository"
)

// MongoMessageLogRepository implements the MessageLogRepository interface
type MongoMessageLogRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageLogRepository creates a new MongoDB message log repository
func NewMongoMessageLogRepository(db *mongo.Database) repository.MessageLogRepository {
	collection := db.Collection("messages")

	ctx := context.Background()

	userTimeIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "timestamp", Value: -1},
		},
	}

	timestampIndex := mongo.IndexModel{
		Keys: bson.M{"timestamp": -1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		userTimeIndex,
		timestampIndex,
	})

	return &MongoMessageLogRepository{
		collection: collection,
	}
}

// Save stores a message record
func (r *MongoMessageLogRepository) Save(ctx context.Context, record *entity.MessageRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, record)
	return err
}

// ListForUser returns the most recent records for a user, newest first
func (r *MongoMessageLogRepository) ListForUser(ctx context.Context, userID string, limit int) ([]*entity.MessageRecord, error) {
	limit64 := int64(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, &options.FindOptions{
		Limit: &limit64,
		Sort:  bson.D{{Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*entity.MessageRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
