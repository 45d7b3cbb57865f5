package repositories

import (
	"context"
	"time"

	"github.com/anonto42/bookmarks/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoActionRepository implements ActionRepository for MongoDB
type MongoActionRepository struct {
	collection *mongo.Collection
}

// NewMongoActionRepository creates a new MongoActionRepository
func NewMongoActionRepository(db *mongo.Database) *MongoActionRepository {
	return &MongoActionRepository{collection: db.Collection("actions")}
}

// EnsureIndexes creates the indexes the feed and dedupe queries rely on
func (r *MongoActionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}

func (r *MongoActionRepository) CreateAction(ctx context.Context, action *models.Action) error {
	if action.ID == "" {
		action.ID = models.NewActionID()
	}
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, action)
	return err
}

func (r *MongoActionRepository) ExistsSince(ctx context.Context, userID uint, verb string, target *models.Target, since time.Time) (bool, error) {
	filter := bson.M{
		"user_id":    userID,
		"verb":       verb,
		"created_at": bson.M{"$gte": since},
	}
	if target != nil {
		filter["target_kind"] = target.Kind
		filter["target_id"] = target.ID
	} else {
		filter["target_kind"] = bson.M{"$exists": false}
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Recent returns the newest actions matching filter, newest first
func (r *MongoActionRepository) Recent(ctx context.Context, filter ActionFilter) ([]models.Action, error) {
	userFilter := bson.M{}
	if filter.ExcludeUserID != 0 {
		userFilter["$ne"] = filter.ExcludeUserID
	}
	if filter.UserIDs != nil {
		userFilter["$in"] = filter.UserIDs
	}
	query := bson.M{}
	if len(userFilter) > 0 {
		query["user_id"] = userFilter
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if filter.Limit > 0 {
		findOptions.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var actions []models.Action
	if err = cursor.All(ctx, &actions); err != nil {
		return nil, err
	}
	return actions, nil
}
