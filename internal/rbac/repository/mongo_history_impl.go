package repository

import (
	"context"
	"taskrbac/internal/rbac/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoHistoryRepository implements HistoryRepository using MongoDB
type MongoHistoryRepository struct {
	Collection     *mongo.Collection
	TaskCollection *mongo.Collection
}

// NewMongoHistoryRepository creates a new MongoHistoryRepository
func NewMongoHistoryRepository(db *mongo.Database) *MongoHistoryRepository {
	return &MongoHistoryRepository{
		Collection:     db.Collection(CollMemberChangeLogs),
		TaskCollection: db.Collection(CollTaskHistories),
	}
}

// EnsureHistoryIndexes creates indexes for efficient querying
func (r *MongoHistoryRepository) EnsureHistoryIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Target query: target_type + target_id + created_at
		{
			Keys: bson.D{
				{Key: "target_type", Value: 1},
				{Key: "target_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_target_query"),
		},
		// User query: user_id + created_at
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_user_query"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
	}

	if _, err := r.Collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return err
	}

	taskIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "task_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_task_trail"),
		},
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_group_trail").SetSparse(true),
		},
	}
	_, err := r.TaskCollection.Indexes().CreateMany(ctx, taskIndexes)
	return err
}

// AppendChangeLog creates a new change log record (append-only)
func (r *MongoHistoryRepository) AppendChangeLog(ctx context.Context, entry *model.MemberChangeLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.Collection.InsertOne(ctx, entry)
	return err
}

// FindChangeLogs finds change log records with pagination and filtering
func (r *MongoHistoryRepository) FindChangeLogs(ctx context.Context, req model.GetMemberChangeLogsReq) ([]*model.MemberChangeLog, int64, error) {
	filter := bson.M{}
	if req.TargetType != "" {
		filter["target_type"] = req.TargetType
	}
	if req.TargetID != "" {
		filter["target_id"] = req.TargetID
	}
	if req.UserID != "" {
		filter["user_id"] = req.UserID
	}
	if req.ChangeType != "" {
		filter["change_type"] = req.ChangeType
	}

	// Add time range filter
	if req.StartTime != nil || req.EndTime != nil {
		timeFilter := bson.M{}
		if req.StartTime != nil {
			timeFilter["$gte"] = *req.StartTime
		}
		if req.EndTime != nil {
			timeFilter["$lte"] = *req.EndTime
		}
		filter["created_at"] = timeFilter
	}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip := int64((req.Page - 1) * req.Size)
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(req.Size))

	results, err := findAll[model.MemberChangeLog](ctx, r.Collection, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// AppendTaskHistory creates a task trail record (append-only)
func (r *MongoHistoryRepository) AppendTaskHistory(ctx context.Context, entry *model.TaskHistory) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.TaskCollection.InsertOne(ctx, entry)
	return err
}

func (r *MongoHistoryRepository) FindTaskHistory(ctx context.Context, taskID string) ([]*model.TaskHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findAll[model.TaskHistory](ctx, r.TaskCollection, bson.M{"task_id": taskID}, opts)
}

func (r *MongoHistoryRepository) FindGroupTaskHistory(ctx context.Context, groupID string) ([]*model.TaskHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findAll[model.TaskHistory](ctx, r.TaskCollection, bson.M{"group_id": groupID}, opts)
}
