package repository

import (
	"context"
	"taskrbac/internal/rbac/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTaskRepository implements TaskRepository using MongoDB
type MongoTaskRepository struct {
	Collection *mongo.Collection
}

func NewMongoTaskRepository(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{
		Collection: db.Collection(CollTaskInfos),
	}
}

func (r *MongoTaskRepository) EnsureTaskIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		uniqueIndex("uniq_task_id", "task_id"),
		uniqueIndex("uniq_process_task", "process_instance_id", "task_id"),
		// Visibility queries
		plainIndex("idx_assignment", "assignment_type", "assignment_target", "status"),
		plainIndex("idx_delegated_to", "delegated_to", "status"),
		plainIndex("idx_claimed_by", "claimed_by", "status"),
		plainIndex("idx_due_date", "due_date"),
	}
	_, err := r.Collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *MongoTaskRepository) GetTask(ctx context.Context, taskID string) (*model.TaskInfo, error) {
	return findOne[model.TaskInfo](ctx, r.Collection, bson.M{"task_id": taskID})
}

func (r *MongoTaskRepository) CreateTask(ctx context.Context, task *model.TaskInfo) error {
	return insertOne(ctx, r.Collection, task)
}

// UpdateTask replaces the stored document so cleared claim and delegation
// fields are dropped, guarded by the version read by the caller.
func (r *MongoTaskRepository) UpdateTask(ctx context.Context, task *model.TaskInfo) error {
	next := *task
	next.Version = task.Version + 1

	filter := bson.M{"task_id": task.TaskID, "version": task.Version}
	res, err := r.Collection.ReplaceOne(ctx, filter, &next)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	task.Version = next.Version
	return nil
}

func (r *MongoTaskRepository) FindTasks(ctx context.Context, filter model.TaskFilter) ([]*model.TaskInfo, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "priority", Value: -1},
		{Key: "created_time", Value: 1},
	})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	return findAll[model.TaskInfo](ctx, r.Collection, taskQuery(filter), opts)
}

func (r *MongoTaskRepository) CountTasks(ctx context.Context, filter model.TaskFilter) (int64, error) {
	return r.Collection.CountDocuments(ctx, taskQuery(filter))
}

func taskQuery(filter model.TaskFilter) bson.M {
	query := bson.M{}
	if filter.AssignmentType != "" {
		query["assignment_type"] = filter.AssignmentType
	}
	if len(filter.AssignmentTargets) == 1 {
		query["assignment_target"] = filter.AssignmentTargets[0]
	} else if len(filter.AssignmentTargets) > 1 {
		query["assignment_target"] = bson.M{"$in": filter.AssignmentTargets}
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	} else if filter.OpenOnly {
		query["status"] = bson.M{"$ne": model.TaskStatusCompleted}
	}
	if filter.DelegatedTo != "" {
		query["delegated_to"] = filter.DelegatedTo
	}
	if filter.ClaimedBy != "" {
		query["claimed_by"] = filter.ClaimedBy
	} else if filter.UnclaimedOnly {
		// matches a missing field as well as an explicit null
		query["claimed_by"] = nil
	}
	if filter.DueBefore != nil || filter.DueAfter != nil {
		due := bson.M{}
		if filter.DueAfter != nil {
			due["$gte"] = *filter.DueAfter
		}
		if filter.DueBefore != nil {
			due["$lt"] = *filter.DueBefore
		}
		query["due_date"] = due
	}
	if filter.MinPriority != nil {
		query["priority"] = bson.M{"$gte": *filter.MinPriority}
	}
	return query
}
