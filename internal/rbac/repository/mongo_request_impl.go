package repository

import (
	"context"
	"taskrbac/internal/rbac/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Approvers

func (r *MongoRepository) CreateApprover(ctx context.Context, approver *model.Approver) error {
	return insertOne(ctx, r.Approvers, approver)
}

func (r *MongoRepository) GetApprover(ctx context.Context, approverID string) (*model.Approver, error) {
	return findOne[model.Approver](ctx, r.Approvers, bson.M{"_id": approverID})
}

func (r *MongoRepository) DeleteApprover(ctx context.Context, approverID string) (bool, error) {
	return deleteOne(ctx, r.Approvers, bson.M{"_id": approverID})
}

func (r *MongoRepository) DeleteApproverByTarget(ctx context.Context, targetType model.TargetType, targetID, userID string) (bool, error) {
	return deleteOne(ctx, r.Approvers, bson.M{"target_type": targetType, "target_id": targetID, "user_id": userID})
}

func (r *MongoRepository) FindApprovers(ctx context.Context, targetType model.TargetType, targetID string) ([]*model.Approver, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return findAll[model.Approver](ctx, r.Approvers, bson.M{"target_type": targetType, "target_id": targetID}, opts)
}

func (r *MongoRepository) IsApprover(ctx context.Context, targetType model.TargetType, targetID, userID string) (bool, error) {
	return exists(ctx, r.Approvers, bson.M{"target_type": targetType, "target_id": targetID, "user_id": userID})
}

func (r *MongoRepository) HasApprover(ctx context.Context, targetType model.TargetType, targetID string) (bool, error) {
	return exists(ctx, r.Approvers, bson.M{"target_type": targetType, "target_id": targetID})
}

func (r *MongoRepository) IsAnyApprover(ctx context.Context, userID string) (bool, error) {
	return exists(ctx, r.Approvers, bson.M{"user_id": userID})
}

func (r *MongoRepository) FindApproverTargetIDs(ctx context.Context, userID string, targetType model.TargetType) ([]string, error) {
	return distinctStrings(ctx, r.Approvers, "target_id", bson.M{"user_id": userID, "target_type": targetType})
}

func (r *MongoRepository) FindTargetIDsWithApprover(ctx context.Context, targetType model.TargetType) ([]string, error) {
	return distinctStrings(ctx, r.Approvers, "target_id", bson.M{"target_type": targetType})
}

// Permission requests

func (r *MongoRepository) CreateRequest(ctx context.Context, req *model.PermissionRequest) error {
	return insertOne(ctx, r.PermissionRequests, req)
}

func (r *MongoRepository) GetRequest(ctx context.Context, requestID string) (*model.PermissionRequest, error) {
	return findOne[model.PermissionRequest](ctx, r.PermissionRequests, bson.M{"_id": requestID})
}

func (r *MongoRepository) ExistsPendingRequest(ctx context.Context, applicantID, targetID string, requestType model.RequestType) (bool, error) {
	return exists(ctx, r.PermissionRequests, bson.M{
		"applicant_id": applicantID,
		"target_id":    targetID,
		"request_type": requestType,
		"status":       model.RequestStatusPending,
	})
}

// TransitionRequest is a compare-and-set on status; a concurrent decision
// leaves MatchedCount at zero.
func (r *MongoRepository) TransitionRequest(ctx context.Context, req *model.PermissionRequest, from model.RequestStatus) error {
	set := bson.M{
		"status":     req.Status,
		"updated_at": req.UpdatedAt,
	}
	if req.ApproverID != "" {
		set["approver_id"] = req.ApproverID
	}
	if req.ApproverComment != "" {
		set["approver_comment"] = req.ApproverComment
	}
	if req.ApprovedAt != nil {
		set["approved_at"] = *req.ApprovedAt
	}

	res, err := r.PermissionRequests.UpdateOne(ctx, bson.M{"_id": req.ID, "status": from}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStaleState
	}
	return nil
}

func (r *MongoRepository) FindRequests(ctx context.Context, filter model.RequestFilter) ([]*model.PermissionRequest, int64, error) {
	query := bson.M{}
	if filter.ApplicantID != "" {
		query["applicant_id"] = filter.ApplicantID
	} else if filter.ExcludeApplicantID != "" {
		query["applicant_id"] = bson.M{"$ne": filter.ExcludeApplicantID}
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if len(filter.RequestTypes) > 0 {
		query["request_type"] = bson.M{"$in": filter.RequestTypes}
	}
	if filter.TargetIDs != nil {
		query["target_id"] = bson.M{"$in": filter.TargetIDs}
	}

	total, err := r.PermissionRequests.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	page, size := filter.Page, filter.Size
	if page <= 0 {
		page = model.DefaultPage
	}
	if size <= 0 {
		size = model.DefaultPageSize
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * size)).
		SetLimit(int64(size))

	results, err := findAll[model.PermissionRequest](ctx, r.PermissionRequests, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}
