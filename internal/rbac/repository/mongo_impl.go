package repository

import (
	"context"
	"taskrbac/internal/rbac/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Roles

func (r *MongoRepository) CreateRole(ctx context.Context, role *model.Role) error {
	return insertOne(ctx, r.Roles, role)
}

func (r *MongoRepository) GetRole(ctx context.Context, roleID string) (*model.Role, error) {
	return findOne[model.Role](ctx, r.Roles, bson.M{"_id": roleID})
}

func (r *MongoRepository) FindRolesByIDs(ctx context.Context, roleIDs []string) ([]*model.Role, error) {
	if len(roleIDs) == 0 {
		return []*model.Role{}, nil
	}
	return findAll[model.Role](ctx, r.Roles, bson.M{"_id": bson.M{"$in": roleIDs}})
}

func (r *MongoRepository) FindRoles(ctx context.Context, filter model.RoleFilter) ([]*model.Role, error) {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})
	return findAll[model.Role](ctx, r.Roles, query, opts)
}

func (r *MongoRepository) UpdateRoleStatus(ctx context.Context, roleID string, status model.RoleStatus, updatedBy string) error {
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
			"updated_by": updatedBy,
		},
	}
	res, err := r.Roles.UpdateOne(ctx, bson.M{"_id": roleID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStaleState
	}
	return nil
}

// Virtual groups

func (r *MongoRepository) CreateVirtualGroup(ctx context.Context, group *model.VirtualGroup) error {
	return insertOne(ctx, r.VirtualGroups, group)
}

func (r *MongoRepository) GetVirtualGroup(ctx context.Context, groupID string) (*model.VirtualGroup, error) {
	return findOne[model.VirtualGroup](ctx, r.VirtualGroups, bson.M{"_id": groupID})
}

func (r *MongoRepository) FindVirtualGroups(ctx context.Context) ([]*model.VirtualGroup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})
	return findAll[model.VirtualGroup](ctx, r.VirtualGroups, bson.M{}, opts)
}

func (r *MongoRepository) GetGroupRole(ctx context.Context, groupID string) (*model.VirtualGroupRole, error) {
	return findOne[model.VirtualGroupRole](ctx, r.VirtualGroupRoles, bson.M{"virtual_group_id": groupID})
}

// ReplaceGroupRole upserts on virtual_group_id so a group never holds two bindings.
func (r *MongoRepository) ReplaceGroupRole(ctx context.Context, binding *model.VirtualGroupRole) error {
	filter := bson.M{"virtual_group_id": binding.VirtualGroupID}
	update := bson.M{
		"$set": bson.M{
			"role_id":    binding.RoleID,
			"created_at": binding.CreatedAt,
			"created_by": binding.CreatedBy,
		},
		"$setOnInsert": bson.M{
			"_id": binding.ID,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.VirtualGroupRoles.UpdateOne(ctx, filter, update, opts)
	return err
}

func (r *MongoRepository) DeleteGroupRole(ctx context.Context, groupID string) (bool, error) {
	return deleteOne(ctx, r.VirtualGroupRoles, bson.M{"virtual_group_id": groupID})
}

func (r *MongoRepository) FindGroupRolesByGroupIDs(ctx context.Context, groupIDs []string) ([]*model.VirtualGroupRole, error) {
	if len(groupIDs) == 0 {
		return []*model.VirtualGroupRole{}, nil
	}
	return findAll[model.VirtualGroupRole](ctx, r.VirtualGroupRoles, bson.M{"virtual_group_id": bson.M{"$in": groupIDs}})
}

func (r *MongoRepository) FindGroupIDsByRole(ctx context.Context, roleID string) ([]string, error) {
	return distinctStrings(ctx, r.VirtualGroupRoles, "virtual_group_id", bson.M{"role_id": roleID})
}

// Virtual group membership

func (r *MongoRepository) AddGroupMember(ctx context.Context, member *model.VirtualGroupMember) error {
	return insertOne(ctx, r.GroupMembers, member)
}

func (r *MongoRepository) RemoveGroupMember(ctx context.Context, groupID, userID string) (bool, error) {
	return deleteOne(ctx, r.GroupMembers, bson.M{"virtual_group_id": groupID, "user_id": userID})
}

func (r *MongoRepository) IsGroupMember(ctx context.Context, groupID, userID string) (bool, error) {
	return exists(ctx, r.GroupMembers, bson.M{"virtual_group_id": groupID, "user_id": userID})
}

func (r *MongoRepository) FindGroupIDsByUser(ctx context.Context, userID string) ([]string, error) {
	return distinctStrings(ctx, r.GroupMembers, "virtual_group_id", bson.M{"user_id": userID})
}

func (r *MongoRepository) FindGroupMembers(ctx context.Context, groupID string) ([]*model.VirtualGroupMember, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}})
	return findAll[model.VirtualGroupMember](ctx, r.GroupMembers, bson.M{"virtual_group_id": groupID}, opts)
}

func (r *MongoRepository) FindUserIDsByGroupIDs(ctx context.Context, groupIDs []string) ([]string, error) {
	if len(groupIDs) == 0 {
		return []string{}, nil
	}
	return distinctStrings(ctx, r.GroupMembers, "user_id", bson.M{"virtual_group_id": bson.M{"$in": groupIDs}})
}
