package repository

import (
	"context"
	"taskrbac/internal/rbac/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Preferences

func (r *MongoRepository) GetPreference(ctx context.Context, userID, key string) (*model.UserPreference, error) {
	return findOne[model.UserPreference](ctx, r.UserPreferences, bson.M{"user_id": userID, "key": key})
}

func (r *MongoRepository) SetPreference(ctx context.Context, pref *model.UserPreference) error {
	filter := bson.M{"user_id": pref.UserID, "key": pref.Key}
	update := bson.M{
		"$set": bson.M{
			"value":      pref.Value,
			"updated_at": pref.UpdatedAt,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.UserPreferences.UpdateOne(ctx, filter, update, opts)
	return err
}

func (r *MongoRepository) DeletePreference(ctx context.Context, userID, key string) error {
	_, err := r.UserPreferences.DeleteOne(ctx, bson.M{"user_id": userID, "key": key})
	return err
}

// Role permission overrides

func (r *MongoRepository) FindRolePermissions(ctx context.Context, roleIDs []string) ([]*model.RolePermissions, error) {
	if len(roleIDs) == 0 {
		return []*model.RolePermissions{}, nil
	}
	return findAll[model.RolePermissions](ctx, r.RolePermissions, bson.M{"role_id": bson.M{"$in": roleIDs}})
}

func (r *MongoRepository) SetRolePermissions(ctx context.Context, perms *model.RolePermissions) error {
	filter := bson.M{"role_id": perms.RoleID}
	update := bson.M{
		"$set": bson.M{
			"permissions": perms.Permissions,
			"updated_at":  perms.UpdatedAt,
			"updated_by":  perms.UpdatedBy,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.RolePermissions.UpdateOne(ctx, filter, update, opts)
	return err
}
