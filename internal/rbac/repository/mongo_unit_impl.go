package repository

import (
	"context"
	"taskrbac/internal/rbac/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Business units

func (r *MongoRepository) CreateBusinessUnit(ctx context.Context, unit *model.BusinessUnit) error {
	return insertOne(ctx, r.BusinessUnits, unit)
}

func (r *MongoRepository) GetBusinessUnit(ctx context.Context, unitID string) (*model.BusinessUnit, error) {
	return findOne[model.BusinessUnit](ctx, r.BusinessUnits, bson.M{"_id": unitID})
}

func (r *MongoRepository) FindBusinessUnits(ctx context.Context) ([]*model.BusinessUnit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})
	return findAll[model.BusinessUnit](ctx, r.BusinessUnits, bson.M{}, opts)
}

func (r *MongoRepository) FindBusinessUnitsByIDs(ctx context.Context, unitIDs []string) ([]*model.BusinessUnit, error) {
	if len(unitIDs) == 0 {
		return []*model.BusinessUnit{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})
	return findAll[model.BusinessUnit](ctx, r.BusinessUnits, bson.M{"_id": bson.M{"$in": unitIDs}}, opts)
}

// Unit membership

func (r *MongoRepository) AddUnitMember(ctx context.Context, member *model.UserBusinessUnit) error {
	return insertOne(ctx, r.UserBusinessUnits, member)
}

func (r *MongoRepository) RemoveUnitMember(ctx context.Context, unitID, userID string) (bool, error) {
	return deleteOne(ctx, r.UserBusinessUnits, bson.M{"business_unit_id": unitID, "user_id": userID})
}

func (r *MongoRepository) IsUnitMember(ctx context.Context, unitID, userID string) (bool, error) {
	return exists(ctx, r.UserBusinessUnits, bson.M{"business_unit_id": unitID, "user_id": userID})
}

func (r *MongoRepository) FindUnitIDsByUser(ctx context.Context, userID string) ([]string, error) {
	return distinctStrings(ctx, r.UserBusinessUnits, "business_unit_id", bson.M{"user_id": userID})
}

func (r *MongoRepository) CountUnitsByUser(ctx context.Context, userID string) (int64, error) {
	return r.UserBusinessUnits.CountDocuments(ctx, bson.M{"user_id": userID})
}

func (r *MongoRepository) FindUnitMembers(ctx context.Context, unitID string) ([]*model.UserBusinessUnit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}})
	return findAll[model.UserBusinessUnit](ctx, r.UserBusinessUnits, bson.M{"business_unit_id": unitID}, opts)
}

func (r *MongoRepository) CountUnitMembers(ctx context.Context, unitID string) (int64, error) {
	return r.UserBusinessUnits.CountDocuments(ctx, bson.M{"business_unit_id": unitID})
}

func (r *MongoRepository) DeleteLegacyUnitRoles(ctx context.Context, unitID, userID string) (int64, error) {
	res, err := r.LegacyUnitRoles.DeleteMany(ctx, bson.M{"business_unit_id": unitID, "user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Unit role eligibility

func (r *MongoRepository) AddUnitRole(ctx context.Context, unitRole *model.BusinessUnitRole) error {
	return insertOne(ctx, r.BusinessUnitRoles, unitRole)
}

func (r *MongoRepository) RemoveUnitRole(ctx context.Context, unitID, roleID string) (bool, error) {
	return deleteOne(ctx, r.BusinessUnitRoles, bson.M{"business_unit_id": unitID, "role_id": roleID})
}

func (r *MongoRepository) IsUnitRole(ctx context.Context, unitID, roleID string) (bool, error) {
	return exists(ctx, r.BusinessUnitRoles, bson.M{"business_unit_id": unitID, "role_id": roleID})
}

func (r *MongoRepository) FindUnitRoleIDs(ctx context.Context, unitID string) ([]string, error) {
	return distinctStrings(ctx, r.BusinessUnitRoles, "role_id", bson.M{"business_unit_id": unitID})
}
