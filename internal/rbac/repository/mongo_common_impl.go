package repository

import (
	"context"
	"errors"
	"taskrbac/internal/rbac/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	CollRoles              = "roles"
	CollVirtualGroups      = "virtual_groups"
	CollVirtualGroupRoles  = "virtual_group_roles"
	CollGroupMembers       = "virtual_group_members"
	CollBusinessUnits      = "business_units"
	CollUserBusinessUnits  = "user_business_units"
	CollBusinessUnitRoles  = "business_unit_roles"
	CollLegacyUnitRoles    = "user_business_unit_roles"
	CollApprovers          = "approvers"
	CollPermissionRequests = "permission_requests"
	CollUserPreferences    = "user_preferences"
	CollRolePermissions    = "role_permissions"
	CollMemberChangeLogs   = "member_change_logs"
	CollTaskInfos          = "task_infos"
	CollTaskHistories      = "task_histories"
)

type MongoRepository struct {
	Roles              *mongo.Collection
	VirtualGroups      *mongo.Collection
	VirtualGroupRoles  *mongo.Collection
	GroupMembers       *mongo.Collection
	BusinessUnits      *mongo.Collection
	UserBusinessUnits  *mongo.Collection
	BusinessUnitRoles  *mongo.Collection
	LegacyUnitRoles    *mongo.Collection
	Approvers          *mongo.Collection
	PermissionRequests *mongo.Collection
	UserPreferences    *mongo.Collection
	RolePermissions    *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		Roles:              db.Collection(CollRoles),
		VirtualGroups:      db.Collection(CollVirtualGroups),
		VirtualGroupRoles:  db.Collection(CollVirtualGroupRoles),
		GroupMembers:       db.Collection(CollGroupMembers),
		BusinessUnits:      db.Collection(CollBusinessUnits),
		UserBusinessUnits:  db.Collection(CollUserBusinessUnits),
		BusinessUnitRoles:  db.Collection(CollBusinessUnitRoles),
		LegacyUnitRoles:    db.Collection(CollLegacyUnitRoles),
		Approvers:          db.Collection(CollApprovers),
		PermissionRequests: db.Collection(CollPermissionRequests),
		UserPreferences:    db.Collection(CollUserPreferences),
		RolePermissions:    db.Collection(CollRolePermissions),
	}
}

func uniqueIndex(name string, keys ...string) mongo.IndexModel {
	d := bson.D{}
	for _, k := range keys {
		d = append(d, bson.E{Key: k, Value: 1})
	}
	return mongo.IndexModel{Keys: d, Options: options.Index().SetUnique(true).SetName(name)}
}

func plainIndex(name string, keys ...string) mongo.IndexModel {
	d := bson.D{}
	for _, k := range keys {
		d = append(d, bson.E{Key: k, Value: 1})
	}
	return mongo.IndexModel{Keys: d, Options: options.Index().SetName(name)}
}

// EnsureIndexes creates the unique indexes that enforce the membership and
// binding invariants under concurrent writers.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	plan := []struct {
		coll    *mongo.Collection
		indexes []mongo.IndexModel
	}{
		{r.Roles, []mongo.IndexModel{uniqueIndex("uniq_role_code", "code"), plainIndex("idx_role_type_status", "type", "status")}},
		{r.VirtualGroups, []mongo.IndexModel{uniqueIndex("uniq_group_code", "code")}},
		{r.VirtualGroupRoles, []mongo.IndexModel{uniqueIndex("uniq_group_binding", "virtual_group_id"), plainIndex("idx_binding_role", "role_id")}},
		{r.GroupMembers, []mongo.IndexModel{uniqueIndex("uniq_group_member", "virtual_group_id", "user_id"), plainIndex("idx_member_user", "user_id")}},
		{r.BusinessUnits, []mongo.IndexModel{uniqueIndex("uniq_unit_code", "code")}},
		{r.UserBusinessUnits, []mongo.IndexModel{uniqueIndex("uniq_user_unit", "user_id", "business_unit_id"), plainIndex("idx_unit_members", "business_unit_id")}},
		{r.BusinessUnitRoles, []mongo.IndexModel{uniqueIndex("uniq_unit_role", "business_unit_id", "role_id")}},
		{r.LegacyUnitRoles, []mongo.IndexModel{plainIndex("idx_legacy_user_unit", "user_id", "business_unit_id")}},
		{r.Approvers, []mongo.IndexModel{uniqueIndex("uniq_approver", "target_type", "target_id", "user_id"), plainIndex("idx_approver_user", "user_id", "target_type")}},
		{r.PermissionRequests, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "applicant_id", Value: 1},
					{Key: "target_id", Value: 1},
					{Key: "request_type", Value: 1},
				},
				Options: options.Index().
					SetUnique(true).
					SetName("uniq_pending_request").
					SetPartialFilterExpression(bson.M{"status": model.RequestStatusPending}),
			},
			plainIndex("idx_request_status_target", "status", "target_id"),
		}},
		{r.UserPreferences, []mongo.IndexModel{uniqueIndex("uniq_user_pref", "user_id", "key")}},
		{r.RolePermissions, []mongo.IndexModel{uniqueIndex("uniq_role_permissions", "role_id")}},
	}

	for _, p := range plan {
		if _, err := p.coll.Indexes().CreateMany(ctx, p.indexes); err != nil {
			return err
		}
	}
	return nil
}

// MongoTransactor runs callbacks inside a session transaction.
type MongoTransactor struct {
	Client *mongo.Client
}

func NewMongoTransactor(client *mongo.Client) *MongoTransactor {
	return &MongoTransactor{Client: client}
}

func (t *MongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	}
	_, err = session.WithTransaction(ctx, callback)
	return err
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter interface{}) (*T, error) {
	var out T
	err := coll.FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]*T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []*T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func insertOne(ctx context.Context, coll *mongo.Collection, doc interface{}) error {
	_, err := coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, filter interface{}) (bool, error) {
	res, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func exists(ctx context.Context, coll *mongo.Collection, filter interface{}) (bool, error) {
	// For performance, we add limit 1
	count, err := coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func distinctStrings(ctx context.Context, coll *mongo.Collection, field string, filter interface{}) ([]string, error) {
	values, err := coll.Distinct(ctx, field, filter)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
