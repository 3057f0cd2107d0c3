package service

import (
	"context"
	"taskrbac/internal/rbac/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetUserRoles(t *testing.T) {
	ctx := context.Background()

	t.Run("user without groups has no roles", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("FindGroupIDsByUser", mock.Anything, "u1").Return([]string{}, nil)

		roles, err := f.svc.GetUserRoles(ctx, "u1")
		require.NoError(t, err)
		assert.NotNil(t, roles)
		assert.Empty(t, roles)
		f.repo.AssertNotCalled(t, "FindGroupRolesByGroupIDs", mock.Anything, mock.Anything)
	})

	t.Run("inactive roles are dropped and the rest sorted by code", func(t *testing.T) {
		f := newFixture(t)
		inactive := role("r0", model.RoleTypeBuBounded)
		inactive.Status = model.RoleStatusInactive
		f.holdsRoles("u1", "g1", role("r2", model.RoleTypeBuUnbounded), inactive, role("r1", model.RoleTypeBuBounded))

		roles, err := f.svc.GetUserRoles(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, roles, 2)
		assert.Equal(t, "r1", roles[0].ID)
		assert.Equal(t, "r2", roles[1].ID)
	})

	t.Run("role filter by type", func(t *testing.T) {
		f := newFixture(t)
		f.holdsRoles("u1", "g1", role("r1", model.RoleTypeBuBounded), role("r2", model.RoleTypeBuUnbounded))

		unbounded, err := f.svc.GetUserBuUnboundedRoles(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, unbounded, 1)
		assert.Equal(t, "r2", unbounded[0].ID)
	})
}

func TestBuBoundedActivation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r1 := role("R1", model.RoleTypeBuBounded)
	f.holdsRoles("U1", "G1", r1)

	// U1 is in G1 but in no unit yet
	f.repo.On("CountUnitsByUser", mock.Anything, "U1").Return(int64(0), nil).Once()

	roles, err := f.svc.GetUnactivatedBuBoundedRoles(ctx, "U1")
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "R1", roles[0].ID)

	// U1 joins B1
	f.repo.On("GetBusinessUnit", mock.Anything, "B1").Return(&model.BusinessUnit{ID: "B1", Name: "Sales"}, nil)
	f.activeUser("U1")
	f.repo.On("IsUnitMember", mock.Anything, "B1", "U1").Return(false, nil).Once()
	f.repo.On("AddUnitMember", mock.Anything, mock.MatchedBy(func(m *model.UserBusinessUnit) bool {
		return m.UserID == "U1" && m.BusinessUnitID == "B1" && m.AddedBy == "admin"
	})).Return(nil)

	err = f.svc.AddUnitMember(ctx, "admin", "B1", model.AddUnitMemberReq{UserID: "U1"})
	require.NoError(t, err)
	require.Len(t, f.history.Entries, 1)
	assert.Equal(t, model.ChangeTypeJoin, f.history.Entries[0].ChangeType)
	assert.Equal(t, []string{"R1"}, f.history.Entries[0].RoleIDs)

	f.repo.On("CountUnitsByUser", mock.Anything, "U1").Return(int64(1), nil)
	roles, err = f.svc.GetUnactivatedBuBoundedRoles(ctx, "U1")
	require.NoError(t, err)
	assert.Empty(t, roles)

	// activation covers every unit joined
	f.repo.On("IsUnitMember", mock.Anything, "B1", "U1").Return(true, nil)
	f.repo.On("IsUnitMember", mock.Anything, "B2", "U1").Return(false, nil)
	inB1, err := f.svc.HasRoleInBusinessUnit(ctx, "U1", "R1", "B1")
	require.NoError(t, err)
	assert.True(t, inB1)
	inB2, err := f.svc.HasRoleInBusinessUnit(ctx, "U1", "R1", "B2")
	require.NoError(t, err)
	assert.False(t, inB2)
}

func TestShouldShowBuApplicationReminder(t *testing.T) {
	ctx := context.Background()

	t.Run("shown while roles are unactivated", func(t *testing.T) {
		f := newFixture(t)
		f.holdsRoles("u1", "g1", role("r1", model.RoleTypeBuBounded))
		f.repo.On("CountUnitsByUser", mock.Anything, "u1").Return(int64(0), nil)
		f.repo.On("GetPreference", mock.Anything, "u1", model.PrefDontRemindBuApplication).Return(nil, nil)

		show, err := f.svc.ShouldShowBuApplicationReminder(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, show)
	})

	t.Run("suppressed by preference", func(t *testing.T) {
		f := newFixture(t)
		f.holdsRoles("u1", "g1", role("r1", model.RoleTypeBuBounded))
		f.repo.On("CountUnitsByUser", mock.Anything, "u1").Return(int64(0), nil)
		f.repo.On("GetPreference", mock.Anything, "u1", model.PrefDontRemindBuApplication).
			Return(&model.UserPreference{UserID: "u1", Key: model.PrefDontRemindBuApplication, Value: "true"}, nil)

		show, err := f.svc.ShouldShowBuApplicationReminder(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, show)
	})

	t.Run("never shown without bounded roles", func(t *testing.T) {
		f := newFixture(t)
		f.holdsRoles("u1", "g1", role("r2", model.RoleTypeBuUnbounded))

		show, err := f.svc.ShouldShowBuApplicationReminder(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, show)
		f.repo.AssertNotCalled(t, "GetPreference", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetUserPermissions(t *testing.T) {
	ctx := context.Background()

	t.Run("admin holds the whole catalog", func(t *testing.T) {
		f := newFixture(t)
		f.holdsRoles("u1", "g1", role(model.RoleCodeAdmin, model.RoleTypeAdmin))

		perms, err := f.svc.GetUserPermissions(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, f.svc.ListPermissions(), perms)
	})

	t.Run("developer override replaces defaults", func(t *testing.T) {
		f := newFixture(t)
		dev := role("DEVELOPER", model.RoleTypeDeveloper)
		f.holdsRoles("u1", "g1", dev)
		f.repo.On("FindRolePermissions", mock.Anything, []string{"DEVELOPER"}).
			Return([]*model.RolePermissions{{RoleID: "DEVELOPER", Permissions: []string{"task:assign", "form:view"}}}, nil)

		perms, err := f.svc.GetUserPermissions(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{"form:view", "task:assign"}, perms)

		ok, err := f.svc.HasPermission(ctx, "u1", model.PermTaskAssign)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("business roles grant nothing", func(t *testing.T) {
		f := newFixture(t)
		f.holdsRoles("u1", "g1", role("r1", model.RoleTypeBuBounded))

		ok, err := f.svc.HasPermission(ctx, "u1", model.PermRoleRead)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestAssignRolePermissions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.On("GetRole", mock.Anything, "DEVELOPER").Return(role("DEVELOPER", model.RoleTypeDeveloper), nil)

	_, err := f.svc.AssignRolePermissions(ctx, "admin", "DEVELOPER", model.AssignRolePermissionsReq{Permissions: []string{"form:view", "nope:nope"}})
	assertBusinessError(t, err, ErrBadRequest, model.CodeUnknownPermission)
	f.repo.AssertNotCalled(t, "SetRolePermissions", mock.Anything, mock.Anything)

	f.repo.On("SetRolePermissions", mock.Anything, mock.MatchedBy(func(rp *model.RolePermissions) bool {
		return rp.RoleID == "DEVELOPER" && rp.UpdatedBy == "admin"
	})).Return(nil)
	perms, err := f.svc.AssignRolePermissions(ctx, "admin", "DEVELOPER", model.AssignRolePermissionsReq{Permissions: []string{"task:assign", "form:view"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"form:view", "task:assign"}, perms)
}

func TestBindRole(t *testing.T) {
	ctx := context.Background()

	t.Run("system group is protected", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetVirtualGroup", mock.Anything, "g1").
			Return(&model.VirtualGroup{ID: "g1", Type: model.VirtualGroupTypeSystem}, nil)

		_, err := f.svc.BindRole(ctx, "admin", "g1", model.BindRoleReq{RoleID: "r1"})
		assertBusinessError(t, err, ErrConflict, model.CodeSystemGroupProtected)
	})

	t.Run("only business roles bind", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetVirtualGroup", mock.Anything, "g1").
			Return(&model.VirtualGroup{ID: "g1", Type: model.VirtualGroupTypeUserDefined}, nil)
		f.repo.On("GetRole", mock.Anything, "dev").Return(role("dev", model.RoleTypeDeveloper), nil)

		_, err := f.svc.BindRole(ctx, "admin", "g1", model.BindRoleReq{RoleID: "dev"})
		assertBusinessError(t, err, ErrBadRequest, model.CodeInvalidRoleType)
		f.repo.AssertNotCalled(t, "ReplaceGroupRole", mock.Anything, mock.Anything)
	})

	t.Run("replaces the existing binding", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetVirtualGroup", mock.Anything, "g1").
			Return(&model.VirtualGroup{ID: "g1", Type: model.VirtualGroupTypeUserDefined}, nil)
		f.repo.On("GetRole", mock.Anything, "r2").Return(role("r2", model.RoleTypeBuUnbounded), nil)
		f.repo.On("GetGroupRole", mock.Anything, "g1").Return(&model.VirtualGroupRole{VirtualGroupID: "g1", RoleID: "r1"}, nil)
		f.repo.On("ReplaceGroupRole", mock.Anything, mock.MatchedBy(func(b *model.VirtualGroupRole) bool {
			return b.VirtualGroupID == "g1" && b.RoleID == "r2"
		})).Return(nil)

		binding, err := f.svc.BindRole(ctx, "admin", "g1", model.BindRoleReq{RoleID: "r2"})
		require.NoError(t, err)
		assert.Equal(t, "r2", binding.RoleID)
		f.repo.AssertExpectations(t)
	})
}
