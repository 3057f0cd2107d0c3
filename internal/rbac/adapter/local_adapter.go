package adapter

import (
	"context"
	"taskrbac/internal/rbac/repository"
)

// LocalMembership implements MembershipChecker using the local repository
type LocalMembership struct {
	repo repository.AccessRepository
}

// NewLocalMembership creates a new LocalMembership
func NewLocalMembership(repo repository.AccessRepository) *LocalMembership {
	return &LocalMembership{repo: repo}
}

// IsGroupMember checks the virtual group membership rows
func (a *LocalMembership) IsGroupMember(ctx context.Context, userID, groupID string) (bool, error) {
	return a.repo.IsGroupMember(ctx, groupID, userID)
}

// IsDeptRoleMember requires membership in the unit and an active hold of the
// role through a virtual group binding.
func (a *LocalMembership) IsDeptRoleMember(ctx context.Context, userID, deptID, roleID string) (bool, error) {
	member, err := a.repo.IsUnitMember(ctx, deptID, userID)
	if err != nil || !member {
		return false, err
	}
	return a.holdsRole(ctx, userID, roleID)
}

func (a *LocalMembership) holdsRole(ctx context.Context, userID, roleID string) (bool, error) {
	groupIDs, err := a.repo.FindGroupIDsByUser(ctx, userID)
	if err != nil || len(groupIDs) == 0 {
		return false, err
	}

	bindings, err := a.repo.FindGroupRolesByGroupIDs(ctx, groupIDs)
	if err != nil {
		return false, err
	}
	bound := false
	for _, b := range bindings {
		if b.RoleID == roleID {
			bound = true
			break
		}
	}
	if !bound {
		return false, nil
	}

	role, err := a.repo.GetRole(ctx, roleID)
	if err != nil || role == nil {
		return false, err
	}
	return role.IsActive(), nil
}
