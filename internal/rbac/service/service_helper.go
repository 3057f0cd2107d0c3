package service

import (
	"context"
	"errors"
	"taskrbac/internal/rbac/adapter"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/repository"
)

func (s *Service) validateCaller(callerID string) error {
	if callerID == "" {
		return ErrUnauthorized
	}
	return nil
}

func (s *Service) mustGetRole(ctx context.Context, roleID string) (*model.Role, error) {
	role, err := s.Repo.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, notFound(model.CodeRoleNotFound, "role_id", roleID)
	}
	return role, nil
}

func (s *Service) mustGetGroup(ctx context.Context, groupID string) (*model.VirtualGroup, error) {
	group, err := s.Repo.GetVirtualGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, notFound(model.CodeVirtualGroupNotFound, "group_id", groupID)
	}
	return group, nil
}

func (s *Service) mustGetUnit(ctx context.Context, unitID string) (*model.BusinessUnit, error) {
	unit, err := s.Repo.GetBusinessUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, notFound(model.CodeBusinessUnitNotFound, "unit_id", unitID)
	}
	return unit, nil
}

// targetName resolves a group or unit and returns its display name.
func (s *Service) targetName(ctx context.Context, targetType model.TargetType, targetID string) (string, error) {
	switch targetType {
	case model.TargetTypeVirtualGroup:
		group, err := s.mustGetGroup(ctx, targetID)
		if err != nil {
			return "", err
		}
		return group.Name, nil
	case model.TargetTypeBusinessUnit:
		unit, err := s.mustGetUnit(ctx, targetID)
		if err != nil {
			return "", err
		}
		return unit.Name, nil
	}
	return "", badRequest(model.CodeInvalidTargetType, "target_type", string(targetType))
}

// requireActiveUser checks the directory for an existing, active user.
func (s *Service) requireActiveUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.Directory.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound(model.CodeUserNotFound, "user_id", userID)
	}
	if !user.Active {
		// the entry may predate a reactivation
		if cache, ok := s.Directory.(adapter.UserCache); ok {
			cache.Invalidate(userID)
		}
		return nil, badRequest(model.CodeUserNotActive, "user_id", userID)
	}
	return user, nil
}

// duplicateAs maps a unique index violation to the business conflict the
// fast-path exists check would have produced.
func duplicateAs(err error, code string, params ...string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return conflict(code, params...)
	}
	return err
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
