package policy

import (
	"fmt"
	"sort"
	"taskrbac/internal/rbac/model"
)

// Engine holds the immutable permission configuration loaded at startup.
type Engine struct {
	known     map[string]bool
	ordered   []string
	defaults  RolePermissions
	apiRoutes map[string]string
}

// NewEngine creates a new policy Engine instance
func NewEngine() (*Engine, error) {
	loader := NewLoader()

	catalog, err := loader.LoadPermissionCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load permission catalog: %w", err)
	}

	api, err := loader.LoadAPIPermissions()
	if err != nil {
		return nil, fmt.Errorf("failed to load api permissions: %w", err)
	}

	return newEngine(catalog, api)
}

func newEngine(catalog *PermissionCatalog, api *APIPermissions) (*Engine, error) {
	e := &Engine{
		known:     make(map[string]bool, len(catalog.Permissions)),
		defaults:  make(RolePermissions, len(catalog.Roles)),
		apiRoutes: make(map[string]string, len(api.Routes)),
	}

	for _, p := range catalog.Permissions {
		if !e.known[p] {
			e.known[p] = true
			e.ordered = append(e.ordered, p)
		}
	}
	sort.Strings(e.ordered)

	for role, perms := range catalog.Roles {
		for _, p := range perms {
			if p != model.PermAll && !e.known[p] {
				return nil, fmt.Errorf("role %s references unknown permission %s", role, p)
			}
		}
		e.defaults[role] = append([]string(nil), perms...)
	}

	for route, perm := range api.Routes {
		if !e.known[perm] {
			return nil, fmt.Errorf("route %s references unknown permission %s", route, perm)
		}
		e.apiRoutes[route] = perm
	}
	return e, nil
}

// IsKnownPermission reports whether p is in the catalog
func (e *Engine) IsKnownPermission(p string) bool {
	return e.known[p]
}

// AllPermissions returns the sorted catalog
func (e *Engine) AllPermissions() []string {
	return append([]string(nil), e.ordered...)
}

// DefaultPermissions returns the configured defaults for a role code, or nil
func (e *Engine) DefaultPermissions(roleCode string) []string {
	perms, ok := e.defaults[roleCode]
	if !ok {
		return nil
	}
	return e.Expand(perms)
}

// Expand replaces the wildcard with the full catalog
func (e *Engine) Expand(perms []string) []string {
	for _, p := range perms {
		if p == model.PermAll {
			return e.AllPermissions()
		}
	}
	return append([]string(nil), perms...)
}

// Grants reports whether held covers required
func (e *Engine) Grants(held []string, required string) bool {
	for _, p := range held {
		if p == model.PermAll || p == required {
			return true
		}
	}
	return false
}

// RequiredPermission returns the permission guarding an echo route, if any
func (e *Engine) RequiredPermission(method, routePath string) (string, bool) {
	perm, ok := e.apiRoutes[method+":"+routePath]
	return perm, ok
}
