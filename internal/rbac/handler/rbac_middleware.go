package handler

import (
	"context"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/service"

	"github.com/labstack/echo/v4"
)

// RouteResolver finds the permission a route requires.
type RouteResolver interface {
	RequiredPermission(method, routePath string) (string, bool)
}

// PermissionChecker answers whether a user holds a permission.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID, permission string) (bool, error)
}

// RBACMiddleware gates routes listed in the API permission table.
type RBACMiddleware struct {
	routes  RouteResolver
	checker PermissionChecker
}

func NewRBACMiddleware(routes RouteResolver, checker PermissionChecker) *RBACMiddleware {
	return &RBACMiddleware{routes: routes, checker: checker}
}

// Middleware returns the Echo middleware function
func (m *RBACMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// c.Path() is the registered pattern, e.g. /api/v1/roles/:role_id
			permission, ok := m.routes.RequiredPermission(c.Request().Method, c.Path())
			if !ok {
				// Not gated; the service still applies its own ownership rules.
				return next(c)
			}

			callerID := c.Request().Header.Get(HeaderUserID)
			if callerID == "" {
				code, body := httpError(c, service.ErrUnauthorized)
				return c.JSON(code, body)
			}

			allowed, err := m.checker.HasPermission(c.Request().Context(), callerID, permission)
			if err != nil {
				code, body := httpError(c, err)
				return c.JSON(code, body)
			}
			if !allowed {
				code, body := httpError(c, &service.BusinessError{
					Code:   model.CodeForbidden,
					Kind:   service.ErrForbidden,
					Params: map[string]string{"permission": permission},
				})
				return c.JSON(code, body)
			}

			return next(c)
		}
	}
}
