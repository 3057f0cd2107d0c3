package router

import (
	"net/http"
	"taskrbac/internal/rbac/handler"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func RegisterRoutes(e *echo.Echo, h *handler.AccessHandler, gate *handler.RBACMiddleware, metricsHandler http.Handler) {
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, handler.HeaderAcceptLanguage, handler.HeaderUserID},
	}))

	// Health Check
	e.GET("/health", handler.HealthCheck)
	if metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(metricsHandler))
	}

	v1 := e.Group("/api/v1")
	v1.Use(handler.RequestIDMiddleware)

	// Permissions check endpoint - no gate, callers only learn about themselves
	v1.POST("/permissions/check", h.PostPermissionsCheck)

	v1.Use(gate.Middleware())

	// Roles and permissions
	v1.GET("/roles", h.GetRoles)
	v1.POST("/roles", h.PostRole)
	v1.GET("/roles/:role_id", h.GetRole)
	v1.PUT("/roles/:role_id/status", h.PutRoleStatus)
	v1.GET("/roles/:role_id/permissions", h.GetRolePermissions)
	v1.PUT("/roles/:role_id/permissions", h.PutRolePermissions)
	v1.GET("/roles/:role_id/users", h.GetRoleUsers)
	v1.GET("/permissions", h.GetPermissions)
	v1.GET("/users/:user_id/roles", h.GetUserRoles)
	v1.GET("/users/:user_id/permissions", h.GetUserPermissions)
	v1.GET("/users/:user_id/roles/:role_id/business-units/:unit_id", h.GetUserRoleInUnit)

	// Self service
	v1.GET("/me/roles", h.GetMyRoles)
	v1.GET("/me/roles/bu-bounded", h.GetMyBuBoundedRoles)
	v1.GET("/me/roles/bu-unbounded", h.GetMyBuUnboundedRoles)
	v1.GET("/me/roles/unactivated", h.GetMyUnactivatedRoles)
	v1.GET("/me/permissions", h.GetMyPermissions)
	v1.GET("/me/bu-reminder", h.GetMyBuReminder)
	v1.GET("/me/preferences/dont-remind", h.GetMyDontRemind)
	v1.PUT("/me/preferences/dont-remind", h.PutMyDontRemind)
	v1.DELETE("/me/preferences/dont-remind", h.DeleteMyDontRemind)
	v1.GET("/me/business-units/applicable", h.GetMyApplicableUnits)
	v1.GET("/me/business-units/count", h.GetMyUnitCount)
	v1.GET("/me/approver", h.GetMyApproverStatus)
	v1.GET("/me/approver-targets", h.GetMyApproverTargets)

	// Virtual groups
	v1.GET("/virtual-groups", h.GetVirtualGroups)
	v1.POST("/virtual-groups", h.PostVirtualGroup)
	v1.GET("/virtual-groups/:group_id/role", h.GetGroupRole)
	v1.PUT("/virtual-groups/:group_id/role", h.PutGroupRole)
	v1.DELETE("/virtual-groups/:group_id/role", h.DeleteGroupRole)
	v1.GET("/virtual-groups/:group_id/members", h.GetGroupMembers)
	v1.DELETE("/virtual-groups/:group_id/members/:user_id", h.DeleteGroupMember)
	v1.POST("/virtual-groups/:group_id/exit", h.PostGroupExit)
	v1.GET("/virtual-groups/:group_id/tasks", h.GetGroupTasks)
	v1.GET("/virtual-groups/:group_id/task-history", h.GetGroupTaskHistory)
	v1.POST("/admin/virtual-groups/:group_id/members", h.PostGroupMember)

	// Business units
	v1.GET("/business-units", h.GetBusinessUnits)
	v1.POST("/business-units", h.PostBusinessUnit)
	v1.GET("/business-units/:unit_id/parent", h.GetUnitParent)
	v1.GET("/business-units/:unit_id/members", h.GetUnitMembers)
	v1.GET("/business-units/:unit_id/members/:user_id", h.GetUnitMember)
	v1.DELETE("/business-units/:unit_id/members/:user_id", h.DeleteUnitMember)
	v1.POST("/business-units/:unit_id/exit", h.PostUnitExit)
	v1.GET("/business-units/:unit_id/roles", h.GetUnitRoles)
	v1.POST("/business-units/:unit_id/roles", h.PostUnitRole)
	v1.GET("/business-units/:unit_id/roles/:role_id", h.GetUnitRole)
	v1.DELETE("/business-units/:unit_id/roles/:role_id", h.DeleteUnitRole)
	v1.GET("/business-units/:unit_id/roles/:role_id/users", h.GetUnitRoleUsers)
	v1.GET("/business-units/:unit_id/roles/:role_id/candidates", h.GetUnitRoleCandidates)
	v1.POST("/admin/business-units/:unit_id/members", h.PostUnitMember)
	v1.DELETE("/admin/business-units/:unit_id/members/:user_id", h.DeleteUnitMemberAdmin)

	// Approvers
	v1.GET("/approvers", h.GetApprovers)
	v1.POST("/approvers", h.PostApprover)
	v1.DELETE("/approvers", h.DeleteApprovers)
	v1.DELETE("/approvers/:approver_id", h.DeleteApprover)

	// Permission requests
	v1.POST("/permission-requests", h.PostPermissionRequest)
	v1.GET("/permission-requests", h.GetPermissionRequests)
	v1.GET("/permission-requests/mine", h.GetMyPermissionRequests)
	v1.GET("/permission-requests/pending", h.GetPendingPermissionRequests)
	v1.GET("/permission-requests/:request_id", h.GetPermissionRequest)
	v1.POST("/permission-requests/:request_id/approve", h.PostApproveRequest)
	v1.POST("/permission-requests/:request_id/reject", h.PostRejectRequest)
	v1.POST("/permission-requests/:request_id/cancel", h.PostCancelRequest)

	// History logs
	v1.GET("/member-change-logs", h.GetMemberChangeLogs)

	// Tasks
	v1.GET("/tasks", h.GetVisibleTasks)
	v1.GET("/tasks/all", h.GetAllVisibleTasks)
	v1.GET("/tasks/overdue", h.GetOverdueTasks)
	v1.GET("/tasks/due-soon", h.GetDueSoonTasks)
	v1.GET("/tasks/high-priority", h.GetHighPriorityTasks)
	v1.GET("/tasks/counts", h.GetTaskCounts)
	v1.GET("/tasks/:task_id", h.GetTask)
	v1.GET("/tasks/:task_id/delegation", h.GetTaskDelegation)
	v1.GET("/tasks/:task_id/history", h.GetTaskHistory)
	v1.PUT("/tasks/:task_id/assignment", h.PutTaskAssignment)
	v1.POST("/tasks/:task_id/claim", h.PostClaimTask)
	v1.POST("/tasks/:task_id/unclaim", h.PostUnclaimTask)
	v1.POST("/tasks/:task_id/delegate", h.PostDelegateTask)
	v1.POST("/tasks/:task_id/transfer", h.PostTransferTask)
	v1.POST("/tasks/:task_id/complete", h.PostCompleteTask)
}
