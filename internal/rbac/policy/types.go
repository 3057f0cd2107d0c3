package policy

// RolePermissions maps role codes to their default permissions
type RolePermissions map[string][]string

// PermissionCatalog is the content of role_permissions.json
type PermissionCatalog struct {
	// Permissions lists every grantable permission code
	Permissions []string        `json:"permissions"`
	Roles       RolePermissions `json:"roles"`
}

// APIPermissions maps "METHOD:/route/:param" to the permission a caller needs
type APIPermissions struct {
	Routes map[string]string `json:"routes"`
}
