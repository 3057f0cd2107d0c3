package policy

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed policies/role_permissions.json policies/api_permissions.json
var policiesFS embed.FS

// Loader loads policy configurations from embedded JSON files
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

// LoadPermissionCatalog loads the permission list and the role defaults
func (l *Loader) LoadPermissionCatalog() (*PermissionCatalog, error) {
	var catalog PermissionCatalog
	if err := l.readJSON("policies/role_permissions.json", &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// LoadAPIPermissions loads the route to permission mapping
func (l *Loader) LoadAPIPermissions() (*APIPermissions, error) {
	var api APIPermissions
	if err := l.readJSON("policies/api_permissions.json", &api); err != nil {
		return nil, err
	}
	return &api, nil
}

func (l *Loader) readJSON(name string, out interface{}) error {
	data, err := policiesFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}
