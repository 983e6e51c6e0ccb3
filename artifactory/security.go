package artifactory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// SecurityService groups the user, group, API key and permission
// operations.
type SecurityService struct {
	service
}

var jsonContent = map[string]any{HeaderContentType: "application/json"}

// GetUsers gets the users list.
func (s *SecurityService) GetUsers(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.get(ctx, "users", "Get Users", opts)
}

// GetUserDetails gets the details of a user.
func (s *SecurityService) GetUserDetails(ctx context.Context, username string, opts ...CallOption) (*Result, error) {
	return s.get(ctx, "users/"+username, "Get User Details", opts)
}

// GetUserEncryptedPassword gets the encrypted password of the
// authenticated user.
func (s *SecurityService) GetUserEncryptedPassword(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.get(ctx, "encryptedPassword", "Get User Encrypted Password", opts)
}

// CreateOrReplaceUser creates a user or replaces an existing one. params
// must hold the username under "name".
func (s *SecurityService) CreateOrReplaceUser(ctx context.Context, params Params, opts ...CallOption) (*Result, error) {
	return s.named(ctx, http.MethodPut, "users/", "name", "Create or Replace User", withHeaders(params, jsonContent), opts)
}

// UpdateUser updates an existing user. params must hold the username under
// "name".
func (s *SecurityService) UpdateUser(ctx context.Context, params Params, opts ...CallOption) (*Result, error) {
	return s.named(ctx, http.MethodPost, "users/", "name", "Update User", withHeaders(params, jsonContent), opts)
}

// DeleteUser removes a user.
func (s *SecurityService) DeleteUser(ctx context.Context, username string, opts ...CallOption) (*Result, error) {
	return s.send(ctx, http.MethodDelete, "users/"+username, "Delete User", opts)
}

// GetLockedOutUsers lists the users locked out after failed logins.
func (s *SecurityService) GetLockedOutUsers(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.get(ctx, "lockedUsers", "Get Locked Out Users", opts)
}

// UnlockLockedOutUser unlocks a single user.
func (s *SecurityService) UnlockLockedOutUser(ctx context.Context, username string, opts ...CallOption) (*Result, error) {
	return s.send(ctx, http.MethodPost, "unlockUsers/"+username, "Unlock Locked Out User", opts)
}

// UnlockLockedOutUsers unlocks the given users. The list is sent as a JSON
// array of strings.
func (s *SecurityService) UnlockLockedOutUsers(ctx context.Context, usernames []string, opts ...CallOption) (*Result, error) {
	if usernames == nil {
		usernames = []string{}
	}
	data, err := json.Marshal(usernames)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user list: %w", err)
	}
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    s.prefix + "unlockUsers",
		operation: s.label("Unlock Locked Out Users"),
		params:    Params{HeaderContentType: "application/json"},
		body:      bytes.NewReader(data),
	}, opts)
}

// UnlockAllLockedOutUsers unlocks every locked out user.
func (s *SecurityService) UnlockAllLockedOutUsers(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.send(ctx, http.MethodPost, "unlockAllUsers", "Unlock All Locked Out Users", opts)
}

// CreateAPIKey creates an API key for the current user.
func (s *SecurityService) CreateAPIKey(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.send(ctx, http.MethodPost, "apiKey", "Create API key", opts)
}

// RegenerateAPIKey regenerates the API key of the current user.
func (s *SecurityService) RegenerateAPIKey(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.send(ctx, http.MethodPut, "apiKey", "Regenerate API key", opts)
}

// GetAPIKey gets the API key of the current user.
func (s *SecurityService) GetAPIKey(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.get(ctx, "apiKey", "Get API key", opts)
}

// RevokeAPIKey revokes the API key of the current user.
func (s *SecurityService) RevokeAPIKey(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.send(ctx, http.MethodDelete, "apiKey", "Revoke API key", opts)
}

// RevokeUserAPIKey revokes the API key of another user.
func (s *SecurityService) RevokeUserAPIKey(ctx context.Context, username string, opts ...CallOption) (*Result, error) {
	return s.send(ctx, http.MethodDelete, "apiKey/"+username, "Revoke User API key", opts)
}

// GetGroups gets the groups list.
func (s *SecurityService) GetGroups(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.get(ctx, "groups", "Get Groups", opts)
}

// GetGroupDetails gets the details of a group.
func (s *SecurityService) GetGroupDetails(ctx context.Context, groupName string, opts ...CallOption) (*Result, error) {
	return s.get(ctx, "groups/"+groupName, "Get Group Details", opts)
}

// CreateOrReplaceGroup creates a group or replaces an existing one. params
// must hold the group name under "group_name".
func (s *SecurityService) CreateOrReplaceGroup(ctx context.Context, params Params, opts ...CallOption) (*Result, error) {
	return s.named(ctx, http.MethodPut, "groups/", "group_name", "Create or Replace Group", params, opts)
}

// UpdateGroup updates an existing group. params must hold the group name
// under "group_name".
func (s *SecurityService) UpdateGroup(ctx context.Context, params Params, opts ...CallOption) (*Result, error) {
	return s.named(ctx, http.MethodPost, "groups/", "group_name", "Update Group", params, opts)
}

// DeleteGroup removes a group.
func (s *SecurityService) DeleteGroup(ctx context.Context, groupName string, opts ...CallOption) (*Result, error) {
	return s.send(ctx, http.MethodDelete, "groups/"+groupName, "Delete Group", opts)
}

// GetPermissionTargets gets the permission targets list.
func (s *SecurityService) GetPermissionTargets(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.get(ctx, "permissions", "Get Permission Targets", opts)
}

// GetPermissionTargetDetails gets the details of a permission target.
func (s *SecurityService) GetPermissionTargetDetails(ctx context.Context, name string, opts ...CallOption) (*Result, error) {
	return s.get(ctx, "permissions/"+name, "Get Permission Target Details", opts)
}

// CreateOrReplacePermissionTarget creates a permission target or replaces
// an existing one. params must hold the target name under "name".
func (s *SecurityService) CreateOrReplacePermissionTarget(ctx context.Context, params Params, opts ...CallOption) (*Result, error) {
	return s.named(ctx, http.MethodPut, "permissions/", "name", "Create or Replace Permission Target", params, opts)
}

// DeletePermissionTarget removes a permission target.
func (s *SecurityService) DeletePermissionTarget(ctx context.Context, name string, opts ...CallOption) (*Result, error) {
	return s.send(ctx, http.MethodDelete, "permissions/"+name, "Delete Permission Target", opts)
}

// EffectiveItemPermissions returns the effective permissions on an item.
func (s *SecurityService) EffectiveItemPermissions(ctx context.Context, repoKey, itemPath string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    "storage/" + repoKey + "/" + itemPath + "?permissions",
		operation: s.label("Effective item permissions"),
	}, opts)
}

func (s *SecurityService) get(ctx context.Context, path, name string, opts []CallOption) (*Result, error) {
	return s.send(ctx, http.MethodGet, path, name, opts)
}

func (s *SecurityService) send(ctx context.Context, verb, path, name string, opts []CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      verb,
		target:    s.prefix + path,
		operation: s.label(name),
	}, opts)
}

// named sends params to a resource whose name is read from params[key].
func (s *SecurityService) named(ctx context.Context, verb, path, key, name string, params Params, opts []CallOption) (*Result, error) {
	operation := s.label(name)
	resource, err := requireParam(operation, params, key)
	if err != nil {
		return nil, err
	}
	return s.do(ctx, &call{
		verb:      verb,
		target:    s.prefix + path + resource,
		operation: operation,
		params:    params,
	}, opts)
}
