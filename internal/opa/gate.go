package opa

import (
	"context"

	"github.com/trinobridge/opabridge/internal/trino"
)

// Permission-management callbacks are decided locally by the
// AllowPermissionManagement flag. How SQL-style privileges should
// interact with an external policy engine is ambiguous, so they are
// opt-in as a block and never reach the policy endpoint.

func (a *AccessControl) gated(denial error) error {
	if a.allowPermissionManagement {
		return nil
	}
	return denial
}

func (a *AccessControl) CheckCanGrantSchemaPrivilege(ctx context.Context, sc trino.SecurityContext, privilege trino.Privilege, schema trino.CatalogSchemaName, grantee trino.Principal, grantOption bool) error {
	return a.gated(trino.DenyGrantSchemaPrivilege(privilege, schema))
}

func (a *AccessControl) CheckCanDenySchemaPrivilege(ctx context.Context, sc trino.SecurityContext, privilege trino.Privilege, schema trino.CatalogSchemaName, grantee trino.Principal) error {
	return a.gated(trino.DenyDenySchemaPrivilege(privilege, schema))
}

func (a *AccessControl) CheckCanRevokeSchemaPrivilege(ctx context.Context, sc trino.SecurityContext, privilege trino.Privilege, schema trino.CatalogSchemaName, revokee trino.Principal, grantOption bool) error {
	return a.gated(trino.DenyRevokeSchemaPrivilege(privilege, schema))
}

func (a *AccessControl) CheckCanGrantTablePrivilege(ctx context.Context, sc trino.SecurityContext, privilege trino.Privilege, table trino.CatalogSchemaTableName, grantee trino.Principal, grantOption bool) error {
	return a.gated(trino.DenyGrantTablePrivilege(privilege, table))
}

func (a *AccessControl) CheckCanDenyTablePrivilege(ctx context.Context, sc trino.SecurityContext, privilege trino.Privilege, table trino.CatalogSchemaTableName, grantee trino.Principal) error {
	return a.gated(trino.DenyDenyTablePrivilege(privilege, table))
}

func (a *AccessControl) CheckCanRevokeTablePrivilege(ctx context.Context, sc trino.SecurityContext, privilege trino.Privilege, table trino.CatalogSchemaTableName, revokee trino.Principal, grantOption bool) error {
	return a.gated(trino.DenyRevokeTablePrivilege(privilege, table))
}

func (a *AccessControl) CheckCanCreateRole(ctx context.Context, sc trino.SecurityContext, role string, grantor *trino.Principal) error {
	return a.gated(trino.DenyCreateRole(role))
}

func (a *AccessControl) CheckCanDropRole(ctx context.Context, sc trino.SecurityContext, role string) error {
	return a.gated(trino.DenyDropRole(role))
}

func (a *AccessControl) CheckCanGrantRoles(ctx context.Context, sc trino.SecurityContext, roles []string, grantees []trino.Principal, adminOption bool, grantor *trino.Principal) error {
	return a.gated(trino.DenyGrantRoles(roles, grantees))
}

func (a *AccessControl) CheckCanRevokeRoles(ctx context.Context, sc trino.SecurityContext, roles []string, grantees []trino.Principal, adminOption bool, grantor *trino.Principal) error {
	return a.gated(trino.DenyRevokeRoles(roles, grantees))
}

// Role inspection is always permitted; the engine already scopes the
// listing to the caller.

func (a *AccessControl) CheckCanShowRoles(ctx context.Context, sc trino.SecurityContext) error {
	return nil
}

func (a *AccessControl) CheckCanShowCurrentRoles(ctx context.Context, sc trino.SecurityContext) error {
	return nil
}

func (a *AccessControl) CheckCanShowRoleGrants(ctx context.Context, sc trino.SecurityContext) error {
	return nil
}
