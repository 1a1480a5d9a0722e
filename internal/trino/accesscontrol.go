package trino

import "context"

// AccessControl is the host engine's system access-control capability
// set. The engine calls one method per security-relevant decision; an
// implementation answers by returning nil (allowed), an
// *AccessDeniedError, or an infrastructure error. Filter methods return
// the authorized subset of their candidates.
type AccessControl interface {
	CheckCanImpersonateUser(ctx context.Context, identity Identity, userName string) error
	CheckCanSetUser(ctx context.Context, principal *Principal, userName string) error
	CheckCanExecuteQuery(ctx context.Context, identity Identity) error
	CheckCanViewQueryOwnedBy(ctx context.Context, identity Identity, queryOwner Identity) error
	FilterViewQueryOwnedBy(ctx context.Context, identity Identity, queryOwners []Identity) ([]Identity, error)
	CheckCanKillQueryOwnedBy(ctx context.Context, identity Identity, queryOwner Identity) error
	CheckCanReadSystemInformation(ctx context.Context, identity Identity) error
	CheckCanWriteSystemInformation(ctx context.Context, identity Identity) error
	CheckCanSetSystemSessionProperty(ctx context.Context, identity Identity, propertyName string) error

	CanAccessCatalog(ctx context.Context, sc SecurityContext, catalogName string) (bool, error)
	CheckCanCreateCatalog(ctx context.Context, sc SecurityContext, catalogName string) error
	CheckCanDropCatalog(ctx context.Context, sc SecurityContext, catalogName string) error
	FilterCatalogs(ctx context.Context, sc SecurityContext, catalogs []string) ([]string, error)

	CheckCanCreateSchema(ctx context.Context, sc SecurityContext, schema CatalogSchemaName, properties map[string]any) error
	CheckCanDropSchema(ctx context.Context, sc SecurityContext, schema CatalogSchemaName) error
	CheckCanRenameSchema(ctx context.Context, sc SecurityContext, schema CatalogSchemaName, newSchemaName string) error
	CheckCanSetSchemaAuthorization(ctx context.Context, sc SecurityContext, schema CatalogSchemaName, principal Principal) error
	CheckCanShowSchemas(ctx context.Context, sc SecurityContext, catalogName string) error
	FilterSchemas(ctx context.Context, sc SecurityContext, catalogName string, schemaNames []string) ([]string, error)
	CheckCanShowCreateSchema(ctx context.Context, sc SecurityContext, schema CatalogSchemaName) error

	CheckCanShowCreateTable(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName) error
	CheckCanCreateTable(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName, properties map[string]any) error
	CheckCanDropTable(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName) error
	CheckCanRenameTable(ctx context.Context, sc SecurityContext, table, newTable CatalogSchemaTableName) error
	CheckCanSetTableProperties(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName, properties map[string]any) error
	CheckCanSetTableComment(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName) error
	CheckCanSetViewComment(ctx context.Context, sc SecurityContext, view CatalogSchemaTableName) error
	CheckCanSetColumnComment(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName) error
	CheckCanShowTables(ctx context.Context, sc SecurityContext, schema CatalogSchemaName) error
	FilterTables(ctx context.Context, sc SecurityContext, catalogName string, tableNames []SchemaTableName) ([]SchemaTableName, error)
	CheckCanShowColumns(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName) error
	FilterColumns(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName, columns []string) ([]string, error)
	CheckCanAddColumn(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName) error
	CheckCanAlterColumn(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName) error
	CheckCanDropColumn(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName) error
	CheckCanRenameColumn(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName) error
	CheckCanSetTableAuthorization(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName, principal Principal) error
	CheckCanSelectFromColumns(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName, columns []string) error
	CheckCanInsertIntoTable(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName) error
	CheckCanDeleteFromTable(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName) error
	CheckCanTruncateTable(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName) error
	CheckCanUpdateTableColumns(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName, updatedColumns []string) error

	CheckCanCreateView(ctx context.Context, sc SecurityContext, view CatalogSchemaTableName) error
	CheckCanRenameView(ctx context.Context, sc SecurityContext, view, newView CatalogSchemaTableName) error
	CheckCanSetViewAuthorization(ctx context.Context, sc SecurityContext, view CatalogSchemaTableName, principal Principal) error
	CheckCanDropView(ctx context.Context, sc SecurityContext, view CatalogSchemaTableName) error
	CheckCanCreateViewWithSelectFromColumns(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName, columns []string) error
	CheckCanCreateMaterializedView(ctx context.Context, sc SecurityContext, view CatalogSchemaTableName, properties map[string]any) error
	CheckCanRefreshMaterializedView(ctx context.Context, sc SecurityContext, view CatalogSchemaTableName) error
	CheckCanSetMaterializedViewProperties(ctx context.Context, sc SecurityContext, view CatalogSchemaTableName, properties map[string]any) error
	CheckCanDropMaterializedView(ctx context.Context, sc SecurityContext, view CatalogSchemaTableName) error
	CheckCanRenameMaterializedView(ctx context.Context, sc SecurityContext, view, newView CatalogSchemaTableName) error

	CheckCanSetCatalogSessionProperty(ctx context.Context, sc SecurityContext, catalogName, propertyName string) error

	CheckCanGrantSchemaPrivilege(ctx context.Context, sc SecurityContext, privilege Privilege, schema CatalogSchemaName, grantee Principal, grantOption bool) error
	CheckCanDenySchemaPrivilege(ctx context.Context, sc SecurityContext, privilege Privilege, schema CatalogSchemaName, grantee Principal) error
	CheckCanRevokeSchemaPrivilege(ctx context.Context, sc SecurityContext, privilege Privilege, schema CatalogSchemaName, revokee Principal, grantOption bool) error
	CheckCanGrantTablePrivilege(ctx context.Context, sc SecurityContext, privilege Privilege, table CatalogSchemaTableName, grantee Principal, grantOption bool) error
	CheckCanDenyTablePrivilege(ctx context.Context, sc SecurityContext, privilege Privilege, table CatalogSchemaTableName, grantee Principal) error
	CheckCanRevokeTablePrivilege(ctx context.Context, sc SecurityContext, privilege Privilege, table CatalogSchemaTableName, revokee Principal, grantOption bool) error
	CheckCanGrantExecuteFunctionPrivilege(ctx context.Context, sc SecurityContext, functionName string, grantee Principal, grantOption bool) error

	CheckCanCreateRole(ctx context.Context, sc SecurityContext, role string, grantor *Principal) error
	CheckCanDropRole(ctx context.Context, sc SecurityContext, role string) error
	CheckCanGrantRoles(ctx context.Context, sc SecurityContext, roles []string, grantees []Principal, adminOption bool, grantor *Principal) error
	CheckCanRevokeRoles(ctx context.Context, sc SecurityContext, roles []string, grantees []Principal, adminOption bool, grantor *Principal) error
	CheckCanShowRoles(ctx context.Context, sc SecurityContext) error
	CheckCanShowCurrentRoles(ctx context.Context, sc SecurityContext) error
	CheckCanShowRoleGrants(ctx context.Context, sc SecurityContext) error
	CheckCanShowRoleAuthorizationDescriptors(ctx context.Context, sc SecurityContext) error

	CheckCanExecuteProcedure(ctx context.Context, sc SecurityContext, procedure CatalogSchemaRoutineName) error
	CheckCanExecuteTableProcedure(ctx context.Context, sc SecurityContext, table CatalogSchemaTableName, procedure string) error
	CanExecuteFunction(ctx context.Context, sc SecurityContext, function CatalogSchemaRoutineName) (bool, error)
	CanCreateViewWithExecuteFunction(ctx context.Context, sc SecurityContext, function CatalogSchemaRoutineName) (bool, error)
	CheckCanShowFunctions(ctx context.Context, sc SecurityContext, schema CatalogSchemaName) error
	CheckCanCreateFunction(ctx context.Context, sc SecurityContext, function CatalogSchemaRoutineName) error
	CheckCanDropFunction(ctx context.Context, sc SecurityContext, function CatalogSchemaRoutineName) error
	FilterFunctions(ctx context.Context, sc SecurityContext, catalogName string, functionNames []SchemaRoutineName) ([]SchemaRoutineName, error)
}
