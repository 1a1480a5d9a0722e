package trino

import (
	"errors"
	"fmt"
)

// AccessDeniedError is the engine's denial type. Message follows the
// engine's "Access Denied: Cannot ..." taxonomy so diagnostics shown to
// the SQL user stay recognizable.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string {
	return "Access Denied: " + e.Message
}

// IsAccessDenied reports whether err is (or wraps) an AccessDeniedError.
func IsAccessDenied(err error) bool {
	var ad *AccessDeniedError
	return errors.As(err, &ad)
}

func denyf(format string, args ...any) error {
	return &AccessDeniedError{Message: fmt.Sprintf(format, args...)}
}

func DenyExecuteQuery() error {
	return denyf("Cannot execute query")
}

func DenyImpersonateUser(originalUser, userName string) error {
	return denyf("User %s cannot impersonate user %s", originalUser, userName)
}

func DenyViewQuery() error {
	return denyf("Cannot view query")
}

func DenyKillQuery() error {
	return denyf("Cannot kill query")
}

func DenyReadSystemInformation() error {
	return denyf("Cannot read system information")
}

func DenyWriteSystemInformation() error {
	return denyf("Cannot write system information")
}

func DenySetSystemSessionProperty(propertyName string) error {
	return denyf("Cannot set system session property %s", propertyName)
}

func DenyCreateCatalog(catalogName string) error {
	return denyf("Cannot create catalog %s", catalogName)
}

func DenyDropCatalog(catalogName string) error {
	return denyf("Cannot drop catalog %s", catalogName)
}

func DenyCreateSchema(schema CatalogSchemaName) error {
	return denyf("Cannot create schema %s", schema)
}

func DenyDropSchema(schema CatalogSchemaName) error {
	return denyf("Cannot drop schema %s", schema)
}

func DenyRenameSchema(schema CatalogSchemaName, newSchemaName string) error {
	return denyf("Cannot rename schema from %s to %s", schema, newSchemaName)
}

func DenySetSchemaAuthorization(schema CatalogSchemaName, principal Principal) error {
	return denyf("Cannot set authorization for schema %s to %s %s", schema, principal.Type, principal.Name)
}

func DenyShowSchemas(catalogName string) error {
	return denyf("Cannot show schemas in catalog %s", catalogName)
}

func DenyShowCreateSchema(schema CatalogSchemaName) error {
	return denyf("Cannot show create schema for %s", schema)
}

func DenyShowCreateTable(table CatalogSchemaTableName) error {
	return denyf("Cannot show create table for %s", table)
}

func DenyCreateTable(table CatalogSchemaTableName) error {
	return denyf("Cannot create table %s", table)
}

func DenyDropTable(table CatalogSchemaTableName) error {
	return denyf("Cannot drop table %s", table)
}

func DenyRenameTable(table, newTable CatalogSchemaTableName) error {
	return denyf("Cannot rename table from %s to %s", table, newTable)
}

func DenySetTableProperties(table CatalogSchemaTableName) error {
	return denyf("Cannot set table properties to %s", table)
}

func DenyCommentTable(table CatalogSchemaTableName) error {
	return denyf("Cannot comment table to %s", table)
}

func DenyCommentView(view CatalogSchemaTableName) error {
	return denyf("Cannot comment view to %s", view)
}

func DenyCommentColumn(table CatalogSchemaTableName) error {
	return denyf("Cannot comment column to %s", table)
}

func DenyShowTables(schema CatalogSchemaName) error {
	return denyf("Cannot show tables of schema %s", schema)
}

func DenyShowColumns(table SchemaTableName) error {
	return denyf("Cannot show columns of table %s", table)
}

func DenyAddColumn(table CatalogSchemaTableName) error {
	return denyf("Cannot add a column to table %s", table)
}

func DenyAlterColumn(table CatalogSchemaTableName) error {
	return denyf("Cannot alter a column for table %s", table)
}

func DenyDropColumn(table CatalogSchemaTableName) error {
	return denyf("Cannot drop a column from table %s", table)
}

func DenyRenameColumn(table CatalogSchemaTableName) error {
	return denyf("Cannot rename a column in table %s", table)
}

func DenySetTableAuthorization(table CatalogSchemaTableName, principal Principal) error {
	return denyf("Cannot set authorization for table %s to %s %s", table, principal.Type, principal.Name)
}

func DenySelectColumns(table CatalogSchemaTableName, columns []string) error {
	return denyf("Cannot select from columns %v in table or view %s", columns, table)
}

func DenyInsertTable(table CatalogSchemaTableName) error {
	return denyf("Cannot insert into table %s", table)
}

func DenyDeleteTable(table CatalogSchemaTableName) error {
	return denyf("Cannot delete from table %s", table)
}

func DenyTruncateTable(table CatalogSchemaTableName) error {
	return denyf("Cannot truncate table %s", table)
}

func DenyUpdateTableColumns(table CatalogSchemaTableName, columns []string) error {
	return denyf("Cannot update columns %v in table %s", columns, table)
}

func DenyCreateView(view CatalogSchemaTableName) error {
	return denyf("Cannot create view %s", view)
}

func DenyRenameView(view, newView CatalogSchemaTableName) error {
	return denyf("Cannot rename view from %s to %s", view, newView)
}

func DenySetViewAuthorization(view CatalogSchemaTableName, principal Principal) error {
	return denyf("Cannot set authorization for view %s to %s %s", view, principal.Type, principal.Name)
}

func DenyDropView(view CatalogSchemaTableName) error {
	return denyf("Cannot drop view %s", view)
}

func DenyCreateViewWithSelect(table CatalogSchemaTableName, user string) error {
	return denyf("View owner '%s' cannot create view that selects from %s", user, table)
}

func DenyCreateMaterializedView(view CatalogSchemaTableName) error {
	return denyf("Cannot create materialized view %s", view)
}

func DenyRefreshMaterializedView(view CatalogSchemaTableName) error {
	return denyf("Cannot refresh materialized view %s", view)
}

func DenySetMaterializedViewProperties(view CatalogSchemaTableName) error {
	return denyf("Cannot set properties of materialized view %s", view)
}

func DenyDropMaterializedView(view CatalogSchemaTableName) error {
	return denyf("Cannot drop materialized view %s", view)
}

func DenyRenameMaterializedView(view, newView CatalogSchemaTableName) error {
	return denyf("Cannot rename materialized view from %s to %s", view, newView)
}

func DenySetCatalogSessionProperty(propertyName string) error {
	return denyf("Cannot set catalog session property %s", propertyName)
}

func DenyGrantSchemaPrivilege(privilege Privilege, schema CatalogSchemaName) error {
	return denyf("Cannot grant privilege %s on schema %s", privilege, schema)
}

func DenyDenySchemaPrivilege(privilege Privilege, schema CatalogSchemaName) error {
	return denyf("Cannot deny privilege %s on schema %s", privilege, schema)
}

func DenyRevokeSchemaPrivilege(privilege Privilege, schema CatalogSchemaName) error {
	return denyf("Cannot revoke privilege %s on schema %s", privilege, schema)
}

func DenyGrantTablePrivilege(privilege Privilege, table CatalogSchemaTableName) error {
	return denyf("Cannot grant privilege %s on table %s", privilege, table)
}

func DenyDenyTablePrivilege(privilege Privilege, table CatalogSchemaTableName) error {
	return denyf("Cannot deny privilege %s on table %s", privilege, table)
}

func DenyRevokeTablePrivilege(privilege Privilege, table CatalogSchemaTableName) error {
	return denyf("Cannot revoke privilege %s on table %s", privilege, table)
}

func DenyGrantExecuteFunctionPrivilege(functionName string, grantee Principal) error {
	return denyf("Cannot grant privilege EXECUTE on function %s to %s %s", functionName, grantee.Type, grantee.Name)
}

func DenyCreateRole(role string) error {
	return denyf("Cannot create role %s", role)
}

func DenyDropRole(role string) error {
	return denyf("Cannot drop role %s", role)
}

func DenyGrantRoles(roles []string, grantees []Principal) error {
	return denyf("Cannot grant roles %v to %v", roles, grantees)
}

func DenyRevokeRoles(roles []string, grantees []Principal) error {
	return denyf("Cannot revoke roles %v from %v", roles, grantees)
}

func DenyShowRoleAuthorizationDescriptors() error {
	return denyf("Cannot show role authorization descriptors")
}

func DenyExecuteProcedure(procedure string) error {
	return denyf("Cannot execute procedure %s", procedure)
}

func DenyExecuteTableProcedure(table CatalogSchemaTableName, procedure string) error {
	return denyf("Cannot execute table procedure %s on table %s", procedure, table)
}

func DenyShowFunctions(schema CatalogSchemaName) error {
	return denyf("Cannot show functions of schema %s", schema)
}

func DenyCreateFunction(function CatalogSchemaRoutineName) error {
	return denyf("Cannot create function %s", function)
}

func DenyDropFunction(function CatalogSchemaRoutineName) error {
	return denyf("Cannot drop function %s", function)
}
