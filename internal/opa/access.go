package opa

import (
	"context"
	"log/slog"

	"github.com/trinobridge/opabridge/internal/trino"
)

// AccessControl answers every host callback with a single-decision
// query against the policy endpoint. Each callback builds an Action,
// wraps it with the caller's context, and interprets the boolean
// verdict; an absent or false result is a denial with the callback's
// specific error.
type AccessControl struct {
	client                    *DecisionClient
	policyURI                 string
	batchURI                  string
	trinoVersion              string
	allowPermissionManagement bool
	maxFanOut                 int
	log                       *slog.Logger
}

var _ trino.AccessControl = (*AccessControl)(nil)

func (a *AccessControl) queryContext(id trino.Identity) QueryContext {
	return QueryContext{
		Identity:      identityFrom(id),
		SoftwareStack: SoftwareStack{TrinoVersion: a.trinoVersion},
	}
}

// allowed runs one single-decision query for the given action.
func (a *AccessControl) allowed(ctx context.Context, id trino.Identity, action Action) (bool, error) {
	if err := action.validate(); err != nil {
		return false, err
	}
	q := Query{Input: Input{Context: a.queryContext(id), Action: action}}
	decision, err := a.client.QueryAllowed(ctx, a.policyURI, q)
	if err != nil {
		return false, err
	}
	return decision.Result, nil
}

// enforce runs allowed and converts a false verdict into denial.
func (a *AccessControl) enforce(ctx context.Context, id trino.Identity, action Action, denial error) error {
	ok, err := a.allowed(ctx, id, action)
	if err != nil {
		return err
	}
	if !ok {
		return denial
	}
	return nil
}

func (a *AccessControl) CheckCanExecuteQuery(ctx context.Context, identity trino.Identity) error {
	return a.enforce(ctx, identity,
		Action{Operation: "ExecuteQuery"},
		trino.DenyExecuteQuery())
}

func (a *AccessControl) CheckCanImpersonateUser(ctx context.Context, identity trino.Identity, userName string) error {
	u := bareUser(userName)
	return a.enforce(ctx, identity,
		Action{Operation: "ImpersonateUser", Resource: &Resource{User: &u}},
		trino.DenyImpersonateUser(identity.User, userName))
}

// CheckCanSetUser is deprecated host surface; impersonation checks
// replace it, so it intentionally allows without consulting the PDP.
func (a *AccessControl) CheckCanSetUser(ctx context.Context, principal *trino.Principal, userName string) error {
	return nil
}

func (a *AccessControl) CheckCanViewQueryOwnedBy(ctx context.Context, identity trino.Identity, queryOwner trino.Identity) error {
	u := userFrom(queryOwner)
	return a.enforce(ctx, identity,
		Action{Operation: "ViewQueryOwnedBy", Resource: &Resource{User: &u}},
		trino.DenyViewQuery())
}

func (a *AccessControl) CheckCanKillQueryOwnedBy(ctx context.Context, identity trino.Identity, queryOwner trino.Identity) error {
	u := userFrom(queryOwner)
	return a.enforce(ctx, identity,
		Action{Operation: "KillQueryOwnedBy", Resource: &Resource{User: &u}},
		trino.DenyKillQuery())
}

func (a *AccessControl) CheckCanReadSystemInformation(ctx context.Context, identity trino.Identity) error {
	return a.enforce(ctx, identity,
		Action{Operation: "ReadSystemInformation"},
		trino.DenyReadSystemInformation())
}

func (a *AccessControl) CheckCanWriteSystemInformation(ctx context.Context, identity trino.Identity) error {
	return a.enforce(ctx, identity,
		Action{Operation: "WriteSystemInformation"},
		trino.DenyWriteSystemInformation())
}

func (a *AccessControl) CheckCanSetSystemSessionProperty(ctx context.Context, identity trino.Identity, propertyName string) error {
	return a.enforce(ctx, identity,
		Action{Operation: "SetSystemSessionProperty", Resource: &Resource{
			SystemSessionProperty: &SystemSessionProperty{Name: propertyName},
		}},
		trino.DenySetSystemSessionProperty(propertyName))
}

func (a *AccessControl) CanAccessCatalog(ctx context.Context, sc trino.SecurityContext, catalogName string) (bool, error) {
	return a.allowed(ctx, sc.Identity,
		Action{Operation: "AccessCatalog", Resource: &Resource{Catalog: &Catalog{Name: catalogName}}})
}

func (a *AccessControl) CheckCanCreateCatalog(ctx context.Context, sc trino.SecurityContext, catalogName string) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "CreateCatalog", Resource: &Resource{Catalog: &Catalog{Name: catalogName}}},
		trino.DenyCreateCatalog(catalogName))
}

func (a *AccessControl) CheckCanDropCatalog(ctx context.Context, sc trino.SecurityContext, catalogName string) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "DropCatalog", Resource: &Resource{Catalog: &Catalog{Name: catalogName}}},
		trino.DenyDropCatalog(catalogName))
}

func (a *AccessControl) CheckCanShowSchemas(ctx context.Context, sc trino.SecurityContext, catalogName string) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "ShowSchemas", Resource: &Resource{Catalog: &Catalog{Name: catalogName}}},
		trino.DenyShowSchemas(catalogName))
}

func (a *AccessControl) CheckCanCreateSchema(ctx context.Context, sc trino.SecurityContext, schema trino.CatalogSchemaName, properties map[string]any) error {
	res := schemaFrom(schema)
	res.Properties = nonNilProperties(properties)
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "CreateSchema", Resource: &Resource{Schema: res}},
		trino.DenyCreateSchema(schema))
}

func (a *AccessControl) CheckCanDropSchema(ctx context.Context, sc trino.SecurityContext, schema trino.CatalogSchemaName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "DropSchema", Resource: &Resource{Schema: schemaFrom(schema)}},
		trino.DenyDropSchema(schema))
}

func (a *AccessControl) CheckCanRenameSchema(ctx context.Context, sc trino.SecurityContext, schema trino.CatalogSchemaName, newSchemaName string) error {
	target := &Schema{CatalogName: schema.CatalogName, SchemaName: newSchemaName}
	return a.enforce(ctx, sc.Identity,
		Action{
			Operation:      "RenameSchema",
			Resource:       &Resource{Schema: schemaFrom(schema)},
			TargetResource: &Resource{Schema: target},
		},
		trino.DenyRenameSchema(schema, newSchemaName))
}

func (a *AccessControl) CheckCanSetSchemaAuthorization(ctx context.Context, sc trino.SecurityContext, schema trino.CatalogSchemaName, principal trino.Principal) error {
	return a.enforce(ctx, sc.Identity,
		Action{
			Operation: "SetSchemaAuthorization",
			Resource:  &Resource{Schema: schemaFrom(schema)},
			Grantee:   granteeFrom(principal, nil, ""),
		},
		trino.DenySetSchemaAuthorization(schema, principal))
}

func (a *AccessControl) CheckCanShowCreateSchema(ctx context.Context, sc trino.SecurityContext, schema trino.CatalogSchemaName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "ShowCreateSchema", Resource: &Resource{Schema: schemaFrom(schema)}},
		trino.DenyShowCreateSchema(schema))
}

func (a *AccessControl) CheckCanShowTables(ctx context.Context, sc trino.SecurityContext, schema trino.CatalogSchemaName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "ShowTables", Resource: &Resource{Schema: schemaFrom(schema)}},
		trino.DenyShowTables(schema))
}

func (a *AccessControl) CheckCanShowFunctions(ctx context.Context, sc trino.SecurityContext, schema trino.CatalogSchemaName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "ShowFunctions", Resource: &Resource{Schema: schemaFrom(schema)}},
		trino.DenyShowFunctions(schema))
}

func (a *AccessControl) CheckCanShowCreateTable(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "ShowCreateTable", Resource: &Resource{Table: tableFrom(table)}},
		trino.DenyShowCreateTable(table))
}

func (a *AccessControl) CheckCanCreateTable(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName, properties map[string]any) error {
	res := tableFrom(table)
	res.Properties = nonNilProperties(properties)
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "CreateTable", Resource: &Resource{Table: res}},
		trino.DenyCreateTable(table))
}

func (a *AccessControl) CheckCanDropTable(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "DropTable", Resource: &Resource{Table: tableFrom(table)}},
		trino.DenyDropTable(table))
}

func (a *AccessControl) CheckCanRenameTable(ctx context.Context, sc trino.SecurityContext, table, newTable trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{
			Operation:      "RenameTable",
			Resource:       &Resource{Table: tableFrom(table)},
			TargetResource: &Resource{Table: tableFrom(newTable)},
		},
		trino.DenyRenameTable(table, newTable))
}

func (a *AccessControl) CheckCanSetTableProperties(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName, properties map[string]any) error {
	res := tableFrom(table)
	res.Properties = nonNilProperties(properties)
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "SetTableProperties", Resource: &Resource{Table: res}},
		trino.DenySetTableProperties(table))
}

func (a *AccessControl) CheckCanSetTableComment(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "SetTableComment", Resource: &Resource{Table: tableFrom(table)}},
		trino.DenyCommentTable(table))
}

func (a *AccessControl) CheckCanSetViewComment(ctx context.Context, sc trino.SecurityContext, view trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "SetViewComment", Resource: &Resource{View: tableFrom(view)}},
		trino.DenyCommentView(view))
}

func (a *AccessControl) CheckCanSetColumnComment(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "SetColumnComment", Resource: &Resource{Table: tableFrom(table)}},
		trino.DenyCommentColumn(table))
}

func (a *AccessControl) CheckCanShowColumns(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "ShowColumns", Resource: &Resource{Table: tableFrom(table)}},
		trino.DenyShowColumns(trino.SchemaTableName{SchemaName: table.SchemaName, TableName: table.TableName}))
}

func (a *AccessControl) CheckCanAddColumn(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "AddColumn", Resource: &Resource{Table: tableFrom(table)}},
		trino.DenyAddColumn(table))
}

func (a *AccessControl) CheckCanAlterColumn(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "AlterColumn", Resource: &Resource{Table: tableFrom(table)}},
		trino.DenyAlterColumn(table))
}

func (a *AccessControl) CheckCanDropColumn(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "DropColumn", Resource: &Resource{Table: tableFrom(table)}},
		trino.DenyDropColumn(table))
}

func (a *AccessControl) CheckCanRenameColumn(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "RenameColumn", Resource: &Resource{Table: tableFrom(table)}},
		trino.DenyRenameColumn(table))
}

func (a *AccessControl) CheckCanSetTableAuthorization(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName, principal trino.Principal) error {
	return a.enforce(ctx, sc.Identity,
		Action{
			Operation: "SetTableAuthorization",
			Resource:  &Resource{Table: tableFrom(table)},
			Grantee:   granteeFrom(principal, nil, ""),
		},
		trino.DenySetTableAuthorization(table, principal))
}

func (a *AccessControl) CheckCanSelectFromColumns(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName, columns []string) error {
	res := tableFrom(table)
	res.Columns = emptyIfNil(columns)
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "SelectFromColumns", Resource: &Resource{Table: res}},
		trino.DenySelectColumns(table, columns))
}

func (a *AccessControl) CheckCanInsertIntoTable(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "InsertIntoTable", Resource: &Resource{Table: tableFrom(table)}},
		trino.DenyInsertTable(table))
}

func (a *AccessControl) CheckCanDeleteFromTable(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "DeleteFromTable", Resource: &Resource{Table: tableFrom(table)}},
		trino.DenyDeleteTable(table))
}

func (a *AccessControl) CheckCanTruncateTable(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "TruncateTable", Resource: &Resource{Table: tableFrom(table)}},
		trino.DenyTruncateTable(table))
}

func (a *AccessControl) CheckCanUpdateTableColumns(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName, updatedColumns []string) error {
	res := tableFrom(table)
	res.Columns = emptyIfNil(updatedColumns)
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "UpdateTableColumns", Resource: &Resource{Table: res}},
		trino.DenyUpdateTableColumns(table, updatedColumns))
}

func (a *AccessControl) CheckCanCreateView(ctx context.Context, sc trino.SecurityContext, view trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "CreateView", Resource: &Resource{View: tableFrom(view)}},
		trino.DenyCreateView(view))
}

func (a *AccessControl) CheckCanRenameView(ctx context.Context, sc trino.SecurityContext, view, newView trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{
			Operation:      "RenameView",
			Resource:       &Resource{View: tableFrom(view)},
			TargetResource: &Resource{View: tableFrom(newView)},
		},
		trino.DenyRenameView(view, newView))
}

func (a *AccessControl) CheckCanSetViewAuthorization(ctx context.Context, sc trino.SecurityContext, view trino.CatalogSchemaTableName, principal trino.Principal) error {
	return a.enforce(ctx, sc.Identity,
		Action{
			Operation: "SetViewAuthorization",
			Resource:  &Resource{View: tableFrom(view)},
			Grantee:   granteeFrom(principal, nil, ""),
		},
		trino.DenySetViewAuthorization(view, principal))
}

func (a *AccessControl) CheckCanDropView(ctx context.Context, sc trino.SecurityContext, view trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "DropView", Resource: &Resource{View: tableFrom(view)}},
		trino.DenyDropView(view))
}

func (a *AccessControl) CheckCanCreateViewWithSelectFromColumns(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName, columns []string) error {
	res := tableFrom(table)
	res.Columns = emptyIfNil(columns)
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "CreateViewWithSelectFromColumns", Resource: &Resource{Table: res}},
		trino.DenyCreateViewWithSelect(table, sc.Identity.User))
}

func (a *AccessControl) CheckCanCreateMaterializedView(ctx context.Context, sc trino.SecurityContext, view trino.CatalogSchemaTableName, properties map[string]any) error {
	res := tableFrom(view)
	res.Properties = nonNilProperties(properties)
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "CreateMaterializedView", Resource: &Resource{View: res}},
		trino.DenyCreateMaterializedView(view))
}

func (a *AccessControl) CheckCanRefreshMaterializedView(ctx context.Context, sc trino.SecurityContext, view trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "RefreshMaterializedView", Resource: &Resource{View: tableFrom(view)}},
		trino.DenyRefreshMaterializedView(view))
}

func (a *AccessControl) CheckCanSetMaterializedViewProperties(ctx context.Context, sc trino.SecurityContext, view trino.CatalogSchemaTableName, properties map[string]any) error {
	res := tableFrom(view)
	res.Properties = nonNilProperties(properties)
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "SetMaterializedViewProperties", Resource: &Resource{View: res}},
		trino.DenySetMaterializedViewProperties(view))
}

func (a *AccessControl) CheckCanDropMaterializedView(ctx context.Context, sc trino.SecurityContext, view trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "DropMaterializedView", Resource: &Resource{View: tableFrom(view)}},
		trino.DenyDropMaterializedView(view))
}

func (a *AccessControl) CheckCanRenameMaterializedView(ctx context.Context, sc trino.SecurityContext, view, newView trino.CatalogSchemaTableName) error {
	return a.enforce(ctx, sc.Identity,
		Action{
			Operation:      "RenameMaterializedView",
			Resource:       &Resource{View: tableFrom(view)},
			TargetResource: &Resource{View: tableFrom(newView)},
		},
		trino.DenyRenameMaterializedView(view, newView))
}

func (a *AccessControl) CheckCanSetCatalogSessionProperty(ctx context.Context, sc trino.SecurityContext, catalogName, propertyName string) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "SetCatalogSessionProperty", Resource: &Resource{
			CatalogSessionProperty: &CatalogSessionProperty{CatalogName: catalogName, PropertyName: propertyName},
		}},
		trino.DenySetCatalogSessionProperty(propertyName))
}

func (a *AccessControl) CheckCanGrantExecuteFunctionPrivilege(ctx context.Context, sc trino.SecurityContext, functionName string, grantee trino.Principal, grantOption bool) error {
	return a.enforce(ctx, sc.Identity,
		Action{
			Operation: "GrantExecuteFunctionPrivilege",
			Resource:  &Resource{Function: &Function{FunctionName: functionName}},
			Grantee:   granteeFrom(grantee, boolPtr(grantOption), ""),
		},
		trino.DenyGrantExecuteFunctionPrivilege(functionName, grantee))
}

func (a *AccessControl) CheckCanShowRoleAuthorizationDescriptors(ctx context.Context, sc trino.SecurityContext) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "ShowRoleAuthorizationDescriptors"},
		trino.DenyShowRoleAuthorizationDescriptors())
}

func (a *AccessControl) CheckCanExecuteProcedure(ctx context.Context, sc trino.SecurityContext, procedure trino.CatalogSchemaRoutineName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "ExecuteProcedure", Resource: &Resource{
			Schema:   &Schema{CatalogName: procedure.CatalogName, SchemaName: procedure.SchemaName},
			Function: &Function{FunctionName: procedure.RoutineName},
		}},
		trino.DenyExecuteProcedure(procedure.String()))
}

func (a *AccessControl) CheckCanExecuteTableProcedure(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName, procedure string) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "ExecuteTableProcedure", Resource: &Resource{
			Table:    tableFrom(table),
			Function: &Function{FunctionName: procedure},
		}},
		trino.DenyExecuteTableProcedure(table, procedure))
}

func (a *AccessControl) CanExecuteFunction(ctx context.Context, sc trino.SecurityContext, function trino.CatalogSchemaRoutineName) (bool, error) {
	return a.allowed(ctx, sc.Identity,
		Action{Operation: "ExecuteFunction", Resource: &Resource{Function: functionFrom(function)}})
}

func (a *AccessControl) CanCreateViewWithExecuteFunction(ctx context.Context, sc trino.SecurityContext, function trino.CatalogSchemaRoutineName) (bool, error) {
	return a.allowed(ctx, sc.Identity,
		Action{Operation: "CreateViewWithExecuteFunction", Resource: &Resource{Function: functionFrom(function)}})
}

func (a *AccessControl) CheckCanCreateFunction(ctx context.Context, sc trino.SecurityContext, function trino.CatalogSchemaRoutineName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "CreateFunction", Resource: &Resource{Function: functionFrom(function)}},
		trino.DenyCreateFunction(function))
}

func (a *AccessControl) CheckCanDropFunction(ctx context.Context, sc trino.SecurityContext, function trino.CatalogSchemaRoutineName) error {
	return a.enforce(ctx, sc.Identity,
		Action{Operation: "DropFunction", Resource: &Resource{Function: functionFrom(function)}},
		trino.DenyDropFunction(function))
}

// nonNilProperties keeps nil-valued entries (they serialize as JSON
// null) and guarantees the map itself is present on the wire.
func nonNilProperties(properties map[string]any) map[string]any {
	if properties == nil {
		return map[string]any{}
	}
	return properties
}
