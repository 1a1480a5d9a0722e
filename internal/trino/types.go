package trino

import (
	"fmt"
	"time"
)

type PrincipalType string

const (
	PrincipalTypeUser PrincipalType = "USER"
	PrincipalTypeRole PrincipalType = "ROLE"
)

// Principal identifies a user or role in grant statements.
type Principal struct {
	Type PrincipalType
	Name string
}

type SelectedRoleType string

const (
	SelectedRoleAll  SelectedRoleType = "ALL"
	SelectedRoleNone SelectedRoleType = "NONE"
	SelectedRoleRole SelectedRoleType = "ROLE"
)

type SelectedRole struct {
	Type SelectedRoleType
	Role string
}

// Identity describes the caller on whose behalf a query runs. Immutable
// per request; the engine constructs it once per session.
type Identity struct {
	User             string
	Groups           []string
	EnabledRoles     []string
	CatalogRoles     map[string]SelectedRole
	ExtraCredentials map[string]string
}

type Privilege string

const (
	PrivilegeSelect      Privilege = "SELECT"
	PrivilegeInsert      Privilege = "INSERT"
	PrivilegeDelete      Privilege = "DELETE"
	PrivilegeUpdate      Privilege = "UPDATE"
	PrivilegeOwnership   Privilege = "OWNERSHIP"
	PrivilegeCreate      Privilege = "CREATE"
	PrivilegeAlter       Privilege = "ALTER"
	PrivilegeDrop        Privilege = "DROP"
	PrivilegeGrantSelect Privilege = "GRANT_SELECT"
)

type FunctionKind string

const (
	FunctionKindScalar    FunctionKind = "SCALAR"
	FunctionKindAggregate FunctionKind = "AGGREGATE"
	FunctionKindWindow    FunctionKind = "WINDOW"
	FunctionKindTable     FunctionKind = "TABLE"
)

type CatalogSchemaName struct {
	CatalogName string
	SchemaName  string
}

func (n CatalogSchemaName) String() string {
	return n.CatalogName + "." + n.SchemaName
}

type SchemaTableName struct {
	SchemaName string
	TableName  string
}

func (n SchemaTableName) String() string {
	return n.SchemaName + "." + n.TableName
}

type CatalogSchemaTableName struct {
	CatalogName string
	SchemaName  string
	TableName   string
}

func (n CatalogSchemaTableName) String() string {
	return fmt.Sprintf("%s.%s.%s", n.CatalogName, n.SchemaName, n.TableName)
}

type SchemaRoutineName struct {
	SchemaName  string
	RoutineName string
}

func (n SchemaRoutineName) String() string {
	return n.SchemaName + "." + n.RoutineName
}

type CatalogSchemaRoutineName struct {
	CatalogName string
	SchemaName  string
	RoutineName string
}

func (n CatalogSchemaRoutineName) String() string {
	return fmt.Sprintf("%s.%s.%s", n.CatalogName, n.SchemaName, n.RoutineName)
}

// SecurityContext carries the identity and query metadata the engine
// hands to every catalog-scoped access-control callback.
type SecurityContext struct {
	Identity   Identity
	QueryID    string
	QueryStart time.Time
}
