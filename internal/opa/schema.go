// Package opa bridges the engine's access-control callbacks to an
// external policy decision point speaking the OPA data API.
package opa

import (
	"encoding/json"

	"github.com/trinobridge/opabridge/internal/trino"
)

// UnknownTrinoVersion is sent when the host does not report a version.
const UnknownTrinoVersion = "UNKNOWN"

// Query is the request envelope: {"input": {"context": ..., "action": ...}}.
type Query struct {
	Input Input `json:"input"`
}

type Input struct {
	Context QueryContext `json:"context"`
	Action  Action       `json:"action"`
}

type QueryContext struct {
	Identity      Identity      `json:"identity"`
	SoftwareStack SoftwareStack `json:"softwareStack"`
}

type SoftwareStack struct {
	TrinoVersion string `json:"trinoVersion"`
}

// Identity is the full caller identity, used only for context.identity.
// Groups are always present on the wire; the remaining fields appear
// only when non-empty.
type Identity struct {
	User             string                  `json:"user"`
	Groups           []string                `json:"groups"`
	EnabledRoles     []string                `json:"enabledRoles,omitempty"`
	CatalogRoles     map[string]SelectedRole `json:"catalogRoles,omitempty"`
	ExtraCredentials map[string]string       `json:"extraCredentials,omitempty"`
}

type SelectedRole struct {
	Type string `json:"type"`
	Role string `json:"role,omitempty"`
}

// User is the minimal identity shape used for filter targets, query
// owners, and impersonation targets. Groups carries presence:
// nil means the field is omitted, an empty non-nil slice serializes as
// an empty array.
type User struct {
	Name   string
	Groups []string
}

func (u User) MarshalJSON() ([]byte, error) {
	type wire struct {
		User   string    `json:"user"`
		Groups *[]string `json:"groups,omitempty"`
	}
	w := wire{User: u.Name}
	if u.Groups != nil {
		w.Groups = &u.Groups
	}
	return json.Marshal(w)
}

type Catalog struct {
	Name string `json:"name"`
}

// Schema names a schema within a catalog. Properties carries presence:
// a nil map is omitted, a non-nil empty map serializes as {} and
// entries whose value is nil serialize as JSON null.
type Schema struct {
	CatalogName string
	SchemaName  string
	Properties  map[string]any
}

func (s Schema) MarshalJSON() ([]byte, error) {
	type wire struct {
		CatalogName string          `json:"catalogName"`
		SchemaName  string          `json:"schemaName"`
		Properties  *map[string]any `json:"properties,omitempty"`
	}
	w := wire{CatalogName: s.CatalogName, SchemaName: s.SchemaName}
	if s.Properties != nil {
		w.Properties = &s.Properties
	}
	return json.Marshal(w)
}

// Table names a table or view. The same shape serializes under the
// "view" key when the action targets a view. Columns and Properties
// follow the nil-is-absent presence convention.
type Table struct {
	CatalogName string
	SchemaName  string
	TableName   string
	Columns     []string
	Properties  map[string]any
}

func (t Table) MarshalJSON() ([]byte, error) {
	type wire struct {
		CatalogName string          `json:"catalogName"`
		SchemaName  string          `json:"schemaName"`
		TableName   string          `json:"tableName"`
		Columns     *[]string       `json:"columns,omitempty"`
		Properties  *map[string]any `json:"properties,omitempty"`
	}
	w := wire{CatalogName: t.CatalogName, SchemaName: t.SchemaName, TableName: t.TableName}
	if t.Columns != nil {
		w.Columns = &t.Columns
	}
	if t.Properties != nil {
		w.Properties = &t.Properties
	}
	return json.Marshal(w)
}

type Function struct {
	CatalogName  string `json:"catalogName,omitempty"`
	SchemaName   string `json:"schemaName,omitempty"`
	FunctionName string `json:"functionName"`
	FunctionKind string `json:"functionKind,omitempty"`
}

type Role struct {
	Name string `json:"name"`
}

type SystemSessionProperty struct {
	Name string `json:"name"`
}

type CatalogSessionProperty struct {
	CatalogName  string `json:"catalogName"`
	PropertyName string `json:"propertyName"`
}

// Resource is a sum type rendered as a struct of optional variants;
// only populated variants appear on the wire. ExecuteProcedure
// populates schema and function together, ExecuteTableProcedure table
// and function.
type Resource struct {
	User                   *User                   `json:"user,omitempty"`
	Catalog                *Catalog                `json:"catalog,omitempty"`
	Schema                 *Schema                 `json:"schema,omitempty"`
	Table                  *Table                  `json:"table,omitempty"`
	View                   *Table                  `json:"view,omitempty"`
	Function               *Function               `json:"function,omitempty"`
	Role                   *Role                   `json:"role,omitempty"`
	Roles                  []Role                  `json:"roles,omitempty"`
	SystemSessionProperty  *SystemSessionProperty  `json:"systemSessionProperty,omitempty"`
	CatalogSessionProperty *CatalogSessionProperty `json:"catalogSessionProperty,omitempty"`
}

type Principal struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Grant describes the grantee side of privilege operations.
// GrantOption is a pointer so that deny operations, which have no
// grant-option concept, omit the field rather than sending false.
type Grant struct {
	Principals  []Principal `json:"principals"`
	GrantOption *bool       `json:"grantOption,omitempty"`
	Privilege   string      `json:"privilege,omitempty"`
}

type Action struct {
	Operation       string     `json:"operation"`
	Resource        *Resource  `json:"resource,omitempty"`
	TargetResource  *Resource  `json:"targetResource,omitempty"`
	FilterResources []Resource `json:"filterResources,omitempty"`
	Grantee         *Grant     `json:"grantee,omitempty"`
	Grantor         *Principal `json:"grantor,omitempty"`
}

func (a Action) validate() error {
	if a.Resource != nil && a.FilterResources != nil {
		return &InternalError{Reason: "action " + a.Operation + " populates both resource and filterResources"}
	}
	return nil
}

func identityFrom(id trino.Identity) Identity {
	out := Identity{
		User:   id.User,
		Groups: emptyIfNil(id.Groups),
	}
	if len(id.EnabledRoles) > 0 {
		out.EnabledRoles = id.EnabledRoles
	}
	if len(id.CatalogRoles) > 0 {
		roles := make(map[string]SelectedRole, len(id.CatalogRoles))
		for catalog, role := range id.CatalogRoles {
			roles[catalog] = SelectedRole{Type: string(role.Type), Role: role.Role}
		}
		out.CatalogRoles = roles
	}
	if len(id.ExtraCredentials) > 0 {
		out.ExtraCredentials = id.ExtraCredentials
	}
	return out
}

// userFrom builds the minimal shape from a host identity; groups are
// emitted even when empty because the identity carried the information.
func userFrom(id trino.Identity) User {
	return User{Name: id.User, Groups: emptyIfNil(id.Groups)}
}

// bareUser builds the minimal shape from a plain user name; groups are
// unknown and therefore omitted.
func bareUser(name string) User {
	return User{Name: name}
}

func principalFrom(p trino.Principal) Principal {
	return Principal{Name: p.Name, Type: string(p.Type)}
}

func granteeFrom(p trino.Principal, grantOption *bool, privilege string) *Grant {
	return &Grant{
		Principals:  []Principal{principalFrom(p)},
		GrantOption: grantOption,
		Privilege:   privilege,
	}
}

func schemaFrom(s trino.CatalogSchemaName) *Schema {
	return &Schema{CatalogName: s.CatalogName, SchemaName: s.SchemaName}
}

func tableFrom(t trino.CatalogSchemaTableName) *Table {
	return &Table{CatalogName: t.CatalogName, SchemaName: t.SchemaName, TableName: t.TableName}
}

func functionFrom(f trino.CatalogSchemaRoutineName) *Function {
	return &Function{CatalogName: f.CatalogName, SchemaName: f.SchemaName, FunctionName: f.RoutineName}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func boolPtr(b bool) *bool { return &b }
