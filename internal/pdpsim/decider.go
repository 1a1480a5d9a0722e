// Package pdpsim is a small OPA-compatible policy decision point used
// for local development and integration testing of the bridge.
package pdpsim

import (
	"context"
	"strings"
)

// Input is the decoded request document. Only the fields the deciders
// look at are declared; everything else in the payload is ignored.
type Input struct {
	Context struct {
		Identity Identity `json:"identity"`
	} `json:"context"`
	Action Action `json:"action"`
}

type Identity struct {
	User   string   `json:"user"`
	Groups []string `json:"groups"`
}

type Action struct {
	Operation       string     `json:"operation"`
	Resource        *Resource  `json:"resource"`
	FilterResources []Resource `json:"filterResources"`
}

type Resource struct {
	User                   *UserResource     `json:"user"`
	Catalog                *NamedResource    `json:"catalog"`
	Schema                 *SchemaResource   `json:"schema"`
	Table                  *TableResource    `json:"table"`
	View                   *TableResource    `json:"view"`
	Function               *FunctionResource `json:"function"`
	Role                   *NamedResource    `json:"role"`
	SystemSessionProperty  *NamedResource    `json:"systemSessionProperty"`
	CatalogSessionProperty *CatalogProperty  `json:"catalogSessionProperty"`
}

type UserResource struct {
	User string `json:"user"`
}

type NamedResource struct {
	Name string `json:"name"`
}

type SchemaResource struct {
	CatalogName string `json:"catalogName"`
	SchemaName  string `json:"schemaName"`
}

type TableResource struct {
	CatalogName string   `json:"catalogName"`
	SchemaName  string   `json:"schemaName"`
	TableName   string   `json:"tableName"`
	Columns     []string `json:"columns"`
}

type FunctionResource struct {
	CatalogName  string `json:"catalogName"`
	SchemaName   string `json:"schemaName"`
	FunctionName string `json:"functionName"`
}

type CatalogProperty struct {
	CatalogName  string `json:"catalogName"`
	PropertyName string `json:"propertyName"`
}

// Name renders the resource as a dotted path for rule matching, e.g.
// "mycat.sales.orders" for a table or "mycat" for a catalog.
func (r *Resource) Name() string {
	switch {
	case r == nil:
		return ""
	case r.User != nil:
		return r.User.User
	case r.Catalog != nil:
		return r.Catalog.Name
	case r.Schema != nil:
		return r.Schema.CatalogName + "." + r.Schema.SchemaName
	case r.Table != nil:
		return r.Table.CatalogName + "." + r.Table.SchemaName + "." + r.Table.TableName
	case r.View != nil:
		return r.View.CatalogName + "." + r.View.SchemaName + "." + r.View.TableName
	case r.Function != nil:
		parts := make([]string, 0, 3)
		for _, p := range []string{r.Function.CatalogName, r.Function.SchemaName, r.Function.FunctionName} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, ".")
	case r.Role != nil:
		return r.Role.Name
	case r.SystemSessionProperty != nil:
		return r.SystemSessionProperty.Name
	case r.CatalogSessionProperty != nil:
		return r.CatalogSessionProperty.CatalogName + "." + r.CatalogSessionProperty.PropertyName
	default:
		return ""
	}
}

// ColumnList returns the column list for the filter-columns special case.
func (r *Resource) ColumnList() []string {
	switch {
	case r == nil:
		return nil
	case r.Table != nil:
		return r.Table.Columns
	case r.View != nil:
		return r.View.Columns
	default:
		return nil
	}
}

// Decider answers one authorization question. Implementations must be
// safe for concurrent use.
type Decider interface {
	Decide(ctx context.Context, in Input) (bool, error)
}
