package opa

import (
	"context"
	"fmt"

	"github.com/trinobridge/opabridge/internal/trino"
)

// BatchAccessControl sends each filter callback as one batch query
// whose filterResources list is the ordered candidate set; the policy
// endpoint answers with indices into that list. Everything that is not
// a filter delegates to the single-decision authorizer.
type BatchAccessControl struct {
	*AccessControl
}

var _ trino.AccessControl = (*BatchAccessControl)(nil)

func (b *BatchAccessControl) batchQuery(ctx context.Context, id trino.Identity, operation string, resources []Resource) ([]int, error) {
	action := Action{Operation: operation, FilterResources: resources}
	if err := action.validate(); err != nil {
		return nil, err
	}
	q := Query{Input: Input{Context: b.queryContext(id), Action: action}}
	decision, err := b.client.QueryBatch(ctx, b.batchURI, q)
	if err != nil {
		return nil, err
	}
	return decision.Result, nil
}

// selectByIndex maps an index-list verdict back onto the frozen
// candidate order. Out-of-range indices mean the response does not
// match the request we sent; duplicates are idempotent.
func selectByIndex[T any](items []T, indexes []int) ([]T, error) {
	out := make([]T, 0, len(indexes))
	seen := make(map[int]struct{}, len(indexes))
	for _, idx := range indexes {
		if idx < 0 || idx >= len(items) {
			return nil, &DeserializeError{
				Reason: fmt.Sprintf("result index %d out of range for %d candidates", idx, len(items)),
			}
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, items[idx])
	}
	return out, nil
}

func filterBatch[T any](ctx context.Context, b *BatchAccessControl, id trino.Identity, operation string, items []T, resource func(T) Resource) ([]T, error) {
	if len(items) == 0 {
		return []T{}, nil
	}
	resources := make([]Resource, len(items))
	for i, item := range items {
		resources[i] = resource(item)
	}
	indexes, err := b.batchQuery(ctx, id, operation, resources)
	if err != nil {
		return nil, err
	}
	return selectByIndex(items, indexes)
}

func (b *BatchAccessControl) FilterViewQueryOwnedBy(ctx context.Context, identity trino.Identity, queryOwners []trino.Identity) ([]trino.Identity, error) {
	return filterBatch(ctx, b, identity, "FilterViewQueryOwnedBy", queryOwners, func(owner trino.Identity) Resource {
		u := userFrom(owner)
		return Resource{User: &u}
	})
}

func (b *BatchAccessControl) FilterCatalogs(ctx context.Context, sc trino.SecurityContext, catalogs []string) ([]string, error) {
	return filterBatch(ctx, b, sc.Identity, "FilterCatalogs", catalogs, func(name string) Resource {
		return Resource{Catalog: &Catalog{Name: name}}
	})
}

func (b *BatchAccessControl) FilterSchemas(ctx context.Context, sc trino.SecurityContext, catalogName string, schemaNames []string) ([]string, error) {
	return filterBatch(ctx, b, sc.Identity, "FilterSchemas", schemaNames, func(name string) Resource {
		return Resource{Schema: &Schema{CatalogName: catalogName, SchemaName: name}}
	})
}

func (b *BatchAccessControl) FilterTables(ctx context.Context, sc trino.SecurityContext, catalogName string, tableNames []trino.SchemaTableName) ([]trino.SchemaTableName, error) {
	return filterBatch(ctx, b, sc.Identity, "FilterTables", tableNames, func(name trino.SchemaTableName) Resource {
		return Resource{Table: &Table{CatalogName: catalogName, SchemaName: name.SchemaName, TableName: name.TableName}}
	})
}

// FilterColumns is the one special case: the candidate list is the
// column set of a single table, so the request carries one resource
// holding all columns and the returned indices address that column
// list rather than the filterResources list.
func (b *BatchAccessControl) FilterColumns(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName, columns []string) ([]string, error) {
	if len(columns) == 0 {
		return []string{}, nil
	}
	res := tableFrom(table)
	res.Columns = columns
	indexes, err := b.batchQuery(ctx, sc.Identity, "FilterColumns", []Resource{{Table: res}})
	if err != nil {
		return nil, err
	}
	return selectByIndex(columns, indexes)
}

func (b *BatchAccessControl) FilterFunctions(ctx context.Context, sc trino.SecurityContext, catalogName string, functionNames []trino.SchemaRoutineName) ([]trino.SchemaRoutineName, error) {
	return filterBatch(ctx, b, sc.Identity, "FilterFunctions", functionNames, func(name trino.SchemaRoutineName) Resource {
		return Resource{Function: &Function{CatalogName: catalogName, SchemaName: name.SchemaName, FunctionName: name.RoutineName}}
	})
}
