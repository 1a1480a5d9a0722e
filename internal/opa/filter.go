package opa

import (
	"context"

	"github.com/sourcegraph/conc/pool"
	"github.com/trinobridge/opabridge/internal/trino"
)

const defaultMaxFanOut = 8

// filterFanOut asks the policy endpoint one question per candidate,
// concurrently on a bounded pool, and returns the allowed subset in
// input order. Any non-denial failure aborts the whole filter. An
// empty input issues no HTTP traffic.
func filterFanOut[T any](ctx context.Context, a *AccessControl, id trino.Identity, operation string, items []T, resource func(T) Resource) ([]T, error) {
	if len(items) == 0 {
		return []T{}, nil
	}

	verdicts := make([]bool, len(items))
	p := pool.New().
		WithContext(ctx).
		WithMaxGoroutines(a.maxFanOut).
		WithCancelOnError().
		WithFirstError()
	for i, item := range items {
		res := resource(item)
		p.Go(func(ctx context.Context) error {
			ok, err := a.allowed(ctx, id, Action{Operation: operation, Resource: &res})
			if err != nil {
				return err
			}
			verdicts[i] = ok
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(items))
	for i, item := range items {
		if verdicts[i] {
			out = append(out, item)
		}
	}
	return out, nil
}

func (a *AccessControl) FilterViewQueryOwnedBy(ctx context.Context, identity trino.Identity, queryOwners []trino.Identity) ([]trino.Identity, error) {
	return filterFanOut(ctx, a, identity, "FilterViewQueryOwnedBy", queryOwners, func(owner trino.Identity) Resource {
		u := userFrom(owner)
		return Resource{User: &u}
	})
}

func (a *AccessControl) FilterCatalogs(ctx context.Context, sc trino.SecurityContext, catalogs []string) ([]string, error) {
	return filterFanOut(ctx, a, sc.Identity, "FilterCatalogs", catalogs, func(name string) Resource {
		return Resource{Catalog: &Catalog{Name: name}}
	})
}

func (a *AccessControl) FilterSchemas(ctx context.Context, sc trino.SecurityContext, catalogName string, schemaNames []string) ([]string, error) {
	return filterFanOut(ctx, a, sc.Identity, "FilterSchemas", schemaNames, func(name string) Resource {
		return Resource{Schema: &Schema{CatalogName: catalogName, SchemaName: name}}
	})
}

func (a *AccessControl) FilterTables(ctx context.Context, sc trino.SecurityContext, catalogName string, tableNames []trino.SchemaTableName) ([]trino.SchemaTableName, error) {
	return filterFanOut(ctx, a, sc.Identity, "FilterTables", tableNames, func(name trino.SchemaTableName) Resource {
		return Resource{Table: &Table{CatalogName: catalogName, SchemaName: name.SchemaName, TableName: name.TableName}}
	})
}

// FilterColumns queries per column, each request carrying the table
// with a one-element column list.
func (a *AccessControl) FilterColumns(ctx context.Context, sc trino.SecurityContext, table trino.CatalogSchemaTableName, columns []string) ([]string, error) {
	return filterFanOut(ctx, a, sc.Identity, "FilterColumns", columns, func(column string) Resource {
		res := tableFrom(table)
		res.Columns = []string{column}
		return Resource{Table: res}
	})
}

func (a *AccessControl) FilterFunctions(ctx context.Context, sc trino.SecurityContext, catalogName string, functionNames []trino.SchemaRoutineName) ([]trino.SchemaRoutineName, error) {
	return filterFanOut(ctx, a, sc.Identity, "FilterFunctions", functionNames, func(name trino.SchemaRoutineName) Resource {
		return Resource{Function: &Function{CatalogName: catalogName, SchemaName: name.SchemaName, FunctionName: name.RoutineName}}
	})
}
