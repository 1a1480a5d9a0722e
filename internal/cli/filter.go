package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/trinobridge/opabridge/internal/opa"
)

// buildFilterResources turns --items into filterResources for the given
// kind. Tables and functions accept "schema.name" items; a bare name
// falls back to the --schema flag for its schema.
func buildFilterResources(kind, catalog, schema, table string, items []string) ([]opa.Resource, error) {
	out := make([]opa.Resource, 0, len(items))
	switch kind {
	case "catalogs":
		for _, it := range items {
			out = append(out, opa.Resource{Catalog: &opa.Catalog{Name: it}})
		}
	case "schemas":
		for _, it := range items {
			out = append(out, opa.Resource{Schema: &opa.Schema{CatalogName: catalog, SchemaName: it}})
		}
	case "tables":
		for _, it := range items {
			s, name := schema, it
			if i := strings.IndexByte(it, '.'); i >= 0 {
				s, name = it[:i], it[i+1:]
			}
			out = append(out, opa.Resource{Table: &opa.Table{CatalogName: catalog, SchemaName: s, TableName: name}})
		}
	case "columns":
		if table == "" {
			return nil, fmt.Errorf("--table is required for kind columns")
		}
		out = append(out, opa.Resource{Table: &opa.Table{
			CatalogName: catalog,
			SchemaName:  schema,
			TableName:   table,
			Columns:     items,
		}})
	case "functions":
		for _, it := range items {
			s, name := schema, it
			if i := strings.IndexByte(it, '.'); i >= 0 {
				s, name = it[:i], it[i+1:]
			}
			out = append(out, opa.Resource{Function: &opa.Function{CatalogName: catalog, SchemaName: s, FunctionName: name}})
		}
	case "users":
		for _, it := range items {
			u := opa.User{Name: it, Groups: []string{}}
			out = append(out, opa.Resource{User: &u})
		}
	default:
		return nil, fmt.Errorf("unknown kind %q (want catalogs|schemas|tables|columns|functions|users)", kind)
	}
	return out, nil
}

func cmdFilter() *cobra.Command {
	var user string
	var groups []string
	var operation string
	var kind string
	var items []string
	var catalog, schema, table string

	c := &cobra.Command{
		Use:   "filter",
		Short: "Ask the batch endpoint which of a list of resources is visible",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, batch, err := resolveEndpoints(cmd)
			if err != nil {
				return err
			}
			if batch == "" {
				return fmt.Errorf("no batch endpoint configured; set --batch-uri or batch_policy_uri in %s", cfgPath)
			}

			resources, err := buildFilterResources(kind, catalog, schema, table, items)
			if err != nil {
				return err
			}

			q := opa.Query{Input: opa.Input{
				Context: opa.QueryContext{
					Identity:      opa.Identity{User: user, Groups: groups},
					SoftwareStack: opa.SoftwareStack{TrinoVersion: opa.UnknownTrinoVersion},
				},
				Action: opa.Action{Operation: operation, FilterResources: resources},
			}}
			if q.Input.Context.Identity.Groups == nil {
				q.Input.Context.Identity.Groups = []string{}
			}

			if showCurl {
				body, err := json.Marshal(q)
				if err != nil {
					return err
				}
				curlFor(batch, body)
			}

			client := opa.NewDecisionClient(
				&http.Client{Timeout: 10 * time.Second},
				slog.Default(),
				otel.Tracer("opabridge"),
				false, false,
			)
			decision, err := client.QueryBatch(cmd.Context(), batch, q)
			if err != nil {
				return fmt.Errorf("batch query failed: %w", err)
			}

			allowed := make([]string, 0, len(decision.Result))
			for _, i := range decision.Result {
				if i < 0 || i >= len(items) {
					return fmt.Errorf("endpoint returned index %d out of range for %d items", i, len(items))
				}
				allowed = append(allowed, items[i])
			}

			return printJSON(struct {
				Operation  string   `json:"operation"`
				DecisionID string   `json:"decisionId,omitempty"`
				Allowed    []string `json:"allowed"`
			}{Operation: operation, DecisionID: decision.DecisionID, Allowed: allowed})
		},
	}

	c.Flags().StringVar(&user, "user", "", "user name the decision is about")
	c.Flags().StringSliceVar(&groups, "groups", nil, "groups of the user (comma separated)")
	c.Flags().StringVar(&operation, "operation", "", "filter operation, e.g. FilterTables")
	c.Flags().StringVar(&kind, "kind", "tables", "resource kind: catalogs|schemas|tables|columns|functions|users")
	c.Flags().StringSliceVar(&items, "items", nil, "candidate names (comma separated)")
	c.Flags().StringVar(&catalog, "catalog", "", "catalog the candidates live in")
	c.Flags().StringVar(&schema, "schema", "", "schema the candidates live in")
	c.Flags().StringVar(&table, "table", "", "table the candidate columns belong to (kind columns)")
	_ = c.MarkFlagRequired("user")
	_ = c.MarkFlagRequired("operation")
	_ = c.MarkFlagRequired("items")
	return c
}
