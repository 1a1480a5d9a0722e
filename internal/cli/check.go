package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/trinobridge/opabridge/internal/opa"
)

type resourceFlags struct {
	catalog     string
	schema      string
	table       string
	columns     []string
	function    string
	role        string
	sysProperty string
}

func (f *resourceFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&f.catalog, "catalog", "", "catalog name")
	c.Flags().StringVar(&f.schema, "schema", "", "schema name")
	c.Flags().StringVar(&f.table, "table", "", "table or view name")
	c.Flags().StringSliceVar(&f.columns, "columns", nil, "column names (comma separated)")
	c.Flags().StringVar(&f.function, "function", "", "function or procedure name")
	c.Flags().StringVar(&f.role, "role", "", "role name")
	c.Flags().StringVar(&f.sysProperty, "system-property", "", "system session property name")
}

// resource builds the most specific resource the flags describe, or nil
// when no resource flags were given (bare operations like ExecuteQuery).
func (f *resourceFlags) resource() *opa.Resource {
	switch {
	case f.table != "":
		t := &opa.Table{CatalogName: f.catalog, SchemaName: f.schema, TableName: f.table}
		if f.columns != nil {
			t.Columns = f.columns
		}
		return &opa.Resource{Table: t}
	case f.function != "":
		return &opa.Resource{Function: &opa.Function{
			CatalogName:  f.catalog,
			SchemaName:   f.schema,
			FunctionName: f.function,
		}}
	case f.schema != "":
		return &opa.Resource{Schema: &opa.Schema{CatalogName: f.catalog, SchemaName: f.schema}}
	case f.catalog != "":
		return &opa.Resource{Catalog: &opa.Catalog{Name: f.catalog}}
	case f.role != "":
		return &opa.Resource{Role: &opa.Role{Name: f.role}}
	case f.sysProperty != "":
		return &opa.Resource{SystemSessionProperty: &opa.SystemSessionProperty{Name: f.sysProperty}}
	default:
		return nil
	}
}

func cmdCheck() *cobra.Command {
	var user string
	var groups []string
	var operation string
	var res resourceFlags

	c := &cobra.Command{
		Use:   "check",
		Short: "Ask the policy endpoint for a single allow/deny decision",
		RunE: func(cmd *cobra.Command, args []string) error {
			uri, _, err := resolveEndpoints(cmd)
			if err != nil {
				return err
			}

			q := opa.Query{Input: opa.Input{
				Context: opa.QueryContext{
					Identity:      opa.Identity{User: user, Groups: groups},
					SoftwareStack: opa.SoftwareStack{TrinoVersion: opa.UnknownTrinoVersion},
				},
				Action: opa.Action{Operation: operation, Resource: res.resource()},
			}}
			if q.Input.Context.Identity.Groups == nil {
				q.Input.Context.Identity.Groups = []string{}
			}

			if showCurl {
				body, err := json.Marshal(q)
				if err != nil {
					return err
				}
				curlFor(uri, body)
			}

			client := opa.NewDecisionClient(
				&http.Client{Timeout: 10 * time.Second},
				slog.Default(),
				otel.Tracer("opabridge"),
				false, false,
			)
			decision, err := client.QueryAllowed(cmd.Context(), uri, q)
			if err != nil {
				return fmt.Errorf("decision query failed: %w", err)
			}

			return printJSON(struct {
				Operation  string `json:"operation"`
				DecisionID string `json:"decisionId,omitempty"`
				Allowed    bool   `json:"allowed"`
			}{Operation: operation, DecisionID: decision.DecisionID, Allowed: decision.Result})
		},
	}

	c.Flags().StringVar(&user, "user", "", "user name the decision is about")
	c.Flags().StringSliceVar(&groups, "groups", nil, "groups of the user (comma separated)")
	c.Flags().StringVar(&operation, "operation", "", "operation to check, e.g. SelectFromColumns")
	res.register(c)
	_ = c.MarkFlagRequired("user")
	_ = c.MarkFlagRequired("operation")
	return c
}
