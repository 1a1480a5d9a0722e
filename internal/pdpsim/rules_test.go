package pdpsim

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func inputFor(user, operation string, resource *Resource) Input {
	var in Input
	in.Context.Identity = Identity{User: user, Groups: []string{"analysts"}}
	in.Action = Action{Operation: operation, Resource: resource}
	return in
}

func tableRes(catalog, schema, table string) *Resource {
	return &Resource{Table: &TableResource{CatalogName: catalog, SchemaName: schema, TableName: table}}
}

func TestRuleDeciderDenyByDefault(t *testing.T) {
	t.Parallel()
	d := &RuleDecider{}
	ok, err := d.Decide(context.Background(), inputFor("alice", "ExecuteQuery", nil))
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if ok {
		t.Fatalf("empty rule set should deny")
	}
}

func TestRuleDeciderGlobs(t *testing.T) {
	t.Parallel()
	d := &RuleDecider{Rules: []Rule{
		{User: "alice", Operation: "Select*", Resource: "mycat.sales.*"},
		{Group: "admins", Operation: "*"},
	}}

	cases := []struct {
		name string
		in   Input
		want bool
	}{
		{"matching user op and resource", inputFor("alice", "SelectFromColumns", tableRes("mycat", "sales", "orders")), true},
		{"wrong catalog", inputFor("alice", "SelectFromColumns", tableRes("other", "sales", "orders")), false},
		{"wrong operation", inputFor("alice", "DropTable", tableRes("mycat", "sales", "orders")), false},
		{"wrong user", inputFor("bob", "SelectFromColumns", tableRes("mycat", "sales", "orders")), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ok, err := d.Decide(context.Background(), tc.in)
			if err != nil {
				t.Fatalf("Decide: %v", err)
			}
			if ok != tc.want {
				t.Fatalf("ok = %v, want %v", ok, tc.want)
			}
		})
	}
}

func TestRuleDeciderGroupMatch(t *testing.T) {
	t.Parallel()
	d := &RuleDecider{Rules: []Rule{{Group: "analysts", Operation: "ExecuteQuery"}}}
	ok, err := d.Decide(context.Background(), inputFor("anyone", "ExecuteQuery", nil))
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !ok {
		t.Fatalf("group rule should match")
	}
}

func TestLoadRules(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.json")
	doc := `{"rules":[{"user":"alice","operation":"*","resource":"mycat.*"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	d, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if d.Len() != 1 {
		t.Fatalf("Len = %d, want 1", d.Len())
	}

	if _, err := LoadRules(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("want error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadRules(bad); err == nil {
		t.Fatalf("want error for malformed file")
	}
}

func TestResourceName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		res  *Resource
		want string
	}{
		{"nil", nil, ""},
		{"catalog", &Resource{Catalog: &NamedResource{Name: "c"}}, "c"},
		{"schema", &Resource{Schema: &SchemaResource{CatalogName: "c", SchemaName: "s"}}, "c.s"},
		{"table", tableRes("c", "s", "t"), "c.s.t"},
		{"view", &Resource{View: &TableResource{CatalogName: "c", SchemaName: "s", TableName: "v"}}, "c.s.v"},
		{"bare function", &Resource{Function: &FunctionResource{FunctionName: "now"}}, "now"},
		{"qualified function", &Resource{Function: &FunctionResource{CatalogName: "c", SchemaName: "s", FunctionName: "f"}}, "c.s.f"},
		{"user", &Resource{User: &UserResource{User: "bob"}}, "bob"},
	}
	for _, tc := range cases {
		if got := tc.res.Name(); got != tc.want {
			t.Fatalf("%s: Name() = %q, want %q", tc.name, got, tc.want)
		}
	}
}
