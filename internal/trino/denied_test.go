package trino

import (
	"errors"
	"fmt"
	"testing"
)

func TestAccessDeniedMessages(t *testing.T) {
	t.Parallel()

	table := CatalogSchemaTableName{CatalogName: "mycat", SchemaName: "sales", TableName: "orders"}

	cases := []struct {
		err  error
		want string
	}{
		{DenyExecuteQuery(), "Access Denied: Cannot execute query"},
		{DenyDropTable(table), "Access Denied: Cannot drop table mycat.sales.orders"},
		{DenySelectColumns(table, []string{"a", "b"}), "Access Denied: Cannot select from columns [a b] in table or view mycat.sales.orders"},
		{DenyImpersonateUser("alice", "bob"), "Access Denied: User alice cannot impersonate user bob"},
		{DenyShowSchemas("mycat"), "Access Denied: Cannot show schemas in catalog mycat"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("got %q, want %q", got, tc.want)
		}
	}
}

func TestIsAccessDenied(t *testing.T) {
	t.Parallel()

	if !IsAccessDenied(DenyExecuteQuery()) {
		t.Fatalf("denial not recognized")
	}
	if !IsAccessDenied(fmt.Errorf("wrapped: %w", DenyExecuteQuery())) {
		t.Fatalf("wrapped denial not recognized")
	}
	if IsAccessDenied(errors.New("boom")) {
		t.Fatalf("plain error misclassified")
	}
	if IsAccessDenied(nil) {
		t.Fatalf("nil misclassified")
	}
}

func TestNameRendering(t *testing.T) {
	t.Parallel()

	if got := (CatalogSchemaName{CatalogName: "c", SchemaName: "s"}).String(); got != "c.s" {
		t.Fatalf("schema = %q", got)
	}
	if got := (SchemaTableName{SchemaName: "s", TableName: "t"}).String(); got != "s.t" {
		t.Fatalf("table = %q", got)
	}
	if got := (CatalogSchemaRoutineName{CatalogName: "c", SchemaName: "s", RoutineName: "f"}).String(); got != "c.s.f" {
		t.Fatalf("routine = %q", got)
	}
}
