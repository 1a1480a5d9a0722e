package opa

import (
	"context"
	"testing"

	"github.com/trinobridge/opabridge/internal/trino"
)

func newGated(t *testing.T, allow bool) *AccessControl {
	t.Helper()
	ac, err := New(Config{PolicyURI: testPolicyURI, AllowPermissionManagement: allow},
		WithDoer(failingDoer{t: t}), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ac.(*AccessControl)
}

func TestPermissionManagementGate(t *testing.T) {
	t.Parallel()

	sc := testSecurityContext()
	schema := trino.CatalogSchemaName{CatalogName: "mycat", SchemaName: "sales"}
	grantee := trino.Principal{Type: trino.PrincipalTypeUser, Name: "bob"}

	calls := []struct {
		name string
		call func(a *AccessControl) error
	}{
		{"GrantSchemaPrivilege", func(a *AccessControl) error {
			return a.CheckCanGrantSchemaPrivilege(context.Background(), sc, trino.PrivilegeSelect, schema, grantee, false)
		}},
		{"DenySchemaPrivilege", func(a *AccessControl) error {
			return a.CheckCanDenySchemaPrivilege(context.Background(), sc, trino.PrivilegeSelect, schema, grantee)
		}},
		{"RevokeSchemaPrivilege", func(a *AccessControl) error {
			return a.CheckCanRevokeSchemaPrivilege(context.Background(), sc, trino.PrivilegeSelect, schema, grantee, false)
		}},
		{"GrantTablePrivilege", func(a *AccessControl) error {
			return a.CheckCanGrantTablePrivilege(context.Background(), sc, trino.PrivilegeSelect, orders(), grantee, true)
		}},
		{"DenyTablePrivilege", func(a *AccessControl) error {
			return a.CheckCanDenyTablePrivilege(context.Background(), sc, trino.PrivilegeSelect, orders(), grantee)
		}},
		{"RevokeTablePrivilege", func(a *AccessControl) error {
			return a.CheckCanRevokeTablePrivilege(context.Background(), sc, trino.PrivilegeSelect, orders(), grantee, false)
		}},
		{"CreateRole", func(a *AccessControl) error {
			return a.CheckCanCreateRole(context.Background(), sc, "reader", nil)
		}},
		{"DropRole", func(a *AccessControl) error {
			return a.CheckCanDropRole(context.Background(), sc, "reader")
		}},
		{"GrantRoles", func(a *AccessControl) error {
			return a.CheckCanGrantRoles(context.Background(), sc, []string{"reader"}, []trino.Principal{grantee}, false, nil)
		}},
		{"RevokeRoles", func(a *AccessControl) error {
			return a.CheckCanRevokeRoles(context.Background(), sc, []string{"reader"}, []trino.Principal{grantee}, false, nil)
		}},
	}

	t.Run("disabled denies without traffic", func(t *testing.T) {
		t.Parallel()
		a := newGated(t, false)
		for _, c := range calls {
			if err := c.call(a); !trino.IsAccessDenied(err) {
				t.Fatalf("%s: err = %v, want access denied", c.name, err)
			}
		}
	})

	t.Run("enabled allows without traffic", func(t *testing.T) {
		t.Parallel()
		a := newGated(t, true)
		for _, c := range calls {
			if err := c.call(a); err != nil {
				t.Fatalf("%s: err = %v, want nil", c.name, err)
			}
		}
	})
}

func TestRoleInspectionAlwaysAllowed(t *testing.T) {
	t.Parallel()
	a := newGated(t, false)
	sc := testSecurityContext()

	if err := a.CheckCanShowRoles(context.Background(), sc); err != nil {
		t.Fatalf("CheckCanShowRoles: %v", err)
	}
	if err := a.CheckCanShowCurrentRoles(context.Background(), sc); err != nil {
		t.Fatalf("CheckCanShowCurrentRoles: %v", err)
	}
	if err := a.CheckCanShowRoleGrants(context.Background(), sc); err != nil {
		t.Fatalf("CheckCanShowRoleGrants: %v", err)
	}
}
