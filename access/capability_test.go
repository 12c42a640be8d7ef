package access

import (
	"errors"
	"reflect"
	"testing"
)

func TestRole_Capabilities(t *testing.T) {
	tests := []struct {
		role Role
		want []string
	}{
		{RoleAdmin, []string{"VIEW_CAMPAIGN", "VIEW_PRIVATE", "EDIT_ENTITIES", "DELETE_ENTITIES", "CREATE_POSTS", "ROLL_DICE", "MANAGE_MEMBERS", "EDIT_CAMPAIGN"}},
		{RoleMember, []string{"VIEW_CAMPAIGN", "VIEW_PRIVATE", "EDIT_ENTITIES", "CREATE_POSTS", "ROLL_DICE"}},
		{RoleViewer, []string{"VIEW_CAMPAIGN"}},
		{Role("GUEST"), []string{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.Capabilities().Names(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Role.Capabilities() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoles_AreExhaustive(t *testing.T) {
	for _, role := range Roles {
		if !role.Valid() {
			t.Errorf("%s is listed but not valid", role)
		}
		if role.Capabilities() == 0 {
			t.Errorf("%s has no capabilities", role)
		}
		if role.Can(DeleteCampaign) || role.Can(TransferOwnership) {
			t.Errorf("%s holds an owner-only capability", role)
		}
	}
}

func TestRoles_AreOrdered(t *testing.T) {
	for i := 1; i < len(Roles); i++ {
		higher, lower := Roles[i-1].Capabilities(), Roles[i].Capabilities()
		if higher&lower != lower || higher == lower {
			t.Errorf("%s is not strictly above %s", Roles[i-1], Roles[i])
		}
	}
}

func TestCapability_String(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range AllCapabilities() {
		name := c.String()
		if name == "" || name == "UNKNOWN" || seen[name] {
			t.Errorf("capability %d has a bad name %q", c, name)
		}
		seen[name] = true
	}
	if Capability(0).Valid() || capabilityEnd.Valid() {
		t.Error("out of range capabilities must not be valid")
	}
	if got := Capability(99).String(); got != "UNKNOWN" {
		t.Errorf("Capability(99).String() = %q", got)
	}
}

func TestEverything(t *testing.T) {
	for _, c := range AllCapabilities() {
		if !Everything.Has(c) {
			t.Errorf("Everything misses %s", c)
		}
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"ADMIN", RoleAdmin, false},
		{" member ", RoleMember, false},
		{"Viewer", RoleViewer, false},
		{"owner", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ParseRole() error = %v, want ErrInvalidInput", err)
			}
			if got != tt.want {
				t.Errorf("ParseRole() = %q, want %q", got, tt.want)
			}
		})
	}
}
