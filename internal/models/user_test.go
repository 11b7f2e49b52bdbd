package models

import (
	"testing"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"customer role", RoleCustomer, true},
		{"staff role", RoleStaff, true},
		{"technician role", RoleTechnician, true},
		{"admin role", RoleAdmin, true},
		{"lowercase role", "admin", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidRole(tt.role)
			if result != tt.expected {
				t.Errorf("IsValidRole(%s) = %v, want %v", tt.role, result, tt.expected)
			}
		})
	}
}

func TestUser_HasPermission(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	staff := &User{Role: RoleStaff}
	technician := &User{Role: RoleTechnician}
	customer := &User{Role: RoleCustomer}
	nobody := &User{}

	tests := []struct {
		name     string
		user     *User
		action   string
		expected bool
	}{
		{"admin can manage users", admin, "manage_users", true},
		{"admin can update checklist", admin, "update_checklist", true},

		{"staff can manage receptions", staff, "manage_receptions", true},
		{"staff can approve cancellation", staff, "approve_cancellation", true},
		{"staff cannot update checklist", staff, "update_checklist", false},
		{"staff cannot manage users", staff, "manage_users", false},

		{"technician can update checklist", technician, "update_checklist", true},
		{"technician can add parts", technician, "add_parts", true},
		{"technician cannot manage receptions", technician, "manage_receptions", false},

		{"customer can create booking", customer, "create_booking", true},
		{"customer can pay deposit", customer, "pay_deposit", true},
		{"customer cannot view receptions", customer, "view_receptions", false},

		{"unknown role has no permissions", nobody, "view_bookings", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.HasPermission(tt.action); got != tt.expected {
				t.Errorf("HasPermission(%s) = %v, want %v", tt.action, got, tt.expected)
			}
		})
	}
}
