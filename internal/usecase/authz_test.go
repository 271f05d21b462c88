package usecase

import (
	"testing"

	"github.com/rvasilyev/storefront/internal/domain/model"
)

func TestAllowAdminEverything(t *testing.T) {
	actions := []Action{
		ActionViewOrder, ActionEditOrder, ActionCancelOrder, ActionAdvanceOrder,
		ActionViewCheckout, ActionManageCatalog, ActionListAllOrders,
	}
	for _, action := range actions {
		if !Allow(model.RoleAdmin, 10, 999, action) {
			t.Fatalf("admin should be allowed %q on foreign resource", action)
		}
	}
}

func TestAllowClientOwnResources(t *testing.T) {
	owned := []Action{ActionViewOrder, ActionEditOrder, ActionCancelOrder, ActionViewCheckout}
	for _, action := range owned {
		if !Allow(model.RoleClient, 5, 5, action) {
			t.Fatalf("client should be allowed %q on own resource", action)
		}
		if Allow(model.RoleClient, 5, 6, action) {
			t.Fatalf("client should not be allowed %q on foreign resource", action)
		}
	}
}

func TestAllowClientNeverAdminActions(t *testing.T) {
	gated := []Action{ActionAdvanceOrder, ActionManageCatalog, ActionListAllOrders}
	for _, action := range gated {
		if Allow(model.RoleClient, 5, 5, action) {
			t.Fatalf("client should not be allowed %q even on own resource", action)
		}
	}
}
