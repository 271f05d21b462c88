package usecase

import "github.com/rvasilyev/storefront/internal/domain/model"

// Action names an authorization-relevant operation.
type Action string

const (
	ActionViewOrder     Action = "order:view"
	ActionEditOrder     Action = "order:edit"
	ActionCancelOrder   Action = "order:cancel"
	ActionAdvanceOrder  Action = "order:advance"
	ActionViewCheckout  Action = "checkout:view"
	ActionManageCatalog Action = "catalog:manage"
	ActionListAllOrders Action = "order:list-all"
)

// Allow is the single authorization policy consumed by every operation.
// Admins may do anything; clients are limited to actions on resources they
// own, and never to the admin-gated ones.
func Allow(role model.Role, actorID, ownerID int64, action Action) bool {
	if role == model.RoleAdmin {
		return true
	}
	switch action {
	case ActionViewOrder, ActionEditOrder, ActionCancelOrder, ActionViewCheckout:
		return actorID == ownerID
	default:
		return false
	}
}
