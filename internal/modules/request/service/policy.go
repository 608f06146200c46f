package service

import (
	"anoa.com/wismacare/internal/entity"
	"anoa.com/wismacare/pkg/response"
)

// Action names a lifecycle operation for the authorization policy.
type Action string

const (
	ActionView         Action = "view"
	ActionUpdateStatus Action = "update_status"
	ActionAssign       Action = "assign"
	ActionResolve      Action = "resolve"
	ActionFeedback     Action = "feedback"
	ActionDelete       Action = "delete"
	ActionComment      Action = "comment"
)

// Allowed is the single decision point for who may do what to a request.
// It answers from (action, caller role, record ownership) only; status-based
// rules (e.g. no feedback before resolution) are validation, not
// authorization, and live in the service methods.
func Allowed(action Action, caller response.Caller, request *entity.MaintenanceRequest) bool {
	isAdmin := caller.Role == entity.RoleAdmin
	isOwner := caller.Role == entity.RoleResident && request.ResidentID == caller.ID
	isAssignedTech := caller.Role == entity.RoleTechnician &&
		request.TechnicianID != nil && *request.TechnicianID == caller.ID

	switch action {
	case ActionView, ActionComment:
		return isAdmin || isOwner || isAssignedTech
	case ActionUpdateStatus:
		return isAdmin || caller.Role == entity.RoleTechnician
	case ActionAssign:
		return isAdmin
	case ActionResolve:
		return isAdmin || isAssignedTech
	case ActionFeedback:
		return isOwner
	case ActionDelete:
		return isAdmin || isOwner
	}

	return false
}
