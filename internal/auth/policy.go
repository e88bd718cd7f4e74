package auth

import (
	"order_queue/internal/models"

	"github.com/google/uuid"
)

// Principal is the authenticated staff member behind a request.
type Principal struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
	Name  string    `json:"name"`
}

type Action string

const (
	ActionViewQueue     Action = "queue:view"
	ActionAssignOrder   Action = "order:assign"
	ActionUpdateStatus  Action = "order:status"
	ActionUnassignOrder Action = "order:unassign"
	ActionManageSession Action = "session:manage"
	ActionManageMenu    Action = "menu:manage"
	ActionCreateInvite  Action = "invite:create"
	ActionNotifyOrder   Action = "order:notify"
)

// Resource carries the attributes of the target that a decision may depend on.
type Resource struct {
	AssignedWorkerID *uuid.UUID
}

// IsAdmin reports whether role carries admin capabilities. OWNER is a super-admin.
func IsAdmin(role string) bool {
	return role == string(models.RoleAdmin) || role == string(models.RoleOwner)
}

// Can is the single authorization matrix for staff operations.
//
// Status updates are open to the assignee or an admin, but unassign is open
// only to the assignee (or anyone while the order is unassigned). Admins get
// no override on unassign.
func Can(p *Principal, action Action, res Resource) bool {
	if p == nil {
		return false
	}

	switch action {
	case ActionViewQueue, ActionAssignOrder:
		return true
	case ActionUpdateStatus:
		return IsAdmin(p.Role) || assignedTo(res, p.ID)
	case ActionUnassignOrder:
		return res.AssignedWorkerID == nil || assignedTo(res, p.ID)
	case ActionManageSession, ActionManageMenu, ActionCreateInvite, ActionNotifyOrder:
		return IsAdmin(p.Role)
	}
	return false
}

func assignedTo(res Resource, userID uuid.UUID) bool {
	return res.AssignedWorkerID != nil && *res.AssignedWorkerID == userID
}
