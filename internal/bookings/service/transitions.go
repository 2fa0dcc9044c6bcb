package service

import (
	"tutormatch/pkg/model"
)

// stateTransitions is the lifecycle graph. A target absent from the current
// state's set is rejected regardless of who asks.
var stateTransitions = map[string]map[string]bool{
	model.StatusScheduled: {
		model.StatusConfirmed:   true,
		model.StatusCancelled:   true,
		model.StatusRescheduled: true,
	},
	model.StatusConfirmed: {
		model.StatusInProgress:  true,
		model.StatusCancelled:   true,
		model.StatusNoShow:      true,
		model.StatusRescheduled: true,
	},
	model.StatusInProgress: {
		model.StatusCompleted: true,
		model.StatusCancelled: true,
	},
}

// roleTransitions restricts who may request each target state. Admin and
// employee act on behalf of operations and may drive any permitted
// transition; students never mark sessions confirmed, running or finished.
var roleTransitions = map[string]map[string]bool{
	model.StatusConfirmed: {
		model.RoleTutor:    true,
		model.RoleAdmin:    true,
		model.RoleEmployee: true,
	},
	model.StatusInProgress: {
		model.RoleTutor:    true,
		model.RoleAdmin:    true,
		model.RoleEmployee: true,
	},
	model.StatusCompleted: {
		model.RoleTutor:    true,
		model.RoleAdmin:    true,
		model.RoleEmployee: true,
	},
	model.StatusNoShow: {
		model.RoleTutor:    true,
		model.RoleAdmin:    true,
		model.RoleEmployee: true,
	},
	model.StatusCancelled: {
		model.RoleStudent:  true,
		model.RoleTutor:    true,
		model.RoleAdmin:    true,
		model.RoleEmployee: true,
	},
	model.StatusRescheduled: {
		model.RoleStudent:  true,
		model.RoleTutor:    true,
		model.RoleAdmin:    true,
		model.RoleEmployee: true,
	},
}

// transitionAllowed checks the state machine edge only.
func transitionAllowed(from, to string) bool {
	return stateTransitions[from][to]
}

// roleAllowed checks whether the actor role may request the target state.
func roleAllowed(role, to string) bool {
	return roleTransitions[to][role]
}
