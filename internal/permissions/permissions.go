// Package permissions decides what the current user may do. Role checks are a
// lookup against a fixed rank table (0 is the highest privilege); task-level
// edit rights additionally honor creator/assignee ownership.
package permissions

import "github.com/quadro-dev/quadro/internal/models"

type Action string

const (
	ActionManageUsers     Action = "MANAGE_USERS"
	ActionCreateProject   Action = "CREATE_PROJECT"
	ActionDeleteProject   Action = "DELETE_PROJECT"
	ActionApproveTask     Action = "APPROVE_TASK"
	ActionManageColumns   Action = "MANAGE_COLUMNS"
	ActionManageTemplates Action = "MANAGE_TEMPLATES"
	ActionEditOthersTasks Action = "EDIT_OTHERS_TASKS"
	ActionCreateTask      Action = "CREATE_TASK"
	ActionCommentTask     Action = "COMMENT_TASK"
)

// Actor is the minimal identity the evaluator needs. A nil actor means no
// session and is denied everything.
type Actor struct {
	ID   uint
	Role models.Role
}

const adminRank = 0

// unknownRank sorts below every real role so a malformed role never gains
// privileges.
const unknownRank = 99

var roleRanks = map[models.Role]int{
	models.RoleAdministrador: 0,
	models.RoleGerente:       1,
	models.RoleSupervisor:    2,
	models.RoleTecnico:       3,
	models.RoleAnalista:      4,
}

// actionThresholds maps each action to the maximum rank allowed to perform
// it. Actions absent from the table are denied for every non-admin.
var actionThresholds = map[Action]int{
	ActionManageUsers:     0,
	ActionCreateProject:   1,
	ActionDeleteProject:   1,
	ActionApproveTask:     1,
	ActionManageColumns:   1,
	ActionManageTemplates: 1,
	ActionEditOthersTasks: 2,
	ActionCreateTask:      4,
	ActionCommentTask:     4,
}

func Rank(role models.Role) int {
	if rank, ok := roleRanks[role]; ok {
		return rank
	}
	return unknownRank
}

// Can reports whether the actor may perform action. Administrators pass every
// check unconditionally; unknown actions are denied.
func Can(actor *Actor, action Action) bool {
	if actor == nil {
		return false
	}

	rank := Rank(actor.Role)

	if rank == adminRank {
		return true
	}

	threshold, ok := actionThresholds[action]

	return ok && rank <= threshold
}

// CanEditTask layers ownership on top of the role table: editing a specific
// task is allowed for EDIT_OTHERS_TASKS holders, the task's creator, or the
// task's assignee.
func CanEditTask(actor *Actor, task *models.Task) bool {
	if actor == nil || task == nil {
		return false
	}

	if Can(actor, ActionEditOthersTasks) {
		return true
	}

	return task.CreatorID == actor.ID || task.AssigneeID == actor.ID
}
