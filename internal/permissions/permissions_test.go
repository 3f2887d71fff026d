package permissions

import (
	"testing"

	"github.com/quadro-dev/quadro/internal/models"
	"github.com/stretchr/testify/assert"
)

var rolesByRank = []models.Role{
	models.RoleAdministrador,
	models.RoleGerente,
	models.RoleSupervisor,
	models.RoleTecnico,
	models.RoleAnalista,
}

var allActions = []Action{
	ActionManageUsers,
	ActionCreateProject,
	ActionDeleteProject,
	ActionApproveTask,
	ActionManageColumns,
	ActionManageTemplates,
	ActionEditOthersTasks,
	ActionCreateTask,
	ActionCommentTask,
}

func TestRank(t *testing.T) {
	for rank, role := range rolesByRank {
		assert.Equal(t, rank, Rank(role))
	}

	assert.Equal(t, unknownRank, Rank(models.Role("INTRUSO")))
}

func TestCanDeniesMissingSession(t *testing.T) {
	for _, action := range allActions {
		assert.False(t, Can(nil, action))
	}
}

func TestAdminPassesEverything(t *testing.T) {
	admin := &Actor{ID: 1, Role: models.RoleAdministrador}

	for _, action := range allActions {
		assert.True(t, Can(admin, action))
	}

	// Including actions nobody declared.
	assert.True(t, Can(admin, Action("FORMAT_DISK")))
}

func TestDenyByDefault(t *testing.T) {
	for _, role := range rolesByRank[1:] {
		actor := &Actor{ID: 2, Role: role}
		assert.False(t, Can(actor, Action("UNKNOWN_ACTION")), "role %s", role)
	}
}

// Lower rank number means same-or-more permissions: any action granted at
// rank R must be granted at every rank below R.
func TestRankMonotonicity(t *testing.T) {
	for _, action := range allActions {
		for rank := 1; rank < len(rolesByRank); rank++ {
			if Can(&Actor{ID: 1, Role: rolesByRank[rank]}, action) {
				for lower := 0; lower < rank; lower++ {
					assert.True(t, Can(&Actor{ID: 1, Role: rolesByRank[lower]}, action),
						"action %s allowed at rank %d but not at rank %d", action, rank, lower)
				}
			}
		}
	}
}

func TestThresholds(t *testing.T) {
	analista := &Actor{ID: 5, Role: models.RoleAnalista}
	gerente := &Actor{ID: 2, Role: models.RoleGerente}
	supervisor := &Actor{ID: 3, Role: models.RoleSupervisor}

	assert.False(t, Can(analista, ActionCreateProject))
	assert.True(t, Can(gerente, ActionDeleteProject))
	assert.False(t, Can(supervisor, ActionDeleteProject))
	assert.True(t, Can(analista, ActionCreateTask))
	assert.False(t, Can(gerente, ActionManageUsers))
}

func TestCanEditTaskOwnershipRule(t *testing.T) {
	task := &models.Task{CreatorID: 10, AssigneeID: 20}

	creator := &Actor{ID: 10, Role: models.RoleAnalista}
	assignee := &Actor{ID: 20, Role: models.RoleAnalista}
	bystander := &Actor{ID: 30, Role: models.RoleAnalista}

	assert.True(t, CanEditTask(creator, task))
	assert.True(t, CanEditTask(assignee, task))
	assert.False(t, CanEditTask(bystander, task))
}

func TestCanEditTaskRoleOverride(t *testing.T) {
	task := &models.Task{CreatorID: 10, AssigneeID: 20}

	// Rank 2 holds EDIT_OTHERS_TASKS; rank 3 does not.
	supervisor := &Actor{ID: 99, Role: models.RoleSupervisor}
	tecnico := &Actor{ID: 99, Role: models.RoleTecnico}

	assert.True(t, CanEditTask(supervisor, task))
	assert.False(t, CanEditTask(tecnico, task))
}

func TestCanEditTaskNilInputs(t *testing.T) {
	assert.False(t, CanEditTask(nil, &models.Task{}))
	assert.False(t, CanEditTask(&Actor{ID: 1, Role: models.RoleAdministrador}, nil))
}
