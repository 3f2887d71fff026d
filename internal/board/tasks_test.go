package board

import (
	"testing"
	"time"

	"github.com/quadro-dev/quadro/internal/models"
	"github.com/quadro-dev/quadro/internal/permissions"
	"github.com/quadro-dev/quadro/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	emitted []uint
}

func (r *recordingNotifier) Emit(userID uint, title, message string, kind models.NotificationKind) {
	r.emitted = append(r.emitted, userID)
}

func TestQuickCreateTaskDefaults(t *testing.T) {
	s := newTestService(t)
	projectID := defaultProjectID(t, s)

	task, err := s.QuickCreateTask(analista, "Revisar laudo", "TODO", projectID, nil)
	require.NoError(t, err)

	assert.Equal(t, "TODO", task.Status)
	assert.Equal(t, models.PriorityNormal, task.Priority)
	assert.Equal(t, analista.ID, task.CreatorID)
	assert.Equal(t, analista.ID, task.AssigneeID)
	assert.Empty(t, task.Description)
	require.NotNil(t, task.DueDate)
	assert.WithinDuration(t, time.Now(), *task.DueDate, time.Minute)
}

func TestCreateTaskValidatesStatusAndProject(t *testing.T) {
	s := newTestService(t)
	projectID := defaultProjectID(t, s)

	_, err := s.CreateTask(analista, TaskInput{Title: "x", Status: "GHOST", ProjectID: projectID})
	assert.ErrorIs(t, err, types.ErrInvalidTransition)

	_, err = s.CreateTask(analista, TaskInput{Title: "x", Status: "TODO", ProjectID: 9999})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestCreateTaskDedupesTags(t *testing.T) {
	s := newTestService(t)
	projectID := defaultProjectID(t, s)

	task, err := s.CreateTask(analista, TaskInput{
		Title:     "Com tags",
		Status:    "TODO",
		ProjectID: projectID,
		Tags:      []string{"NR-10", "NR-10", "Compliance", ""},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `["NR-10","Compliance"]`, string(task.Tags))
}

func TestMoveTaskRefreshesUpdatedAt(t *testing.T) {
	s := newTestService(t)
	projectID := defaultProjectID(t, s)

	task, err := s.QuickCreateTask(analista, "Mover", "TODO", projectID, nil)
	require.NoError(t, err)

	before := task.UpdatedAt
	time.Sleep(10 * time.Millisecond)

	moved, err := s.MoveTask(analista, task.ID, models.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, moved.Status)
	assert.True(t, moved.UpdatedAt.After(before))
}

func TestMoveTaskRejectsUnknownStatus(t *testing.T) {
	s := newTestService(t)
	projectID := defaultProjectID(t, s)

	task, err := s.QuickCreateTask(analista, "Mover", "TODO", projectID, nil)
	require.NoError(t, err)

	_, err = s.MoveTask(analista, task.ID, "GHOST")
	assert.ErrorIs(t, err, types.ErrInvalidTransition)

	kept, err := s.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "TODO", kept.Status)
}

// Task created by A assigned to B: B may edit, an unrelated low-rank user may
// not, and the defense holds at the mutation entry point regardless of what
// the client disabled.
func TestMoveTaskOwnershipGate(t *testing.T) {
	s := newTestService(t)
	projectID := defaultProjectID(t, s)

	userA := &permissions.Actor{ID: 40, Role: models.RoleTecnico}
	userB := &permissions.Actor{ID: 41, Role: models.RoleAnalista}
	userC := &permissions.Actor{ID: 42, Role: models.RoleAnalista}

	task, err := s.CreateTask(userA, TaskInput{
		Title:      "Dividida",
		Status:     "TODO",
		ProjectID:  projectID,
		AssigneeID: userB.ID,
	})
	require.NoError(t, err)

	_, err = s.MoveTask(userC, task.ID, models.StatusDone)
	assert.ErrorIs(t, err, types.ErrPermissionDenied)

	_, err = s.MoveTask(userB, task.ID, models.StatusDone)
	assert.NoError(t, err)
}

func TestRescheduleTaskGate(t *testing.T) {
	s := newTestService(t)
	projectID := defaultProjectID(t, s)

	task, err := s.QuickCreateTask(analista, "Agendar", "TODO", projectID, nil)
	require.NoError(t, err)

	stranger := &permissions.Actor{ID: 77, Role: models.RoleTecnico}
	newDue := time.Now().AddDate(0, 0, 3)

	_, err = s.RescheduleTask(stranger, task.ID, newDue)
	assert.ErrorIs(t, err, types.ErrPermissionDenied)

	moved, err := s.RescheduleTask(analista, task.ID, newDue)
	require.NoError(t, err)
	require.NotNil(t, moved.DueDate)
	assert.WithinDuration(t, newDue, *moved.DueDate, time.Second)
}

func TestAddCommentNotifiesAssignee(t *testing.T) {
	s := newTestService(t)
	notifier := &recordingNotifier{}
	s.notifier = notifier
	projectID := defaultProjectID(t, s)

	task, err := s.CreateTask(gerente, TaskInput{
		Title:      "Comentada",
		Status:     "TODO",
		ProjectID:  projectID,
		AssigneeID: analista.ID,
	})
	require.NoError(t, err)
	notifier.emitted = nil

	// Author is not the assignee: one notification.
	_, err = s.AddComment(gerente, task.ID, "Como está o andamento?")
	require.NoError(t, err)
	assert.Equal(t, []uint{analista.ID}, notifier.emitted)

	// Author is the assignee: silence.
	_, err = s.AddComment(analista, task.ID, "Em andamento.")
	require.NoError(t, err)
	assert.Equal(t, []uint{analista.ID}, notifier.emitted)
}

func TestSubtaskCompletion(t *testing.T) {
	s := newTestService(t)
	projectID := defaultProjectID(t, s)

	task, err := s.QuickCreateTask(analista, "Checklist", "TODO", projectID, nil)
	require.NoError(t, err)

	first, err := s.AddSubtask(analista, task.ID, "Agendar data")
	require.NoError(t, err)

	_, err = s.AddSubtask(analista, task.ID, "Emitir ASO")
	require.NoError(t, err)

	toggled, err := s.ToggleSubtask(analista, task.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	full, err := s.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, CompletionPercent(full.Subtasks))
}

func TestApproveTaskRequiresApprovalTier(t *testing.T) {
	s := newTestService(t)
	projectID := defaultProjectID(t, s)

	task, err := s.QuickCreateTask(analista, "Aprovar", "TODO", projectID, nil)
	require.NoError(t, err)

	_, err = s.ApproveTask(analista, task.ID)
	assert.ErrorIs(t, err, types.ErrPermissionDenied)

	approved, err := s.ApproveTask(gerente, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, approved.Status)
}

func TestDeleteProjectCascadesTasks(t *testing.T) {
	s := newTestService(t)
	projectID := defaultProjectID(t, s)

	task, err := s.QuickCreateTask(analista, "Vai junto", "TODO", projectID, nil)
	require.NoError(t, err)

	require.NoError(t, s.DeleteProject(gerente, projectID))

	_, err = s.GetTask(task.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestInstantiateTemplate(t *testing.T) {
	s := newTestService(t)
	projectID := defaultProjectID(t, s)

	template, err := s.CreateTemplate(gerente, TemplateInput{
		Name:            "Exame Periódico",
		DefaultTitle:    "Realizar Exame Periódico",
		DefaultSubtasks: []string{"Agendar data", "Emitir ASO"},
	})
	require.NoError(t, err)

	task, err := s.InstantiateTemplate(analista, template.ID, projectID, nil)
	require.NoError(t, err)

	assert.Equal(t, models.StatusBacklog, task.Status)
	assert.Equal(t, "Realizar Exame Periódico", task.Title)
	assert.Len(t, task.Subtasks, 2)
}
