package board

import (
	"testing"

	"github.com/quadro-dev/quadro/db"
	"github.com/quadro-dev/quadro/internal/models"
	"github.com/quadro-dev/quadro/internal/permissions"
	"github.com/quadro-dev/quadro/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	admin    = &permissions.Actor{ID: 1, Role: models.RoleAdministrador}
	gerente  = &permissions.Actor{ID: 2, Role: models.RoleGerente}
	analista = &permissions.Actor{ID: 5, Role: models.RoleAnalista}
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	columns := []models.StatusColumn{
		{Slug: models.StatusBacklog, Label: "Backlog", Color: "gray", Position: 0, Protected: true},
		{Slug: "TODO", Label: "A Fazer", Color: "blue", Position: 1},
		{Slug: models.StatusDone, Label: "Concluído", Color: "green", Position: 2, Protected: true},
	}
	require.NoError(t, gdb.Create(&columns).Error)

	project := models.Project{Name: "Gestão Interna", Color: "#2563eb"}
	require.NoError(t, gdb.Create(&project).Error)

	return NewService(gdb, nil, nil)
}

func defaultProjectID(t *testing.T, s *Service) uint {
	t.Helper()

	projects, err := s.ListProjects()
	require.NoError(t, err)
	require.NotEmpty(t, projects)
	return projects[0].ID
}

func statusOrder(t *testing.T, s *Service) []string {
	t.Helper()

	snapshot, err := s.Snapshot()
	require.NoError(t, err)
	return snapshot.StatusOrder
}

func TestCreateColumnInsertsBeforeDone(t *testing.T) {
	s := newTestService(t)

	column, err := s.CreateColumn(gerente, "Em Teste", "blue")
	require.NoError(t, err)
	assert.Equal(t, "EM_TESTE", column.Slug)

	assert.Equal(t, []string{models.StatusBacklog, "TODO", "EM_TESTE", models.StatusDone}, statusOrder(t, s))
}

func TestCreateColumnAppendsWithoutDone(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.db.Unscoped().Where("slug = ?", models.StatusDone).Delete(&models.StatusColumn{}).Error)

	column, err := s.CreateColumn(gerente, "Arquivado", "gray")
	require.NoError(t, err)

	order := statusOrder(t, s)
	assert.Equal(t, column.Slug, order[len(order)-1])
}

func TestCreateColumnCollisionGetsDiscriminator(t *testing.T) {
	s := newTestService(t)

	first, err := s.CreateColumn(gerente, "Em Teste", "blue")
	require.NoError(t, err)

	second, err := s.CreateColumn(gerente, "Em Teste", "red")
	require.NoError(t, err)

	assert.Equal(t, "EM_TESTE", first.Slug)
	assert.Equal(t, "EM_TESTE_2", second.Slug)
}

func TestCreateColumnRequiresManageColumns(t *testing.T) {
	s := newTestService(t)

	_, err := s.CreateColumn(analista, "Em Teste", "blue")
	assert.ErrorIs(t, err, types.ErrPermissionDenied)

	_, err = s.CreateColumn(nil, "Em Teste", "blue")
	assert.ErrorIs(t, err, types.ErrPermissionDenied)
}

func TestDeleteColumnReassignsTasksToBacklog(t *testing.T) {
	s := newTestService(t)
	projectID := defaultProjectID(t, s)

	first, err := s.QuickCreateTask(analista, "Tarefa 1", "TODO", projectID, nil)
	require.NoError(t, err)

	second, err := s.QuickCreateTask(analista, "Tarefa 2", "TODO", projectID, nil)
	require.NoError(t, err)

	require.NoError(t, s.DeleteColumn(gerente, "TODO"))

	assert.Equal(t, []string{models.StatusBacklog, models.StatusDone}, statusOrder(t, s))

	for _, id := range []uint{first.ID, second.ID} {
		task, err := s.GetTask(id)
		require.NoError(t, err)
		assert.Equal(t, models.StatusBacklog, task.Status)
	}

	var orphaned int64
	require.NoError(t, s.db.Model(&models.Task{}).Where("status = ?", "TODO").Count(&orphaned).Error)
	assert.Zero(t, orphaned)
}

func TestDeleteColumnRejectsProtected(t *testing.T) {
	s := newTestService(t)

	before := statusOrder(t, s)

	assert.ErrorIs(t, s.DeleteColumn(gerente, models.StatusBacklog), types.ErrProtectedColumn)
	assert.ErrorIs(t, s.DeleteColumn(gerente, models.StatusDone), types.ErrProtectedColumn)
	assert.ErrorIs(t, s.DeleteColumn(gerente, "MISSING"), types.ErrNotFound)

	assert.Equal(t, before, statusOrder(t, s))
}

func TestDeleteColumnClosesPositionGap(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.DeleteColumn(admin, "TODO"))

	columns, err := s.Columns()
	require.NoError(t, err)

	for i, column := range columns {
		assert.Equal(t, i, column.Position)
	}
}
