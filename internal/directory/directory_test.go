package directory

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

func newTestService(t *testing.T) *Service {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	return NewService(gdb, nil)
}

func seedUser(t *testing.T, s *Service, name, email string, role models.Role) models.User {
	t.Helper()

	user := models.User{
		Name:         name,
		Email:        email,
		Role:         role,
		Status:       models.UserActive,
		PasswordHash: "x",
	}
	require.NoError(t, s.db.Create(&user).Error)
	return user
}

func actorFor(user models.User) *permissions.Actor {
	return &permissions.Actor{ID: user.ID, Role: user.Role}
}

func TestCreateUserRequiresManageUsers(t *testing.T) {
	s := newTestService(t)
	supervisor := seedUser(t, s, "Maria", "maria@chabra.com.br", models.RoleSupervisor)

	_, err := s.CreateUser(actorFor(supervisor), CreateUserInput{
		Name:     "Novo",
		Email:    "novo@chabra.com.br",
		Role:     models.RoleAnalista,
		Password: "segredo123",
	})
	assert.ErrorIs(t, err, types.ErrPermissionDenied)
}

func TestCreateUserNormalizesAndRejectsDuplicateEmail(t *testing.T) {
	s := newTestService(t)
	admin := seedUser(t, s, "Admin", "admin@chabra.com.br", models.RoleAdministrador)

	created, err := s.CreateUser(actorFor(admin), CreateUserInput{
		Name:     "Ana Santos",
		Email:    "  ANA@chabra.com.BR ",
		Role:     models.RoleAnalista,
		Password: "segredo123",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@chabra.com.br", created.Email)
	assert.Equal(t, models.UserActive, created.Status)

	_, err = s.CreateUser(actorFor(admin), CreateUserInput{
		Name:     "Outra Ana",
		Email:    "ana@chabra.com.br",
		Role:     models.RoleAnalista,
		Password: "segredo123",
	})
	assert.ErrorIs(t, err, types.ErrEmailTaken)
}

func TestRegisterLandsInPending(t *testing.T) {
	s := newTestService(t)

	user, err := s.Register("Visitante", "visitante@chabra.com.br", "segredo123")
	require.NoError(t, err)

	assert.Equal(t, models.UserPending, user.Status)
	assert.Equal(t, models.RoleAnalista, user.Role)
}

func TestUpdateUserSelfRename(t *testing.T) {
	s := newTestService(t)
	tecnico := seedUser(t, s, "Carlos", "carlos@chabra.com.br", models.RoleTecnico)

	name := "Carlos Pereira"
	updated, err := s.UpdateUser(actorFor(tecnico), tecnico.ID, UpdateUserInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Carlos Pereira", updated.Name)
}

func TestUpdateUserCannotRenameOthersWithoutManageUsers(t *testing.T) {
	s := newTestService(t)
	tecnico := seedUser(t, s, "Carlos", "carlos@chabra.com.br", models.RoleTecnico)
	other := seedUser(t, s, "Ana", "ana@chabra.com.br", models.RoleAnalista)

	name := "Renomeada"
	_, err := s.UpdateUser(actorFor(tecnico), other.ID, UpdateUserInput{Name: &name})
	assert.ErrorIs(t, err, types.ErrPermissionDenied)
}

func TestUpdateUserRoleChangeRequiresManageUsers(t *testing.T) {
	s := newTestService(t)
	supervisor := seedUser(t, s, "Maria", "maria@chabra.com.br", models.RoleSupervisor)
	other := seedUser(t, s, "Ana", "ana@chabra.com.br", models.RoleAnalista)

	role := models.RoleTecnico
	_, err := s.UpdateUser(actorFor(supervisor), other.ID, UpdateUserInput{Role: &role})
	assert.ErrorIs(t, err, types.ErrPermissionDenied)

	// Even changing one's own role is off-limits below MANAGE_USERS.
	_, err = s.UpdateUser(actorFor(supervisor), supervisor.ID, UpdateUserInput{Role: &role})
	assert.ErrorIs(t, err, types.ErrPermissionDenied)
}

func TestUpdateUserSelfDisableIsBlocked(t *testing.T) {
	s := newTestService(t)
	admin := seedUser(t, s, "Admin", "admin@chabra.com.br", models.RoleAdministrador)

	disabled := models.UserDisabled
	_, err := s.UpdateUser(actorFor(admin), admin.ID, UpdateUserInput{Status: &disabled})
	assert.ErrorIs(t, err, types.ErrSelfLockout)

	_, err = s.DisableUser(actorFor(admin), admin.ID)
	assert.ErrorIs(t, err, types.ErrSelfLockout)

	// Disabling someone else still works.
	other := seedUser(t, s, "Ana", "ana@chabra.com.br", models.RoleAnalista)
	updated, err := s.DisableUser(actorFor(admin), other.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserDisabled, updated.Status)
}

func TestDeleteUser(t *testing.T) {
	s := newTestService(t)
	admin := seedUser(t, s, "Admin", "admin@chabra.com.br", models.RoleAdministrador)
	target := seedUser(t, s, "Ana", "ana@chabra.com.br", models.RoleAnalista)

	sess := models.Session{Token: "tok-1", UserID: target.ID, Name: target.Name, Email: target.Email, Role: target.Role, Status: target.Status}
	require.NoError(t, s.db.Create(&sess).Error)
	note := models.Notification{UserID: target.ID, Title: "Oi", Kind: models.NotifyInfo}
	require.NoError(t, s.db.Create(&note).Error)

	require.NoError(t, s.DeleteUser(actorFor(admin), target.ID))

	_, err := s.GetUser(target.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	var sessions, notes int64
	require.NoError(t, s.db.Model(&models.Session{}).Where("user_id = ?", target.ID).Count(&sessions).Error)
	require.NoError(t, s.db.Model(&models.Notification{}).Where("user_id = ?", target.ID).Count(&notes).Error)
	assert.Zero(t, sessions)
	assert.Zero(t, notes)
}

func TestDeleteUserSelfIsBlocked(t *testing.T) {
	s := newTestService(t)
	admin := seedUser(t, s, "Admin", "admin@chabra.com.br", models.RoleAdministrador)

	assert.ErrorIs(t, s.DeleteUser(actorFor(admin), admin.ID), types.ErrSelfLockout)
}

func TestDeleteUserRequiresManageUsers(t *testing.T) {
	s := newTestService(t)
	gerente := seedUser(t, s, "Gerente", "gerente@chabra.com.br", models.RoleGerente)
	target := seedUser(t, s, "Ana", "ana@chabra.com.br", models.RoleAnalista)

	assert.ErrorIs(t, s.DeleteUser(actorFor(gerente), target.ID), types.ErrPermissionDenied)
}

func TestChangePasswordProvesCurrent(t *testing.T) {
	s := newTestService(t)
	admin := seedUser(t, s, "Admin", "admin@chabra.com.br", models.RoleAdministrador)

	created, err := s.CreateUser(actorFor(admin), CreateUserInput{
		Name:     "Ana",
		Email:    "ana@chabra.com.br",
		Role:     models.RoleAnalista,
		Password: "antiga123",
	})
	require.NoError(t, err)

	actor := &permissions.Actor{ID: created.ID, Role: created.Role}

	assert.ErrorIs(t, s.ChangePassword(actor, "errada", "nova123"), types.ErrInvalidCredentials)
	assert.NoError(t, s.ChangePassword(actor, "antiga123", "nova123"))
}
