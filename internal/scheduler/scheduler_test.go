package scheduler

import (
	"testing"
	"time"

	"github.com/quadro-dev/quadro/db"
	"github.com/quadro-dev/quadro/internal/broadcast"
	"github.com/quadro-dev/quadro/internal/models"
	"github.com/quadro-dev/quadro/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) (*session.Store, *gorm.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	return session.NewStore(gdb, nil), gdb
}

func TestDirectoryEventKicksImmediatePass(t *testing.T) {
	store, gdb := newTestStore(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("segredo123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := models.User{
		Name:         "Carlos",
		Email:        "carlos@chabra.com.br",
		Role:         models.RoleTecnico,
		Status:       models.UserActive,
		PasswordHash: string(hash),
	}
	require.NoError(t, gdb.Create(&user).Error)

	sess, err := store.Login("carlos@chabra.com.br", "segredo123")
	require.NoError(t, err)

	// A long interval proves the pass came from the kick, not the ticker.
	r := NewReconciler(store, time.Hour)
	hub := broadcast.NewHub()
	r.SubscribeTo(hub)

	require.NoError(t, r.Start())
	defer r.Stop()

	require.NoError(t, gdb.Model(&models.User{}).Where("id = ?", user.ID).
		Update("status", models.UserDisabled).Error)

	hub.Publish(broadcast.Event{Type: broadcast.EventDirectory, Message: "user updated"})

	assert.Eventually(t, func() bool {
		var stored models.Session
		if err := gdb.Where("token = ?", sess.Token).First(&stored).Error; err != nil {
			return false
		}
		return stored.Revoked
	}, 2*time.Second, 10*time.Millisecond)
}

func TestKickCoalescesWhilePending(t *testing.T) {
	store, _ := newTestStore(t)
	r := NewReconciler(store, time.Hour)

	// Without the run loop draining, extra kicks must not block.
	done := make(chan struct{})
	go func() {
		r.Kick()
		r.Kick()
		r.Kick()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Kick blocked with a pass already pending")
	}
}
