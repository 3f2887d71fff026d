package db

import (
	"github.com/quadro-dev/quadro/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	return Migrate(DB)
}

func Migrate(db *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Session{},
		&models.Project{},
		&models.StatusColumn{},
		&models.Task{},
		&models.Subtask{},
		&models.Attachment{},
		&models.Comment{},
		&models.TaskTemplate{},
		&models.Notification{},
	}

	migrator := db.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := db.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	return nil
}
