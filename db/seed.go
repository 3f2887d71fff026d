package db

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/quadro-dev/quadro/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seed installs the default workspace fixtures. Each table is seeded
// independently, so a missing slice of state (say, the columns) is restored
// without touching the rest.
func Seed(db *gorm.DB) error {
	if err := seedColumns(db); err != nil {
		return err
	}

	users, err := seedUsers(db)

	if err != nil {
		return err
	}

	projects, err := seedProjects(db)

	if err != nil {
		return err
	}

	if err := seedTemplates(db); err != nil {
		return err
	}

	return seedTasks(db, users, projects)
}

func seedColumns(db *gorm.DB) error {
	var count int64

	if err := db.Model(&models.StatusColumn{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	columns := []models.StatusColumn{
		{Slug: models.StatusBacklog, Label: "Backlog", Color: "gray", Position: 0, Protected: true},
		{Slug: "TODO", Label: "A Fazer", Color: "blue", Position: 1},
		{Slug: "IN_PROGRESS", Label: "Em Execução", Color: "yellow", Position: 2},
		{Slug: "REVIEW", Label: "Em Revisão", Color: "purple", Position: 3},
		{Slug: "BLOCKED", Label: "Bloqueado", Color: "red", Position: 4},
		{Slug: models.StatusDone, Label: "Concluído", Color: "green", Position: 5, Protected: true},
	}

	log.Println("Seeding status columns")
	return db.Create(&columns).Error
}

func seedUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User

	if err := db.Find(&users).Error; err != nil {
		return nil, err
	}

	if len(users) > 0 {
		return users, nil
	}

	password := os.Getenv("SEED_PASSWORD")

	if password == "" {
		password = "quadro123"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return nil, err
	}

	users = []models.User{
		{Name: "Admin Chabra", Email: "admin@chabra.com.br", Avatar: "https://picsum.photos/seed/admin/100", Role: models.RoleAdministrador, Status: models.UserActive, PasswordHash: string(hash)},
		{Name: "João Silva", Email: "joao@chabra.com.br", Avatar: "https://picsum.photos/seed/joao/100", Role: models.RoleGerente, Status: models.UserActive, PasswordHash: string(hash)},
		{Name: "Maria Oliveira", Email: "maria@chabra.com.br", Avatar: "https://picsum.photos/seed/maria/100", Role: models.RoleSupervisor, Status: models.UserActive, PasswordHash: string(hash)},
		{Name: "Carlos Santos", Email: "carlos.tecnico@chabra.com.br", Avatar: "https://picsum.photos/seed/carlos/100", Role: models.RoleTecnico, Status: models.UserActive, PasswordHash: string(hash)},
		{Name: "Ana Costa", Email: "ana.analista@chabra.com.br", Avatar: "https://picsum.photos/seed/ana/100", Role: models.RoleAnalista, Status: models.UserActive, PasswordHash: string(hash)},
	}

	log.Println("Seeding users")

	if err := db.Create(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func seedProjects(db *gorm.DB) ([]models.Project, error) {
	var projects []models.Project

	if err := db.Find(&projects).Error; err != nil {
		return nil, err
	}

	if len(projects) > 0 {
		return projects, nil
	}

	projects = []models.Project{
		{Name: "Segurança do Trabalho", Color: "#e30613"},
		{Name: "Medicina Ocupacional", Color: "#00a651"},
		{Name: "Gestão Interna", Color: "#2563eb"},
	}

	log.Println("Seeding projects")

	if err := db.Create(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

func seedTemplates(db *gorm.DB) error {
	var count int64

	if err := db.Model(&models.TaskTemplate{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	subtasks, err := json.Marshal([]string{"Agendar data", "Confirmar presença", "Realizar coleta", "Emitir ASO"})

	if err != nil {
		return err
	}

	template := models.TaskTemplate{
		Name:               "Exame Periódico",
		DefaultTitle:       "Realizar Exame Periódico: [Nome]",
		DefaultDescription: "Checklist padrão para exames periódicos de colaboradores.",
		DefaultSubtasks:    datatypes.JSON(subtasks),
	}

	log.Println("Seeding task templates")
	return db.Create(&template).Error
}

func seedTasks(db *gorm.DB, users []models.User, projects []models.Project) error {
	var count int64

	if err := db.Model(&models.Task{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 || len(users) < 3 || len(projects) < 1 {
		return nil
	}

	due1 := time.Now().AddDate(0, 1, 0)
	due2 := time.Now().AddDate(0, 2, 0)

	tasks := []models.Task{
		{
			Title:       "Implementação de Novos Protocolos NR",
			Description: "Atualizar os manuais internos conforme novas normativas.",
			Status:      "IN_PROGRESS",
			Priority:    models.PriorityHigh,
			ProjectID:   projects[0].ID,
			CreatorID:   users[0].ID,
			AssigneeID:  users[1].ID,
			DueDate:     &due1,
			Tags:        datatypes.JSON([]byte(`["Normativas","Compliance"]`)),
			Subtasks: []models.Subtask{
				{Title: "Ler PDF da NR-10", Completed: true},
				{Title: "Redigir rascunho"},
			},
		},
		{
			Title:       "Análise de Backlog - Treinamentos",
			Description: "Revisar lista de pendências de treinamentos técnicos.",
			Status:      models.StatusBacklog,
			Priority:    models.PriorityNormal,
			ProjectID:   projects[0].ID,
			CreatorID:   users[0].ID,
			AssigneeID:  users[2].ID,
			DueDate:     &due2,
			Tags:        datatypes.JSON([]byte(`["Treinamento"]`)),
		},
	}

	log.Println("Seeding tasks")
	return db.Create(&tasks).Error
}
