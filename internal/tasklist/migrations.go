package tasklist

import (
	"fmt"

	"todoai-api/internal/catalog"
	"todoai-api/internal/user"

	"gorm.io/gorm"
)

// RunMigrations performs auto-migration for every table of the application
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&user.User{},
		&catalog.ProviderIdentity{},
		&TaskList{},
		&Task{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_task_lists_user_created ON task_lists(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_tasks_list_position ON tasks(list_id, position)",
		"CREATE INDEX IF NOT EXISTS idx_providers_active_name ON providers(is_active, name)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// ValidateMigrations checks that every table and key index exists
func ValidateMigrations(db *gorm.DB) error {
	for _, table := range []string{"users", "providers", "task_lists", "tasks"} {
		var exists bool
		err := db.Raw("SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = ?)", table).Scan(&exists).Error
		if err != nil {
			return fmt.Errorf("failed to check table existence for %s: %w", table, err)
		}
		if !exists {
			return fmt.Errorf("required table %s does not exist", table)
		}
	}

	for _, index := range []string{"idx_task_lists_user_created", "idx_tasks_list_position"} {
		var exists bool
		err := db.Raw("SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = ?)", index).Scan(&exists).Error
		if err != nil {
			return fmt.Errorf("failed to check index existence for %s: %w", index, err)
		}
		if !exists {
			return fmt.Errorf("required index %s does not exist", index)
		}
	}
	return nil
}

// MigrateWithValidation runs the migrations and then validates them
func MigrateWithValidation(db *gorm.DB) error {
	if err := RunMigrations(db); err != nil {
		return err
	}
	if err := ValidateMigrations(db); err != nil {
		return fmt.Errorf("migration validation failed: %w", err)
	}
	return nil
}
