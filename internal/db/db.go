package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"manam/internal/auth"
	"manam/internal/goal"
	"manam/internal/insight"
	"manam/internal/jobs"
	"manam/internal/mood"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&auth.User{},
		&mood.Entry{},
		&goal.Goal{},
		&insight.Cache{},
		&jobs.Job{},
	); err != nil {
		return err
	}

	// Helpful indexes
	stmts := []string{
		`create index if not exists idx_entries_user_ts on mood_entries(user_id, timestamp desc);`,
		`create index if not exists idx_goals_user_created on goals(user_id, created_at asc);`,
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,
		`create index if not exists idx_jobs_user_type on jobs(user_id, type, status);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
