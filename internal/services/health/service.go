package health

import (
	"context"
	"database/sql"
	"time"

	"resume-analyzer/internal/shared/storage/db"
)

const pingTimeout = 2 * time.Second

// Database states reported by Status.
const (
	DatabaseUp       = "up"
	DatabaseDown     = "down"
	DatabaseDisabled = "disabled"
)

// Status is the health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
}

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
}

// NewService constructs a new health service. A nil db reports "disabled".
func NewService(sqlDB *sql.DB) *Service {
	return &Service{DB: sqlDB}
}

// Status pings the database when one is configured.
func (s *Service) Status(ctx context.Context) Status {
	if s == nil || s.DB == nil {
		return Status{OK: true, Database: DatabaseDisabled}
	}
	if err := db.Ping(ctx, s.DB, pingTimeout); err != nil {
		return Status{OK: false, Database: DatabaseDown}
	}
	return Status{OK: true, Database: DatabaseUp}
}
