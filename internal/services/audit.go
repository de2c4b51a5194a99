package services

import (
	"context"
	"fmt"

	"apotek/internal/database"
	"apotek/internal/logger"
	"apotek/internal/models"
)

// AuditService appends to and reads the riwayat table.
type AuditService struct {
	db     *database.DB
	logger logger.Logger
}

func NewAuditService(db *database.DB, log logger.Logger) *AuditService {
	if log == nil {
		log = logger.Nop()
	}
	return &AuditService{db: db, logger: log}
}

func (s *AuditService) Append(ctx context.Context, username, action, description string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		"INSERT INTO riwayat (username, aksi, deskripsi) VALUES (?, ?, ?)",
	), username, action, description)
	if err != nil {
		return fmt.Errorf("failed to append audit log: %w", err)
	}
	return nil
}

// Record is Append for callers that must not fail because of the audit
// trail. The failure is logged and handed back for the caller's result.
func (s *AuditService) Record(ctx context.Context, username, action, description string) error {
	err := s.Append(ctx, username, action, description)
	if err != nil {
		s.logger.Warn("Audit log write failed", map[string]interface{}{
			"username":    username,
			"action":      action,
			"description": description,
			"error":       err,
		})
	}
	return err
}

// List returns every entry, newest first.
func (s *AuditService) List(ctx context.Context) ([]models.AuditLog, error) {
	logs := []models.AuditLog{}
	err := s.db.SelectContext(ctx, &logs, `
		SELECT id, username, aksi, deskripsi, waktu
		FROM riwayat
		ORDER BY waktu DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}
