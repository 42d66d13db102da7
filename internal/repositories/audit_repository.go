package repositories

import (
	"fmt"

	"celora/internal/models"

	"gorm.io/gorm"
)

// AuditRepository appends audit rows. Writes are best-effort at the caller.
type AuditRepository interface {
	Create(entry *models.AuditLog) error
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(entry *models.AuditLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}
