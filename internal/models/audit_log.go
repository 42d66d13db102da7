package models

import "time"

// AuditLog records security-relevant state changes. Rows are written
// best-effort after the governing change has committed.
type AuditLog struct {
	ID         uint   `gorm:"primarykey"`
	ActorID    uint   `gorm:"not null;index"`
	EntityType string `gorm:"not null;index"`
	EntityID   string `gorm:"not null"`
	Action     string `gorm:"not null"`
	Before     JSON   `gorm:"type:jsonb"`
	After      JSON   `gorm:"type:jsonb"`
	Metadata   JSON   `gorm:"type:jsonb"`
	CreatedAt  time.Time
}
