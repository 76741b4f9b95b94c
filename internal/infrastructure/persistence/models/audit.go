package models

import (
	"time"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AuditLogModel stores one human-readable audit entry.
type AuditLogModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID     *uuid.UUID `gorm:"type:uuid"`
	Message    string     `gorm:"type:text;not null"`
	OccurredAt time.Time  `gorm:"not null"`
	CreatedAt  time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// AuditLogModelFromDomain creates a new row for the entry.
func AuditLogModelFromDomain(e shared.AuditEntry) *AuditLogModel {
	return &AuditLogModel{
		ID:         uuid.New(),
		TenantID:   e.TenantID,
		UserID:     e.UserID,
		Message:    e.Message,
		OccurredAt: e.OccurredAt,
		CreatedAt:  time.Now(),
	}
}

// ToDomain converts the row back into an entry.
func (m *AuditLogModel) ToDomain() shared.AuditEntry {
	return shared.AuditEntry{
		TenantID:   m.TenantID,
		UserID:     m.UserID,
		Message:    m.Message,
		OccurredAt: m.OccurredAt,
	}
}
