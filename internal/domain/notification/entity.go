package notification

import (
	"encoding/json"
	"time"
)

// Type represents notification type
type Type string

const (
	TypeReportApproved Type = "report_approved" // Citizen: report cleared triage
	TypeReportRejected Type = "report_rejected" // Citizen: report rejected with reason
	TypeStatusChanged  Type = "status_changed"  // Citizen: workflow status advanced
	TypeNewResponse    Type = "new_response"    // Citizen: admin posted a response
)

// Notification represents a user notification
type Notification struct {
	ID        int64           `gorm:"primaryKey;column:id" json:"id"`
	UserID    int64           `gorm:"column:user_id;index:idx_notifications_user_unread" json:"user_id"`
	Type      Type            `gorm:"column:type" json:"type"`
	Title     string          `gorm:"column:title" json:"title"`
	Message   string          `gorm:"column:message" json:"message"`
	Data      json.RawMessage `gorm:"column:data" json:"data,omitempty"`
	IsRead    bool            `gorm:"column:is_read;index:idx_notifications_user_unread" json:"is_read"`
	ReadAt    *time.Time      `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
