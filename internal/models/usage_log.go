package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageLog is one immutable accounting row per successful generation call.
// Rows are append-only; no update or delete path exists.
type UsageLog struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	ModelName    string    `gorm:"type:varchar(255);not null" json:"model_name"`
	InputTokens  int       `gorm:"not null" json:"input_tokens"`
	OutputTokens int       `gorm:"not null" json:"output_tokens"`
	Timestamp    time.Time `gorm:"index;not null" json:"timestamp"`
}

func (UsageLog) TableName() string {
	return "usage_log"
}
