package models

import (
	"time"

	"gorm.io/gorm"
)

// ActivityLog is one recorded API request.
type ActivityLog struct {
	ID           string         `gorm:"primaryKey" json:"id"`
	Method       string         `gorm:"type:varchar(10);not null" json:"method"`
	Path         string         `gorm:"type:varchar(255);not null" json:"path"`
	UserAgent    string         `json:"user_agent"`
	IPAddress    string         `gorm:"type:varchar(45)" json:"ip_address"`
	RequestBody  string         `json:"request_body,omitempty"`
	QueryParams  string         `json:"query_params,omitempty"`
	StatusCode   int            `gorm:"not null" json:"status_code"`
	ResponseTime int64          `gorm:"not null" json:"response_time"` // milliseconds
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
