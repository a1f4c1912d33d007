package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ReviewSubmission struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId     int64          `gorm:"not null;index"`
	ReviewerId    string         `gorm:"type:varchar(64);not null;index"`
	WorkspaceId   string         `gorm:"type:varchar(64)"`
	Score         int            `gorm:"not null;default:0"`
	Grade         string         `gorm:"type:varchar(2);not null"`
	Outcome       string         `gorm:"type:varchar(16);not null;index"`
	BackendStatus int            `gorm:"default:0"`
	Message       string         `gorm:"type:text"`
	Payload       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index"`
}

func (ReviewSubmission) TableName() string {
	return "review_submissions"
}
