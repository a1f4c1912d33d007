package dto

import (
	"time"

	"github.com/google/uuid"
)

type ListSubmissionsRequest struct {
	SessionId  int64  `query:"session_id" validate:"omitempty,gt=0"`
	ReviewerId string `query:"reviewer_id"`
	Outcome    string `query:"outcome" validate:"omitempty,oneof=succeeded failed"`
	Page       int    `query:"page" validate:"omitempty,min=1"`
	PageSize   int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}

type SubmissionResponse struct {
	Id            uuid.UUID `json:"id"`
	SessionId     int64     `json:"session_id"`
	ReviewerId    string    `json:"reviewer_id"`
	WorkspaceId   string    `json:"workspace_id"`
	Score         int       `json:"score"`
	Grade         string    `json:"grade"`
	Outcome       string    `json:"outcome"`
	BackendStatus int       `json:"backend_status"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"created_at"`
}

type ListSubmissionsResponse struct {
	Items    []*SubmissionResponse `json:"items"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}
