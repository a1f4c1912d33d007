package dto

import (
	"time"

	"quality-review-be/pkg/review"
)

type OpenWorkspaceRequest struct {
	SessionId int64 `json:"session_id" validate:"required,gt=0"`
}

type SelectMessageRequest struct {
	MessageId *int64 `json:"message_id"`
}

type SetRatingRequest struct {
	Rating *int `json:"rating" validate:"required,min=0,max=5"`
}

type SetCommentRequest struct {
	Comment string `json:"comment" validate:"max=10000"`
}

type TagRequest struct {
	Id    int64  `json:"id" validate:"required,gt=0"`
	Name  string `json:"name" validate:"required"`
	Color string `json:"color"`
}

type SetSessionTagsRequest struct {
	Tags []TagRequest `json:"tags" validate:"dive"`
}

// SetMessageTagsRequest targets MessageId, or the selected message when it is omitted.
type SetMessageTagsRequest struct {
	MessageId *int64       `json:"message_id"`
	Tags      []TagRequest `json:"tags" validate:"dive"`
}

type EditMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

type AddCaseRequest struct {
	Reason     string `json:"reason" validate:"required"`
	CategoryId *int64 `json:"category_id"`
}

type SessionResponse struct {
	Id          int64  `json:"id"`
	Platform    string `json:"platform"`
	Shop        string `json:"shop"`
	SessionCode string `json:"session_code"`
	PriorScore  *int   `json:"prior_score"`
}

type MessageResponse struct {
	Id         int64            `json:"id"`
	SenderType string           `json:"sender_type"`
	Content    string           `json:"content"`
	SentAt     *time.Time       `json:"sent_at"`
	Tags       []review.TagView `json:"tags"`
}

type RuleResponse struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}

type WorkspaceResponse struct {
	Id                string            `json:"id"`
	Session           SessionResponse   `json:"session"`
	Messages          []MessageResponse `json:"messages"`
	Rules             []RuleResponse    `json:"rules"`
	Rating            int               `json:"rating"`
	Score             int               `json:"score"`
	Grade             string            `json:"grade"`
	Comment           string            `json:"comment"`
	SessionTags       []review.TagView  `json:"session_tags"`
	SelectedMessageId *int64            `json:"selected_message_id"`
	Warnings          []string          `json:"warnings"`
	RestoredFromDraft bool              `json:"restored_from_draft"`
	OpenedAt          time.Time         `json:"opened_at"`
}

type SessionTagsResponse struct {
	Tags []review.TagView `json:"tags"`
}

type MessageTagsResponse struct {
	MessageId int64            `json:"message_id"`
	Tags      []review.TagView `json:"tags"`
}

type SubmitReviewResponse struct {
	SessionId           int64  `json:"session_id"`
	Score               int    `json:"score"`
	Grade               string `json:"grade"`
	Message             string `json:"message"`
	ResolvedAssignments int    `json:"resolved_assignments"`
}

type CaseStatusResponse struct {
	Exists bool  `json:"exists"`
	CaseId int64 `json:"case_id,omitempty"`
}

type CaseResponse struct {
	Id        int64  `json:"id"`
	SessionId int64  `json:"session_id"`
	Reason    string `json:"reason"`
}
