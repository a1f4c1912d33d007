package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubmissionOutcome string

const (
	SubmissionSucceeded SubmissionOutcome = "succeeded"
	SubmissionFailed    SubmissionOutcome = "failed"
)

// ReviewSubmission is one attempt to submit a review, kept as an audit trail.
type ReviewSubmission struct {
	Id            uuid.UUID
	SessionId     int64
	ReviewerId    string
	WorkspaceId   string
	Score         int
	Grade         string
	Outcome       SubmissionOutcome
	BackendStatus int
	Message       string
	Payload       []byte // JSON sent to the quality backend
	CreatedAt     time.Time
}
