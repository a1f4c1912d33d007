// internal/entity/quality_entity.go
package entity

import "time"

type SenderType string

const (
	SenderAgent    SenderType = "agent"
	SenderCustomer SenderType = "customer"
)

// Session is one customer-service conversation under review. It is owned by the
// quality backend and only changes through a review submission.
type Session struct {
	Id           int64
	Platform     string
	Shop         string
	SessionCode  string
	PriorScore   *int
	PriorComment string
}

type Message struct {
	Id         int64
	SessionId  int64
	SenderType SenderType
	Content    string
	SentAt     time.Time
	Tags       []AssignedTag
}

// AssignedTag is a tag assignment already stored by the backend, either on a
// message or on the session as a whole.
type AssignedTag struct {
	Id    int64 // assignment id
	TagId int64
	Name  string
	Color string
}

type Tag struct {
	Id    int64
	Name  string
	Color string
}

type Rule struct {
	Id       int64
	Name     string
	IsActive bool
}
