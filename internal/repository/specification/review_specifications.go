package specification

import "gorm.io/gorm"

type BySessionID struct {
	SessionID int64
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByReviewerID struct {
	ReviewerID string
}

func (s ByReviewerID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("reviewer_id = ?", s.ReviewerID)
}

type ByOutcome struct {
	Outcome string
}

func (s ByOutcome) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("outcome = ?", s.Outcome)
}
