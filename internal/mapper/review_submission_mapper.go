package mapper

import (
	"quality-review-be/internal/entity"
	"quality-review-be/internal/model"

	"gorm.io/datatypes"
)

type ReviewSubmissionMapper struct{}

func NewReviewSubmissionMapper() *ReviewSubmissionMapper {
	return &ReviewSubmissionMapper{}
}

func (m *ReviewSubmissionMapper) ToEntity(s *model.ReviewSubmission) *entity.ReviewSubmission {
	if s == nil {
		return nil
	}
	return &entity.ReviewSubmission{
		Id:            s.Id,
		SessionId:     s.SessionId,
		ReviewerId:    s.ReviewerId,
		WorkspaceId:   s.WorkspaceId,
		Score:         s.Score,
		Grade:         s.Grade,
		Outcome:       entity.SubmissionOutcome(s.Outcome),
		BackendStatus: s.BackendStatus,
		Message:       s.Message,
		Payload:       []byte(s.Payload),
		CreatedAt:     s.CreatedAt,
	}
}

func (m *ReviewSubmissionMapper) ToModel(s *entity.ReviewSubmission) *model.ReviewSubmission {
	if s == nil {
		return nil
	}
	var payload datatypes.JSON
	if len(s.Payload) > 0 {
		payload = datatypes.JSON(s.Payload)
	}
	return &model.ReviewSubmission{
		Id:            s.Id,
		SessionId:     s.SessionId,
		ReviewerId:    s.ReviewerId,
		WorkspaceId:   s.WorkspaceId,
		Score:         s.Score,
		Grade:         s.Grade,
		Outcome:       string(s.Outcome),
		BackendStatus: s.BackendStatus,
		Message:       s.Message,
		Payload:       payload,
		CreatedAt:     s.CreatedAt,
	}
}

func (m *ReviewSubmissionMapper) ToEntities(rows []*model.ReviewSubmission) []*entity.ReviewSubmission {
	entities := make([]*entity.ReviewSubmission, len(rows))
	for i, r := range rows {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
