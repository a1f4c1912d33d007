package mapper

import (
	"time"

	"quality-review-be/internal/entity"
	"quality-review-be/pkg/qualityapi"
	"quality-review-be/pkg/review"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// QualityMapper converts quality backend payloads into domain entities.
type QualityMapper struct{}

func NewQualityMapper() *QualityMapper {
	return &QualityMapper{}
}

func (m *QualityMapper) ToSession(s *qualityapi.Session) entity.Session {
	if s == nil {
		return entity.Session{}
	}
	return entity.Session{
		Id:           s.Id,
		Platform:     s.Platform,
		Shop:         s.Shop,
		SessionCode:  s.SessionCode,
		PriorScore:   s.Score,
		PriorComment: s.Comment,
	}
}

func (m *QualityMapper) ToMessages(sessionId int64, msgs []qualityapi.Message) []entity.Message {
	out := make([]entity.Message, 0, len(msgs))
	for _, msg := range msgs {
		sid := msg.SessionId
		if sid == 0 {
			sid = sessionId
		}
		out = append(out, entity.Message{
			Id:         msg.Id,
			SessionId:  sid,
			SenderType: entity.SenderType(msg.SenderType),
			Content:    msg.Content,
			SentAt:     parseTimestamp(msg.Timestamp),
			Tags:       m.ToAssignedTags(msg.Tags),
		})
	}
	return out
}

// ToAssignedTags tolerates payloads that only carry the tag id in "id".
func (m *QualityMapper) ToAssignedTags(tags []qualityapi.AssignedTag) []entity.AssignedTag {
	out := make([]entity.AssignedTag, 0, len(tags))
	for _, t := range tags {
		tagId := t.TagId
		if tagId == 0 {
			tagId = t.Id
		}
		out = append(out, entity.AssignedTag{
			Id:    t.Id,
			TagId: tagId,
			Name:  t.Name,
			Color: t.Color,
		})
	}
	return out
}

func (m *QualityMapper) ToRules(rules []qualityapi.Rule) []entity.Rule {
	out := make([]entity.Rule, 0, len(rules))
	for _, r := range rules {
		out = append(out, entity.Rule{Id: r.Id, Name: r.Name, IsActive: true})
	}
	return out
}

// ToReviewPayload builds the composite body of POST /quality/sessions/{id}/review.
func (m *QualityMapper) ToReviewPayload(sub review.Submission) *qualityapi.ReviewPayload {
	ruleScores := make([]qualityapi.RuleScore, 0, len(sub.RuleScores))
	for _, rs := range sub.RuleScores {
		ruleScores = append(ruleScores, qualityapi.RuleScore{RuleId: rs.RuleId, Score: rs.Score, Comment: rs.Comment})
	}
	return &qualityapi.ReviewPayload{
		Score:       sub.Score,
		Grade:       sub.Grade,
		RuleScores:  ruleScores,
		Comment:     sub.Comment,
		SessionTags: m.toTagRefs(sub.SessionTags),
		MessageTags: m.toTagRefs(sub.MessageTags),
	}
}

func (m *QualityMapper) toTagRefs(assignments []review.TagAssignment) []qualityapi.TagRef {
	out := make([]qualityapi.TagRef, 0, len(assignments))
	for _, a := range assignments {
		ref := qualityapi.TagRef{
			TagId:     a.TagId,
			MessageId: a.MessageId,
			Name:      a.Name,
			Color:     a.Color,
		}
		if a.Kind == review.AssignmentPersisted {
			ref.AssignmentId = a.Id
		} else {
			ref.TempId = a.TempId
		}
		out = append(out, ref)
	}
	return out
}

func parseTimestamp(raw string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
