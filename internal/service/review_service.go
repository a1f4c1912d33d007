package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"quality-review-be/internal/dto"
	"quality-review-be/internal/entity"
	"quality-review-be/internal/mapper"
	"quality-review-be/internal/pkg/logger"
	"quality-review-be/internal/repository/contract"
	"quality-review-be/pkg/events"
	"quality-review-be/pkg/qualityapi"
	"quality-review-be/pkg/review"

	"github.com/google/uuid"
)

var (
	ErrWorkspaceNotFound = errors.New("review workspace not found or expired")
	ErrForbidden         = errors.New("review workspace belongs to another reviewer")
)

const defaultSubmitMessage = "Review submitted"

// QualityBackend is the slice of the quality backend API the review flow uses.
type QualityBackend interface {
	GetSession(ctx context.Context, sessionId int64) (*qualityapi.Session, error)
	ListMessages(ctx context.Context, sessionId int64) ([]qualityapi.Message, error)
	ListSessionTags(ctx context.Context, sessionId int64) ([]qualityapi.AssignedTag, error)
	ListActiveRules(ctx context.Context) ([]qualityapi.Rule, error)
	UpdateMessage(ctx context.Context, messageId int64, content string) error
	SubmitReview(ctx context.Context, sessionId int64, payload *qualityapi.ReviewPayload) (*qualityapi.ReviewResult, error)
	CheckCase(ctx context.Context, sessionId int64) (*qualityapi.CaseStatus, error)
	AddCase(ctx context.Context, req *qualityapi.CaseRequest) (*qualityapi.Case, error)
}

type IReviewService interface {
	Open(ctx context.Context, reviewerId string, req *dto.OpenWorkspaceRequest) (*dto.WorkspaceResponse, error)
	Show(ctx context.Context, reviewerId, workspaceId string) (*dto.WorkspaceResponse, error)
	Close(ctx context.Context, reviewerId, workspaceId string) error
	SelectMessage(ctx context.Context, reviewerId, workspaceId string, req *dto.SelectMessageRequest) (*dto.WorkspaceResponse, error)
	SetRating(ctx context.Context, reviewerId, workspaceId string, req *dto.SetRatingRequest) (*dto.WorkspaceResponse, error)
	SetComment(ctx context.Context, reviewerId, workspaceId string, req *dto.SetCommentRequest) (*dto.WorkspaceResponse, error)
	SetSessionTags(ctx context.Context, reviewerId, workspaceId string, req *dto.SetSessionTagsRequest) (*dto.SessionTagsResponse, error)
	SetMessageTags(ctx context.Context, reviewerId, workspaceId string, req *dto.SetMessageTagsRequest) (*dto.MessageTagsResponse, error)
	MessageTags(ctx context.Context, reviewerId, workspaceId string, messageId int64) (*dto.MessageTagsResponse, error)
	Preview(ctx context.Context, reviewerId, workspaceId string) (*qualityapi.ReviewPayload, error)
	Submit(ctx context.Context, reviewerId, workspaceId string) (*dto.SubmitReviewResponse, error)
	EditMessage(ctx context.Context, reviewerId, workspaceId string, messageId int64, req *dto.EditMessageRequest) (*dto.MessageResponse, error)
	CheckCase(ctx context.Context, reviewerId, workspaceId string) (*dto.CaseStatusResponse, error)
	AddCase(ctx context.Context, reviewerId, workspaceId string, req *dto.AddCaseRequest) (*dto.CaseResponse, error)
}

// ReviewServiceOption overrides clocks and id generators, mostly for tests.
type ReviewServiceOption func(*reviewService)

func WithClock(now func() time.Time) ReviewServiceOption {
	return func(s *reviewService) { s.now = now }
}

func WithTempIds(fn review.TempIdFunc) ReviewServiceOption {
	return func(s *reviewService) { s.newTempId = fn }
}

type reviewService struct {
	backend    QualityBackend
	drafts     contract.DraftRepository
	workspaces contract.WorkspaceRepository
	publisher  IPublisherService
	mapper     *mapper.QualityMapper
	logger     logger.ILogger

	now       func() time.Time
	newTempId review.TempIdFunc
}

func NewReviewService(
	backend QualityBackend,
	drafts contract.DraftRepository,
	workspaces contract.WorkspaceRepository,
	publisher IPublisherService,
	log logger.ILogger,
	opts ...ReviewServiceOption,
) IReviewService {
	s := &reviewService{
		backend:    backend,
		drafts:     drafts,
		workspaces: workspaces,
		publisher:  publisher,
		mapper:     mapper.NewQualityMapper(),
		logger:     log,
		now:        time.Now,
		newTempId:  review.DefaultTempId,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *reviewService) Open(ctx context.Context, reviewerId string, req *dto.OpenWorkspaceRequest) (*dto.WorkspaceResponse, error) {
	h := s.hydrate(ctx, req.SessionId)

	draft, draftErr := s.drafts.Get(ctx, req.SessionId)
	if draftErr != nil {
		s.logger.Warn("ReviewService", "Draft unreadable, starting from server state", map[string]interface{}{
			"session_id": req.SessionId,
			"error":      draftErr,
		})
		draft = nil
	}

	ws := review.NewWorkspace(uuid.NewString(), reviewerId, h, draft, s.newTempId, s.now())
	s.workspaces.Save(ws)

	// Seed the draft only from a complete hydration, otherwise a later open would
	// restore the gaps over the server's data. A failed read may hide a stored
	// draft, so it is never overwritten here.
	if draft == nil && draftErr == nil && h.Session.OK() && h.Messages.OK() && h.SessionTags.OK() {
		s.saveDraft(ctx, ws)
	}

	s.logger.Info("ReviewService", "Workspace opened", map[string]interface{}{
		"workspace_id":        ws.Id(),
		"session_id":          req.SessionId,
		"reviewer_id":         reviewerId,
		"restored_from_draft": draft != nil,
	})
	res := s.toWorkspaceResponse(ws.Snapshot())
	if draftErr != nil {
		res.Warnings = append(res.Warnings, "draft: "+draftErr.Error())
	}
	return res, nil
}

// hydrate runs the four initial fetches concurrently. Each one fails on its own.
func (s *reviewService) hydrate(ctx context.Context, sessionId int64) review.Hydration {
	h := review.Hydration{SessionId: sessionId}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		session, err := s.backend.GetSession(ctx, sessionId)
		if err != nil {
			h.Session = review.Failed[entity.Session](err)
			return
		}
		h.Session = review.Ok(s.mapper.ToSession(session))
	}()

	go func() {
		defer wg.Done()
		msgs, err := s.backend.ListMessages(ctx, sessionId)
		if err != nil {
			h.Messages = review.Failed[[]entity.Message](err)
			return
		}
		h.Messages = review.Ok(s.mapper.ToMessages(sessionId, msgs))
	}()

	go func() {
		defer wg.Done()
		tags, err := s.backend.ListSessionTags(ctx, sessionId)
		if err != nil {
			h.SessionTags = review.Failed[[]entity.AssignedTag](err)
			return
		}
		h.SessionTags = review.Ok(s.mapper.ToAssignedTags(tags))
	}()

	go func() {
		defer wg.Done()
		rules, err := s.backend.ListActiveRules(ctx)
		if err != nil {
			h.Rules = review.Failed[[]entity.Rule](err)
			return
		}
		h.Rules = review.Ok(s.mapper.ToRules(rules))
	}()

	wg.Wait()

	for name, err := range map[string]error{
		"session":      h.Session.Err,
		"messages":     h.Messages.Err,
		"session_tags": h.SessionTags.Err,
		"rules":        h.Rules.Err,
	} {
		if err != nil {
			s.logger.Warn("ReviewService", "Hydration fetch failed", map[string]interface{}{
				"session_id": sessionId,
				"fetch":      name,
				"error":      err,
			})
		}
	}
	return h
}

func (s *reviewService) Show(ctx context.Context, reviewerId, workspaceId string) (*dto.WorkspaceResponse, error) {
	ws, err := s.lookup(reviewerId, workspaceId)
	if err != nil {
		return nil, err
	}
	return s.toWorkspaceResponse(ws.Snapshot()), nil
}

// Close drops the workspace and keeps its draft. Closing twice is not an error.
func (s *reviewService) Close(ctx context.Context, reviewerId, workspaceId string) error {
	ws, err := s.lookup(reviewerId, workspaceId)
	if errors.Is(err, ErrWorkspaceNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	s.workspaces.Delete(ws.Id())
	return nil
}

func (s *reviewService) SelectMessage(ctx context.Context, reviewerId, workspaceId string, req *dto.SelectMessageRequest) (*dto.WorkspaceResponse, error) {
	ws, err := s.lookup(reviewerId, workspaceId)
	if err != nil {
		return nil, err
	}
	if err := ws.SelectMessage(req.MessageId); err != nil {
		return nil, err
	}
	return s.toWorkspaceResponse(ws.Snapshot()), nil
}

func (s *reviewService) SetRating(ctx context.Context, reviewerId, workspaceId string, req *dto.SetRatingRequest) (*dto.WorkspaceResponse, error) {
	ws, err := s.lookup(reviewerId, workspaceId)
	if err != nil {
		return nil, err
	}
	if req.Rating == nil {
		return nil, review.ErrInvalidRating
	}
	if err := ws.SetRating(*req.Rating); err != nil {
		return nil, err
	}
	s.saveDraft(ctx, ws)
	return s.toWorkspaceResponse(ws.Snapshot()), nil
}

func (s *reviewService) SetComment(ctx context.Context, reviewerId, workspaceId string, req *dto.SetCommentRequest) (*dto.WorkspaceResponse, error) {
	ws, err := s.lookup(reviewerId, workspaceId)
	if err != nil {
		return nil, err
	}
	ws.SetComment(req.Comment)
	s.saveDraft(ctx, ws)
	return s.toWorkspaceResponse(ws.Snapshot()), nil
}

func (s *reviewService) SetSessionTags(ctx context.Context, reviewerId, workspaceId string, req *dto.SetSessionTagsRequest) (*dto.SessionTagsResponse, error) {
	ws, err := s.lookup(reviewerId, workspaceId)
	if err != nil {
		return nil, err
	}
	views := ws.SetSessionTags(toTags(req.Tags))
	s.saveDraft(ctx, ws)
	return &dto.SessionTagsResponse{Tags: views}, nil
}

func (s *reviewService) SetMessageTags(ctx context.Context, reviewerId, workspaceId string, req *dto.SetMessageTagsRequest) (*dto.MessageTagsResponse, error) {
	ws, err := s.lookup(reviewerId, workspaceId)
	if err != nil {
		return nil, err
	}
	messageId, views, err := ws.SetMessageTags(req.MessageId, toTags(req.Tags))
	if err != nil {
		return nil, err
	}
	s.saveDraft(ctx, ws)
	return &dto.MessageTagsResponse{MessageId: messageId, Tags: views}, nil
}

func (s *reviewService) MessageTags(ctx context.Context, reviewerId, workspaceId string, messageId int64) (*dto.MessageTagsResponse, error) {
	ws, err := s.lookup(reviewerId, workspaceId)
	if err != nil {
		return nil, err
	}
	views, err := ws.CurrentTagsForMessage(messageId)
	if err != nil {
		return nil, err
	}
	return &dto.MessageTagsResponse{MessageId: messageId, Tags: views}, nil
}

func (s *reviewService) Preview(ctx context.Context, reviewerId, workspaceId string) (*qualityapi.ReviewPayload, error) {
	ws, err := s.lookup(reviewerId, workspaceId)
	if err != nil {
		return nil, err
	}
	sub, err := ws.Submission()
	if err != nil {
		return nil, err
	}
	return s.mapper.ToReviewPayload(sub), nil
}

// Submit posts the composite review once. On failure nothing local changes: the
// workspace stays open and the draft stays stored.
func (s *reviewService) Submit(ctx context.Context, reviewerId, workspaceId string) (*dto.SubmitReviewResponse, error) {
	ws, err := s.lookup(reviewerId, workspaceId)
	if err != nil {
		return nil, err
	}
	sub, err := ws.Submission()
	if err != nil {
		return nil, err
	}

	payload := s.mapper.ToReviewPayload(sub)
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	evt := events.ReviewEvent{
		SessionId:   sub.SessionId,
		ReviewerId:  reviewerId,
		WorkspaceId: ws.Id(),
		Score:       sub.Score,
		Grade:       sub.Grade,
		Submission:  raw,
		OccurredAt:  s.now(),
	}

	res, err := s.backend.SubmitReview(ctx, sub.SessionId, payload)
	if err != nil {
		evt.Type = events.ReviewFailed
		evt.Message = err.Error()
		if apiErr, ok := qualityapi.AsAPIError(err); ok {
			evt.BackendStatus = apiErr.StatusCode
			evt.Message = apiErr.Message
		}
		s.logger.Error("ReviewService", "Review submission failed", map[string]interface{}{
			"workspace_id": ws.Id(),
			"session_id":   sub.SessionId,
			"error":        err,
		})
		s.publish(ctx, evt)
		return nil, err
	}

	resolved := 0
	if len(res.Assignments) > 0 {
		ids := make(map[string]int64, len(res.Assignments))
		for _, a := range res.Assignments {
			ids[a.TempId] = a.Id
		}
		resolved = ws.ResolvePending(ids)
	}

	if err := s.drafts.Delete(ctx, sub.SessionId); err != nil {
		s.logger.Error("ReviewService", "Failed to clear draft after submission", map[string]interface{}{
			"session_id": sub.SessionId,
			"error":      err,
		})
	}
	s.workspaces.Delete(ws.Id())

	message := res.Message
	if message == "" {
		message = defaultSubmitMessage
	}
	evt.Type = events.ReviewSubmitted
	evt.Message = message
	s.publish(ctx, evt)

	s.logger.Info("ReviewService", "Review submitted", map[string]interface{}{
		"workspace_id": ws.Id(),
		"session_id":   sub.SessionId,
		"score":        sub.Score,
		"grade":        sub.Grade,
	})

	return &dto.SubmitReviewResponse{
		SessionId:           sub.SessionId,
		Score:               sub.Score,
		Grade:               sub.Grade,
		Message:             message,
		ResolvedAssignments: resolved,
	}, nil
}

// EditMessage updates the backend first and mirrors the change only when it succeeds.
func (s *reviewService) EditMessage(ctx context.Context, reviewerId, workspaceId string, messageId int64, req *dto.EditMessageRequest) (*dto.MessageResponse, error) {
	ws, err := s.lookup(reviewerId, workspaceId)
	if err != nil {
		return nil, err
	}
	if _, err := ws.CurrentTagsForMessage(messageId); err != nil {
		return nil, err
	}
	if err := s.backend.UpdateMessage(ctx, messageId, req.Content); err != nil {
		return nil, err
	}
	if err := ws.UpdateMessageContent(messageId, req.Content); err != nil {
		return nil, err
	}

	state := ws.Snapshot()
	for _, m := range state.Messages {
		if m.Id == messageId {
			res := toMessageResponse(m, state.Assignments)
			return &res, nil
		}
	}
	return nil, review.ErrUnknownMessage
}

func (s *reviewService) CheckCase(ctx context.Context, reviewerId, workspaceId string) (*dto.CaseStatusResponse, error) {
	ws, err := s.lookup(reviewerId, workspaceId)
	if err != nil {
		return nil, err
	}
	status, err := s.backend.CheckCase(ctx, ws.SessionId())
	if err != nil {
		return nil, err
	}
	return &dto.CaseStatusResponse{Exists: status.Exists, CaseId: status.CaseId}, nil
}

func (s *reviewService) AddCase(ctx context.Context, reviewerId, workspaceId string, req *dto.AddCaseRequest) (*dto.CaseResponse, error) {
	ws, err := s.lookup(reviewerId, workspaceId)
	if err != nil {
		return nil, err
	}
	c, err := s.backend.AddCase(ctx, &qualityapi.CaseRequest{
		SessionId:  ws.SessionId(),
		Reason:     req.Reason,
		CategoryId: req.CategoryId,
	})
	if err != nil {
		return nil, err
	}
	return &dto.CaseResponse{Id: c.Id, SessionId: c.SessionId, Reason: c.Reason}, nil
}

func (s *reviewService) lookup(reviewerId, workspaceId string) (*review.Workspace, error) {
	ws, ok := s.workspaces.Get(workspaceId)
	if !ok {
		return nil, ErrWorkspaceNotFound
	}
	if ws.ReviewerId() != reviewerId {
		return nil, ErrForbidden
	}
	return ws, nil
}

// saveDraft overwrites the session's draft. A failed write is logged and does not
// undo the edit.
func (s *reviewService) saveDraft(ctx context.Context, ws *review.Workspace) {
	sessionId := ws.SessionId()
	err := ws.PersistDraft(s.now(), func(d *review.Draft) error {
		return s.drafts.Put(ctx, sessionId, d)
	})
	if err != nil {
		s.logger.Error("ReviewService", "Failed to save draft", map[string]interface{}{
			"session_id": sessionId,
			"error":      err,
		})
	}
}

func (s *reviewService) publish(ctx context.Context, evt events.ReviewEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("ReviewService", "Failed to publish review event", map[string]interface{}{
			"event_type": evt.EventType(),
			"error":      err,
		})
	}
}

func toTags(in []dto.TagRequest) []entity.Tag {
	out := make([]entity.Tag, 0, len(in))
	for _, t := range in {
		out = append(out, entity.Tag{Id: t.Id, Name: t.Name, Color: t.Color})
	}
	return out
}

func (s *reviewService) toWorkspaceResponse(state review.State) *dto.WorkspaceResponse {
	messages := make([]dto.MessageResponse, 0, len(state.Messages))
	for _, m := range state.Messages {
		messages = append(messages, toMessageResponse(m, state.Assignments))
	}

	rules := make([]dto.RuleResponse, 0, len(state.Rules))
	for _, r := range state.Rules {
		rules = append(rules, dto.RuleResponse{Id: r.Id, Name: r.Name})
	}

	sessionTags := make([]review.TagView, 0)
	for _, a := range state.Assignments {
		if a.IsSessionTag() {
			sessionTags = append(sessionTags, a.View())
		}
	}

	score := review.DeriveScore(state.Rating)
	return &dto.WorkspaceResponse{
		Id: state.Id,
		Session: dto.SessionResponse{
			Id:          state.Session.Id,
			Platform:    state.Session.Platform,
			Shop:        state.Session.Shop,
			SessionCode: state.Session.SessionCode,
			PriorScore:  state.Session.PriorScore,
		},
		Messages:          messages,
		Rules:             rules,
		Rating:            state.Rating,
		Score:             score,
		Grade:             review.DeriveGrade(score),
		Comment:           state.Comment,
		SessionTags:       sessionTags,
		SelectedMessageId: state.SelectedMessageId,
		Warnings:          state.Warnings,
		RestoredFromDraft: state.RestoredFromDraft,
		OpenedAt:          state.OpenedAt,
	}
}

func toMessageResponse(m entity.Message, assignments []review.TagAssignment) dto.MessageResponse {
	tags := make([]review.TagView, 0)
	for _, a := range assignments {
		if a.MessageId != nil && *a.MessageId == m.Id {
			tags = append(tags, a.View())
		}
	}

	var sentAt *time.Time
	if !m.SentAt.IsZero() {
		t := m.SentAt
		sentAt = &t
	}
	return dto.MessageResponse{
		Id:         m.Id,
		SenderType: string(m.SenderType),
		Content:    m.Content,
		SentAt:     sentAt,
		Tags:       tags,
	}
}
