package service

import (
	"context"
	"sync"

	"quality-review-be/internal/entity"
	"quality-review-be/internal/repository/contract"
	"quality-review-be/internal/repository/specification"
	"quality-review-be/internal/repository/unitofwork"
	"quality-review-be/pkg/events"
	"quality-review-be/pkg/qualityapi"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

// fakeBackend serves one session (100) with two messages and two active rules.
type fakeBackend struct {
	mu sync.Mutex

	messagesErr error
	submitErr   error
	updateErr   error
	submitRes   *qualityapi.ReviewResult

	submitted []*qualityapi.ReviewPayload
	updated   map[int64]string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		submitRes: &qualityapi.ReviewResult{Message: "review saved"},
		updated:   make(map[int64]string),
	}
}

func (f *fakeBackend) GetSession(_ context.Context, sessionId int64) (*qualityapi.Session, error) {
	return &qualityapi.Session{Id: sessionId, Platform: "taobao", Shop: "flagship", SessionCode: "S-100", Score: intPtr(80), Comment: "previous"}, nil
}

func (f *fakeBackend) ListMessages(_ context.Context, sessionId int64) ([]qualityapi.Message, error) {
	if f.messagesErr != nil {
		return nil, f.messagesErr
	}
	return []qualityapi.Message{
		{Id: 1, SessionId: sessionId, SenderType: "customer", Content: "hello", Timestamp: "2024-03-01 10:00:00"},
		{Id: 2, SessionId: sessionId, SenderType: "agent", Content: "hi", Timestamp: "2024-03-01 10:00:05",
			Tags: []qualityapi.AssignedTag{{Id: 900, TagId: 9, Name: "Rude", Color: "red"}}},
	}, nil
}

func (f *fakeBackend) ListSessionTags(_ context.Context, _ int64) ([]qualityapi.AssignedTag, error) {
	return []qualityapi.AssignedTag{{Id: 800, TagId: 8, Name: "VIP", Color: "gold"}}, nil
}

func (f *fakeBackend) ListActiveRules(_ context.Context) ([]qualityapi.Rule, error) {
	return []qualityapi.Rule{{Id: 1, Name: "Greeting"}, {Id: 2, Name: "Tone"}}, nil
}

func (f *fakeBackend) UpdateMessage(_ context.Context, messageId int64, content string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated[messageId] = content
	return nil
}

func (f *fakeBackend) SubmitReview(_ context.Context, _ int64, payload *qualityapi.ReviewPayload) (*qualityapi.ReviewResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, payload)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.submitRes, nil
}

func (f *fakeBackend) CheckCase(_ context.Context, sessionId int64) (*qualityapi.CaseStatus, error) {
	return &qualityapi.CaseStatus{Exists: sessionId == 100, CaseId: 12}, nil
}

func (f *fakeBackend) AddCase(_ context.Context, req *qualityapi.CaseRequest) (*qualityapi.Case, error) {
	return &qualityapi.Case{Id: 13, SessionId: req.SessionId, Reason: req.Reason}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ReviewEvent
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.ReviewEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) last() events.ReviewEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

type fakeSubmissionRepo struct {
	mu    sync.Mutex
	rows  []*entity.ReviewSubmission
	specs []specification.Specification
	err   error
}

func (r *fakeSubmissionRepo) Create(_ context.Context, s *entity.ReviewSubmission) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, s)
	return nil
}

func (r *fakeSubmissionRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ReviewSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs = specs
	return r.rows, nil
}

func (r *fakeSubmissionRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

func (r *fakeSubmissionRepo) saved() []*entity.ReviewSubmission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.ReviewSubmission(nil), r.rows...)
}

type fakeUnitOfWork struct {
	repo       *fakeSubmissionRepo
	began      bool
	committed  bool
	rolledBack bool
}

func (u *fakeUnitOfWork) Begin(context.Context) error { u.began = true; return nil }
func (u *fakeUnitOfWork) Commit() error               { u.committed = true; return nil }
func (u *fakeUnitOfWork) Rollback() error             { u.rolledBack = true; return nil }

func (u *fakeUnitOfWork) ReviewSubmissionRepository() contract.ReviewSubmissionRepository {
	return u.repo
}

type fakeFactory struct {
	repo *fakeSubmissionRepo
}

func (f *fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{repo: f.repo}
}
