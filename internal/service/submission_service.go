package service

import (
	"context"

	"quality-review-be/internal/dto"
	"quality-review-be/internal/repository/specification"
	"quality-review-be/internal/repository/unitofwork"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ISubmissionService interface {
	List(ctx context.Context, req *dto.ListSubmissionsRequest) (*dto.ListSubmissionsResponse, error)
}

type submissionService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewSubmissionService(uowFactory unitofwork.RepositoryFactory) ISubmissionService {
	return &submissionService{uowFactory: uowFactory}
}

// List returns the audit trail newest first.
func (s *submissionService) List(ctx context.Context, req *dto.ListSubmissionsRequest) (*dto.ListSubmissionsResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filters := make([]specification.Specification, 0, 3)
	if req.SessionId != 0 {
		filters = append(filters, specification.BySessionID{SessionID: req.SessionId})
	}
	if req.ReviewerId != "" {
		filters = append(filters, specification.ByReviewerID{ReviewerID: req.ReviewerId})
	}
	if req.Outcome != "" {
		filters = append(filters, specification.ByOutcome{Outcome: req.Outcome})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ReviewSubmissionRepository()

	total, err := repo.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	query := append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: pageSize, Offset: (page - 1) * pageSize},
	)
	rows, err := repo.FindAll(ctx, query...)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.SubmissionResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, &dto.SubmissionResponse{
			Id:            r.Id,
			SessionId:     r.SessionId,
			ReviewerId:    r.ReviewerId,
			WorkspaceId:   r.WorkspaceId,
			Score:         r.Score,
			Grade:         r.Grade,
			Outcome:       string(r.Outcome),
			BackendStatus: r.BackendStatus,
			Message:       r.Message,
			CreatedAt:     r.CreatedAt,
		})
	}

	return &dto.ListSubmissionsResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
