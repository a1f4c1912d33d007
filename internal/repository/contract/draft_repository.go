package contract

import (
	"context"

	"quality-review-be/pkg/review"
)

// DraftRepository persists one review draft per session id. Get returns nil, nil
// when no readable draft exists.
type DraftRepository interface {
	Get(ctx context.Context, sessionId int64) (*review.Draft, error)
	Put(ctx context.Context, sessionId int64, draft *review.Draft) error
	Delete(ctx context.Context, sessionId int64) error
}
