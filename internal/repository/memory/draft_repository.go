package memory

import (
	"context"

	"quality-review-be/pkg/review"

	"github.com/patrickmn/go-cache"
)

// DraftRepository keeps encoded drafts in process memory. Drafts never expire.
type DraftRepository struct {
	cache *cache.Cache
}

func NewDraftRepository() *DraftRepository {
	return &DraftRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *DraftRepository) Get(_ context.Context, sessionId int64) (*review.Draft, error) {
	x, found := r.cache.Get(review.DraftKey(sessionId))
	if !found {
		return nil, nil
	}
	data, ok := x.([]byte)
	if !ok {
		return nil, nil
	}
	draft, ok := review.DecodeDraft(data)
	if !ok {
		return nil, nil
	}
	return draft, nil
}

func (r *DraftRepository) Put(_ context.Context, sessionId int64, draft *review.Draft) error {
	data, err := review.EncodeDraft(draft)
	if err != nil {
		return err
	}
	r.cache.Set(review.DraftKey(sessionId), data, cache.NoExpiration)
	return nil
}

func (r *DraftRepository) Delete(_ context.Context, sessionId int64) error {
	r.cache.Delete(review.DraftKey(sessionId))
	return nil
}

// PutRaw stores bytes as-is; used to simulate a corrupted draft.
func (r *DraftRepository) PutRaw(sessionId int64, data []byte) {
	r.cache.Set(review.DraftKey(sessionId), data, cache.NoExpiration)
}
