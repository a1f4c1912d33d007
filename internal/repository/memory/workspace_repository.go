package memory

import (
	"time"

	"quality-review-be/pkg/review"

	"github.com/patrickmn/go-cache"
)

// WorkspaceRepository holds open review workspaces. Reading a workspace refreshes
// its expiry.
type WorkspaceRepository struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewWorkspaceRepository(ttl time.Duration) *WorkspaceRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &WorkspaceRepository{
		cache: cache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

func (r *WorkspaceRepository) Save(ws *review.Workspace) {
	r.cache.Set(ws.Id(), ws, r.ttl)
}

func (r *WorkspaceRepository) Get(id string) (*review.Workspace, bool) {
	x, found := r.cache.Get(id)
	if !found {
		return nil, false
	}
	ws := x.(*review.Workspace)
	r.cache.Set(id, ws, r.ttl)
	return ws, true
}

func (r *WorkspaceRepository) Delete(id string) {
	r.cache.Delete(id)
}

func (r *WorkspaceRepository) Count() int {
	return r.cache.ItemCount()
}
