package contract

import "quality-review-be/pkg/review"

type WorkspaceRepository interface {
	Save(ws *review.Workspace)
	Get(id string) (*review.Workspace, bool)
	Delete(id string)
}
