package review

import (
	"encoding/json"
	"fmt"
	"time"
)

const draftKeyPrefix = "session_review_draft_"

// Draft is the locally persisted snapshot of an unsaved review.
type Draft struct {
	Rating      int             `json:"rating"`
	Tags        []TagAssignment `json:"tags"`
	EditContent string          `json:"editContent"`
	Timestamp   int64           `json:"timestamp"`
}

func DraftKey(sessionId int64) string {
	return fmt.Sprintf("%s%d", draftKeyPrefix, sessionId)
}

func NewDraft(rating int, tags []TagAssignment, comment string, at time.Time) *Draft {
	if tags == nil {
		tags = []TagAssignment{}
	}
	return &Draft{
		Rating:      ClampRating(rating),
		Tags:        tags,
		EditContent: comment,
		Timestamp:   at.UnixMilli(),
	}
}

func EncodeDraft(d *Draft) ([]byte, error) {
	return json.Marshal(d)
}

// DecodeDraft treats anything it cannot read as "no draft".
func DecodeDraft(data []byte) (*Draft, bool) {
	if len(data) == 0 {
		return nil, false
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, false
	}
	d.Rating = ClampRating(d.Rating)
	if d.Tags == nil {
		d.Tags = []TagAssignment{}
	}
	return &d, true
}
