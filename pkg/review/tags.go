package review

import (
	"fmt"
	"time"

	"quality-review-be/internal/entity"

	"github.com/google/uuid"
)

type AssignmentKind string

const (
	AssignmentPersisted AssignmentKind = "persisted"
	AssignmentPending   AssignmentKind = "pending"
)

// TagAssignment attaches a tag to the session (MessageId == nil) or to one message.
// Persisted records carry the backend assignment id, pending ones a client temp id.
type TagAssignment struct {
	Kind      AssignmentKind `json:"kind"`
	Id        int64          `json:"id,omitempty"`
	TempId    string         `json:"temp_id,omitempty"`
	TagId     int64          `json:"tag_id,omitempty"`
	MessageId *int64         `json:"message_id"`
	Name      string         `json:"name"`
	Color     string         `json:"color"`
}

func (a TagAssignment) IsSessionTag() bool {
	return a.MessageId == nil
}

func (a TagAssignment) belongsTo(messageId int64) bool {
	return a.MessageId != nil && *a.MessageId == messageId
}

// TagView is the display projection of an assignment. Id is the real tag id when
// known; otherwise only TempId is set.
type TagView struct {
	Id     int64  `json:"id,omitempty"`
	TempId string `json:"temp_id,omitempty"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}

func (a TagAssignment) View() TagView {
	if a.TagId != 0 {
		return TagView{Id: a.TagId, Name: a.Name, Color: a.Color}
	}
	return TagView{TempId: a.TempId, Name: a.Name, Color: a.Color}
}

// TempIdFunc produces client-side ids for assignments the backend has not stored yet.
type TempIdFunc func() string

func DefaultTempId() string {
	return fmt.Sprintf("tmp-%d-%s", time.Now().UnixMilli(), uuid.NewString())
}

// Engine keeps the session-level and message-level tag assignments of one review.
// It is not safe for concurrent use; the owning Workspace serializes access.
type Engine struct {
	assignments []TagAssignment
	newTempId   TempIdFunc
}

func NewEngine(newTempId TempIdFunc) *Engine {
	if newTempId == nil {
		newTempId = DefaultTempId
	}
	return &Engine{newTempId: newTempId}
}

// Restore replaces the whole collection, e.g. from a draft or from hydrated backend data.
// Duplicate (tag, message) pairs are collapsed, first one wins.
func (e *Engine) Restore(assignments []TagAssignment) {
	e.assignments = make([]TagAssignment, 0, len(assignments))
	seen := make(map[string]struct{}, len(assignments))
	for _, a := range assignments {
		k := assignmentKey(a)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		e.assignments = append(e.assignments, copyAssignment(a))
	}
}

// Assignments returns a copy of the collection.
func (e *Engine) Assignments() []TagAssignment {
	out := make([]TagAssignment, len(e.assignments))
	for i, a := range e.assignments {
		out[i] = copyAssignment(a)
	}
	return out
}

// SetSessionTags replaces every session-level assignment with tags.
func (e *Engine) SetSessionTags(tags []entity.Tag) {
	existing := make(map[int64]TagAssignment)
	kept := e.assignments[:0:0]
	for _, a := range e.assignments {
		if a.IsSessionTag() {
			existing[a.TagId] = a
			continue
		}
		kept = append(kept, a)
	}

	for _, tag := range dedupTags(tags) {
		kept = append(kept, e.stamp(tag, nil, existing[tag.Id]))
	}
	e.assignments = kept
}

// SetMessageTags drops every assignment of messageId and inserts one per tag.
func (e *Engine) SetMessageTags(messageId int64, tags []entity.Tag) {
	existing := make(map[int64]TagAssignment)
	kept := e.assignments[:0:0]
	for _, a := range e.assignments {
		if a.belongsTo(messageId) {
			existing[a.TagId] = a
			continue
		}
		kept = append(kept, a)
	}

	for _, tag := range dedupTags(tags) {
		id := messageId
		kept = append(kept, e.stamp(tag, &id, existing[tag.Id]))
	}
	e.assignments = kept
}

func (e *Engine) CurrentTagsForMessage(messageId int64) []TagView {
	views := make([]TagView, 0)
	for _, a := range e.assignments {
		if a.belongsTo(messageId) {
			views = append(views, a.View())
		}
	}
	return views
}

func (e *Engine) SessionTags() []TagView {
	views := make([]TagView, 0)
	for _, a := range e.assignments {
		if a.IsSessionTag() {
			views = append(views, a.View())
		}
	}
	return views
}

// MessageAssignments returns the message-level records only.
func (e *Engine) MessageAssignments() []TagAssignment {
	out := make([]TagAssignment, 0)
	for _, a := range e.assignments {
		if !a.IsSessionTag() {
			out = append(out, copyAssignment(a))
		}
	}
	return out
}

// ResolvePending turns pending records into persisted ones once the backend has
// returned their assignment ids. Unknown temp ids are ignored.
func (e *Engine) ResolvePending(ids map[string]int64) int {
	resolved := 0
	for i, a := range e.assignments {
		if a.Kind != AssignmentPending {
			continue
		}
		if id, ok := ids[a.TempId]; ok {
			e.assignments[i].Kind = AssignmentPersisted
			e.assignments[i].Id = id
			e.assignments[i].TempId = ""
			resolved++
		}
	}
	return resolved
}

func (e *Engine) stamp(tag entity.Tag, messageId *int64, prev TagAssignment) TagAssignment {
	a := TagAssignment{
		TagId:     tag.Id,
		MessageId: messageId,
		Name:      tag.Name,
		Color:     tag.Color,
	}
	if prev.Kind == AssignmentPersisted && prev.Id != 0 {
		a.Kind = AssignmentPersisted
		a.Id = prev.Id
		return a
	}
	if prev.Kind == AssignmentPending && prev.TempId != "" {
		a.Kind = AssignmentPending
		a.TempId = prev.TempId
		return a
	}
	a.Kind = AssignmentPending
	a.TempId = e.newTempId()
	return a
}

func dedupTags(tags []entity.Tag) []entity.Tag {
	out := make([]entity.Tag, 0, len(tags))
	seen := make(map[int64]struct{}, len(tags))
	for _, t := range tags {
		if _, dup := seen[t.Id]; dup {
			continue
		}
		seen[t.Id] = struct{}{}
		out = append(out, t)
	}
	return out
}

func assignmentKey(a TagAssignment) string {
	tag := fmt.Sprintf("t%d", a.TagId)
	if a.TagId == 0 {
		tag = "p" + a.TempId
	}
	if a.MessageId == nil {
		return "s:" + tag
	}
	return fmt.Sprintf("m%d:%s", *a.MessageId, tag)
}

func copyAssignment(a TagAssignment) TagAssignment {
	if a.MessageId != nil {
		id := *a.MessageId
		a.MessageId = &id
	}
	return a
}
