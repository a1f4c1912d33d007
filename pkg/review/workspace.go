package review

import (
	"errors"
	"sync"
	"time"

	"quality-review-be/internal/entity"
)

var (
	ErrUnknownMessage    = errors.New("message does not belong to this session")
	ErrNoMessageSelected = errors.New("no message selected")
	ErrInvalidRating     = errors.New("rating must be between 0 and 5")
	ErrSessionNotLoaded  = errors.New("session is not loaded")
)

// Hydration is everything fetched from the quality backend when a review opens.
type Hydration struct {
	SessionId   int64
	Session     Result[entity.Session]
	Messages    Result[[]entity.Message]
	SessionTags Result[[]entity.AssignedTag]
	Rules       Result[[]entity.Rule]
}

// Workspace is the live state of one reviewer working on one session.
type Workspace struct {
	mu sync.Mutex
	// serializes PersistDraft so the last write carries the newest state
	persistMu sync.Mutex

	id         string
	reviewerId string
	openedAt   time.Time

	session  entity.Session
	messages []entity.Message
	rules    []entity.Rule
	engine   *Engine

	rating   int
	comment  string
	selected *int64

	warnings  []string
	fromDraft bool
}

// State is a point-in-time copy of a Workspace.
type State struct {
	Id                string
	ReviewerId        string
	OpenedAt          time.Time
	Session           entity.Session
	Messages          []entity.Message
	Rules             []entity.Rule
	Assignments       []TagAssignment
	Rating            int
	Comment           string
	SelectedMessageId *int64
	Warnings          []string
	RestoredFromDraft bool
}

// NewWorkspace builds the workspace from hydrated data. A non-nil draft wins over the
// server's last known rating, tags and comment.
func NewWorkspace(id, reviewerId string, h Hydration, draft *Draft, newTempId TempIdFunc, now time.Time) *Workspace {
	w := &Workspace{
		id:         id,
		reviewerId: reviewerId,
		openedAt:   now,
		session:    h.Session.OrElse(entity.Session{Id: h.SessionId}),
		messages:   h.Messages.OrElse([]entity.Message{}),
		rules:      h.Rules.OrElse([]entity.Rule{}),
		engine:     NewEngine(newTempId),
	}
	if w.session.Id == 0 {
		w.session.Id = h.SessionId
	}

	if !h.Session.OK() {
		w.warnings = append(w.warnings, "session: "+h.Session.Err.Error())
	}
	if !h.Messages.OK() {
		w.warnings = append(w.warnings, "messages: "+h.Messages.Err.Error())
	}
	if !h.SessionTags.OK() {
		w.warnings = append(w.warnings, "session tags: "+h.SessionTags.Err.Error())
	}
	if !h.Rules.OK() {
		w.warnings = append(w.warnings, "rules: "+h.Rules.Err.Error())
	}

	if draft != nil {
		w.rating = ClampRating(draft.Rating)
		w.comment = draft.EditContent
		w.engine.Restore(draft.Tags)
		w.fromDraft = true
		return w
	}

	if w.session.PriorScore != nil {
		w.rating = RatingFromScore(*w.session.PriorScore)
	}
	w.comment = w.session.PriorComment
	w.engine.Restore(serverAssignments(w.messages, h.SessionTags.OrElse(nil)))
	return w
}

func serverAssignments(messages []entity.Message, sessionTags []entity.AssignedTag) []TagAssignment {
	out := make([]TagAssignment, 0)
	for _, t := range sessionTags {
		out = append(out, persisted(t, nil))
	}
	for _, m := range messages {
		for _, t := range m.Tags {
			id := m.Id
			out = append(out, persisted(t, &id))
		}
	}
	return out
}

func persisted(t entity.AssignedTag, messageId *int64) TagAssignment {
	return TagAssignment{
		Kind:      AssignmentPersisted,
		Id:        t.Id,
		TagId:     t.TagId,
		MessageId: messageId,
		Name:      t.Name,
		Color:     t.Color,
	}
}

func (w *Workspace) Id() string {
	return w.id
}

func (w *Workspace) ReviewerId() string {
	return w.reviewerId
}

func (w *Workspace) SessionId() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.Id
}

func (w *Workspace) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Workspace) snapshotLocked() State {
	var selected *int64
	if w.selected != nil {
		id := *w.selected
		selected = &id
	}
	messages := make([]entity.Message, len(w.messages))
	copy(messages, w.messages)
	rules := make([]entity.Rule, len(w.rules))
	copy(rules, w.rules)
	warnings := make([]string, len(w.warnings))
	copy(warnings, w.warnings)

	return State{
		Id:                w.id,
		ReviewerId:        w.reviewerId,
		OpenedAt:          w.openedAt,
		Session:           w.session,
		Messages:          messages,
		Rules:             rules,
		Assignments:       w.engine.Assignments(),
		Rating:            w.rating,
		Comment:           w.comment,
		SelectedMessageId: selected,
		Warnings:          warnings,
		RestoredFromDraft: w.fromDraft,
	}
}

// Draft snapshots rating, tags and comment for persistence.
func (w *Workspace) Draft(now time.Time) *Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return NewDraft(w.rating, w.engine.Assignments(), w.comment, now)
}

// PersistDraft snapshots the draft and passes it to save. Calls run one at a time
// and each snapshot is taken after the previous save returned.
func (w *Workspace) PersistDraft(now time.Time, save func(*Draft) error) error {
	w.persistMu.Lock()
	defer w.persistMu.Unlock()
	return save(w.Draft(now))
}

// SelectMessage selects messageId, or clears the selection when nil.
func (w *Workspace) SelectMessage(messageId *int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if messageId == nil {
		w.selected = nil
		return nil
	}
	if !w.hasMessage(*messageId) {
		return ErrUnknownMessage
	}
	id := *messageId
	w.selected = &id
	return nil
}

func (w *Workspace) SetRating(rating int) error {
	if !ValidRating(rating) {
		return ErrInvalidRating
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rating = rating
	return nil
}

func (w *Workspace) SetComment(comment string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.comment = comment
}

func (w *Workspace) SetSessionTags(tags []entity.Tag) []TagView {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.engine.SetSessionTags(tags)
	return w.engine.SessionTags()
}

// SetMessageTags edits the tags of messageId, falling back to the selected message.
func (w *Workspace) SetMessageTags(messageId *int64, tags []entity.Tag) (int64, []TagView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	target := w.selected
	if messageId != nil {
		target = messageId
	}
	if target == nil {
		return 0, nil, ErrNoMessageSelected
	}
	if !w.hasMessage(*target) {
		return 0, nil, ErrUnknownMessage
	}
	w.engine.SetMessageTags(*target, tags)
	return *target, w.engine.CurrentTagsForMessage(*target), nil
}

func (w *Workspace) CurrentTagsForMessage(messageId int64) ([]TagView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.hasMessage(messageId) {
		return nil, ErrUnknownMessage
	}
	return w.engine.CurrentTagsForMessage(messageId), nil
}

// UpdateMessageContent mirrors a message edit the backend has already accepted.
func (w *Workspace) UpdateMessageContent(messageId int64, content string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.messages {
		if w.messages[i].Id == messageId {
			w.messages[i].Content = content
			return nil
		}
	}
	return ErrUnknownMessage
}

func (w *Workspace) ResolvePending(ids map[string]int64) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.engine.ResolvePending(ids)
}

// Submission is the composite review built from the current state.
type Submission struct {
	SessionId   int64
	Score       int
	Grade       string
	RuleScores  []RuleScore
	Comment     string
	SessionTags []TagAssignment
	MessageTags []TagAssignment
}

func (w *Workspace) Submission() (Submission, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.session.Id == 0 {
		return Submission{}, ErrSessionNotLoaded
	}

	score := DeriveScore(w.rating)
	sessionTags := make([]TagAssignment, 0)
	for _, a := range w.engine.Assignments() {
		if a.IsSessionTag() {
			sessionTags = append(sessionTags, a)
		}
	}

	return Submission{
		SessionId:   w.session.Id,
		Score:       score,
		Grade:       DeriveGrade(score),
		RuleScores:  BuildRuleScores(w.rules, score),
		Comment:     w.comment,
		SessionTags: sessionTags,
		MessageTags: w.engine.MessageAssignments(),
	}, nil
}

func (w *Workspace) hasMessage(id int64) bool {
	for _, m := range w.messages {
		if m.Id == id {
			return true
		}
	}
	return false
}
