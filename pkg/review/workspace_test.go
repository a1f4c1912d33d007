package review

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"quality-review-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func hydration() Hydration {
	return Hydration{
		SessionId: 100,
		Session: Ok(entity.Session{
			Id: 100, Platform: "taobao", Shop: "flagship", SessionCode: "S-100",
			PriorScore: intPtr(80), PriorComment: "previous",
		}),
		Messages: Ok([]entity.Message{
			{Id: 1, SessionId: 100, SenderType: entity.SenderCustomer, Content: "hello"},
			{Id: 2, SessionId: 100, SenderType: entity.SenderAgent, Content: "hi",
				Tags: []entity.AssignedTag{{Id: 900, TagId: tagRude.Id, Name: tagRude.Name, Color: tagRude.Color}}},
		}),
		SessionTags: Ok([]entity.AssignedTag{{Id: 800, TagId: tagVIP.Id, Name: tagVIP.Name, Color: tagVIP.Color}}),
		Rules:       Ok([]entity.Rule{{Id: 1, Name: "Greeting", IsActive: true}, {Id: 2, Name: "Tone", IsActive: true}}),
	}
}

func TestNewWorkspaceSeedsFromServerWithoutDraft(t *testing.T) {
	w := NewWorkspace("ws-1", "rev-1", hydration(), nil, sequentialTempIds(), time.Now())
	s := w.Snapshot()

	assert.Equal(t, 4, s.Rating)
	assert.Equal(t, "previous", s.Comment)
	assert.False(t, s.RestoredFromDraft)
	assert.Empty(t, s.Warnings)
	assert.Len(t, s.Assignments, 2)

	tags, err := w.CurrentTagsForMessage(2)
	require.NoError(t, err)
	assert.Equal(t, []TagView{{Id: tagRude.Id, Name: tagRude.Name, Color: tagRude.Color}}, tags)
}

func TestNewWorkspaceDraftTakesPrecedence(t *testing.T) {
	draft := NewDraft(2, []TagAssignment{
		{Kind: AssignmentPending, TempId: "tmp-d", TagId: tagSlow.Id, MessageId: int64Ptr(1), Name: "Slow"},
	}, "from draft", time.Now())

	w := NewWorkspace("ws-1", "rev-1", hydration(), draft, sequentialTempIds(), time.Now())
	s := w.Snapshot()

	assert.True(t, s.RestoredFromDraft)
	assert.Equal(t, 2, s.Rating)
	assert.Equal(t, "from draft", s.Comment)
	require.Len(t, s.Assignments, 1)
	assert.Equal(t, "tmp-d", s.Assignments[0].TempId)
}

func TestNewWorkspaceDegradesOnFailedFetches(t *testing.T) {
	h := Hydration{
		SessionId:   55,
		Session:     Failed[entity.Session](errors.New("timeout")),
		Messages:    Failed[[]entity.Message](errors.New("boom")),
		SessionTags: Ok([]entity.AssignedTag{}),
		Rules:       Failed[[]entity.Rule](errors.New("503")),
	}

	w := NewWorkspace("ws", "rev", h, nil, nil, time.Now())
	s := w.Snapshot()

	assert.Equal(t, int64(55), s.Session.Id)
	assert.NotNil(t, s.Messages)
	assert.Empty(t, s.Messages)
	assert.Equal(t, []string{"session: timeout", "messages: boom", "rules: 503"}, s.Warnings)

	sub, err := w.Submission()
	require.NoError(t, err)
	assert.Empty(t, sub.RuleScores)
}

func TestSetMessageTagsRequiresSelection(t *testing.T) {
	w := NewWorkspace("ws", "rev", hydration(), nil, sequentialTempIds(), time.Now())

	_, _, err := w.SetMessageTags(nil, []entity.Tag{tagVIP})
	assert.ErrorIs(t, err, ErrNoMessageSelected)

	require.NoError(t, w.SelectMessage(int64Ptr(1)))
	id, views, err := w.SetMessageTags(nil, []entity.Tag{tagVIP})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Len(t, views, 1)

	_, _, err = w.SetMessageTags(int64Ptr(999), []entity.Tag{tagVIP})
	assert.ErrorIs(t, err, ErrUnknownMessage)
	assert.ErrorIs(t, w.SelectMessage(int64Ptr(999)), ErrUnknownMessage)

	require.NoError(t, w.SelectMessage(nil))
	assert.Nil(t, w.Snapshot().SelectedMessageId)
}

func TestSetRatingBounds(t *testing.T) {
	w := NewWorkspace("ws", "rev", hydration(), nil, nil, time.Now())

	assert.ErrorIs(t, w.SetRating(6), ErrInvalidRating)
	assert.ErrorIs(t, w.SetRating(-1), ErrInvalidRating)
	assert.NoError(t, w.SetRating(0))
	assert.Equal(t, 0, w.Snapshot().Rating)
}

func TestSubmissionBuildsCompositePayload(t *testing.T) {
	w := NewWorkspace("ws", "rev", hydration(), nil, sequentialTempIds(), time.Now())
	require.NoError(t, w.SetRating(3))
	w.SetComment("needs work")
	w.SetSessionTags([]entity.Tag{tagSpoof})

	sub, err := w.Submission()
	require.NoError(t, err)

	assert.Equal(t, int64(100), sub.SessionId)
	assert.Equal(t, 60, sub.Score)
	assert.Equal(t, GradeC, sub.Grade)
	assert.Equal(t, "needs work", sub.Comment)
	assert.Equal(t, []RuleScore{
		{RuleId: 1, Score: 60, Comment: "Greeting"},
		{RuleId: 2, Score: 60, Comment: "Tone"},
	}, sub.RuleScores)
	require.Len(t, sub.SessionTags, 1)
	assert.Equal(t, tagSpoof.Id, sub.SessionTags[0].TagId)
	require.Len(t, sub.MessageTags, 1)
	assert.Equal(t, int64(900), sub.MessageTags[0].Id)
}

func TestDraftSnapshotMatchesState(t *testing.T) {
	w := NewWorkspace("ws", "rev", hydration(), nil, sequentialTempIds(), time.Now())
	require.NoError(t, w.SetRating(5))
	w.SetComment("great")

	at := time.UnixMilli(1234)
	d := w.Draft(at)

	assert.Equal(t, 5, d.Rating)
	assert.Equal(t, "great", d.EditContent)
	assert.Equal(t, int64(1234), d.Timestamp)
	assert.Equal(t, w.Snapshot().Assignments, d.Tags)
}

func TestUpdateMessageContent(t *testing.T) {
	w := NewWorkspace("ws", "rev", hydration(), nil, nil, time.Now())

	require.NoError(t, w.UpdateMessageContent(1, "edited"))
	assert.Equal(t, "edited", w.Snapshot().Messages[0].Content)
	assert.ErrorIs(t, w.UpdateMessageContent(3, "x"), ErrUnknownMessage)
}

func TestPersistDraftStoresLatestStateUnderConcurrentEdits(t *testing.T) {
	w := NewWorkspace("ws-1", "rev-1", hydration(), nil, sequentialTempIds(), time.Now())

	var stored *Draft
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w.SetComment(fmt.Sprintf("comment-%d", i))
			err := w.PersistDraft(time.Now(), func(d *Draft) error {
				// slower writes for earlier edits
				time.Sleep(time.Duration(50-i) * 10 * time.Microsecond)
				stored = d
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	require.NotNil(t, stored)
	assert.Equal(t, w.Snapshot().Comment, stored.EditContent)
}
