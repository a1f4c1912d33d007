package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftKeyIsDeterministic(t *testing.T) {
	assert.Equal(t, "session_review_draft_42", DraftKey(42))
	assert.Equal(t, DraftKey(7), DraftKey(7))
	assert.NotEqual(t, DraftKey(7), DraftKey(8))
}

func TestDraftRoundTrip(t *testing.T) {
	msg := int64(11)
	tests := []struct {
		name    string
		rating  int
		tags    []TagAssignment
		comment string
	}{
		{name: "empty", rating: 0, tags: nil, comment: ""},
		{name: "unicode comment", rating: 3, comment: "客服态度很好 👍 ok"},
		{
			name:   "mixed tags",
			rating: 5,
			tags: []TagAssignment{
				{Kind: AssignmentPersisted, Id: 9, TagId: 1, Name: "VIP", Color: "#f59e0b"},
				{Kind: AssignmentPending, TempId: "tmp-1", TagId: 2, MessageId: &msg, Name: "Rude", Color: "red"},
			},
			comment: "line one\nline two",
		},
	}

	at := time.UnixMilli(1700000000123)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDraft(tt.rating, tt.tags, tt.comment, at)
			data, err := EncodeDraft(d)
			require.NoError(t, err)

			got, ok := DecodeDraft(data)
			require.True(t, ok)
			assert.Equal(t, d, got)
		})
	}
}

func TestDraftJSONShape(t *testing.T) {
	data, err := EncodeDraft(NewDraft(2, nil, "hi", time.UnixMilli(5)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"rating":2,"tags":[],"editContent":"hi","timestamp":5}`, string(data))
}

func TestDecodeDraftMalformedIsAbsent(t *testing.T) {
	for _, raw := range []string{"", "{", "not json", `{"rating":"five"}`} {
		d, ok := DecodeDraft([]byte(raw))
		assert.False(t, ok, raw)
		assert.Nil(t, d, raw)
	}
}

func TestDecodeDraftClampsRating(t *testing.T) {
	d, ok := DecodeDraft([]byte(`{"rating":9,"editContent":"x"}`))
	require.True(t, ok)
	assert.Equal(t, 5, d.Rating)
	assert.NotNil(t, d.Tags)
}
