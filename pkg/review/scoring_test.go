package review

import (
	"testing"

	"quality-review-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestDeriveScore(t *testing.T) {
	tests := []struct {
		rating int
		want   int
	}{
		{0, 0},
		{1, 20},
		{3, 60},
		{5, 100},
		{-1, 0},
		{7, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveScore(tt.rating), "rating %d", tt.rating)
	}
}

func TestDeriveGrade(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, GradeD},
		{59, GradeD},
		{60, GradeC},
		{79, GradeC},
		{80, GradeB},
		{89, GradeB},
		{90, GradeA},
		{100, GradeA},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveGrade(tt.score), "score %d", tt.score)
	}
}

func TestRatingFromScore(t *testing.T) {
	assert.Equal(t, 0, RatingFromScore(0))
	assert.Equal(t, 3, RatingFromScore(60))
	assert.Equal(t, 4, RatingFromScore(75))
	assert.Equal(t, 5, RatingFromScore(100))
	assert.Equal(t, 5, RatingFromScore(140))
}

func TestBuildRuleScoresBroadcastsTotal(t *testing.T) {
	rules := []entity.Rule{
		{Id: 1, Name: "Greeting", IsActive: true},
		{Id: 2, Name: "Resolution", IsActive: true},
	}

	scores := BuildRuleScores(rules, 80)

	assert.Equal(t, []RuleScore{
		{RuleId: 1, Score: 80, Comment: "Greeting"},
		{RuleId: 2, Score: 80, Comment: "Resolution"},
	}, scores)
	assert.Empty(t, BuildRuleScores(nil, 80))
}
