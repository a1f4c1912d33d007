package review

import "quality-review-be/internal/entity"

const (
	MaxRating     = 5
	pointsPerStar = 20
)

const (
	GradeA = "A"
	GradeB = "B"
	GradeC = "C"
	GradeD = "D"

	gradeAThreshold = 90
	gradeBThreshold = 80
	gradeCThreshold = 60
)

// DeriveScore maps a 0-5 star rating to a 0-100 score. 0 means unrated.
func DeriveScore(rating int) int {
	return ClampRating(rating) * pointsPerStar
}

func DeriveGrade(score int) string {
	switch {
	case score >= gradeAThreshold:
		return GradeA
	case score >= gradeBThreshold:
		return GradeB
	case score >= gradeCThreshold:
		return GradeC
	default:
		return GradeD
	}
}

// RatingFromScore is the inverse used to seed a rating from a prior server score.
func RatingFromScore(score int) int {
	return ClampRating((score + pointsPerStar/2) / pointsPerStar)
}

func ClampRating(rating int) int {
	if rating < 0 {
		return 0
	}
	if rating > MaxRating {
		return MaxRating
	}
	return rating
}

func ValidRating(rating int) bool {
	return rating >= 0 && rating <= MaxRating
}

type RuleScore struct {
	RuleId  int64  `json:"rule_id"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// BuildRuleScores gives every active rule the overall score, with the rule name as
// comment. Per-rule scores are not collected by the review workflow; change the
// policy here if the backend starts expecting independent scores.
func BuildRuleScores(rules []entity.Rule, totalScore int) []RuleScore {
	scores := make([]RuleScore, 0, len(rules))
	for _, r := range rules {
		scores = append(scores, RuleScore{
			RuleId:  r.Id,
			Score:   totalScore,
			Comment: r.Name,
		})
	}
	return scores
}
