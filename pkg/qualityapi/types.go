package qualityapi

// Wire types of the quality-inspection backend.

type Session struct {
	Id          int64  `json:"id"`
	Platform    string `json:"platform"`
	Shop        string `json:"shop"`
	SessionCode string `json:"session_code"`
	Score       *int   `json:"score"`
	Comment     string `json:"comment"`
}

type AssignedTag struct {
	Id    int64  `json:"id"`
	TagId int64  `json:"tag_id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Message struct {
	Id         int64         `json:"id"`
	SessionId  int64         `json:"session_id"`
	SenderType string        `json:"sender_type"`
	Content    string        `json:"content"`
	Timestamp  string        `json:"timestamp"`
	Tags       []AssignedTag `json:"tags"`
}

type Rule struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}

type RuleScore struct {
	RuleId  int64  `json:"rule_id"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// TagRef is one tag assignment in a review submission. Pending assignments carry
// TempId so the backend can report the ids it stored them under.
type TagRef struct {
	TagId        int64  `json:"tag_id"`
	MessageId    *int64 `json:"message_id,omitempty"`
	AssignmentId int64  `json:"assignment_id,omitempty"`
	TempId       string `json:"temp_id,omitempty"`
	Name         string `json:"name"`
	Color        string `json:"color"`
}

type ReviewPayload struct {
	Score       int         `json:"score"`
	Grade       string      `json:"grade"`
	RuleScores  []RuleScore `json:"rule_scores"`
	Comment     string      `json:"comment"`
	SessionTags []TagRef    `json:"session_tags"`
	MessageTags []TagRef    `json:"message_tags"`
}

type ResolvedAssignment struct {
	TempId string `json:"temp_id"`
	Id     int64  `json:"id"`
}

type ReviewResult struct {
	Message     string               `json:"-"`
	Assignments []ResolvedAssignment `json:"assignments"`
}

type CaseStatus struct {
	Exists bool  `json:"exists"`
	CaseId int64 `json:"case_id,omitempty"`
}

type CaseRequest struct {
	SessionId  int64  `json:"session_id"`
	Reason     string `json:"reason"`
	CategoryId *int64 `json:"category_id,omitempty"`
}

type Case struct {
	Id        int64  `json:"id"`
	SessionId int64  `json:"session_id"`
	Reason    string `json:"reason"`
}
