package score

// Subject is one (session, theme) pair, unique as a pair. The session label
// distinguishes assessment rounds that reuse theme codes. Students have no
// struct of their own: the store only ever handles their surrogate id and
// external_id separately.
type Subject struct {
	ID      int64  `json:"id"`
	Session string `json:"session"`
	Theme   string `json:"theme"`
}

// SubmitRequest is the input of the upsert workflow.
type SubmitRequest struct {
	ExternalID string `json:"external_id"`
	Session    string `json:"session"`
	ThemeCode  string `json:"theme_code"`
	Score      int64  `json:"score"`
	MaxScore   int64  `json:"max_score"`
}

// Receipt echoes the accepted submission.
type Receipt struct {
	ExternalID string `json:"external_id"`
	ThemeCode  string `json:"theme_code"`
	Score      int64  `json:"score"`
	MaxScore   int64  `json:"max_score"`
}

// Entry is one row of a student's score history.
type Entry struct {
	ThemeCode string `json:"theme_code"`
	Session   string `json:"session"`
	Score     int64  `json:"score"`
	MaxScore  int64  `json:"max_score"`
	UpdatedAt int64  `json:"updated_at"` // unix millis
}

// QuizSession is one appended run summary. Nullable fields stay nil when the
// caller sent nothing usable for them.
type QuizSession struct {
	SessionID         string  `json:"session_id"`
	StartedAt         *string `json:"started_at"`
	CompletedAt       string  `json:"completed_at"`
	NumThemes         *int64  `json:"num_themes"`
	NumQuestionsTotal *int64  `json:"num_questions_total"`
	NumCorrectTotal   *int64  `json:"num_correct_total"`
	Themes            *string `json:"themes"` // serialized JSON list
}
