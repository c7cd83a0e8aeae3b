package model

import "time"

// QuizAttempt 一次提交的不可变记录。评分完成后整体写入，之后不再修改。
// swagger:model QuizAttempt
type QuizAttempt struct {
	UUIDBase
	QuizID           string    `gorm:"index;type:varchar(36)" json:"quizId"`
	UserID           uint      `gorm:"index;type:bigint unsigned" json:"userId"`
	StartedAt        time.Time `json:"startedAt"`
	SubmittedAt      time.Time `json:"submittedAt"`
	TimeSpentSeconds int       `json:"timeSpentSeconds"`
	Score            float64   `json:"score"` // 0-100
	Passed           bool      `gorm:"default:false" json:"passed"`
	PointsEarned     int       `json:"pointsEarned"`
	TotalPoints      int       `json:"totalPoints"`

	Answers []AttemptAnswer `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// AttemptAnswer 每题的作答记录。essay 题 IsCorrect 为 nil（等待人工评阅），
// PointsEarned 恒为 0。
type AttemptAnswer struct {
	UUIDBase
	AttemptID    string `gorm:"index;type:varchar(36)" json:"attemptId"`
	QuestionID   string `gorm:"index;type:varchar(36)" json:"questionId"`
	Payload      string `gorm:"type:json" json:"payload"` // 提交的原始答案 JSON
	IsCorrect    *bool  `json:"isCorrect"`
	PointsEarned int    `gorm:"default:0" json:"pointsEarned"`
}

func (AttemptAnswer) TableName() string {
	return "quiz_attempt_answers"
}
