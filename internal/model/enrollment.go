package model

import "time"

// Enrollment 学员与模块的持久进度记录，由外部选课流程创建。
// 不变量：AttemptCount 只增；BestScore 只升不降；Passed 一旦为 true 不再回退；
// CompletedAt 仅在首次通过时写入一次。
type Enrollment struct {
	BaseModel
	UserID          uint       `gorm:"uniqueIndex:idx_enroll_user_module;type:bigint unsigned" json:"userId"`
	ModuleID        uint       `gorm:"uniqueIndex:idx_enroll_user_module;type:bigint unsigned" json:"moduleId"`
	BestScore       *float64   `json:"bestScore"`
	Passed          bool       `gorm:"default:false" json:"passed"`
	AttemptCount    int        `gorm:"default:0" json:"attemptCount"`
	LastAttemptID   string     `gorm:"type:varchar(36)" json:"lastAttemptId"`
	ProgressPercent int        `gorm:"default:0" json:"progressPercent"`
	CompletedAt     *time.Time `json:"completedAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
