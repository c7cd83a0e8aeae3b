package model

// QuestionType 封闭枚举，评分引擎按类型路由
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	MultipleAnswer QuestionType = "multiple_answer"
	Identification QuestionType = "identification"
	FillBlank      QuestionType = "fill_blank"
	Essay          QuestionType = "essay"
)

// ValidQuestionType 校验题型是否在封闭枚举内
func ValidQuestionType(t QuestionType) bool {
	switch t {
	case MultipleChoice, TrueFalse, MultipleAnswer, Identification, FillBlank, Essay:
		return true
	}
	return false
}

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	ModuleID         uint   `gorm:"index;type:bigint unsigned" json:"moduleId"`
	Title            string `gorm:"size:255;not null" json:"title"`
	Description      string `gorm:"type:text" json:"description"`
	PassingScore     int    `gorm:"default:70" json:"passingScore"` // 百分比 0-100
	TimeLimitSeconds int    `gorm:"default:0" json:"timeLimitSeconds"`
	MaxAttempts      int    `gorm:"default:0" json:"maxAttempts"` // 0 表示不限次数
	ShuffleQuestions bool   `gorm:"default:false" json:"shuffleQuestions"`
	IsPublished      bool   `gorm:"default:false" json:"isPublished"`

	Questions []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion 服务端权威题目，仅在评分引擎内部使用，绝不直接下发给学生
type QuizQuestion struct {
	UUIDBase
	QuizID        string       `gorm:"index;type:varchar(36)" json:"quizId"`
	QuestionType  QuestionType `gorm:"size:50;not null" json:"questionType"`
	Prompt        string       `gorm:"type:text;not null" json:"prompt"`
	Points        int          `gorm:"default:1" json:"points"`
	CaseSensitive bool         `gorm:"default:false" json:"caseSensitive"` // 仅 identification/fill_blank 有意义
	MediaURL      string       `gorm:"size:512" json:"mediaUrl,omitempty"`
	Order         int          `gorm:"default:0" json:"order"`
	Explanation   string       `gorm:"type:text" json:"explanation"`

	Options []QuizOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

type QuizOption struct {
	UUIDBase
	QuestionID string `gorm:"index;type:varchar(36)" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
	Order      int    `gorm:"default:0" json:"order"`
}

func (QuizOption) TableName() string {
	return "quiz_options"
}

// 学生可见视图。刻意使用独立类型而不是在权威类型上省略字段：
// 结构上就不存在 isCorrect / 标准答案，序列化时不可能泄漏。

// swagger:model StudentQuiz
type StudentQuiz struct {
	ID               string            `json:"id"`
	ModuleID         uint              `json:"moduleId"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	PassingScore     int               `json:"passingScore"`
	TimeLimitSeconds int               `json:"timeLimitSeconds"`
	MaxAttempts      int               `json:"maxAttempts"`
	QuestionCount    int               `json:"questionCount"`
	TotalPoints      int               `json:"totalPoints"`
	Questions        []StudentQuestion `json:"questions"`
}

type StudentQuestion struct {
	ID           string          `json:"id"`
	QuestionType QuestionType    `json:"questionType"`
	Prompt       string          `json:"prompt"`
	Points       int             `json:"points"`
	MediaURL     string          `json:"mediaUrl,omitempty"`
	Order        int             `json:"order"`
	Options      []StudentOption `json:"options,omitempty"`
}

type StudentOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// StudentView 将权威定义裁剪为学生视图。essay 题没有选项可下发。
func (q *Quiz) StudentView() *StudentQuiz {
	sq := &StudentQuiz{
		ID:               q.ID,
		ModuleID:         q.ModuleID,
		Title:            q.Title,
		Description:      q.Description,
		PassingScore:     q.PassingScore,
		TimeLimitSeconds: q.TimeLimitSeconds,
		MaxAttempts:      q.MaxAttempts,
		QuestionCount:    len(q.Questions),
		Questions:        make([]StudentQuestion, len(q.Questions)),
	}
	for i, question := range q.Questions {
		sq.TotalPoints += question.Points
		s := StudentQuestion{
			ID:           question.ID,
			QuestionType: question.QuestionType,
			Prompt:       question.Prompt,
			Points:       question.Points,
			MediaURL:     question.MediaURL,
			Order:        question.Order,
		}
		if question.QuestionType != Essay {
			s.Options = make([]StudentOption, len(question.Options))
			for j, opt := range question.Options {
				s.Options[j] = StudentOption{ID: opt.ID, Text: opt.Text}
			}
		}
		sq.Questions[i] = s
	}
	return sq
}
