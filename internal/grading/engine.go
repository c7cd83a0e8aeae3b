package grading

import (
	"fmt"
	"math"
	"strings"

	"github.com/Sean-Brix/RiderMind-sub000/internal/model"
)

// Answer is one submitted answer in the wire shape. Exactly one payload
// field is valid for a given question type; anything else is a malformed
// submission and the whole grading run is rejected.
type Answer struct {
	QuestionID        string   `json:"questionId"`
	SelectedOptionID  string   `json:"selectedOptionId,omitempty"`
	SelectedOptionIDs []string `json:"selectedOptionIds,omitempty"`
	AnswerText        string   `json:"answerText,omitempty"`
}

// AnswerRecord is the graded outcome for a single question, in quiz order.
// IsCorrect is nil for essays (pending manual review) and for unanswered
// questions.
type AnswerRecord struct {
	QuestionID   string  `json:"questionId"`
	Answered     bool    `json:"answered"`
	Submitted    *Answer `json:"submitted,omitempty"`
	IsCorrect    *bool   `json:"isCorrect"`
	PointsEarned int     `json:"pointsEarned"`
	PointsWorth  int     `json:"pointsWorth"`
}

// Summary aggregates one grading run.
type Summary struct {
	Records        []AnswerRecord `json:"records"`
	PointsEarned   int            `json:"pointsEarned"`
	TotalPoints    int            `json:"totalPoints"`
	Score          float64        `json:"score"` // round(100 * earned/total)，总分为 0 时定义为 0
	CorrectAnswers int            `json:"correctAnswers"`
	TotalQuestions int            `json:"totalQuestions"`
}

// MalformedError 表示提交整体非法：答案形状与题型不符、题目不存在、重复作答。
// 整份提交被拒绝，不做部分评分。
type MalformedError struct {
	QuestionID string
	Reason     string
}

func (e *MalformedError) Error() string {
	if e.QuestionID == "" {
		return "malformed submission: " + e.Reason
	}
	return fmt.Sprintf("malformed submission: question %s: %s", e.QuestionID, e.Reason)
}

// strategy grades a single answered question. Returns (correct, earned).
// 评分是纯函数：同样的 (题目, 答案) 永远得到同样的结果。
type strategy interface {
	validate(q *model.QuizQuestion, a *Answer) error
	grade(q *model.QuizQuestion, a *Answer) (isCorrect *bool, earned int)
}

var strategies = map[model.QuestionType]strategy{
	model.MultipleChoice: singleChoiceStrategy{},
	model.TrueFalse:      singleChoiceStrategy{},
	model.MultipleAnswer: multiAnswerStrategy{},
	model.Identification: textMatchStrategy{},
	model.FillBlank:      textMatchStrategy{},
	model.Essay:          essayStrategy{},
}

// GradeQuiz 以权威题目定义为准对一组提交答案评分。
// questions 的顺序决定 Records 的顺序；answers 中缺席的题目按未作答计 0 分。
func GradeQuiz(questions []model.QuizQuestion, answers []Answer) (*Summary, error) {
	known := make(map[string]*model.QuizQuestion, len(questions))
	for i := range questions {
		known[questions[i].ID] = &questions[i]
	}

	byQuestion := make(map[string]*Answer, len(answers))
	for i := range answers {
		a := &answers[i]
		if a.QuestionID == "" {
			return nil, &MalformedError{Reason: "answer missing questionId"}
		}
		if _, ok := known[a.QuestionID]; !ok {
			return nil, &MalformedError{QuestionID: a.QuestionID, Reason: "unknown question"}
		}
		if _, dup := byQuestion[a.QuestionID]; dup {
			return nil, &MalformedError{QuestionID: a.QuestionID, Reason: "duplicate answer"}
		}
		byQuestion[a.QuestionID] = a
	}

	// 先整体校验形状：任何一题非法都拒绝全部，不产生部分结果
	for qid, a := range byQuestion {
		q := known[qid]
		s, ok := strategies[q.QuestionType]
		if !ok {
			return nil, &MalformedError{QuestionID: qid, Reason: "unknown question type " + string(q.QuestionType)}
		}
		if err := s.validate(q, a); err != nil {
			return nil, err
		}
	}

	sum := &Summary{
		Records:        make([]AnswerRecord, 0, len(questions)),
		TotalQuestions: len(questions),
	}

	for i := range questions {
		q := &questions[i]
		sum.TotalPoints += q.Points

		rec := AnswerRecord{QuestionID: q.ID, PointsWorth: q.Points}
		if a, ok := byQuestion[q.ID]; ok {
			rec.Answered = true
			rec.Submitted = a
			rec.IsCorrect, rec.PointsEarned = strategies[q.QuestionType].grade(q, a)
			if rec.IsCorrect != nil && *rec.IsCorrect {
				sum.CorrectAnswers++
			}
			sum.PointsEarned += rec.PointsEarned
		}
		sum.Records = append(sum.Records, rec)
	}

	// 零分母退化情形：全卷 0 分时得分定义为 0，不做除法
	if sum.TotalPoints > 0 {
		sum.Score = math.Round(100 * float64(sum.PointsEarned) / float64(sum.TotalPoints))
	}
	return sum, nil
}

// --- strategies ---

type singleChoiceStrategy struct{}

func (singleChoiceStrategy) validate(q *model.QuizQuestion, a *Answer) error {
	if a.SelectedOptionID == "" || len(a.SelectedOptionIDs) > 0 || a.AnswerText != "" {
		return &MalformedError{QuestionID: q.ID, Reason: "expected a single selectedOptionId"}
	}
	return nil
}

func (singleChoiceStrategy) grade(q *model.QuizQuestion, a *Answer) (*bool, int) {
	correct := false
	for _, opt := range q.Options {
		if opt.IsCorrect && opt.ID == a.SelectedOptionID {
			correct = true
			break
		}
	}
	if correct {
		return boolPtr(true), q.Points
	}
	// 无效/不存在的选项 ID 与答错同等对待
	return boolPtr(false), 0
}

type multiAnswerStrategy struct{}

func (multiAnswerStrategy) validate(q *model.QuizQuestion, a *Answer) error {
	if len(a.SelectedOptionIDs) == 0 || a.SelectedOptionID != "" || a.AnswerText != "" {
		return &MalformedError{QuestionID: q.ID, Reason: "expected selectedOptionIds"}
	}
	return nil
}

func (multiAnswerStrategy) grade(q *model.QuizQuestion, a *Answer) (*bool, int) {
	want := make(map[string]struct{})
	for _, opt := range q.Options {
		if opt.IsCorrect {
			want[opt.ID] = struct{}{}
		}
	}
	got := make(map[string]struct{}, len(a.SelectedOptionIDs))
	for _, id := range a.SelectedOptionIDs {
		got[id] = struct{}{}
	}
	// 严格集合相等：子集、超集都不得分，不给部分分
	if len(want) > 0 && setEqual(want, got) {
		return boolPtr(true), q.Points
	}
	return boolPtr(false), 0
}

type textMatchStrategy struct{}

func (textMatchStrategy) validate(q *model.QuizQuestion, a *Answer) error {
	if a.AnswerText == "" || a.SelectedOptionID != "" || len(a.SelectedOptionIDs) > 0 {
		return &MalformedError{QuestionID: q.ID, Reason: "expected answerText"}
	}
	return nil
}

func (textMatchStrategy) grade(q *model.QuizQuestion, a *Answer) (*bool, int) {
	accepted := ""
	for _, opt := range q.Options {
		if opt.IsCorrect {
			accepted = opt.Text
			break
		}
	}
	got := strings.TrimSpace(a.AnswerText)
	want := strings.TrimSpace(accepted)
	match := false
	if q.CaseSensitive {
		match = got == want
	} else {
		match = strings.EqualFold(got, want)
	}
	if match && want != "" {
		return boolPtr(true), q.Points
	}
	return boolPtr(false), 0
}

type essayStrategy struct{}

func (essayStrategy) validate(q *model.QuizQuestion, a *Answer) error {
	if a.AnswerText == "" || a.SelectedOptionID != "" || len(a.SelectedOptionIDs) > 0 {
		return &MalformedError{QuestionID: q.ID, Reason: "expected answerText"}
	}
	return nil
}

// essay 永不自动评分：isCorrect 悬置为 nil 等待人工评阅，自动得分恒为 0。
// 含 essay 的试卷因此无法仅靠自动评分拿满分，这是记录在案的产品行为。
func (essayStrategy) grade(q *model.QuizQuestion, a *Answer) (*bool, int) {
	return nil, 0
}

// --- helpers ---

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func boolPtr(b bool) *bool { return &b }
