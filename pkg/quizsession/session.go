// Package quizsession 实现客户端作答会话的有限状态机。
//
// 会话只依赖学生视图（model.StudentQuiz），结构上拿不到任何正确答案；
// 评分永远发生在服务端。导航、倒计时、提交都作为具名事件进入同一个
// transition 函数，使“只有第一个触发者生效”的竞态保护收敛为一次状态比较。
package quizsession

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/Sean-Brix/RiderMind-sub000/internal/model"
)

// State 会话状态。Failed 是限时耗尽且强制提交失败后的终态：
// 时间已到，不能回到 InProgress，但答案保留以便人工重试。
type State string

const (
	NotStarted State = "not_started"
	InProgress State = "in_progress"
	Submitting State = "submitting"
	Completed  State = "completed"
	Failed     State = "failed"
)

var (
	ErrNotInProgress   = errors.New("session not in progress")
	ErrAlreadyStarted  = errors.New("session already started")
	ErrUnknownQuestion = errors.New("question not in this quiz")
	ErrWrongAnswerKind = errors.New("answer kind does not match question type")
	ErrNotCompleted    = errors.New("session not completed")
)

// AnswerPayload 提交给服务端的单题答案，与 POST /quizzes/{id}/submit 的
// wire 形状一致。未作答的题目直接省略。
type AnswerPayload struct {
	QuestionID        string   `json:"questionId"`
	SelectedOptionID  string   `json:"selectedOptionId,omitempty"`
	SelectedOptionIDs []string `json:"selectedOptionIds,omitempty"`
	AnswerText        string   `json:"answerText,omitempty"`
}

// SubmitRequest 完整提交载荷
type SubmitRequest struct {
	Answers   []AnswerPayload `json:"answers"`
	TimeSpent int             `json:"timeSpent"`
}

// Result 服务端评分响应
type Result struct {
	AttemptID      string  `json:"attemptId"`
	Score          float64 `json:"score"`
	Passed         bool    `json:"passed"`
	CorrectAnswers int     `json:"correctAnswers"`
	TotalQuestions int     `json:"totalQuestions"`
	PointsEarned   int     `json:"pointsEarned"`
	TotalPoints    int     `json:"totalPoints"`
	PassingScore   int     `json:"passingScore"`
	CanRetake      bool    `json:"canRetake"`
}

// Submitter 把提交交给服务端。网络失败时返回错误；只有服务端确认
// 之后本地答案才会被视为已消费。
type Submitter interface {
	Submit(ctx context.Context, quizID string, req SubmitRequest) (*Result, error)
}

// 本地答案值。按题型恰好使用其中一个字段。
type answerValue struct {
	optionID  string
	optionSet map[string]struct{}
	text      string
}

// Session 单次作答会话。协作式单线程模型：倒计时 Tick 和手动 Submit
// 是仅有的两个可能并发触发提交的入口，用互斥锁加状态守卫串行化。
type Session struct {
	mu sync.Mutex

	quiz      *model.StudentQuiz
	submitter Submitter

	state     State
	order     []int // 展示顺序快照，只影响显示，评分与其无关
	current   int
	animating bool

	answers   map[string]answerValue
	remaining int // 剩余秒数，0 且无限时则不倒数
	elapsed   int

	attempts int
	result   *Result
	lastErr  error

	shuffle bool
	rng     *rand.Rand
}

// Option 配置会话
type Option func(*Session)

// WithShuffle 打乱题目展示顺序（仅显示层，服务端评分不受影响）
func WithShuffle(seed int64) Option {
	return func(s *Session) {
		s.shuffle = true
		s.rng = rand.New(rand.NewSource(seed))
	}
}

func New(quiz *model.StudentQuiz, submitter Submitter, opts ...Option) *Session {
	s := &Session{
		quiz:      quiz,
		submitter: submitter,
		state:     NotStarted,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start 进入 InProgress：快照题目顺序、清空答案、装载倒计时。
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != NotStarted {
		return ErrAlreadyStarted
	}
	s.enterInProgress()
	return nil
}

func (s *Session) enterInProgress() {
	s.order = make([]int, len(s.quiz.Questions))
	for i := range s.order {
		s.order[i] = i
	}
	if s.shuffle && s.rng != nil {
		s.rng.Shuffle(len(s.order), func(i, j int) {
			s.order[i], s.order[j] = s.order[j], s.order[i]
		})
	}
	s.answers = make(map[string]answerValue)
	s.current = 0
	s.animating = false
	s.elapsed = 0
	s.remaining = s.quiz.TimeLimitSeconds
	s.result = nil
	s.lastErr = nil
	s.state = InProgress
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentQuestion 按展示顺序返回当前题目
func (s *Session) CurrentQuestion() (*model.StudentQuestion, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != InProgress || len(s.order) == 0 {
		return nil, -1
	}
	return &s.quiz.Questions[s.order[s.current]], s.current
}

func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

func (s *Session) AnsweredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

func (s *Session) question(id string) *model.StudentQuestion {
	for i := range s.quiz.Questions {
		if s.quiz.Questions[i].ID == id {
			return &s.quiz.Questions[i]
		}
	}
	return nil
}

// SetChoice 单选/判断题选择某个选项，整体替换旧答案
func (s *Session) SetChoice(questionID, optionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != InProgress {
		return ErrNotInProgress
	}
	q := s.question(questionID)
	if q == nil {
		return ErrUnknownQuestion
	}
	if q.QuestionType != model.MultipleChoice && q.QuestionType != model.TrueFalse {
		return ErrWrongAnswerKind
	}
	s.answers[questionID] = answerValue{optionID: optionID}
	return nil
}

// SetText identification/fill_blank/essay 的文本作答；空串视为撤销作答
func (s *Session) SetText(questionID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != InProgress {
		return ErrNotInProgress
	}
	q := s.question(questionID)
	if q == nil {
		return ErrUnknownQuestion
	}
	switch q.QuestionType {
	case model.Identification, model.FillBlank, model.Essay:
	default:
		return ErrWrongAnswerKind
	}
	if text == "" {
		delete(s.answers, questionID)
		return nil
	}
	s.answers[questionID] = answerValue{text: text}
	return nil
}

// ToggleOption 多选题的集合语义：存在则移除，不存在则加入，天然去重。
// 集合清空等价于撤销作答。
func (s *Session) ToggleOption(questionID, optionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != InProgress {
		return ErrNotInProgress
	}
	q := s.question(questionID)
	if q == nil {
		return ErrUnknownQuestion
	}
	if q.QuestionType != model.MultipleAnswer {
		return ErrWrongAnswerKind
	}
	cur, ok := s.answers[questionID]
	if !ok || cur.optionSet == nil {
		cur = answerValue{optionSet: make(map[string]struct{})}
	}
	if _, picked := cur.optionSet[optionID]; picked {
		delete(cur.optionSet, optionID)
	} else {
		cur.optionSet[optionID] = struct{}{}
	}
	if len(cur.optionSet) == 0 {
		delete(s.answers, questionID)
		return nil
	}
	s.answers[questionID] = cur
	return nil
}

// --- navigation ---

// GoTo 跳转到指定展示序号。过渡动画期间的导航请求是 no-op，不排队。
func (s *Session) GoTo(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != InProgress || s.animating {
		return
	}
	if index < 0 || index >= len(s.order) {
		return
	}
	if index != s.current {
		s.current = index
		s.animating = true
	}
}

func (s *Session) Next() {
	s.mu.Lock()
	idx := s.current + 1
	s.mu.Unlock()
	s.GoTo(idx)
}

func (s *Session) Prev() {
	s.mu.Lock()
	idx := s.current - 1
	s.mu.Unlock()
	s.GoTo(idx)
}

// AnimationDone 过渡结束，解除导航锁
func (s *Session) AnimationDone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.animating = false
}

// --- countdown & submission ---

// Tick 消耗一秒倒计时。倒数到零恰好触发一次强制提交；
// 若此刻手动提交已经进入 Submitting，Tick 是 no-op。
func (s *Session) Tick(ctx context.Context) {
	s.mu.Lock()
	if s.state != InProgress {
		s.mu.Unlock()
		return
	}
	s.elapsed++
	if s.quiz.TimeLimitSeconds <= 0 {
		s.mu.Unlock()
		return
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		s.mu.Unlock()
		return
	}
	// 时间耗尽：状态守卫保证与手动提交二选一
	s.mu.Unlock()
	s.submit(ctx, true)
}

// RunCountdown 按墙钟驱动倒计时，直到会话离开 InProgress 或 ctx 取消。
// 测试直接调用 Tick，不依赖真实时钟。
func (s *Session) RunCountdown(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
			if st := s.State(); st != InProgress {
				return
			}
		}
	}
}

// Submit 手动提交。与计时器到零的强制提交共用同一条受守卫的路径。
func (s *Session) Submit(ctx context.Context) error {
	return s.submit(ctx, false)
}

// submit 是 InProgress→Submitting 的唯一入口。第一个触发者完成状态切换，
// 之后的触发（同一 tick 里计时器又响、重复点击）在守卫处直接丢弃。
func (s *Session) submit(ctx context.Context, forced bool) error {
	s.mu.Lock()
	if s.state != InProgress {
		s.mu.Unlock()
		return nil // 已有触发者在处理，竞态的第二个触发是 no-op
	}
	s.state = Submitting
	req := s.buildSubmissionLocked()
	quizID := s.quiz.ID
	s.mu.Unlock()

	res, err := s.submitter.Submit(ctx, quizID, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		if forced {
			// 时间已经用完，继续作答没有意义；保留答案进入错误展示态
			s.state = Failed
		} else {
			// 答案保留在本地，调用方可以原样重试
			s.state = InProgress
		}
		return err
	}
	s.result = res
	s.attempts++
	s.lastErr = nil
	s.state = Completed
	return nil
}

// buildSubmissionLocked 把本地答案表整理为 wire 形状。未作答的题目省略，
// 多选集合排序后输出以保证载荷稳定（服务端按无序集合比较）。
func (s *Session) buildSubmissionLocked() SubmitRequest {
	req := SubmitRequest{TimeSpent: s.elapsed}
	for i := range s.quiz.Questions {
		q := &s.quiz.Questions[i]
		val, ok := s.answers[q.ID]
		if !ok {
			continue
		}
		p := AnswerPayload{QuestionID: q.ID}
		switch q.QuestionType {
		case model.MultipleChoice, model.TrueFalse:
			p.SelectedOptionID = val.optionID
		case model.MultipleAnswer:
			ids := make([]string, 0, len(val.optionSet))
			for id := range val.optionSet {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			p.SelectedOptionIDs = ids
		default:
			p.AnswerText = val.text
		}
		req.Answers = append(req.Answers, p)
	}
	return req
}

// BuildSubmission 暴露当前载荷，用于失败后的手动重试
func (s *Session) BuildSubmission() SubmitRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildSubmissionLocked()
}

// Result 评分结果，Completed 之前为 nil
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// LastError 最近一次提交失败的错误
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Attempts 本会话对象完成过的提交次数
func (s *Session) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// Retake 从 Completed 回到 NotStarted，答案表清空，等待下一次 Start。
// 服务端是否允许再考由选课策略决定（result.canRetake），会话本身不做裁决。
func (s *Session) Retake() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Completed {
		return ErrNotCompleted
	}
	s.answers = nil
	s.result = nil
	s.lastErr = nil
	s.state = NotStarted
	return nil
}

// Abandon 放弃会话：答案表整体丢弃，不产生任何提交。
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == InProgress || s.state == NotStarted {
		s.answers = nil
		s.state = NotStarted
	}
}
