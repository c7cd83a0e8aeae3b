package quizsession

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Sean-Brix/RiderMind-sub000/internal/model"
)

// fakeSubmitter 记录提交次数，可配置失败
type fakeSubmitter struct {
	mu       sync.Mutex
	calls    int32
	requests []SubmitRequest
	err      error
	result   Result
}

func (f *fakeSubmitter) Submit(_ context.Context, _ string, req SubmitRequest) (*Result, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	r := f.result
	return &r, nil
}

func (f *fakeSubmitter) count() int { return int(atomic.LoadInt32(&f.calls)) }

func studentQuiz(timeLimit int) *model.StudentQuiz {
	return &model.StudentQuiz{
		ID:               "quiz-1",
		TimeLimitSeconds: timeLimit,
		PassingScore:     70,
		Questions: []model.StudentQuestion{
			{ID: "q1", QuestionType: model.MultipleChoice, Points: 1,
				Options: []model.StudentOption{{ID: "q1a"}, {ID: "q1b"}}},
			{ID: "q2", QuestionType: model.MultipleAnswer, Points: 2,
				Options: []model.StudentOption{{ID: "q2a"}, {ID: "q2b"}, {ID: "q2c"}}},
			{ID: "q3", QuestionType: model.Identification, Points: 1},
			{ID: "q4", QuestionType: model.Essay, Points: 3},
		},
	}
}

func TestLifecycleTransitions(t *testing.T) {
	sub := &fakeSubmitter{result: Result{AttemptID: "a1", Score: 50}}
	s := New(studentQuiz(0), sub)

	if s.State() != NotStarted {
		t.Fatalf("state = %v, want NotStarted", s.State())
	}
	if err := s.SetChoice("q1", "q1a"); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("SetChoice before start: err = %v, want ErrNotInProgress", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start: err = %v, want ErrAlreadyStarted", err)
	}
	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if s.State() != Completed {
		t.Errorf("state = %v, want Completed", s.State())
	}
	if s.Result() == nil || s.Result().AttemptID != "a1" {
		t.Errorf("result not stored: %+v", s.Result())
	}
	if s.Attempts() != 1 {
		t.Errorf("attempts = %d, want 1", s.Attempts())
	}
}

func TestAnswerMapSemantics(t *testing.T) {
	s := New(studentQuiz(0), &fakeSubmitter{})
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	// 单选：整体替换
	if err := s.SetChoice("q1", "q1a"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetChoice("q1", "q1b"); err != nil {
		t.Fatal(err)
	}

	// 多选：toggle 集合语义，重复 toggle 去重/移除
	for _, id := range []string{"q2a", "q2b", "q2b", "q2c"} {
		if err := s.ToggleOption("q2", id); err != nil {
			t.Fatal(err)
		}
	}
	// q2a 和 q2c 留下，q2b 被移除

	if err := s.SetText("q3", "  stop "); err != nil {
		t.Fatal(err)
	}
	// q4 essay 不作答，提交时省略

	req := s.BuildSubmission()
	if len(req.Answers) != 3 {
		t.Fatalf("answers = %d, want 3 (unanswered omitted)", len(req.Answers))
	}
	if req.Answers[0].SelectedOptionID != "q1b" {
		t.Errorf("q1 = %q, want replacement to q1b", req.Answers[0].SelectedOptionID)
	}
	got := req.Answers[1].SelectedOptionIDs
	if len(got) != 2 || got[0] != "q2a" || got[1] != "q2c" {
		t.Errorf("q2 set = %v, want [q2a q2c]", got)
	}
	if req.Answers[2].AnswerText != "  stop " {
		t.Errorf("q3 text = %q (client must not normalize, server trims)", req.Answers[2].AnswerText)
	}

	// 类型与载荷不匹配直接拒绝
	if err := s.SetChoice("q2", "q2a"); !errors.Is(err, ErrWrongAnswerKind) {
		t.Errorf("SetChoice on multi: %v, want ErrWrongAnswerKind", err)
	}
	if err := s.ToggleOption("q1", "q1a"); !errors.Is(err, ErrWrongAnswerKind) {
		t.Errorf("ToggleOption on single: %v, want ErrWrongAnswerKind", err)
	}
	if err := s.SetText("zzz", "x"); !errors.Is(err, ErrUnknownQuestion) {
		t.Errorf("SetText unknown question: %v, want ErrUnknownQuestion", err)
	}
}

func TestNavigationBoundsAndAnimationLock(t *testing.T) {
	s := New(studentQuiz(0), &fakeSubmitter{})
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	s.Prev() // 越界 no-op
	if _, idx := s.CurrentQuestion(); idx != 0 {
		t.Errorf("index = %d, want 0 after Prev at start", idx)
	}

	s.Next()
	if _, idx := s.CurrentQuestion(); idx != 1 {
		t.Errorf("index = %d, want 1", idx)
	}

	// 动画期间导航是 no-op，不排队
	s.Next()
	if _, idx := s.CurrentQuestion(); idx != 1 {
		t.Errorf("index = %d, navigation during animation must be dropped", idx)
	}
	s.AnimationDone()
	s.Next()
	if _, idx := s.CurrentQuestion(); idx != 2 {
		t.Errorf("index = %d, want 2 after AnimationDone", idx)
	}

	s.AnimationDone()
	s.GoTo(99) // 越界 no-op
	if _, idx := s.CurrentQuestion(); idx != 2 {
		t.Errorf("index = %d, out-of-range GoTo must be dropped", idx)
	}
}

func TestCountdownForcesSubmissionOnce(t *testing.T) {
	sub := &fakeSubmitter{result: Result{AttemptID: "a1"}}
	s := New(studentQuiz(3), sub)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	s.Tick(ctx)
	s.Tick(ctx)
	if s.State() != InProgress || s.Remaining() != 1 {
		t.Fatalf("state %v remaining %d, want InProgress/1", s.State(), s.Remaining())
	}
	s.Tick(ctx) // 到零：强制提交
	if s.State() != Completed {
		t.Fatalf("state = %v, want Completed after forced submit", s.State())
	}
	// 迟到的 tick 不再触发任何东西
	s.Tick(ctx)
	s.Tick(ctx)
	if sub.count() != 1 {
		t.Errorf("submissions = %d, want exactly 1", sub.count())
	}
}

// 规约中唯一真正的竞态：同一个 tick 里计时器到零和手动提交同时触发，
// 必须恰好产生一次提交记录。
func TestRaceGuardTimerVsManualSubmit(t *testing.T) {
	for i := 0; i < 50; i++ {
		sub := &fakeSubmitter{result: Result{AttemptID: "a1"}}
		s := New(studentQuiz(1), sub)
		if err := s.Start(); err != nil {
			t.Fatal(err)
		}
		ctx := context.Background()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); s.Tick(ctx) }() // 到零 → 强制提交
		go func() { defer wg.Done(); _ = s.Submit(ctx) }()
		wg.Wait()

		if got := sub.count(); got != 1 {
			t.Fatalf("run %d: submissions = %d, want exactly 1", i, got)
		}
		if s.State() != Completed {
			t.Fatalf("run %d: state = %v, want Completed", i, s.State())
		}
	}
}

func TestManualSubmitFailureRetainsAnswers(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("network down")}
	s := New(studentQuiz(0), sub)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if err := s.SetChoice("q1", "q1a"); err != nil {
		t.Fatal(err)
	}

	if err := s.Submit(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
	// 失败回到 InProgress，答案保留，可原样重试
	if s.State() != InProgress {
		t.Errorf("state = %v, want InProgress after transport failure", s.State())
	}
	if s.LastError() == nil {
		t.Error("lastError must surface the failure")
	}
	if got := s.BuildSubmission(); len(got.Answers) != 1 {
		t.Errorf("answers lost on failure: %+v", got)
	}

	// 服务恢复后同一载荷重提成功
	sub.err = nil
	sub.result = Result{AttemptID: "a2"}
	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if s.State() != Completed {
		t.Errorf("state = %v, want Completed after retry", s.State())
	}
}

func TestTimerForcedFailureEntersFailedState(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("network down")}
	s := New(studentQuiz(1), sub)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if err := s.SetChoice("q1", "q1b"); err != nil {
		t.Fatal(err)
	}

	s.Tick(context.Background())
	// 时间已到：不回 InProgress，进入 Failed，答案保留
	if s.State() != Failed {
		t.Fatalf("state = %v, want Failed", s.State())
	}
	if got := s.BuildSubmission(); len(got.Answers) != 1 {
		t.Errorf("answers must survive for manual retry: %+v", got)
	}
}

func TestRetakeResetsSession(t *testing.T) {
	sub := &fakeSubmitter{result: Result{AttemptID: "a1", CanRetake: true}}
	s := New(studentQuiz(0), sub)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if err := s.SetChoice("q1", "q1a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := s.Retake(); err != nil {
		t.Fatalf("Retake: %v", err)
	}
	if s.State() != NotStarted {
		t.Errorf("state = %v, want NotStarted", s.State())
	}
	if err := s.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if got := s.BuildSubmission(); len(got.Answers) != 0 {
		t.Errorf("answer map must be cleared on retake: %+v", got)
	}
	if s.Attempts() != 1 {
		t.Errorf("attempts = %d, want history preserved", s.Attempts())
	}
}

func TestAbandonDiscardsAnswersWithoutSubmission(t *testing.T) {
	sub := &fakeSubmitter{}
	s := New(studentQuiz(0), sub)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if err := s.SetText("q3", "yield"); err != nil {
		t.Fatal(err)
	}
	s.Abandon()
	if s.State() != NotStarted {
		t.Errorf("state = %v, want NotStarted", s.State())
	}
	if sub.count() != 0 {
		t.Errorf("abandon must not submit, got %d submissions", sub.count())
	}
}

func TestTimeSpentCountsElapsedSeconds(t *testing.T) {
	sub := &fakeSubmitter{result: Result{}}
	s := New(studentQuiz(60), sub)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		s.Tick(ctx)
	}
	if err := s.Submit(ctx); err != nil {
		t.Fatal(err)
	}
	if req := sub.requests[0]; req.TimeSpent != 5 {
		t.Errorf("timeSpent = %d, want 5", req.TimeSpent)
	}
}

func TestShuffleOnlyAffectsDisplayOrder(t *testing.T) {
	sub := &fakeSubmitter{result: Result{}}
	s := New(studentQuiz(0), sub, WithShuffle(42))
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if err := s.SetChoice("q1", "q1a"); err != nil {
		t.Fatal(err)
	}
	// 载荷按定义顺序输出，与展示顺序无关
	req := s.BuildSubmission()
	if len(req.Answers) != 1 || req.Answers[0].QuestionID != "q1" {
		t.Errorf("payload must follow definition order: %+v", req.Answers)
	}
}
