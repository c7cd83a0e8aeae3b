package grading

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Sean-Brix/RiderMind-sub000/internal/model"
)

func mcq(id string, points int, correctOpt string, opts ...string) model.QuizQuestion {
	q := model.QuizQuestion{
		UUIDBase:     model.UUIDBase{ID: id},
		QuestionType: model.MultipleChoice,
		Points:       points,
	}
	for _, o := range opts {
		q.Options = append(q.Options, model.QuizOption{
			UUIDBase:  model.UUIDBase{ID: o},
			IsCorrect: o == correctOpt,
		})
	}
	return q
}

func multi(id string, points int, correct []string, opts ...string) model.QuizQuestion {
	correctSet := make(map[string]bool)
	for _, c := range correct {
		correctSet[c] = true
	}
	q := model.QuizQuestion{
		UUIDBase:     model.UUIDBase{ID: id},
		QuestionType: model.MultipleAnswer,
		Points:       points,
	}
	for _, o := range opts {
		q.Options = append(q.Options, model.QuizOption{
			UUIDBase:  model.UUIDBase{ID: o},
			IsCorrect: correctSet[o],
		})
	}
	return q
}

func ident(id string, points int, accepted string, caseSensitive bool) model.QuizQuestion {
	return model.QuizQuestion{
		UUIDBase:      model.UUIDBase{ID: id},
		QuestionType:  model.Identification,
		Points:        points,
		CaseSensitive: caseSensitive,
		Options: []model.QuizOption{
			{UUIDBase: model.UUIDBase{ID: id + "-a"}, Text: accepted, IsCorrect: true},
		},
	}
}

func essay(id string, points int) model.QuizQuestion {
	return model.QuizQuestion{
		UUIDBase:     model.UUIDBase{ID: id},
		QuestionType: model.Essay,
		Points:       points,
	}
}

func TestGradeSingleChoice(t *testing.T) {
	questions := []model.QuizQuestion{mcq("q1", 2, "b", "a", "b", "c")}

	tests := []struct {
		name    string
		answer  Answer
		correct bool
		earned  int
	}{
		{"correct option", Answer{QuestionID: "q1", SelectedOptionID: "b"}, true, 2},
		{"wrong option", Answer{QuestionID: "q1", SelectedOptionID: "a"}, false, 0},
		{"nonexistent option id", Answer{QuestionID: "q1", SelectedOptionID: "zzz"}, false, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sum, err := GradeQuiz(questions, []Answer{tc.answer})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			rec := sum.Records[0]
			if rec.IsCorrect == nil || *rec.IsCorrect != tc.correct {
				t.Errorf("isCorrect = %v, want %v", rec.IsCorrect, tc.correct)
			}
			if rec.PointsEarned != tc.earned {
				t.Errorf("pointsEarned = %d, want %d", rec.PointsEarned, tc.earned)
			}
		})
	}
}

func TestGradeMultipleAnswerStrictSetEquality(t *testing.T) {
	// 正确集合 {A,B}：子集和超集都不给分
	questions := []model.QuizQuestion{multi("q1", 4, []string{"A", "B"}, "A", "B", "C")}

	tests := []struct {
		name     string
		selected []string
		correct  bool
	}{
		{"exact set", []string{"A", "B"}, true},
		{"exact set other order", []string{"B", "A"}, true},
		{"subset", []string{"A"}, false},
		{"superset", []string{"A", "B", "C"}, false},
		{"disjoint", []string{"C"}, false},
		{"duplicated ids collapse to set", []string{"A", "A", "B"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sum, err := GradeQuiz(questions, []Answer{{QuestionID: "q1", SelectedOptionIDs: tc.selected}})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			rec := sum.Records[0]
			if *rec.IsCorrect != tc.correct {
				t.Errorf("selected %v: isCorrect = %v, want %v", tc.selected, *rec.IsCorrect, tc.correct)
			}
			if tc.correct && rec.PointsEarned != 4 {
				t.Errorf("pointsEarned = %d, want 4", rec.PointsEarned)
			}
			if !tc.correct && rec.PointsEarned != 0 {
				t.Errorf("no partial credit: pointsEarned = %d, want 0", rec.PointsEarned)
			}
		})
	}
}

func TestGradeTextCaseSensitivity(t *testing.T) {
	tests := []struct {
		name          string
		caseSensitive bool
		submitted     string
		correct       bool
	}{
		{"insensitive trims and folds", false, "  stop  ", true},
		{"insensitive exact", false, "Stop", true},
		{"sensitive lowercase rejected", true, "stop", false},
		{"sensitive exact accepted", true, "Stop", true},
		{"sensitive trimmed accepted", true, "  Stop ", true},
		{"wrong text", false, "go", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			questions := []model.QuizQuestion{ident("q1", 1, "Stop", tc.caseSensitive)}
			sum, err := GradeQuiz(questions, []Answer{{QuestionID: "q1", AnswerText: tc.submitted}})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if *sum.Records[0].IsCorrect != tc.correct {
				t.Errorf("%q (caseSensitive=%v): isCorrect = %v, want %v",
					tc.submitted, tc.caseSensitive, *sum.Records[0].IsCorrect, tc.correct)
			}
		})
	}
}

func TestGradeEssayAlwaysPending(t *testing.T) {
	questions := []model.QuizQuestion{essay("q1", 5)}
	sum, err := GradeQuiz(questions, []Answer{{QuestionID: "q1", AnswerText: "a long reflection"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := sum.Records[0]
	if rec.IsCorrect != nil {
		t.Errorf("essay isCorrect = %v, want nil (pending manual review)", *rec.IsCorrect)
	}
	if rec.PointsEarned != 0 {
		t.Errorf("essay pointsEarned = %d, want 0", rec.PointsEarned)
	}
	// essay 计入分母：只有 essay 的卷子自动得分为 0
	if sum.Score != 0 {
		t.Errorf("score = %v, want 0", sum.Score)
	}
}

func TestGradeUnansweredQuestions(t *testing.T) {
	// 10 题每题 1 分，答对 7 题、3 题未作答 => 70 分
	var questions []model.QuizQuestion
	var answers []Answer
	for i := 0; i < 10; i++ {
		id := string(rune('a' + i))
		questions = append(questions, mcq(id, 1, id+"-ok", id+"-ok", id+"-no"))
		if i < 7 {
			answers = append(answers, Answer{QuestionID: id, SelectedOptionID: id + "-ok"})
		}
	}
	sum, err := GradeQuiz(questions, answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Score != 70 {
		t.Errorf("score = %v, want 70", sum.Score)
	}
	if sum.CorrectAnswers != 7 {
		t.Errorf("correctAnswers = %d, want 7", sum.CorrectAnswers)
	}
	for i := 7; i < 10; i++ {
		rec := sum.Records[i]
		if rec.Answered || rec.IsCorrect != nil || rec.PointsEarned != 0 {
			t.Errorf("record %d: omitted question must be unanswered with 0 points, got %+v", i, rec)
		}
	}
}

func TestGradeZeroTotalPoints(t *testing.T) {
	questions := []model.QuizQuestion{
		{UUIDBase: model.UUIDBase{ID: "q1"}, QuestionType: model.TrueFalse, Points: 0,
			Options: []model.QuizOption{{UUIDBase: model.UUIDBase{ID: "t"}, IsCorrect: true}}},
	}
	sum, err := GradeQuiz(questions, []Answer{{QuestionID: "q1", SelectedOptionID: "t"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Score != 0 {
		t.Errorf("zero-point quiz score = %v, want 0 (no division)", sum.Score)
	}
}

func TestGradeMalformedSubmissions(t *testing.T) {
	questions := []model.QuizQuestion{
		mcq("choice", 1, "a", "a", "b"),
		multi("multi", 1, []string{"x"}, "x", "y"),
		ident("text", 1, "Stop", false),
	}

	tests := []struct {
		name   string
		answer Answer
	}{
		{"text payload on choice question", Answer{QuestionID: "choice", AnswerText: "a"}},
		{"set payload on choice question", Answer{QuestionID: "choice", SelectedOptionIDs: []string{"a"}}},
		{"single payload on multi question", Answer{QuestionID: "multi", SelectedOptionID: "x"}},
		{"option payload on text question", Answer{QuestionID: "text", SelectedOptionID: "a"}},
		{"empty payload", Answer{QuestionID: "choice"}},
		{"mixed payload", Answer{QuestionID: "choice", SelectedOptionID: "a", AnswerText: "a"}},
		{"unknown question", Answer{QuestionID: "ghost", SelectedOptionID: "a"}},
		{"missing question id", Answer{SelectedOptionID: "a"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// 合法答案 + 一个非法答案：整体拒绝，不做部分评分
			valid := Answer{QuestionID: "choice", SelectedOptionID: "a"}
			answers := []Answer{tc.answer}
			if tc.answer.QuestionID != "choice" {
				answers = append(answers, valid)
			}
			sum, err := GradeQuiz(questions, answers)
			var malformed *MalformedError
			if !errors.As(err, &malformed) {
				t.Fatalf("err = %v, want *MalformedError", err)
			}
			if sum != nil {
				t.Errorf("summary must be nil on malformed submission")
			}
		})
	}
}

func TestGradeDuplicateAnswerRejected(t *testing.T) {
	questions := []model.QuizQuestion{mcq("q1", 1, "a", "a", "b")}
	_, err := GradeQuiz(questions, []Answer{
		{QuestionID: "q1", SelectedOptionID: "a"},
		{QuestionID: "q1", SelectedOptionID: "b"},
	})
	var malformed *MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want *MalformedError", err)
	}
}

func TestGradeDeterminism(t *testing.T) {
	questions := []model.QuizQuestion{
		mcq("q1", 3, "b", "a", "b"),
		multi("q2", 2, []string{"x", "y"}, "x", "y", "z"),
		ident("q3", 1, "yield", false),
		essay("q4", 4),
	}
	answers := []Answer{
		{QuestionID: "q1", SelectedOptionID: "b"},
		{QuestionID: "q2", SelectedOptionIDs: []string{"y", "x"}},
		{QuestionID: "q3", AnswerText: "Yield"},
		{QuestionID: "q4", AnswerText: "essay body"},
	}

	first, err := GradeQuiz(questions, answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := GradeQuiz(questions, answers)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("grading is not deterministic: run %d differs", i)
		}
	}
	// 6+4=10 总分，得 3+2+1=6 => 60
	if first.Score != 60 {
		t.Errorf("score = %v, want 60", first.Score)
	}
}

func TestGradeAggregateRounding(t *testing.T) {
	questions := []model.QuizQuestion{
		mcq("q1", 1, "a", "a", "b"),
		mcq("q2", 1, "a", "a", "b"),
		mcq("q3", 1, "a", "a", "b"),
	}
	sum, err := GradeQuiz(questions, []Answer{
		{QuestionID: "q1", SelectedOptionID: "a"},
		{QuestionID: "q2", SelectedOptionID: "a"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2/3 => 66.67 四舍五入为 67
	if sum.Score != 67 {
		t.Errorf("score = %v, want 67", sum.Score)
	}
}
