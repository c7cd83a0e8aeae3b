package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/Sean-Brix/RiderMind-sub000/internal/grading"
	"github.com/Sean-Brix/RiderMind-sub000/internal/model"
	"github.com/Sean-Brix/RiderMind-sub000/internal/repository"
	"github.com/Sean-Brix/RiderMind-sub000/internal/util"
	"github.com/Sean-Brix/RiderMind-sub000/pkg/logger"
	"github.com/Sean-Brix/RiderMind-sub000/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	quizCachePrefix = "quiz:def:"
	quizCacheTTL    = 5 * time.Minute
)

type QuizService struct {
	QuizRepo       *repository.QuizRepository
	AttemptRepo    *repository.AttemptRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Redis          *redis.Client
	DB             *gorm.DB
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	attemptRepo *repository.AttemptRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	rdb *redis.Client,
	db *gorm.DB,
) *QuizService {
	return &QuizService{
		QuizRepo:       quizRepo,
		AttemptRepo:    attemptRepo,
		EnrollmentRepo: enrollmentRepo,
		Redis:          rdb,
		DB:             db,
	}
}

// SubmitRequest 与 POST /quizzes/{id}/submit 的 body 对应
type SubmitRequest struct {
	Answers   []grading.Answer `json:"answers"`
	TimeSpent int              `json:"timeSpent"`
}

// SubmitResult 评分响应
type SubmitResult struct {
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

// loadQuizSnapshot 在请求开始时一次性取出完整定义并在整个请求内保持不变，
// 避免评分中途读到被管理员改掉的题目。热点定义走 Redis。
func (s *QuizService) loadQuizSnapshot(ctx context.Context, quizID string) (*model.Quiz, error) {
	key := quizCachePrefix + quizID
	if s.Redis != nil {
		if raw, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var quiz model.Quiz
			if err := json.Unmarshal([]byte(raw), &quiz); err == nil {
				return &quiz, nil
			}
			// 缓存损坏则当作未命中，落库重建
			s.Redis.Del(ctx, key)
		}
	}

	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	if s.Redis != nil {
		if raw, err := json.Marshal(quiz); err == nil {
			s.Redis.Set(ctx, key, raw, quizCacheTTL)
		}
	}
	return quiz, nil
}

// InvalidateQuizCache 题库编辑后由目录服务调用
func (s *QuizService) InvalidateQuizCache(ctx context.Context, quizID string) {
	if s.Redis != nil {
		s.Redis.Del(ctx, quizCachePrefix+quizID)
	}
}

// GetStudentQuiz 下发学生视图：结构上不含 isCorrect/标准答案。
// shuffleQuestions 只打乱展示顺序，评分与顺序无关。
func (s *QuizService) GetStudentQuiz(ctx context.Context, quizID string) (*model.StudentQuiz, error) {
	quiz, err := s.loadQuizSnapshot(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, util.ErrQuizNotPublished
	}
	view := quiz.StudentView()
	if quiz.ShuffleQuestions {
		rand.Shuffle(len(view.Questions), func(i, j int) {
			view.Questions[i], view.Questions[j] = view.Questions[j], view.Questions[i]
		})
	}
	return view, nil
}

// Submit 评分管线：前置校验 → 纯函数评分 → 事务内写 attempt 并合并进度。
// attempt 写入和选课记录的读-改-写是同一个事务单元：要么都生效，要么都不生效。
func (s *QuizService) Submit(ctx context.Context, userID uint, quizID string, req SubmitRequest) (*SubmitResult, error) {
	quiz, err := s.loadQuizSnapshot(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, util.ErrQuizNotPublished
	}

	// 前置条件：选课记录必须已存在，缺失不是自动补建的机会
	enrollment, err := s.EnrollmentRepo.FindByUserAndModule(userID, quiz.ModuleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}
	if quiz.MaxAttempts > 0 && enrollment.AttemptCount >= quiz.MaxAttempts {
		return nil, util.ErrAttemptLimitReached
	}

	// 评分失败（形状非法）不产生任何 attempt 记录
	start := time.Now()
	summary, err := grading.GradeQuiz(quiz.Questions, req.Answers)
	if err != nil {
		var malformed *grading.MalformedError
		if errors.As(err, &malformed) {
			return nil, errors.Join(util.ErrMalformedSubmission, err)
		}
		return nil, err
	}
	monitoring.GradingDuration.Observe(time.Since(start).Seconds())

	now := time.Now()
	passed := summary.Score >= float64(quiz.PassingScore)

	attempt := &model.QuizAttempt{
		QuizID:           quizID,
		UserID:           userID,
		StartedAt:        now.Add(-time.Duration(req.TimeSpent) * time.Second),
		SubmittedAt:      now,
		TimeSpentSeconds: req.TimeSpent,
		Score:            summary.Score,
		Passed:           passed,
		PointsEarned:     summary.PointsEarned,
		TotalPoints:      summary.TotalPoints,
	}
	for _, rec := range summary.Records {
		if !rec.Answered {
			continue
		}
		payload, _ := json.Marshal(rec.Submitted)
		attempt.Answers = append(attempt.Answers, model.AttemptAnswer{
			QuestionID:   rec.QuestionID,
			Payload:      string(payload),
			IsCorrect:    rec.IsCorrect,
			PointsEarned: rec.PointsEarned,
		})
	}

	var merged *model.Enrollment
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// 行锁下复核次数限制：并发提交只能有一个通过检查
		locked, err := s.EnrollmentRepo.FindForUpdateTx(tx, userID, quiz.ModuleID)
		if err != nil {
			return err
		}
		if quiz.MaxAttempts > 0 && locked.AttemptCount >= quiz.MaxAttempts {
			return util.ErrAttemptLimitReached
		}
		if err := s.AttemptRepo.CreateTx(tx, attempt); err != nil {
			return err
		}
		ReconcileProgress(locked, attempt, now)
		if err := s.EnrollmentRepo.SaveTx(tx, locked); err != nil {
			return err
		}
		merged = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := "failed"
	if passed {
		result = "passed"
	}
	monitoring.QuizSubmissions.WithLabelValues(result).Inc()
	logger.Log.Info("quiz attempt graded",
		zap.String("quizId", quizID),
		zap.Uint("userId", userID),
		zap.String("attemptId", attempt.ID),
		zap.Float64("score", summary.Score),
		zap.Bool("passed", passed),
	)

	return &SubmitResult{
		AttemptID:      attempt.ID,
		Score:          summary.Score,
		Passed:         passed,
		CorrectAnswers: summary.CorrectAnswers,
		TotalQuestions: summary.TotalQuestions,
		PointsEarned:   summary.PointsEarned,
		TotalPoints:    summary.TotalPoints,
		PassingScore:   quiz.PassingScore,
		CanRetake:      quiz.MaxAttempts == 0 || merged.AttemptCount < quiz.MaxAttempts,
	}, nil
}

// ListAttempts 调用者本人的历史成绩
func (s *QuizService) ListAttempts(userID uint, quizID string) ([]model.QuizAttempt, error) {
	return s.AttemptRepo.ListByUserAndQuiz(userID, quizID)
}

// GetAttempt 逐题回看，只允许本人
func (s *QuizService) GetAttempt(userID uint, attemptID string) (*model.QuizAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrAttemptNotFound
	}
	return attempt, nil
}

// ListModuleQuizzes 模块下已发布的测验（不带题目）
func (s *QuizService) ListModuleQuizzes(moduleID uint) ([]model.Quiz, error) {
	return s.QuizRepo.FindByModule(moduleID)
}
