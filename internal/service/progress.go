package service

import (
	"errors"
	"time"

	"github.com/Sean-Brix/RiderMind-sub000/internal/model"
	"github.com/Sean-Brix/RiderMind-sub000/internal/repository"
	"github.com/Sean-Brix/RiderMind-sub000/internal/util"

	"gorm.io/gorm"
)

// ReconcileProgress 把一次已定稿的 attempt 折叠进选课记录。
// 全部单调性不变量只在这一个函数里维护，各端点不得散落自己的
// “更好才更新”比较：
//   - attemptCount 恒自增
//   - bestScore 只升不降
//   - passed 粘性：false→true 后永不回退
//   - completedAt 仅在首次通过时写入，再次通过不改动
//   - lastAttemptId 跟踪最近一次而不是最好一次，恒覆盖
func ReconcileProgress(e *model.Enrollment, attempt *model.QuizAttempt, now time.Time) {
	e.AttemptCount++
	e.LastAttemptID = attempt.ID

	if e.BestScore == nil || attempt.Score > *e.BestScore {
		score := attempt.Score
		e.BestScore = &score
	}

	if attempt.Passed && !e.Passed {
		e.Passed = true
		e.ProgressPercent = 100
		completed := now
		e.CompletedAt = &completed
	}
}

// ProgressService 只读的进度查询面
type ProgressService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	ModuleRepo     *repository.ModuleRepository
}

func NewProgressService(enrollmentRepo *repository.EnrollmentRepository, moduleRepo *repository.ModuleRepository) *ProgressService {
	return &ProgressService{EnrollmentRepo: enrollmentRepo, ModuleRepo: moduleRepo}
}

// ModuleProgress 对外进度形状：{bestScore, passed, attemptCount, completedAt}
type ModuleProgress struct {
	ModuleID      uint       `json:"moduleId"`
	BestScore     *float64   `json:"bestScore"`
	Passed        bool       `json:"passed"`
	AttemptCount  int        `json:"attemptCount"`
	LastAttemptID string     `json:"lastAttemptId,omitempty"`
	CompletedAt   *time.Time `json:"completedAt"`
}

// Enroll 幂等选课：已有记录时直接返回现状，不重置任何进度字段。
func (s *ProgressService) Enroll(userID, moduleID uint) (*model.Enrollment, error) {
	if _, err := s.ModuleRepo.FindByIDWithSlides(moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}

	if existing, err := s.EnrollmentRepo.FindByUserAndModule(userID, moduleID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	e := &model.Enrollment{UserID: userID, ModuleID: moduleID}
	if err := s.EnrollmentRepo.Create(e); err != nil {
		// 并发选课撞唯一索引时回读既有记录
		if existing, ferr := s.EnrollmentRepo.FindByUserAndModule(userID, moduleID); ferr == nil {
			return existing, nil
		}
		return nil, err
	}
	return e, nil
}

func (s *ProgressService) GetModuleProgress(userID, moduleID uint) (*ModuleProgress, error) {
	e, err := s.EnrollmentRepo.FindByUserAndModule(userID, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}
	return &ModuleProgress{
		ModuleID:      e.ModuleID,
		BestScore:     e.BestScore,
		Passed:        e.Passed,
		AttemptCount:  e.AttemptCount,
		LastAttemptID: e.LastAttemptID,
		CompletedAt:   e.CompletedAt,
	}, nil
}

func (s *ProgressService) ListUserProgress(userID uint) ([]ModuleProgress, error) {
	enrollments, err := s.EnrollmentRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]ModuleProgress, len(enrollments))
	for i, e := range enrollments {
		out[i] = ModuleProgress{
			ModuleID:      e.ModuleID,
			BestScore:     e.BestScore,
			Passed:        e.Passed,
			AttemptCount:  e.AttemptCount,
			LastAttemptID: e.LastAttemptID,
			CompletedAt:   e.CompletedAt,
		}
	}
	return out, nil
}
