package service

import (
	"errors"

	"github.com/Sean-Brix/RiderMind-sub000/internal/model"
	"github.com/Sean-Brix/RiderMind-sub000/internal/repository"
	"github.com/Sean-Brix/RiderMind-sub000/internal/util"

	"gorm.io/gorm"
)

// ModuleService 模块/页面的只读目录。编辑端（管理后台 CRUD、媒体上传）
// 属于外部协作方，这里只提供学习会话需要的读取面。
type ModuleService struct {
	ModuleRepo *repository.ModuleRepository
	QuizRepo   *repository.QuizRepository
}

func NewModuleService(moduleRepo *repository.ModuleRepository, quizRepo *repository.QuizRepository) *ModuleService {
	return &ModuleService{ModuleRepo: moduleRepo, QuizRepo: quizRepo}
}

func (s *ModuleService) ListModules(page, limit int) ([]model.LearningModule, int64, error) {
	return s.ModuleRepo.ListPublished(page, limit)
}

type ModuleDetail struct {
	Module  *model.LearningModule `json:"module"`
	Quizzes []model.Quiz          `json:"quizzes"`
}

func (s *ModuleService) GetModule(id uint) (*ModuleDetail, error) {
	m, err := s.ModuleRepo.FindByIDWithSlides(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	if !m.IsPublished {
		return nil, util.ErrModuleNotFound
	}
	quizzes, err := s.QuizRepo.FindByModule(id)
	if err != nil {
		return nil, err
	}
	// 测验概要不携带题目，更不携带答案
	for i := range quizzes {
		quizzes[i].Questions = nil
	}
	return &ModuleDetail{Module: m, Quizzes: quizzes}, nil
}
