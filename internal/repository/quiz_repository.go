package repository

import (
	"github.com/Sean-Brix/RiderMind-sub000/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// FindByIDWithQuestions 一次性取出完整定义（题目+选项，按 order 排序），
// 作为本次请求的不可变快照；后续评分不再回读数据库。
func (r *QuizRepository) FindByIDWithQuestions(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.order ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_options.order ASC")
		}).
		First(&quiz, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindByModule(moduleID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("module_id = ? AND is_published = ?", moduleID, true).Find(&quizzes).Error
	return quizzes, err
}
