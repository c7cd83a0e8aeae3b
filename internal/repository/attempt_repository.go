package repository

import (
	"github.com/Sean-Brix/RiderMind-sub000/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// CreateTx 在调用方的事务里写入 attempt 及其答题记录
func (r *AttemptRepository) CreateTx(tx *gorm.DB, attempt *model.QuizAttempt) error {
	return tx.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id string) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	if err := r.DB.Preload("Answers").First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) ListByUserAndQuiz(userID uint, quizID string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("submitted_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) CountByUserAndQuiz(userID uint, quizID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&count).Error
	return count, err
}
