package repository

import (
	"github.com/Sean-Brix/RiderMind-sub000/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) ListPublished(page, limit int) ([]model.LearningModule, int64, error) {
	var modules []model.LearningModule
	var total int64

	q := r.DB.Model(&model.LearningModule{}).Where("is_published = ?", true)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("`order` ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&modules).Error
	return modules, total, err
}

func (r *ModuleRepository) FindByIDWithSlides(id uint) (*model.LearningModule, error) {
	var m model.LearningModule
	err := r.DB.
		Preload("Slides", func(db *gorm.DB) *gorm.DB {
			return db.Order("slides.order ASC")
		}).
		First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
