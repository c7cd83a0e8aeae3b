package repository

import (
	"github.com/Sean-Brix/RiderMind-sub000/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) FindByUserAndModule(userID, moduleID uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// FindForUpdateTx 对选课记录加行锁。同一用户并发提交时，
// attemptCount 的读-改-写必须基于锁定后的一致值，否则两次提交
// 可能同时通过“剩余次数”检查。
func (r *EnrollmentRepository) Create(e *model.Enrollment) error {
	return r.DB.Create(e).Error
}

func (r *EnrollmentRepository) FindForUpdateTx(tx *gorm.DB, userID, moduleID uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) SaveTx(tx *gorm.DB, e *model.Enrollment) error {
	return tx.Save(e).Error
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.Enrollment, error) {
	var list []model.Enrollment
	err := r.DB.Where("user_id = ?", userID).Find(&list).Error
	return list, err
}
