package database

import (
	"fmt"
	"log"

	"github.com/Sean-Brix/RiderMind-sub000/internal/config"
	"github.com/Sean-Brix/RiderMind-sub000/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

// Migrate 执行建表迁移。release 模式默认跳过，由 -migrate 标志强制开启。
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.LearningModule{},
		&model.Slide{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizOption{},
		&model.QuizAttempt{},
		&model.AttemptAnswer{},
		&model.Enrollment{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")
	return nil
}
