package database

import (
	"skillbridge_backend/internal/config"
	"skillbridge_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
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

	// TranslateError maps driver duplicate-key errors to gorm.ErrDuplicatedKey,
	// which the enrollment store needs to tell conflicts from outages.
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.TraineeProfile{},
		&model.TrainerProfile{},
		&model.RecruiterProfile{},
		&model.TrainingProgram{},
		&model.ProgramModule{},
		&model.ModuleVideo{},
		&model.QuizQuestion{},
		&model.Enrollment{},
		&model.ModuleCompletion{},
		&model.VideoWatch{},
		&model.QuizScoreRecord{},
	)
}

// InitFallbackDB opens the local SQLite store used when the primary database
// is unreachable during enrollment. Only the enrollment table lives here.
func InitFallbackDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&model.Enrollment{}); err != nil {
		return nil, err
	}

	log.Println("Fallback store ready at", path)
	return db, nil
}
