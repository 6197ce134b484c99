package service

import (
	"skillbridge_backend/internal/model"
	"skillbridge_backend/internal/repository"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.TrainingProgram{},
		&model.ProgramModule{},
		&model.ModuleVideo{},
		&model.QuizQuestion{},
		&model.Enrollment{},
		&model.ModuleCompletion{},
		&model.VideoWatch{},
		&model.QuizScoreRecord{},
	))
	return db
}

// seedProgram creates a published program with the given number of modules,
// one video each, and returns it with associations loaded.
func seedProgram(t *testing.T, db *gorm.DB, moduleCount int) *model.TrainingProgram {
	t.Helper()
	program := &model.TrainingProgram{
		Title:       "Go Backend Track",
		Category:    "engineering",
		IsPublished: true,
	}
	for i := 0; i < moduleCount; i++ {
		program.Modules = append(program.Modules, model.ProgramModule{
			Order: i + 1,
			Title: fmt.Sprintf("Module %d", i+1),
			Videos: []model.ModuleVideo{
				{Title: fmt.Sprintf("Lesson %d.1", i+1), URL: "https://videos.example.com/lesson", Order: 1},
			},
		})
	}
	require.NoError(t, db.Create(program).Error)
	return program
}

func newQuizService(t *testing.T, db *gorm.DB) *QuizService {
	t.Helper()
	return NewQuizService(repository.NewQuizRepository(db))
}

func newEnrollmentService(t *testing.T, db *gorm.DB) *EnrollmentService {
	t.Helper()
	return NewEnrollmentService(
		repository.NewEnrollmentRepository(db, nil),
		repository.NewProgramRepository(db),
	)
}

func questionReqs(n int) []QuestionReq {
	reqs := make([]QuestionReq, n)
	for i := range reqs {
		reqs[i] = QuestionReq{
			QuestionText:  fmt.Sprintf("Question %d", i+1),
			Options:       []string{"alpha", "beta", "gamma"},
			CorrectOption: 0,
		}
	}
	return reqs
}
