package repository

import (
	"skillbridge_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func scopeQuery(db *gorm.DB, scope model.QuizScope) *gorm.DB {
	q := db.Where("program_id = ? AND quiz_type = ?", scope.ProgramID, scope.QuizType)
	if scope.ModuleID != nil {
		q = q.Where("module_id = ?", *scope.ModuleID)
	} else {
		q = q.Where("module_id IS NULL")
	}
	return q
}

// AppendQuestions adds questions to the scope's definition inside one
// transaction, continuing the existing ordering so concurrent appends for the
// same scope serialize without losing rows.
func (r *QuizRepository) AppendQuestions(scope model.QuizScope, questions []model.QuizQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		row := scopeQuery(tx.Model(&model.QuizQuestion{}), scope).
			Select("COALESCE(MAX(question_order), 0)").Row()
		if err := row.Scan(&maxOrder); err != nil {
			return err
		}

		for i := range questions {
			questions[i].ProgramID = scope.ProgramID
			questions[i].ModuleID = scope.ModuleID
			questions[i].QuizType = scope.QuizType
			questions[i].Order = maxOrder + i + 1
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *QuizRepository) ListQuestions(scope model.QuizScope) ([]model.QuizQuestion, error) {
	var qs []model.QuizQuestion
	err := scopeQuery(r.DB, scope).Order("question_order asc").Find(&qs).Error
	return qs, err
}

func (r *QuizRepository) CountQuestions(scope model.QuizScope) (int64, error) {
	var count int64
	err := scopeQuery(r.DB.Model(&model.QuizQuestion{}), scope).Count(&count).Error
	return count, err
}

// DeleteAll removes every question for the scope. Idempotent: deleting an
// empty scope is a successful no-op.
func (r *QuizRepository) DeleteAll(scope model.QuizScope) error {
	return scopeQuery(r.DB, scope).Delete(&model.QuizQuestion{}).Error
}
