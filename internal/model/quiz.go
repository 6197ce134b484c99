package model

import "gorm.io/datatypes"

type QuizType string

const (
	ModuleQuiz QuizType = "module"
	CourseQuiz QuizType = "course"
)

// QuizScope identifies one quiz definition: a program, an optional module
// (nil for the course-level quiz) and the quiz type.
type QuizScope struct {
	ProgramID uint     `json:"programId"`
	ModuleID  *uint    `json:"moduleId,omitempty"`
	QuizType  QuizType `json:"quizType"`
}

// QuizQuestion is one authored multiple-choice question. Options is a JSON
// array of 2-6 strings; CorrectOption indexes into it.
// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	ProgramID     uint           `gorm:"index:idx_quiz_scope;type:bigint unsigned" json:"programId"`
	ModuleID      *uint          `gorm:"index:idx_quiz_scope;type:bigint unsigned" json:"moduleId,omitempty"`
	QuizType      QuizType       `gorm:"index:idx_quiz_scope;type:varchar(20);not null" json:"quizType"`
	QuestionText  string         `gorm:"type:text;not null" json:"questionText"`
	Options       datatypes.JSON `gorm:"type:json;not null" json:"options"`
	CorrectOption int            `gorm:"not null" json:"correctOption"`
	Explanation   string         `gorm:"type:text" json:"explanation"`
	Points        int            `gorm:"default:1" json:"points"`
	Order         int            `gorm:"column:question_order;default:0" json:"order"`
	AuthorID      uint           `gorm:"index;type:bigint unsigned" json:"authorId"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}
