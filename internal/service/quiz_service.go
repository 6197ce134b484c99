package service

import (
	"skillbridge_backend/internal/model"
	"skillbridge_backend/internal/repository"
	"skillbridge_backend/internal/util"
	"encoding/json"
	"strings"
)

// QuizService is the quiz definition store: authored questions keyed by
// (program, module-or-nil, quizType). Module and course quizzes go through
// the same operations, parameterized by quiz type.
type QuizService struct {
	Repo *repository.QuizRepository
}

func NewQuizService(repo *repository.QuizRepository) *QuizService {
	return &QuizService{Repo: repo}
}

type QuestionReq struct {
	QuestionText  string   `json:"questionText" binding:"required"`
	Options       []string `json:"options" binding:"required"`
	CorrectOption int      `json:"correctOption"`
	Explanation   string   `json:"explanation"`
	Points        int      `json:"points"`
}

const (
	minOptions = 2
	maxOptions = 6
)

func validateQuestion(index int, req QuestionReq) *util.QuestionValidationError {
	if strings.TrimSpace(req.QuestionText) == "" {
		return &util.QuestionValidationError{Index: index, Reason: "question text is empty"}
	}
	if len(req.Options) < minOptions || len(req.Options) > maxOptions {
		return &util.QuestionValidationError{Index: index, Reason: "must have between 2 and 6 options"}
	}
	for _, opt := range req.Options {
		if strings.TrimSpace(opt) == "" {
			return &util.QuestionValidationError{Index: index, Reason: "options must not be empty"}
		}
	}
	if req.CorrectOption < 0 || req.CorrectOption >= len(req.Options) {
		return &util.QuestionValidationError{Index: index, Reason: "correct option index out of range"}
	}
	if req.Points < 0 {
		return &util.QuestionValidationError{Index: index, Reason: "points must be at least 1"}
	}
	return nil
}

// AddQuestions validates and appends questions to the scope's definition.
// Validation failures name the question by its 1-based position, the way an
// author counts them. On success the stored IDs come back in input order.
func (s *QuizService) AddQuestions(scope model.QuizScope, reqs []QuestionReq, authorID uint) ([]uint, error) {
	if len(reqs) == 0 {
		return nil, &util.QuestionValidationError{Index: 1, Reason: "no questions provided"}
	}

	questions := make([]model.QuizQuestion, 0, len(reqs))
	for i, req := range reqs {
		if err := validateQuestion(i+1, req); err != nil {
			return nil, err
		}

		options, err := json.Marshal(req.Options)
		if err != nil {
			return nil, err
		}

		points := req.Points
		if points == 0 {
			points = 1
		}

		questions = append(questions, model.QuizQuestion{
			QuestionText:  strings.TrimSpace(req.QuestionText),
			Options:       options,
			CorrectOption: req.CorrectOption,
			Explanation:   req.Explanation,
			Points:        points,
			AuthorID:      authorID,
		})
	}

	if err := s.Repo.AppendQuestions(scope, questions); err != nil {
		return nil, err
	}

	ids := make([]uint, len(questions))
	for i := range questions {
		ids[i] = questions[i].ID
	}
	return ids, nil
}

// GetQuestions returns the ordered definition for the scope. An unknown
// scope is an empty definition, not an error.
func (s *QuizService) GetQuestions(scope model.QuizScope) ([]model.QuizQuestion, error) {
	return s.Repo.ListQuestions(scope)
}

func (s *QuizService) DeleteAll(scope model.QuizScope) error {
	return s.Repo.DeleteAll(scope)
}

// DecodeOptions unpacks a question's stored option array.
func DecodeOptions(q *model.QuizQuestion) ([]string, error) {
	var options []string
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return nil, err
	}
	return options, nil
}
