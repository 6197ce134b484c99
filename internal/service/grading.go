package service

import (
	"skillbridge_backend/internal/model"
	"skillbridge_backend/internal/util"
	"math"
)

// DefaultPassPercent applies when no threshold is configured.
const DefaultPassPercent = 70

// ScoreReport is the immutable result of grading one submitted session.
// swagger:model ScoreReport
type ScoreReport struct {
	CorrectCount int  `json:"correctCount"`
	TotalCount   int  `json:"totalCount"`
	Percentage   int  `json:"percentage"`
	Passed       bool `json:"passed"`
}

// Grade scores a completed answer set against the question list. Missing
// answers count as incorrect; the session machine prevents them, but grading
// must stay total over its inputs. A zero-length question list is an error,
// never a division by zero.
func Grade(questions []model.QuizQuestion, answers map[int]int, passPercent int) (*ScoreReport, error) {
	if len(questions) == 0 {
		return nil, util.ErrEmptyQuiz
	}
	if passPercent <= 0 {
		passPercent = DefaultPassPercent
	}

	correct := 0
	for i, q := range questions {
		if selected, ok := answers[i]; ok && selected == q.CorrectOption {
			correct++
		}
	}

	percentage := roundRatio(correct, len(questions))
	return &ScoreReport{
		CorrectCount: correct,
		TotalCount:   len(questions),
		Percentage:   percentage,
		Passed:       percentage >= passPercent,
	}, nil
}

// roundRatio is round-half-up of 100*part/whole.
func roundRatio(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}
