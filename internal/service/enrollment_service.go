package service

import (
	"skillbridge_backend/internal/model"
	"skillbridge_backend/internal/repository"
	"skillbridge_backend/internal/util"
	"skillbridge_backend/pkg/logger"
	"skillbridge_backend/pkg/monitoring"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnrollmentService keeps one enrollment per (userEmail, programID) and
// derives progress from the recorded module completions. Progress is never
// written directly; every record* operation recomputes it.
type EnrollmentService struct {
	Repo        repository.EnrollmentRepository
	ProgramRepo *repository.ProgramRepository
}

func NewEnrollmentService(repo repository.EnrollmentRepository, programRepo *repository.ProgramRepository) *EnrollmentService {
	return &EnrollmentService{Repo: repo, ProgramRepo: programRepo}
}

// Enroll is idempotent: enrolling twice for the same program returns the
// existing record untouched. When the primary store is down the repository
// serves a fallback record flagged Degraded.
func (s *EnrollmentService) Enroll(userEmail string, programID uint, programTitle string) (*model.Enrollment, error) {
	existing, err := s.Repo.Find(userEmail, programID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Log.Warn("enrollment lookup failed, attempting create",
			zap.String("userEmail", userEmail), zap.Error(err))
	}

	enrollment := &model.Enrollment{
		UserEmail:      userEmail,
		ProgramID:      programID,
		ProgramTitle:   programTitle,
		EnrollmentDate: time.Now(),
		Progress:       0,
		Status:         model.StatusEnrolled,
	}

	if err := s.Repo.Create(enrollment); err != nil {
		return nil, err
	}

	monitoring.EnrollmentsCreated.Inc()
	if enrollment.Degraded {
		monitoring.DegradedEnrollments.Inc()
	}
	return enrollment, nil
}

func (s *EnrollmentService) find(userEmail string, programID uint) (*model.Enrollment, error) {
	enrollment, err := s.Repo.Find(userEmail, programID)
	if err != nil {
		return nil, util.ErrEnrollmentNotFound
	}
	if enrollment.Status == model.StatusDropped {
		return nil, util.ErrEnrollmentDropped
	}
	return enrollment, nil
}

func (s *EnrollmentService) RecordVideoWatched(userEmail string, programID, moduleID, videoID uint) (*model.Enrollment, error) {
	enrollment, err := s.find(userEmail, programID)
	if err != nil {
		return nil, err
	}

	if _, err := s.ProgramRepo.FindModule(programID, moduleID); err != nil {
		return nil, util.ErrUnknownModule
	}
	if _, err := s.ProgramRepo.FindVideo(moduleID, videoID); err != nil {
		return nil, util.ErrUnknownVideo
	}

	// Set semantics: re-watching is a no-op, not a duplicate.
	if _, err := s.Repo.AddVideoWatch(enrollment.ID, moduleID, videoID); err != nil {
		return nil, err
	}

	return s.refresh(enrollment)
}

func (s *EnrollmentService) RecordModuleCompleted(userEmail string, programID, moduleID uint) (*model.Enrollment, error) {
	enrollment, err := s.find(userEmail, programID)
	if err != nil {
		return nil, err
	}

	if _, err := s.ProgramRepo.FindModule(programID, moduleID); err != nil {
		return nil, util.ErrUnknownModule
	}

	if _, err := s.Repo.AddModuleCompletion(enrollment.ID, moduleID); err != nil {
		return nil, err
	}

	return s.refresh(enrollment)
}

// RecordQuizScore appends one attempt to the score log. Retakes append new
// entries; nothing is overwritten.
func (s *EnrollmentService) RecordQuizScore(userEmail string, programID uint, moduleID *uint, score int) (*model.Enrollment, error) {
	enrollment, err := s.find(userEmail, programID)
	if err != nil {
		return nil, err
	}

	if moduleID != nil {
		if _, err := s.ProgramRepo.FindModule(programID, *moduleID); err != nil {
			return nil, util.ErrUnknownModule
		}
	}

	record := &model.QuizScoreRecord{
		EnrollmentID: enrollment.ID,
		ModuleID:     moduleID,
		Score:        score,
		AttemptDate:  time.Now(),
	}
	if err := s.Repo.AddQuizScore(record); err != nil {
		return nil, err
	}

	return s.refresh(enrollment)
}

// refresh recomputes progress from the completion set and derives status.
// Completed modules over total modules is the one canonical formula; every
// reader derives from it.
func (s *EnrollmentService) refresh(enrollment *model.Enrollment) (*model.Enrollment, error) {
	total, err := s.ProgramRepo.CountModules(enrollment.ProgramID)
	if err != nil {
		return nil, err
	}

	completed, err := s.Repo.CountModuleCompletions(enrollment.ID)
	if err != nil {
		return nil, err
	}

	progress := 0
	if total > 0 {
		progress = roundRatio(int(completed), int(total))
	}

	enrollment.Progress = progress
	switch {
	case progress >= 100:
		enrollment.Status = model.StatusCompleted
	case enrollment.Status == model.StatusEnrolled:
		// First recorded event moves the enrollment into in-progress.
		enrollment.Status = model.StatusInProgress
	}

	if err := s.Repo.Save(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Drop is the only way an enrollment reaches dropped; it is never inferred.
func (s *EnrollmentService) Drop(userEmail string, programID uint) (*model.Enrollment, error) {
	enrollment, err := s.Repo.Find(userEmail, programID)
	if err != nil {
		return nil, util.ErrEnrollmentNotFound
	}

	enrollment.Status = model.StatusDropped
	if err := s.Repo.Save(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) ListByUser(userEmail string) ([]model.Enrollment, error) {
	return s.Repo.ListByUser(userEmail)
}

func (s *EnrollmentService) QuizScores(userEmail string, programID uint) ([]model.QuizScoreRecord, error) {
	enrollment, err := s.Repo.Find(userEmail, programID)
	if err != nil {
		return nil, util.ErrEnrollmentNotFound
	}
	return s.Repo.ListQuizScores(enrollment.ID)
}

// CompletedCandidates lists learners who finished a program, for the
// recruiter surface.
func (s *EnrollmentService) CompletedCandidates(programID uint) ([]model.Enrollment, error) {
	return s.Repo.ListCompletedByProgram(programID)
}

// ReconcileFallback flushes degraded enrollments into the primary store.
// Run periodically from the app's background tasks.
func (s *EnrollmentService) ReconcileFallback() error {
	moved, err := s.Repo.Reconcile()
	if err != nil {
		return err
	}
	if moved > 0 {
		logger.Log.Info("reconciled fallback enrollments", zap.Int("moved", moved))
	}
	return nil
}
