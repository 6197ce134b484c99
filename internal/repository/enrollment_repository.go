package repository

import (
	"skillbridge_backend/internal/model"
	"skillbridge_backend/pkg/logger"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnrollmentRepository is the single door to enrollment state. The one
// implementation owns the degraded-mode branch: when the primary store fails
// on enroll, the record lands in a local fallback store and comes back with
// Degraded set, so callers keep their contract and can reconcile later.
type EnrollmentRepository interface {
	Find(userEmail string, programID uint) (*model.Enrollment, error)
	Create(enrollment *model.Enrollment) error
	Save(enrollment *model.Enrollment) error
	ListByUser(userEmail string) ([]model.Enrollment, error)
	ListCompletedByProgram(programID uint) ([]model.Enrollment, error)

	AddModuleCompletion(enrollmentID string, moduleID uint) (bool, error)
	CountModuleCompletions(enrollmentID string) (int64, error)
	AddVideoWatch(enrollmentID string, moduleID, videoID uint) (bool, error)
	AddQuizScore(record *model.QuizScoreRecord) error
	ListQuizScores(enrollmentID string) ([]model.QuizScoreRecord, error)

	Reconcile() (int, error)
}

type enrollmentStore struct {
	db       *gorm.DB
	fallback *gorm.DB
}

func NewEnrollmentRepository(db, fallback *gorm.DB) EnrollmentRepository {
	return &enrollmentStore{db: db, fallback: fallback}
}

func (r *enrollmentStore) Find(userEmail string, programID uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.db.Where("user_email = ? AND program_id = ?", userEmail, programID).First(&e).Error
	if err == nil {
		return &e, nil
	}
	if r.fallback == nil {
		return nil, err
	}

	// A record written during an outage must stay visible before reconciling.
	var fe model.Enrollment
	ferr := r.fallback.Where("user_email = ? AND program_id = ?", userEmail, programID).First(&fe).Error
	if ferr != nil {
		return nil, err
	}
	fe.Degraded = true
	return &fe, nil
}

func (r *enrollmentStore) Create(enrollment *model.Enrollment) error {
	err := r.db.Create(enrollment).Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || r.fallback == nil {
		return err
	}

	logger.Log.Warn("primary store unavailable, enrolling into fallback store",
		zap.String("userEmail", enrollment.UserEmail),
		zap.Uint("programId", enrollment.ProgramID),
		zap.Error(err))

	enrollment.ID = model.GenerateUUID()
	if ferr := r.fallback.Create(enrollment).Error; ferr != nil {
		return err
	}
	enrollment.Degraded = true
	return nil
}

func (r *enrollmentStore) Save(enrollment *model.Enrollment) error {
	return r.db.Save(enrollment).Error
}

func (r *enrollmentStore) ListByUser(userEmail string) ([]model.Enrollment, error) {
	var es []model.Enrollment
	err := r.db.Where("user_email = ?", userEmail).Order("enrollment_date desc").Find(&es).Error
	return es, err
}

func (r *enrollmentStore) ListCompletedByProgram(programID uint) ([]model.Enrollment, error) {
	var es []model.Enrollment
	err := r.db.Where("program_id = ? AND status = ?", programID, model.StatusCompleted).
		Order("updated_at desc").Find(&es).Error
	return es, err
}

func (r *enrollmentStore) AddModuleCompletion(enrollmentID string, moduleID uint) (bool, error) {
	mc := model.ModuleCompletion{
		EnrollmentID: enrollmentID,
		ModuleID:     moduleID,
		CompletedAt:  time.Now(),
	}
	result := r.db.Where("enrollment_id = ? AND module_id = ?", enrollmentID, moduleID).
		FirstOrCreate(&mc)
	return result.RowsAffected > 0, result.Error
}

func (r *enrollmentStore) CountModuleCompletions(enrollmentID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.ModuleCompletion{}).
		Where("enrollment_id = ?", enrollmentID).Count(&count).Error
	return count, err
}

func (r *enrollmentStore) AddVideoWatch(enrollmentID string, moduleID, videoID uint) (bool, error) {
	vw := model.VideoWatch{
		EnrollmentID: enrollmentID,
		ModuleID:     moduleID,
		VideoID:      videoID,
		WatchedAt:    time.Now(),
	}
	result := r.db.Where("enrollment_id = ? AND module_id = ? AND video_id = ?", enrollmentID, moduleID, videoID).
		FirstOrCreate(&vw)
	return result.RowsAffected > 0, result.Error
}

func (r *enrollmentStore) AddQuizScore(record *model.QuizScoreRecord) error {
	return r.db.Create(record).Error
}

func (r *enrollmentStore) ListQuizScores(enrollmentID string) ([]model.QuizScoreRecord, error) {
	var records []model.QuizScoreRecord
	err := r.db.Where("enrollment_id = ?", enrollmentID).Order("attempt_date asc").Find(&records).Error
	return records, err
}

// Reconcile flushes fallback enrollments into the primary store, dropping
// rows the primary already holds for the same (userEmail, programID).
func (r *enrollmentStore) Reconcile() (int, error) {
	if r.fallback == nil {
		return 0, nil
	}

	var pending []model.Enrollment
	if err := r.fallback.Find(&pending).Error; err != nil {
		return 0, err
	}

	moved := 0
	for i := range pending {
		e := pending[i]

		var existing model.Enrollment
		err := r.db.Where("user_email = ? AND program_id = ?", e.UserEmail, e.ProgramID).First(&existing).Error
		if err == nil {
			// Already enrolled in the primary; the fallback row is redundant.
			if derr := r.fallback.Unscoped().Delete(&model.Enrollment{}, "id = ?", e.ID).Error; derr != nil {
				return moved, derr
			}
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return moved, err
		}

		if err := r.db.Create(&e).Error; err != nil {
			return moved, err
		}
		if err := r.fallback.Unscoped().Delete(&model.Enrollment{}, "id = ?", e.ID).Error; err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}
