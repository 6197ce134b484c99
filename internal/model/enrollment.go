package model

import "time"

type EnrollmentStatus string

const (
	StatusEnrolled   EnrollmentStatus = "enrolled"
	StatusInProgress EnrollmentStatus = "in-progress"
	StatusCompleted  EnrollmentStatus = "completed"
	StatusDropped    EnrollmentStatus = "dropped"
)

// Enrollment records one learner's participation in one program. Progress is
// always recomputed from module_completions, never written independently.
// swagger:model Enrollment
type Enrollment struct {
	UUIDBase
	UserEmail      string           `gorm:"size:100;index:idx_user_program,unique;not null" json:"userEmail"`
	ProgramID      uint             `gorm:"index:idx_user_program,unique;type:bigint unsigned" json:"programId"`
	ProgramTitle   string           `gorm:"size:255" json:"programTitle"`
	EnrollmentDate time.Time        `json:"enrollmentDate"`
	Progress       int              `gorm:"default:0" json:"progress"`
	Status         EnrollmentStatus `gorm:"type:varchar(20);default:'enrolled'" json:"status"`

	// Degraded marks a record served from the local fallback store after a
	// primary-store failure. Not persisted; callers use it to reconcile later.
	Degraded bool `gorm:"-" json:"degraded,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// ModuleCompletion is one completed module per enrollment, set semantics via
// the unique composite index.
type ModuleCompletion struct {
	BaseModel
	EnrollmentID string    `gorm:"size:36;index:idx_enrollment_module,unique" json:"enrollmentId"`
	ModuleID     uint      `gorm:"index:idx_enrollment_module,unique;type:bigint unsigned" json:"moduleId"`
	CompletedAt  time.Time `json:"completedAt"`
}

func (ModuleCompletion) TableName() string {
	return "module_completions"
}

type VideoWatch struct {
	BaseModel
	EnrollmentID string    `gorm:"size:36;index:idx_enrollment_video,unique" json:"enrollmentId"`
	ModuleID     uint      `gorm:"index:idx_enrollment_video,unique;type:bigint unsigned" json:"moduleId"`
	VideoID      uint      `gorm:"index:idx_enrollment_video,unique;type:bigint unsigned" json:"videoId"`
	WatchedAt    time.Time `json:"watchedAt"`
}

func (VideoWatch) TableName() string {
	return "video_watches"
}

// QuizScoreRecord is an append-only attempt log. Retakes add rows.
type QuizScoreRecord struct {
	BaseModel
	EnrollmentID string    `gorm:"size:36;index" json:"enrollmentId"`
	ModuleID     *uint     `gorm:"type:bigint unsigned" json:"moduleId,omitempty"`
	Score        int       `gorm:"not null" json:"score"`
	AttemptDate  time.Time `json:"attemptDate"`
}

func (QuizScoreRecord) TableName() string {
	return "quiz_score_records"
}
