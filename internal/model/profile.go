package model

import "gorm.io/datatypes"

// One profile table per role. The API returns exactly one of these,
// dispatched on User.Role, so callers never probe optional fields.

// swagger:model TraineeProfile
type TraineeProfile struct {
	BaseModel
	UserID     uint           `gorm:"uniqueIndex;type:bigint unsigned" json:"userId"`
	Headline   string         `gorm:"size:255" json:"headline"`
	Skills     datatypes.JSON `gorm:"type:json" json:"skills"` // []string
	Education  string         `gorm:"size:255" json:"education"`
	ResumeURL  string         `gorm:"size:255" json:"resumeUrl"`
	Relocation bool           `gorm:"default:false" json:"relocation"`
}

func (TraineeProfile) TableName() string {
	return "trainee_profiles"
}

// swagger:model TrainerProfile
type TrainerProfile struct {
	BaseModel
	UserID    uint   `gorm:"uniqueIndex;type:bigint unsigned" json:"userId"`
	Bio       string `gorm:"type:text" json:"bio"`
	Expertise string `gorm:"size:255" json:"expertise"`
	Years     int    `gorm:"default:0" json:"years"`
}

func (TrainerProfile) TableName() string {
	return "trainer_profiles"
}

// swagger:model RecruiterProfile
type RecruiterProfile struct {
	BaseModel
	UserID   uint   `gorm:"uniqueIndex;type:bigint unsigned" json:"userId"`
	Company  string `gorm:"size:255;not null" json:"company"`
	Position string `gorm:"size:255" json:"position"`
	Website  string `gorm:"size:255" json:"website"`
}

func (RecruiterProfile) TableName() string {
	return "recruiter_profiles"
}
