package model

// swagger:model TrainingProgram
type TrainingProgram struct {
	BaseModel
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"size:100" json:"category"`
	TrainerID   uint            `gorm:"index;type:bigint unsigned" json:"trainerId"`
	IsPublished bool            `gorm:"default:false" json:"isPublished"`
	Modules     []ProgramModule `gorm:"foreignKey:ProgramID" json:"modules,omitempty"`
}

func (TrainingProgram) TableName() string {
	return "training_programs"
}

// ProgramModule is one ordered unit of a program. Order starts at 1 and is
// the module id learners and quiz scopes refer to.
type ProgramModule struct {
	BaseModel
	ProgramID   uint          `gorm:"index:idx_program_order,unique;type:bigint unsigned" json:"programId"`
	Order       int           `gorm:"index:idx_program_order,unique;column:module_order;not null" json:"order"`
	Title       string        `gorm:"size:255;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Videos      []ModuleVideo `gorm:"foreignKey:ModuleID" json:"videos,omitempty"`
}

func (ProgramModule) TableName() string {
	return "program_modules"
}

// swagger:model ModuleVideo
type ModuleVideo struct {
	BaseModel
	ModuleID uint   `gorm:"index;type:bigint unsigned" json:"moduleId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	URL      string `gorm:"size:512;not null" json:"url"`
	Duration int    `gorm:"default:0" json:"duration"` // Seconds
	Order    int    `gorm:"column:video_order;default:0" json:"order"`
}

func (ModuleVideo) TableName() string {
	return "module_videos"
}
