package repository

import (
	"skillbridge_backend/internal/model"

	"gorm.io/gorm"
)

type ProgramRepository struct {
	DB *gorm.DB
}

func NewProgramRepository(db *gorm.DB) *ProgramRepository {
	return &ProgramRepository{DB: db}
}

func (r *ProgramRepository) Create(program *model.TrainingProgram) error {
	return r.DB.Create(program).Error
}

func (r *ProgramRepository) FindByID(id uint) (*model.TrainingProgram, error) {
	var program model.TrainingProgram
	err := r.DB.Preload("Modules", func(db *gorm.DB) *gorm.DB {
		return db.Order("module_order asc")
	}).Preload("Modules.Videos", func(db *gorm.DB) *gorm.DB {
		return db.Order("video_order asc")
	}).First(&program, id).Error
	return &program, err
}

func (r *ProgramRepository) Update(program *model.TrainingProgram) error {
	return r.DB.Save(program).Error
}

func (r *ProgramRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var moduleIDs []uint
		if err := tx.Model(&model.ProgramModule{}).Where("program_id = ?", id).Pluck("id", &moduleIDs).Error; err != nil {
			return err
		}
		if len(moduleIDs) > 0 {
			if err := tx.Where("module_id IN ?", moduleIDs).Delete(&model.ModuleVideo{}).Error; err != nil {
				return err
			}
			if err := tx.Where("program_id = ?", id).Delete(&model.ProgramModule{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.TrainingProgram{}, id).Error
	})
}

func (r *ProgramRepository) List(page, limit int, category string, publishedOnly bool) ([]model.TrainingProgram, int64, error) {
	query := r.DB.Model(&model.TrainingProgram{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var programs []model.TrainingProgram
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&programs).Error
	return programs, total, err
}

func (r *ProgramRepository) CreateModule(module *model.ProgramModule) error {
	return r.DB.Create(module).Error
}

func (r *ProgramRepository) FindModule(programID, moduleID uint) (*model.ProgramModule, error) {
	var module model.ProgramModule
	err := r.DB.Where("id = ? AND program_id = ?", moduleID, programID).First(&module).Error
	return &module, err
}

func (r *ProgramRepository) DeleteModule(programID, moduleID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("module_id = ?", moduleID).Delete(&model.ModuleVideo{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND program_id = ?", moduleID, programID).Delete(&model.ProgramModule{}).Error
	})
}

// CountModules is the denominator of the progress percentage.
func (r *ProgramRepository) CountModules(programID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ProgramModule{}).Where("program_id = ?", programID).Count(&count).Error
	return count, err
}

func (r *ProgramRepository) CreateVideo(video *model.ModuleVideo) error {
	return r.DB.Create(video).Error
}

func (r *ProgramRepository) FindVideo(moduleID, videoID uint) (*model.ModuleVideo, error) {
	var video model.ModuleVideo
	err := r.DB.Where("id = ? AND module_id = ?", videoID, moduleID).First(&video).Error
	return &video, err
}

func (r *ProgramRepository) DeleteVideo(moduleID, videoID uint) error {
	return r.DB.Where("id = ? AND module_id = ?", videoID, moduleID).Delete(&model.ModuleVideo{}).Error
}
