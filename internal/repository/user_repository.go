package repository

import (
	"skillbridge_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateLastLogin(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login", gorm.Expr("CURRENT_TIMESTAMP(3)")).
		Error
}

// Profile accessors, one pair per role variant.

func (r *UserRepository) FindTraineeProfile(userID uint) (*model.TraineeProfile, error) {
	var p model.TraineeProfile
	err := r.DB.Where("user_id = ?", userID).First(&p).Error
	return &p, err
}

func (r *UserRepository) SaveTraineeProfile(p *model.TraineeProfile) error {
	return r.DB.Save(p).Error
}

func (r *UserRepository) FindTrainerProfile(userID uint) (*model.TrainerProfile, error) {
	var p model.TrainerProfile
	err := r.DB.Where("user_id = ?", userID).First(&p).Error
	return &p, err
}

func (r *UserRepository) SaveTrainerProfile(p *model.TrainerProfile) error {
	return r.DB.Save(p).Error
}

func (r *UserRepository) FindRecruiterProfile(userID uint) (*model.RecruiterProfile, error) {
	var p model.RecruiterProfile
	err := r.DB.Where("user_id = ?", userID).First(&p).Error
	return &p, err
}

func (r *UserRepository) SaveRecruiterProfile(p *model.RecruiterProfile) error {
	return r.DB.Save(p).Error
}
