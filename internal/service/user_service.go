package service

import (
	"skillbridge_backend/internal/model"
	"skillbridge_backend/internal/repository"
	"skillbridge_backend/internal/util"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

// UserService serves the tagged profile for each account. There is one
// profile variant per role; callers dispatch on the tag instead of probing
// a loose record for whichever fields happen to be present.
type UserService struct {
	Repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{Repo: repo}
}

// ProfileView tags the role-specific profile variant.
// swagger:model ProfileView
type ProfileView struct {
	User      *model.User             `json:"user"`
	Role      model.UserRole          `json:"role"`
	Trainee   *model.TraineeProfile   `json:"trainee,omitempty"`
	Trainer   *model.TrainerProfile   `json:"trainer,omitempty"`
	Recruiter *model.RecruiterProfile `json:"recruiter,omitempty"`
}

func (s *UserService) GetProfile(userID uint) (*ProfileView, error) {
	user, err := s.Repo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	view := &ProfileView{User: user, Role: user.Role}

	switch user.Role {
	case model.Trainee:
		if p, err := s.Repo.FindTraineeProfile(userID); err == nil {
			view.Trainee = p
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	case model.Trainer:
		if p, err := s.Repo.FindTrainerProfile(userID); err == nil {
			view.Trainer = p
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	case model.Recruiter:
		if p, err := s.Repo.FindRecruiterProfile(userID); err == nil {
			view.Recruiter = p
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return view, nil
}

type TraineeProfileReq struct {
	Headline   *string   `json:"headline"`
	Skills     *[]string `json:"skills"`
	Education  *string   `json:"education"`
	ResumeURL  *string   `json:"resumeUrl"`
	Relocation *bool     `json:"relocation"`
}

type TrainerProfileReq struct {
	Bio       *string `json:"bio"`
	Expertise *string `json:"expertise"`
	Years     *int    `json:"years"`
}

type RecruiterProfileReq struct {
	Company  *string `json:"company"`
	Position *string `json:"position"`
	Website  *string `json:"website"`
}

func (s *UserService) UpdateTraineeProfile(userID uint, req TraineeProfileReq) (*model.TraineeProfile, error) {
	p, err := s.Repo.FindTraineeProfile(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		p = &model.TraineeProfile{UserID: userID}
	}

	if req.Headline != nil {
		p.Headline = *req.Headline
	}
	if req.Skills != nil {
		skills, err := json.Marshal(*req.Skills)
		if err != nil {
			return nil, err
		}
		p.Skills = skills
	}
	if req.Education != nil {
		p.Education = *req.Education
	}
	if req.ResumeURL != nil {
		p.ResumeURL = *req.ResumeURL
	}
	if req.Relocation != nil {
		p.Relocation = *req.Relocation
	}

	if err := s.Repo.SaveTraineeProfile(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *UserService) UpdateTrainerProfile(userID uint, req TrainerProfileReq) (*model.TrainerProfile, error) {
	p, err := s.Repo.FindTrainerProfile(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		p = &model.TrainerProfile{UserID: userID}
	}

	if req.Bio != nil {
		p.Bio = *req.Bio
	}
	if req.Expertise != nil {
		p.Expertise = *req.Expertise
	}
	if req.Years != nil {
		p.Years = *req.Years
	}

	if err := s.Repo.SaveTrainerProfile(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *UserService) UpdateRecruiterProfile(userID uint, req RecruiterProfileReq) (*model.RecruiterProfile, error) {
	p, err := s.Repo.FindRecruiterProfile(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		p = &model.RecruiterProfile{UserID: userID}
	}

	if req.Company != nil {
		p.Company = *req.Company
	}
	if req.Position != nil {
		p.Position = *req.Position
	}
	if req.Website != nil {
		p.Website = *req.Website
	}

	if err := s.Repo.SaveRecruiterProfile(p); err != nil {
		return nil, err
	}
	return p, nil
}
